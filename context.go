package rstfmt

// Context is the rendering state threaded through the tree walk. It is
// an immutable value: every accessor returns a modified copy, so a
// child never observes changes made after its parent returned.
type Context struct {
	// SectionDepth selects the title underline character. It is
	// incremented on entering a section.
	SectionDepth int

	// Width is the target line width. Zero or negative means
	// unbounded: no wrapping is performed.
	Width int

	// Bullet is the active list marker, set only for direct list-item
	// rendering.
	Bullet string

	// Colwidths holds the declared column widths while rendering
	// inside a table group.
	Colwidths []int
}

// Indent reduces the available width by n, clamped to a minimum of 1.
// An unbounded width stays unbounded.
func (c Context) Indent(n int) Context {
	if c.Width <= 0 {
		return c
	}
	c.Width -= n
	if c.Width < 1 {
		c.Width = 1
	}
	return c
}

// InSection returns the context one section level deeper.
func (c Context) InSection() Context {
	c.SectionDepth++
	return c
}

// WithWidth returns the context with the given width.
func (c Context) WithWidth(w int) Context {
	c.Width = w
	return c
}

// WithBullet returns the context with the given list marker.
func (c Context) WithBullet(bullet string) Context {
	c.Bullet = bullet
	return c
}

// WithColwidths returns the context with the given declared column
// widths.
func (c Context) WithColwidths(widths []int) Context {
	c.Colwidths = widths
	return c
}
