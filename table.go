package rstfmt

import (
	"iter"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Tables are rendered from the declared colspec widths, never from the
// cell content. Content wider than a declared column produces a
// malformed table; that is an accepted limitation, not something the
// renderer fixes up.

// borderLine draws one horizontal border: a + at every column boundary
// and the fill character repeated to each declared width.
func borderLine(widths []int, fill byte) string {
	var sb strings.Builder
	sb.WriteByte('+')
	for _, w := range widths {
		for range w {
			sb.WriteByte(fill)
		}
		sb.WriteByte('+')
	}
	return sb.String()
}

// padCell left-justifies s within width columns.
func padCell(s string, width int) string {
	n := width - runewidth.StringWidth(s)
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(" ", n)
}

// rowLines renders each entry independently at its column width minus
// the border padding, then combines the cells line by line so that
// multi-line cells stay aligned.
func rowLines(n *Node, ctx Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		ncols := min(len(n.Children), len(ctx.Colwidths))
		cells := make([][]string, ncols)
		depth := 0
		for i := range ncols {
			w := max(1, ctx.Colwidths[i]-2)
			cells[i] = slices.Collect(childrenBlank(n.Children[i], ctx.WithWidth(w)))
			depth = max(depth, len(cells[i]))
		}
		for line := range depth {
			var sb strings.Builder
			sb.WriteByte('|')
			for i := range ncols {
				content := ""
				if line < len(cells[i]) {
					content = cells[i][line]
				}
				sb.WriteByte(' ')
				sb.WriteString(padCell(content, ctx.Colwidths[i]-2))
				sb.WriteString(" |")
			}
			if !yield(sb.String()) {
				return
			}
		}
	}
}

// tableBodyLines renders the rows of a thead or tbody separated by
// plain borders. The surrounding borders belong to the table group.
func tableBodyLines(n *Node, ctx Context) iter.Seq[string] {
	sep := borderLine(ctx.Colwidths, '-')
	return func(yield func(string) bool) {
		for i, row := range n.Children {
			if i > 0 && !yield(sep) {
				return
			}
			for line := range blockLines(row, n, ctx) {
				if !yield(line) {
					return
				}
			}
		}
	}
}

func tgroupLines(n *Node, ctx Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		var widths []int
		for _, c := range n.Children {
			if c.Kind == Colspec {
				widths = append(widths, c.Attrs.Colwidth)
			}
		}
		ctx = ctx.WithColwidths(widths)
		sep := borderLine(widths, '-')

		if !yield(sep) {
			return
		}
		for _, c := range n.Children {
			switch c.Kind {
			case Colspec:
			case THead:
				for line := range blockLines(c, n, ctx) {
					if !yield(line) {
						return
					}
				}
				if !yield(borderLine(widths, '=')) {
					return
				}
			case TBody:
				for line := range blockLines(c, n, ctx) {
					if !yield(line) {
						return
					}
				}
				if !yield(sep) {
					return
				}
			}
		}
	}
}
