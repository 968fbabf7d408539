package parser

// DirectiveBehavior selects how the body of a directive is handled.
// Most directives are opaque: their content is kept verbatim and never
// reformatted. A few well-known names get structured nodes instead.
type DirectiveBehavior int

const (
	// DirectiveGeneric keeps name, arguments, options, and body as an
	// unparsed payload.
	DirectiveGeneric DirectiveBehavior = iota

	// DirectiveAdmonition parses the body as regular body content and
	// produces an admonition node named after the directive.
	DirectiveAdmonition

	// DirectiveImage produces an image node from the argument URI.
	DirectiveImage

	// DirectiveCode produces a literal block, keeping the body
	// verbatim and recording the language argument as a class.
	DirectiveCode
)

// Registry holds the directive and role names a parser recognizes. It
// is an explicit value passed to [New]; parsers never consult shared
// mutable state.
type Registry struct {
	directives map[string]DirectiveBehavior
	roles      map[string]struct{}
}

// NewRegistry returns an empty registry. Unregistered directives parse
// generically; unregistered roles parse with an attached diagnostic.
func NewRegistry() *Registry {
	return &Registry{
		directives: make(map[string]DirectiveBehavior),
		roles:      make(map[string]struct{}),
	}
}

// Default returns a registry with the standard admonitions, image and
// code directives, and the common Sphinx roles registered.
func Default() *Registry {
	r := NewRegistry()
	for _, name := range []string{"note", "warning", "hint"} {
		r.RegisterDirective(name, DirectiveAdmonition)
	}
	r.RegisterDirective("image", DirectiveImage)
	r.RegisterDirective("code", DirectiveCode)
	for _, name := range []string{"class", "download", "func", "ref", "superscript"} {
		r.RegisterRole(name)
	}
	return r
}

// RegisterDirective sets the behavior for a directive name.
func (r *Registry) RegisterDirective(name string, b DirectiveBehavior) {
	r.directives[name] = b
}

// RegisterRole marks a role name as known.
func (r *Registry) RegisterRole(name string) {
	r.roles[name] = struct{}{}
}

func (r *Registry) behavior(name string) DirectiveBehavior {
	return r.directives[name]
}

func (r *Registry) hasRole(name string) bool {
	_, ok := r.roles[name]
	return ok
}
