package rstfmt

// Kind identifies a node variant in the document tree.
type Kind string

const (
	Document           Kind = "document"
	Section            Kind = "section"
	Title              Kind = "title"
	Paragraph          Kind = "paragraph"
	BulletList         Kind = "bullet_list"
	EnumeratedList     Kind = "enumerated_list"
	ListItem           Kind = "list_item"
	Term               Kind = "term"
	Definition         Kind = "definition"
	DefinitionListItem Kind = "definition_list_item"
	DefinitionList     Kind = "definition_list"
	BlockQuote         Kind = "block_quote"
	Directive          Kind = "directive"
	Table              Kind = "table"
	TGroup             Kind = "tgroup"
	Colspec            Kind = "colspec"
	THead              Kind = "thead"
	TBody              Kind = "tbody"
	Row                Kind = "row"
	Entry              Kind = "entry"
	Text               Kind = "text"
	Reference          Kind = "reference"
	Target             Kind = "target"
	Emphasis           Kind = "emphasis"
	Strong             Kind = "strong"
	Literal            Kind = "literal"
	TitleReference     Kind = "title_reference"
	SubstitutionRef    Kind = "substitution_reference"
	Role               Kind = "role"
	Inline             Kind = "inline"
	Comment            Kind = "comment"
	Note               Kind = "note"
	Warning            Kind = "warning"
	Hint               Kind = "hint"
	Image              Kind = "image"
	LiteralBlock       Kind = "literal_block"
	SystemMessage      Kind = "system_message"
)

// String returns the kind name.
func (k Kind) String() string { return string(k) }

// Node is one element of a parsed document tree. Children are owned by
// their parent; the only cross-link is Attrs.Target, which is a lookup
// relation set by [Preprocess], never ownership.
type Node struct {
	Kind Kind

	// Text holds the content of text nodes and the raw source of role
	// nodes. It is empty for every other kind.
	Text string

	Attrs    Attrs
	Children []*Node
}

// Attrs holds the per-node attributes the formatter consumes. The zero
// value means "attribute absent" throughout.
type Attrs struct {
	// RefURI is the link target of reference nodes and the URI of
	// explicit hyperlink targets.
	RefURI string

	// Anonymous marks anonymous references and targets (double
	// underscore forms).
	Anonymous bool

	// Names holds the reference names a target is known under.
	Names []string

	// Classes holds class annotations; literal blocks carry the "code"
	// marker plus an optional language here.
	Classes []string

	// Colwidth is the declared total column width of a colspec,
	// including the one-space border padding on each side.
	Colwidth int

	// URI is the image source.
	URI string

	// Directive carries the opaque payload of a directive node.
	Directive *DirectiveInfo

	// Target is a non-owning back-reference to the adjacent target node
	// of a reference, set by [Preprocess].
	Target *Node
}

// DirectiveInfo is the unparsed payload of a directive. Bodies are
// passed through verbatim; the formatter never interprets them.
type DirectiveInfo struct {
	Name    string
	Args    []string
	Options []DirectiveOption
	Body    []string
}

// DirectiveOption is a single :key: value pair. An empty Value renders
// as a bare :key: line. Order is preserved from the source.
type DirectiveOption struct {
	Key   string
	Value string
}

// NewNode constructs a node of the given kind with the given children.
func NewNode(kind Kind, children ...*Node) *Node {
	return &Node{Kind: kind, Children: children}
}

// NewText constructs a text node.
func NewText(text string) *Node {
	return &Node{Kind: Text, Text: text}
}

// Preprocess returns a copy of the tree with diagnostic nodes removed
// and reference nodes annotated with a back-reference to their adjacent
// target sibling. The input tree is not modified; rendering expects a
// preprocessed tree.
func Preprocess(n *Node) *Node {
	out := &Node{Kind: n.Kind, Text: n.Text, Attrs: n.Attrs}
	out.Attrs.Target = nil
	for _, c := range n.Children {
		if c.Kind == SystemMessage {
			continue
		}
		out.Children = append(out.Children, Preprocess(c))
	}
	for i := 0; i+1 < len(out.Children); i++ {
		a, b := out.Children[i], out.Children[i+1]
		if a.Kind == Reference && b.Kind == Target {
			a.Attrs.Target = b
		}
	}
	return out
}

// StructurallyEqual reports whether two trees have the same shape: the
// same kind and the same number of children at every node. Text and
// attributes are not compared.
func StructurallyEqual(a, b *Node) bool {
	if a.Kind != b.Kind || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !StructurallyEqual(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
