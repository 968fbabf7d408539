package rstfmt

import (
	"io"
	"iter"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// sectionChars is the title underline cycle, indexed by section depth.
const sectionChars = `=-^"~+`

// Lines renders the tree rooted at n as a lazy sequence of output
// lines. The sequence is finite and may be consumed once per call;
// calling Lines again produces a fresh sequence.
func Lines(n *Node, ctx Context) iter.Seq[string] {
	return blockLines(n, nil, ctx)
}

// FormatNode renders n at the given width and returns the joined text
// without a trailing newline. Zero or negative width disables
// wrapping.
func FormatNode(n *Node, width int) string {
	var sb strings.Builder
	first := true
	for line := range Lines(n, Context{Width: width}) {
		if !first {
			sb.WriteByte('\n')
		}
		first = false
		sb.WriteString(line)
	}
	return sb.String()
}

// Render writes the rendered form of n to w, one line at a time, with
// a trailing newline.
func Render(w io.Writer, n *Node, ctx Context) error {
	for line := range Lines(n, ctx) {
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// placeholder marks a node kind that has no rendering rule. It is
// deliberately loud so that dumping an unexpected tree stays usable
// instead of aborting.
func placeholder(k Kind) string {
	return "\x1b[35m" + strings.ToUpper(string(k)) + "\x1b[m"
}

func blockLines(n, parent *Node, ctx Context) iter.Seq[string] {
	switch n.Kind {
	case Document, Definition, DefinitionList, Table:
		return childrenBlank(n, ctx)
	case Section:
		return childrenBlank(n, ctx.InSection())
	case Title:
		return titleLines(n, ctx)
	case Paragraph:
		return wrapText(ctx.Width, inlineChildren(n, ctx))
	case BulletList:
		return childrenBlank(n, ctx.WithBullet("-"))
	case EnumeratedList:
		return childrenBlank(n, ctx.WithBullet("#."))
	case ListItem:
		return listItemLines(n, ctx)
	case Term:
		return oneLine(mergedText(inlineChildren(n, ctx)))
	case DefinitionListItem:
		return definitionItemLines(n, ctx)
	case BlockQuote:
		return withSpaces(3, childrenBlank(n, ctx.Indent(3)))
	case Directive:
		return directiveLines(n)
	case Comment:
		return commentLines(n, ctx)
	case Note, Warning, Hint:
		return admonitionLines(n, ctx)
	case Image:
		return oneLine(".. image:: " + n.Attrs.URI)
	case LiteralBlock:
		return literalBlockLines(n, ctx)
	case Target:
		return targetLines(n, parent)
	case TGroup:
		return tgroupLines(n, ctx)
	case THead, TBody:
		return tableBodyLines(n, ctx)
	case Row:
		return rowLines(n, ctx)
	case Colspec:
		return empty
	default:
		return oneLine(placeholder(n.Kind))
	}
}

func empty(func(string) bool) {}

func oneLine(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		yield(s)
	}
}

// childrenBlank renders every child in order, separated by one blank
// line.
func childrenBlank(n *Node, ctx Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		for i, c := range n.Children {
			if i > 0 && !yield("") {
				return
			}
			for line := range blockLines(c, n, ctx) {
				if !yield(line) {
					return
				}
			}
		}
	}
}

// withSpaces indents every non-empty line of seq by n spaces.
func withSpaces(n int, seq iter.Seq[string]) iter.Seq[string] {
	pad := strings.Repeat(" ", n)
	return func(yield func(string) bool) {
		for line := range seq {
			if line != "" {
				line = pad + line
			}
			if !yield(line) {
				return
			}
		}
	}
}

func titleLines(n *Node, ctx Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		text := mergedText(inlineChildren(n, ctx))
		if !yield(text) {
			return
		}
		idx := (ctx.SectionDepth - 1) % len(sectionChars)
		if idx < 0 {
			idx += len(sectionChars)
		}
		yield(strings.Repeat(string(sectionChars[idx]), runewidth.StringWidth(text)))
	}
}

func listItemLines(n *Node, ctx Context) iter.Seq[string] {
	width := len(ctx.Bullet) + 1
	marker := ctx.Bullet + " "
	pad := strings.Repeat(" ", width)
	inner := childrenBlank(n, ctx.Indent(width))
	return func(yield func(string) bool) {
		needMarker := true
		for line := range inner {
			switch {
			case line == "":
			case needMarker:
				line = marker + line
				needMarker = false
			default:
				line = pad + line
			}
			if !yield(line) {
				return
			}
		}
	}
}

func definitionItemLines(n *Node, ctx Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, c := range n.Children {
			var seq iter.Seq[string]
			switch c.Kind {
			case Term:
				seq = blockLines(c, n, ctx)
			case Definition:
				seq = withSpaces(3, blockLines(c, n, ctx.Indent(3)))
			default:
				continue
			}
			for line := range seq {
				if !yield(line) {
					return
				}
			}
		}
	}
}

func directiveLines(n *Node) iter.Seq[string] {
	return func(yield func(string) bool) {
		d := n.Attrs.Directive
		if d == nil {
			yield(placeholder(n.Kind))
			return
		}
		head := ".. " + d.Name + "::"
		if len(d.Args) > 0 {
			head += " " + strings.Join(d.Args, " ")
		}
		if !yield(head) {
			return
		}
		for _, opt := range d.Options {
			line := "   :" + opt.Key + ":"
			if opt.Value != "" {
				line += " " + opt.Value
			}
			if !yield(line) {
				return
			}
		}
		if len(d.Body) == 0 {
			return
		}
		if !yield("") {
			return
		}
		for line := range withSpaces(3, sliceSeq(d.Body)) {
			if !yield(line) {
				return
			}
		}
	}
}

func sliceSeq(lines []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	}
}

func commentLines(n *Node, ctx Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		if !yield("..") {
			return
		}
		parts := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			parts = append(parts, chunkConcat(inlineChunks(c, ctx)))
		}
		text := strings.Join(parts, "\n")
		for line := range withSpaces(3, sliceSeq(strings.Split(text, "\n"))) {
			if !yield(line) {
				return
			}
		}
	}
}

func admonitionLines(n *Node, ctx Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		if !yield(".. " + string(n.Kind) + "::") {
			return
		}
		if !yield("") {
			return
		}
		for line := range withSpaces(3, childrenBlank(n, ctx.Indent(3))) {
			if !yield(line) {
				return
			}
		}
	}
}

func literalBlockLines(n *Node, ctx Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		head := ".. code::"
		for _, class := range n.Attrs.Classes {
			if class != "code" {
				head += " " + class
				break
			}
		}
		if !yield(head) {
			return
		}
		if !yield("") {
			return
		}
		var sb strings.Builder
		for _, c := range n.Children {
			sb.WriteString(chunkConcat(inlineChunks(c, ctx)))
		}
		for line := range withSpaces(3, sliceSeq(strings.Split(sb.String(), "\n"))) {
			if !yield(line) {
				return
			}
		}
	}
}

// targetLines renders explicit hyperlink targets. Targets anywhere but
// directly under a document or section exist only to be referenced and
// render nothing.
func targetLines(n, parent *Node) iter.Seq[string] {
	if parent == nil || (parent.Kind != Document && parent.Kind != Section) {
		return empty
	}
	return func(yield func(string) bool) {
		head := ".. __:"
		if !n.Attrs.Anonymous && len(n.Attrs.Names) > 0 {
			head = ".. _" + n.Attrs.Names[0] + ":"
		}
		if n.Attrs.RefURI != "" {
			head += " " + n.Attrs.RefURI
		}
		yield(head)
	}
}

// --- Inline rendering ---

// inlineChildren gathers the chunks of every child in order.
func inlineChildren(n *Node, ctx Context) []chunk {
	var out []chunk
	for _, c := range n.Children {
		out = append(out, inlineChunks(c, ctx)...)
	}
	return out
}

// chunkConcat joins chunk texts directly, with no merging or escaping.
func chunkConcat(chunks []chunk) string {
	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(c.text)
	}
	return sb.String()
}

func spanChunk(n *Node, ctx Context, open, close string) []chunk {
	return []chunk{{text: open + chunkConcat(inlineChildren(n, ctx)) + close, markup: true}}
}

func inlineChunks(n *Node, ctx Context) []chunk {
	switch n.Kind {
	case Text:
		return []chunk{{text: n.Text}}
	case Emphasis:
		return spanChunk(n, ctx, "*", "*")
	case Strong:
		return spanChunk(n, ctx, "**", "**")
	case Literal:
		return spanChunk(n, ctx, "``", "``")
	case TitleReference:
		return spanChunk(n, ctx, "`", "`")
	case SubstitutionRef:
		return spanChunk(n, ctx, "|", "|")
	case Role:
		return []chunk{{text: n.Text, markup: true}}
	case Inline:
		return inlineChildren(n, ctx)
	case Reference:
		return referenceChunks(n, ctx)
	case Target:
		// Inline targets render nothing.
		return nil
	default:
		return []chunk{{text: placeholder(n.Kind)}}
	}
}

// Reference names are alphanumerics plus isolated internal hyphens,
// underscores, periods, colons and plus signs.
var (
	refNameRe     = regexp.MustCompile(`^[-_.:+a-zA-Z0-9]+$`)
	refNamePairRe = regexp.MustCompile(`[-_.:+][-_.:+]`)
	uriSchemeRe   = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
)

func singleWordName(title string) bool {
	return refNameRe.MatchString(title) && !refNamePairRe.MatchString(title)
}

func referenceChunks(n *Node, ctx Context) []chunk {
	title := mergedText(inlineChildren(n, ctx))

	var anonymous bool
	if n.Attrs.RefURI != "" {
		anonymous = n.Attrs.Target == nil
	} else {
		anonymous = n.Attrs.Anonymous
	}
	suffix := "_"
	if anonymous {
		suffix = "__"
	}

	if uri := n.Attrs.RefURI; uri != "" {
		// Standalone hyperlinks keep their shorthand form.
		if uri == title || uri == "mailto:"+title {
			return []chunk{{text: title, markup: true}}
		}
		// A URI that is just a scheme on the reference's own name adds
		// nothing; the bare named shorthand is canonical.
		if n.Attrs.Target == nil && !n.Attrs.Anonymous &&
			uriSchemeRe.ReplaceAllString(uri, "") == title && singleWordName(title) {
			return []chunk{{text: title + "_", markup: true}}
		}
		return []chunk{{text: "`" + title + " <" + uri + ">`" + suffix, markup: true}}
	}

	singleWord := singleWordName(title) ||
		len(n.Children) == 1 && n.Children[0].Kind == SubstitutionRef
	if !singleWord {
		title = "`" + title + "`"
	}
	return []chunk{{text: title + suffix, markup: true}}
}
