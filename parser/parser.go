// Package parser turns reStructuredText source into a document tree
// for the rstfmt renderer.
//
// The parser is line oriented and deliberately permissive: text it
// cannot interpret becomes plain paragraphs, and diagnostics become
// system_message nodes that preprocessing prunes. It covers the
// constructs the renderer emits, so rendered output always re-parses.
package parser

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/gentlegiantJGC/rstfmt"
)

// Parser parses reStructuredText using a fixed registry of directive
// and role names. A Parser is immutable and safe for concurrent use.
type Parser struct {
	reg *Registry
}

// New returns a parser using the given registry; a nil registry means
// [Default].
func New(reg *Registry) *Parser {
	if reg == nil {
		reg = Default()
	}
	return &Parser{reg: reg}
}

// Parse is a convenience wrapper around [New] with the default
// registry.
func Parse(src string) *rstfmt.Node {
	return New(nil).Parse(src)
}

// Parse parses src into a preprocessed document tree, ready for
// rendering.
func (p *Parser) Parse(src string) *rstfmt.Node {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	lines := strings.Split(src, "\n")
	doc := rstfmt.NewNode(rstfmt.Document)
	p.parseSections(doc, lines)
	return rstfmt.Preprocess(doc)
}

const sectionAdornments = `=-^"~+`

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func indentOf(s string) int {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}
	return n
}

func isUnderlineFor(underline, title string) bool {
	underline = strings.TrimRight(underline, " ")
	if underline == "" {
		return false
	}
	ch := underline[0]
	if !strings.ContainsRune(sectionAdornments, rune(ch)) {
		return false
	}
	for i := 0; i < len(underline); i++ {
		if underline[i] != ch {
			return false
		}
	}
	return len(underline) >= runewidth.StringWidth(strings.TrimRight(title, " "))
}

func isTitleAt(lines []string, i int) bool {
	if i+1 >= len(lines) {
		return false
	}
	title := lines[i]
	if blank(title) || indentOf(title) > 0 || isExplicit(title) {
		return false
	}
	if i > 0 && !blank(lines[i-1]) {
		return false
	}
	return isUnderlineFor(lines[i+1], title)
}

// parseSections walks the document top level, splitting it into
// sections by title adornment. Adornment characters map to nesting
// levels in order of first use.
func (p *Parser) parseSections(doc *rstfmt.Node, lines []string) {
	stack := []*rstfmt.Node{doc}
	levels := map[byte]int{}
	var buf []string
	flush := func() {
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, p.parseBody(buf)...)
		buf = buf[:0]
	}
	i := 0
	for i < len(lines) {
		if isTitleAt(lines, i) {
			flush()
			ch := strings.TrimRight(lines[i+1], " ")[0]
			lvl, ok := levels[ch]
			if !ok {
				lvl = len(levels) + 1
				levels[ch] = lvl
			}
			if lvl > len(stack) {
				lvl = len(stack)
			}
			stack = stack[:lvl]
			title := rstfmt.NewNode(rstfmt.Title, p.parseInline(strings.TrimRight(lines[i], " "))...)
			sec := rstfmt.NewNode(rstfmt.Section, title)
			top := stack[len(stack)-1]
			top.Children = append(top.Children, sec)
			stack = append(stack, sec)
			i += 2
			continue
		}
		buf = append(buf, lines[i])
		i++
	}
	flush()
}

func isExplicit(line string) bool {
	return line == ".." || strings.HasPrefix(line, ".. ")
}

func isBulletItem(line string) bool {
	return line == "-" || strings.HasPrefix(line, "- ")
}

func isEnumItem(line string) bool {
	return line == "#." || strings.HasPrefix(line, "#. ")
}

// parseBody parses a run of lines that cannot contain section titles.
func (p *Parser) parseBody(lines []string) []*rstfmt.Node {
	var nodes []*rstfmt.Node
	i := 0
	for i < len(lines) {
		line := lines[i]
		if blank(line) {
			i++
			continue
		}
		var (
			parsed []*rstfmt.Node
			next   int
		)
		switch {
		case isExplicit(line):
			parsed, next = p.parseExplicit(lines, i)
		case isGridBorder(line):
			var table *rstfmt.Node
			table, next = p.parseGridTable(lines, i)
			parsed = []*rstfmt.Node{table}
		case isBulletItem(line):
			var list *rstfmt.Node
			list, next = p.parseList(lines, i, rstfmt.BulletList, "- ")
			parsed = []*rstfmt.Node{list}
		case isEnumItem(line):
			var list *rstfmt.Node
			list, next = p.parseList(lines, i, rstfmt.EnumeratedList, "#. ")
			parsed = []*rstfmt.Node{list}
		case indentOf(line) > 0:
			var quote *rstfmt.Node
			quote, next = p.parseBlockQuote(lines, i)
			parsed = []*rstfmt.Node{quote}
		case i+1 < len(lines) && !blank(lines[i+1]) && indentOf(lines[i+1]) > 0:
			var list *rstfmt.Node
			list, next = p.parseDefinitionList(lines, i)
			parsed = []*rstfmt.Node{list}
		default:
			var para *rstfmt.Node
			para, next = p.parseParagraph(lines, i)
			parsed = []*rstfmt.Node{para}
		}
		nodes = append(nodes, parsed...)
		i = next
	}
	return nodes
}

func (p *Parser) parseParagraph(lines []string, i int) (*rstfmt.Node, int) {
	j := i
	for j < len(lines) {
		line := lines[j]
		if blank(line) || indentOf(line) > 0 || isExplicit(line) ||
			isGridBorder(line) || isBulletItem(line) || isEnumItem(line) {
			break
		}
		j++
	}
	parts := make([]string, j-i)
	for k := i; k < j; k++ {
		parts[k-i] = strings.TrimRight(lines[k], " ")
	}
	text := strings.Join(parts, "\n")
	return rstfmt.NewNode(rstfmt.Paragraph, p.parseInline(text)...), j
}

// collectIndented gathers the block indented by at least n starting at
// i, dedented by n, with trailing blank lines trimmed. Blank lines
// inside the block are kept. With skipLeading set, blank lines before
// the block are skipped; otherwise a leading blank means no block.
func collectIndented(lines []string, i, n int, skipLeading bool) ([]string, int) {
	j := i
	if skipLeading {
		for j < len(lines) && blank(lines[j]) {
			j++
		}
	}
	if j >= len(lines) || blank(lines[j]) || indentOf(lines[j]) < n {
		return nil, i
	}
	var out []string
	for j < len(lines) {
		if blank(lines[j]) {
			k := j
			for k < len(lines) && blank(lines[k]) {
				k++
			}
			if k < len(lines) && indentOf(lines[k]) >= n {
				for ; j < k; j++ {
					out = append(out, "")
				}
				continue
			}
			break
		}
		if indentOf(lines[j]) < n {
			break
		}
		out = append(out, lines[j][n:])
		j++
	}
	return out, j
}

func (p *Parser) parseList(lines []string, i int, kind rstfmt.Kind, marker string) (*rstfmt.Node, int) {
	bare := strings.TrimRight(marker, " ")
	width := len(marker)
	list := rstfmt.NewNode(kind)
	for i < len(lines) {
		line := lines[i]
		var content string
		switch {
		case line == bare:
		case strings.HasPrefix(line, marker):
			content = line[width:]
		default:
			return list, i
		}
		item := []string{content}
		j := i + 1
		for j < len(lines) {
			if blank(lines[j]) {
				k := j
				for k < len(lines) && blank(lines[k]) {
					k++
				}
				if k < len(lines) && indentOf(lines[k]) >= width {
					for ; j < k; j++ {
						item = append(item, "")
					}
					continue
				}
				break
			}
			if indentOf(lines[j]) < width {
				break
			}
			item = append(item, lines[j][width:])
			j++
		}
		list.Children = append(list.Children, rstfmt.NewNode(rstfmt.ListItem, p.parseBody(item)...))
		i = j
		for i < len(lines) && blank(lines[i]) {
			i++
		}
	}
	return list, i
}

func (p *Parser) parseBlockQuote(lines []string, i int) (*rstfmt.Node, int) {
	n := indentOf(lines[i])
	body, next := collectIndented(lines, i, n, false)
	return rstfmt.NewNode(rstfmt.BlockQuote, p.parseBody(body)...), next
}

func (p *Parser) parseDefinitionList(lines []string, i int) (*rstfmt.Node, int) {
	dl := rstfmt.NewNode(rstfmt.DefinitionList)
	for i < len(lines) {
		line := lines[i]
		if blank(line) || indentOf(line) > 0 || isExplicit(line) ||
			isGridBorder(line) || isBulletItem(line) || isEnumItem(line) {
			break
		}
		if i+1 >= len(lines) || blank(lines[i+1]) || indentOf(lines[i+1]) == 0 {
			break
		}
		term := rstfmt.NewNode(rstfmt.Term, p.parseInline(strings.TrimRight(line, " "))...)
		depth := indentOf(lines[i+1])
		body, next := collectIndented(lines, i+1, depth, false)
		def := rstfmt.NewNode(rstfmt.Definition, p.parseBody(body)...)
		dl.Children = append(dl.Children, rstfmt.NewNode(rstfmt.DefinitionListItem, term, def))
		i = next
		for i < len(lines) && blank(lines[i]) {
			i++
		}
	}
	return dl, i
}

// --- Explicit markup (.. blocks) ---

var (
	directiveRe = regexp.MustCompile(`^([A-Za-z0-9_.+:-]+)::(?:\s+(.*))?$`)
	optionRe    = regexp.MustCompile(`^   :([^:\s]+):(?:\s+(.*))?$`)
)

func (p *Parser) parseExplicit(lines []string, i int) ([]*rstfmt.Node, int) {
	rest := ""
	if lines[i] != ".." {
		rest = lines[i][3:]
	}

	if m := directiveRe.FindStringSubmatch(rest); m != nil {
		return p.parseDirective(lines, i, m[1], strings.TrimSpace(m[2]))
	}
	if uri, ok := strings.CutPrefix(rest, "__:"); ok {
		target := rstfmt.NewNode(rstfmt.Target)
		target.Attrs.Anonymous = true
		target.Attrs.RefURI = strings.TrimSpace(uri)
		return []*rstfmt.Node{target}, i + 1
	}
	if name, uri, ok := splitTarget(rest); ok {
		target := rstfmt.NewNode(rstfmt.Target)
		target.Attrs.Names = []string{name}
		target.Attrs.RefURI = uri
		return []*rstfmt.Node{target}, i + 1
	}
	return p.parseComment(lines, i, rest)
}

// splitTarget matches "_name:" and "_name: uri" forms. The split is at
// the first colon followed by a space or end of line, so names may
// contain isolated colons.
func splitTarget(rest string) (name, uri string, ok bool) {
	if !strings.HasPrefix(rest, "_") {
		return "", "", false
	}
	body := rest[1:]
	for k := 0; k < len(body); k++ {
		if body[k] != ':' {
			continue
		}
		if k == len(body)-1 {
			return body[:k], "", true
		}
		if body[k+1] == ' ' {
			return body[:k], strings.TrimSpace(body[k+1:]), true
		}
	}
	return "", "", false
}

func (p *Parser) parseDirective(lines []string, i int, name, args string) ([]*rstfmt.Node, int) {
	var opts []rstfmt.DirectiveOption
	j := i + 1
	for j < len(lines) {
		m := optionRe.FindStringSubmatch(lines[j])
		if m == nil {
			break
		}
		opts = append(opts, rstfmt.DirectiveOption{Key: m[1], Value: strings.TrimSpace(m[2])})
		j++
	}
	body, next := collectIndented(lines, j, 3, true)

	switch p.reg.behavior(name) {
	case DirectiveAdmonition:
		if args != "" {
			body = append([]string{args, ""}, body...)
		}
		node := rstfmt.NewNode(rstfmt.Kind(name), p.parseBody(body)...)
		return []*rstfmt.Node{node}, next
	case DirectiveImage:
		node := rstfmt.NewNode(rstfmt.Image)
		node.Attrs.URI = args
		return []*rstfmt.Node{node}, next
	case DirectiveCode:
		node := rstfmt.NewNode(rstfmt.LiteralBlock, rstfmt.NewText(strings.Join(body, "\n")))
		node.Attrs.Classes = []string{"code"}
		if args != "" {
			node.Attrs.Classes = append(node.Attrs.Classes, strings.Fields(args)[0])
		}
		return []*rstfmt.Node{node}, next
	default:
		info := &rstfmt.DirectiveInfo{Name: name, Options: opts, Body: body}
		if args != "" {
			info.Args = strings.Fields(args)
		}
		node := rstfmt.NewNode(rstfmt.Directive)
		node.Attrs.Directive = info
		return []*rstfmt.Node{node}, next
	}
}

func (p *Parser) parseComment(lines []string, i int, rest string) ([]*rstfmt.Node, int) {
	body, next := collectIndented(lines, i+1, 3, rest != "")
	if rest != "" {
		body = append([]string{rest}, body...)
	}
	for len(body) > 0 && body[len(body)-1] == "" {
		body = body[:len(body)-1]
	}
	node := rstfmt.NewNode(rstfmt.Comment)
	if len(body) > 0 {
		node.Children = append(node.Children, rstfmt.NewText(strings.Join(body, "\n")))
	}
	return []*rstfmt.Node{node}, next
}
