package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gentlegiantJGC/rstfmt"
)

var (
	roleRe        = regexp.MustCompile(`^:([A-Za-z][A-Za-z0-9._+:-]*):`)
	embeddedURIRe = regexp.MustCompile(`(?s)^(.*\S)\s+<([^<>\s]+)>$`)
	refNameRe     = regexp.MustCompile(`^[-_.:+a-zA-Z0-9]+$`)
	refNamePairRe = regexp.MustCompile(`[-_.:+][-_.:+]`)
	uriRe         = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://[^\s<>\\]+`)
	mailtoRe      = regexp.MustCompile(`^mailto:[^\s<>\\]+`)
	emailRe       = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
)

// uriTrailPunct is stripped from the end of standalone URI matches so
// sentence punctuation stays outside the link.
const uriTrailPunct = `.,;:!?'")]}>`

var inlineMarkupKinds = map[rstfmt.Kind]bool{
	rstfmt.Emphasis:        true,
	rstfmt.Strong:          true,
	rstfmt.Literal:         true,
	rstfmt.TitleReference:  true,
	rstfmt.SubstitutionRef: true,
	rstfmt.Role:            true,
	rstfmt.Reference:       true,
	rstfmt.Target:          true,
}

func validRefName(name string) bool {
	return name != "" && refNameRe.MatchString(name) && !refNamePairRe.MatchString(name)
}

// parseInline parses the inline markup of a fully dedented text run.
// Newlines in src are ordinary whitespace.
func (p *Parser) parseInline(src string) []*rstfmt.Node {
	s := &inlineScanner{p: p, src: src, prev: ' '}
	s.run()
	return s.nodes
}

type inlineScanner struct {
	p     *Parser
	src   string
	i     int
	prev  rune
	buf   strings.Builder
	nodes []*rstfmt.Node

	// pending records a "\ " separator seen between two markup
	// spans, which must survive as an empty text node.
	pending bool
}

func (s *inlineScanner) lastIsMarkup() bool {
	return len(s.nodes) > 0 && inlineMarkupKinds[s.nodes[len(s.nodes)-1].Kind]
}

func (s *inlineScanner) flushText() {
	if s.buf.Len() == 0 {
		return
	}
	s.nodes = append(s.nodes, rstfmt.NewText(s.buf.String()))
	s.buf.Reset()
}

// emit appends markup nodes, materializing a pending null separator as
// an empty text node between adjacent spans.
func (s *inlineScanner) emit(nodes ...*rstfmt.Node) {
	if s.pending && s.buf.Len() == 0 && s.lastIsMarkup() {
		s.nodes = append(s.nodes, rstfmt.NewText(""))
	}
	s.pending = false
	s.flushText()
	s.nodes = append(s.nodes, nodes...)
}

func (s *inlineScanner) take(r rune, size int) {
	s.buf.WriteRune(r)
	s.pending = false
	s.prev = r
	s.i += size
}

// startAllowed reports whether inline markup may open at the current
// position, based on the character before it.
func (s *inlineScanner) startAllowed() bool {
	return s.i == 0 || unicode.IsSpace(s.prev) || rstfmt.CanPrecedeMarkup(s.prev)
}

func (s *inlineScanner) run() {
	for s.i < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.i:])
		if r == '\\' {
			s.takeEscape(size)
			continue
		}
		if r == '_' && s.tryWordReference() {
			continue
		}
		if s.startAllowed() {
			switch r {
			case '*', '`', '|', ':':
				if s.trySpan() {
					continue
				}
			}
			if s.tryStandaloneURI() {
				continue
			}
		}
		s.take(r, size)
	}
	s.flushText()
}

// takeEscape consumes a backslash escape. A backslash before
// whitespace is the null separator; before anything else it quotes the
// next character.
func (s *inlineScanner) takeEscape(size int) {
	rest := s.src[s.i+size:]
	if rest == "" {
		s.take('\\', size)
		return
	}
	r, rsize := utf8.DecodeRuneInString(rest)
	if unicode.IsSpace(r) {
		if s.buf.Len() == 0 && s.lastIsMarkup() {
			s.pending = true
		}
		s.prev = ' '
		s.i += size + rsize
		return
	}
	s.take(r, size+rsize)
}

func afterSpan(r rune) bool {
	return unicode.IsSpace(r) || rstfmt.CanFollowMarkup(r)
}

func afterRefSpan(r rune) bool {
	return r == '_' || afterSpan(r)
}

// findSpanEnd returns the index of the closing delimiter for a span
// whose content starts at from, or -1. The content must be non-empty,
// must not end in whitespace, and the character after the delimiter
// must satisfy after.
func (s *inlineScanner) findSpanEnd(from int, delim string, after func(rune) bool) int {
	for j := from + 1; j+len(delim) <= len(s.src); j++ {
		if s.src[j:j+len(delim)] != delim {
			continue
		}
		before, _ := utf8.DecodeLastRuneInString(s.src[:j])
		if unicode.IsSpace(before) {
			continue
		}
		if tail := s.src[j+len(delim):]; tail != "" {
			r, _ := utf8.DecodeRuneInString(tail)
			if !after(r) {
				continue
			}
		}
		return j
	}
	return -1
}

// span attempts a delimited span at the current position. It returns
// the content and the index past the closing delimiter.
func (s *inlineScanner) span(delim string, after func(rune) bool) (string, int, bool) {
	from := s.i + len(delim)
	if from >= len(s.src) {
		return "", 0, false
	}
	r, _ := utf8.DecodeRuneInString(s.src[from:])
	if unicode.IsSpace(r) || strings.HasPrefix(s.src[from:], string(delim[0])) {
		return "", 0, false
	}
	end := s.findSpanEnd(from, delim, after)
	if end < 0 {
		return "", 0, false
	}
	return s.src[from:end], end + len(delim), true
}

func (s *inlineScanner) advance(to int) {
	s.prev, _ = utf8.DecodeLastRuneInString(s.src[:to])
	s.i = to
}

func (s *inlineScanner) trySpan() bool {
	switch {
	case strings.HasPrefix(s.src[s.i:], "**"):
		content, next, ok := s.span("**", afterSpan)
		if !ok {
			return false
		}
		s.emit(rstfmt.NewNode(rstfmt.Strong, rstfmt.NewText(content)))
		s.advance(next)
		return true
	case s.src[s.i] == '*':
		content, next, ok := s.span("*", afterSpan)
		if !ok {
			return false
		}
		s.emit(rstfmt.NewNode(rstfmt.Emphasis, rstfmt.NewText(content)))
		s.advance(next)
		return true
	case strings.HasPrefix(s.src[s.i:], "``"):
		content, next, ok := s.span("``", afterSpan)
		if !ok {
			return false
		}
		s.emit(rstfmt.NewNode(rstfmt.Literal, rstfmt.NewText(content)))
		s.advance(next)
		return true
	case s.src[s.i] == '|':
		return s.trySubstitution()
	case s.src[s.i] == ':':
		return s.tryRole()
	case s.src[s.i] == '`':
		return s.tryBacktickSpan()
	}
	return false
}

// refSuffix counts trailing reference underscores at position i: one
// for a named reference, two for an anonymous one.
func (s *inlineScanner) refSuffix(i int) int {
	n := 0
	for n < 2 && i+n < len(s.src) && s.src[i+n] == '_' {
		n++
	}
	if i+n < len(s.src) {
		r, _ := utf8.DecodeRuneInString(s.src[i+n:])
		if r == '_' || !afterSpan(r) {
			return 0
		}
	}
	return n
}

func (s *inlineScanner) trySubstitution() bool {
	content, next, ok := s.span("|", afterRefSpan)
	if !ok || strings.ContainsAny(content, " \n") {
		return false
	}
	sub := rstfmt.NewNode(rstfmt.SubstitutionRef, rstfmt.NewText(content))
	if n := s.refSuffix(next); n > 0 {
		ref := rstfmt.NewNode(rstfmt.Reference, sub)
		ref.Attrs.Anonymous = n == 2
		s.emit(ref)
		s.advance(next + n)
		return true
	}
	s.emit(sub)
	s.advance(next)
	return true
}

func (s *inlineScanner) tryRole() bool {
	m := roleRe.FindStringSubmatch(s.src[s.i:])
	if m == nil || !strings.HasPrefix(s.src[s.i+len(m[0]):], "`") {
		return false
	}
	save := s.i
	s.i += len(m[0])
	_, next, ok := s.span("`", afterSpan)
	s.i = save
	if !ok {
		return false
	}
	role := rstfmt.NewNode(rstfmt.Role)
	role.Text = s.src[save:next]
	if !s.p.reg.hasRole(m[1]) {
		s.emit(role, rstfmt.NewNode(rstfmt.SystemMessage))
	} else {
		s.emit(role)
	}
	s.advance(next)
	return true
}

func (s *inlineScanner) tryBacktickSpan() bool {
	content, next, ok := s.span("`", afterRefSpan)
	if !ok {
		return false
	}
	n := s.refSuffix(next)
	if n == 0 {
		s.emit(rstfmt.NewNode(rstfmt.TitleReference, rstfmt.NewText(content)))
		s.advance(next)
		return true
	}
	ref := rstfmt.NewNode(rstfmt.Reference)
	if m := embeddedURIRe.FindStringSubmatch(content); m != nil {
		ref.Children = append(ref.Children, rstfmt.NewText(m[1]))
		ref.Attrs.RefURI = m[2]
		if n == 1 {
			target := rstfmt.NewNode(rstfmt.Target)
			target.Attrs.RefURI = m[2]
			target.Attrs.Names = []string{strings.ToLower(m[1])}
			s.emit(ref, target)
		} else {
			s.emit(ref)
		}
	} else {
		ref.Children = append(ref.Children, rstfmt.NewText(content))
		ref.Attrs.Anonymous = n == 2
		s.emit(ref)
	}
	s.advance(next + n)
	return true
}

// tryWordReference recognizes bare reference words such as name_ and
// name__, whose trailing text has already been buffered.
func (s *inlineScanner) tryWordReference() bool {
	n := s.refSuffix(s.i)
	if n == 0 {
		return false
	}
	text := s.buf.String()
	start := len(text)
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if r >= utf8.RuneSelf || !strings.ContainsRune(`-_.:+`, r) && !isAlnum(r) {
			break
		}
		start -= size
	}
	name := text[start:]
	if !validRefName(name) {
		return false
	}
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if !unicode.IsSpace(r) && !rstfmt.CanPrecedeMarkup(r) {
			return false
		}
	}
	s.buf.Reset()
	s.buf.WriteString(text[:start])
	ref := rstfmt.NewNode(rstfmt.Reference, rstfmt.NewText(name))
	ref.Attrs.Anonymous = n == 2
	s.emit(ref)
	s.advance(s.i + n)
	return true
}

func isAlnum(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

// tryStandaloneURI recognizes bare URIs and email addresses at word
// boundaries, leaving sentence punctuation after the match outside it.
func (s *inlineScanner) tryStandaloneURI() bool {
	if s.buf.Len() > 0 {
		r, _ := utf8.DecodeLastRuneInString(s.buf.String())
		if !unicode.IsSpace(r) && !rstfmt.CanPrecedeMarkup(r) {
			return false
		}
	}
	rest := s.src[s.i:]
	var match string
	mailto := false
	switch {
	case uriRe.MatchString(rest):
		match = uriRe.FindString(rest)
	case mailtoRe.MatchString(rest):
		match = mailtoRe.FindString(rest)
	case emailRe.MatchString(rest):
		match = emailRe.FindString(rest)
		mailto = true
	default:
		return false
	}
	for len(match) > 0 && strings.ContainsRune(uriTrailPunct, rune(match[len(match)-1])) {
		match = match[:len(match)-1]
	}
	if match == "" {
		return false
	}
	ref := rstfmt.NewNode(rstfmt.Reference, rstfmt.NewText(match))
	if mailto {
		ref.Attrs.RefURI = "mailto:" + match
	} else {
		ref.Attrs.RefURI = match
	}
	s.emit(ref)
	s.advance(s.i + len(match))
	return true
}
