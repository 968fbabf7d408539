package rstfmt

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Inline markup recognition rules require particular characters around
// the delimiters. These are the character classes from the
// reStructuredText specification.
const (
	preMarkupPunct  = `-:/'"<([{`
	postMarkupPunct = `-.,:;!?\/'")]}>`
)

// CanPrecedeMarkup reports whether a span of inline markup may start
// directly after r.
func CanPrecedeMarkup(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(preMarkupPunct, r)
}

// CanFollowMarkup reports whether a span of inline markup may end
// directly before r.
func CanFollowMarkup(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(postMarkupPunct, r)
}

// chunk is one unit of inline output: either plain text or a complete
// inline markup span with its delimiters already attached.
type chunk struct {
	text   string
	markup bool
}

// wordInfo is a whitespace-delimited word plus the boundary facts
// needed to decide whether adjacent markup must be separated by an
// escaped space.
type wordInfo struct {
	text       string
	inMarkup   bool
	startSpace bool
	endSpace   bool
	startPunct bool
	endPunct   bool
}

// splitWords breaks a chunk into words. For plain chunks the boundary
// flags record whether the first and last characters are whitespace or
// punctuation that the markup recognition rules accept as a break.
func splitWords(c chunk) []wordInfo {
	if c.markup {
		fields := strings.Fields(c.text)
		words := make([]wordInfo, len(fields))
		for i, f := range fields {
			words[i] = wordInfo{text: f, inMarkup: true}
		}
		return words
	}
	if c.text == "" {
		// An empty chunk only shows up between two markup spans that
		// were separated by an escaped space. Marking it as trailing
		// punctuation means merging it into its predecessor will not
		// introduce a second escape when the successor is merged in.
		return []wordInfo{{endPunct: true}}
	}
	fields := strings.Fields(c.text)
	if len(fields) == 0 {
		return []wordInfo{{startSpace: true, endSpace: true, startPunct: true, endPunct: true}}
	}
	words := make([]wordInfo, len(fields))
	for i, f := range fields {
		words[i] = wordInfo{text: f}
	}
	first, _ := utf8.DecodeRuneInString(c.text)
	last, _ := utf8.DecodeLastRuneInString(c.text)
	if unicode.IsSpace(first) {
		words[0].startSpace = true
	}
	if unicode.IsSpace(last) {
		words[len(words)-1].endSpace = true
	}
	if CanFollowMarkup(first) {
		words[0].startPunct = true
	}
	if CanPrecedeMarkup(last) {
		words[len(words)-1].endPunct = true
	}
	return words
}

// mergeWords converts a chunk sequence into wrap-safe tokens. A markup
// word that directly touches a plain word is merged into one token,
// with an escaped space inserted unless the adjoining boundary is
// punctuation that the recognition rules already treat as a break.
func mergeWords(chunks []chunk) []string {
	words := []wordInfo{{startSpace: true, endSpace: true, startPunct: true, endPunct: true}}
	for _, c := range chunks {
		for _, w := range splitWords(c) {
			last := words[len(words)-1]
			switch {
			case !last.inMarkup && w.inMarkup && !last.endSpace:
				join := `\ `
				if last.endPunct {
					join = ""
				}
				words[len(words)-1] = wordInfo{text: last.text + join + w.text, inMarkup: true}
			case last.inMarkup && !w.inMarkup && !w.startSpace:
				join := `\ `
				if w.startPunct {
					join = ""
				}
				words[len(words)-1] = wordInfo{
					text:       last.text + join + w.text,
					endSpace:   w.endSpace,
					startPunct: w.startPunct,
					endPunct:   w.endPunct,
				}
			default:
				words = append(words, w)
			}
		}
	}
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w.text != "" {
			out = append(out, w.text)
		}
	}
	return out
}

// mergedText renders a chunk sequence as a single unwrapped line.
func mergedText(chunks []chunk) string {
	return strings.Join(mergeWords(chunks), " ")
}

// wrapText packs the merged tokens of a chunk sequence into lines of at
// most width columns. A token wider than the width is emitted alone on
// its own line rather than split; a width of zero or less disables
// wrapping entirely.
func wrapText(width int, chunks []chunk) iter.Seq[string] {
	return func(yield func(string) bool) {
		words := mergeWords(chunks)
		if width <= 0 {
			yield(strings.Join(words, " "))
			return
		}
		var buf []string
		n := 0
		for _, w := range words {
			n2 := n + runewidth.StringWidth(w)
			if len(buf) > 0 {
				n2++
			}
			if len(buf) > 0 && n2 > width {
				if !yield(strings.Join(buf, " ")) {
					return
				}
				buf = buf[:0]
				n2 = runewidth.StringWidth(w)
			}
			buf = append(buf, w)
			n = n2
		}
		if len(buf) > 0 {
			yield(strings.Join(buf, " "))
		}
	}
}
