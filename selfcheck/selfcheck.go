// Package selfcheck verifies that formatting a document is a fixed
// point: rendering a tree, re-parsing the output, and rendering again
// must reproduce the first rendering byte for byte, and the re-parsed
// tree must have the structure of the original.
//
// The check runs across a spread of line widths, including degenerate
// ones, because wrapping bugs tend to hide at widths nobody formats
// at on purpose.
package selfcheck

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/gentlegiantJGC/rstfmt"
	"github.com/gentlegiantJGC/rstfmt/parser"
)

// DefaultWidths is the width spread used when a Checker does not set
// its own. Width 0 renders without wrapping.
var DefaultWidths = []int{1, 2, 3, 5, 8, 13, 34, 55, 89, 144, 72, 0}

// ErrInconsistent reports that a document does not format to a fixed
// point. Errors returned by this package unwrap to it.
var ErrInconsistent = errors.New("inconsistent rendering")

// Failure carries the evidence for one failed width: both renderings,
// both tree dumps, and a diff of the outputs.
type Failure struct {
	Width      int
	First      string
	Second     string
	FirstTree  string
	SecondTree string
	Diff       string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%v at width %d", ErrInconsistent, f.Width)
}

func (f *Failure) Unwrap() error { return ErrInconsistent }

// Checker runs the fixed-point check. The zero value uses the default
// parser and DefaultWidths.
type Checker struct {
	Parser *parser.Parser
	Widths []int
}

func (c *Checker) widths() []int {
	if len(c.Widths) > 0 {
		return c.Widths
	}
	return DefaultWidths
}

func (c *Checker) parser() *parser.Parser {
	if c.Parser != nil {
		return c.Parser
	}
	return parser.New(nil)
}

func dumpTree(n *rstfmt.Node) string {
	var buf bytes.Buffer
	rstfmt.Dump(&buf, n)
	return buf.String()
}

// Check renders doc at every width, re-parses each rendering, and
// renders again. It returns a *Failure for the first width where the
// two renderings differ or the re-parsed tree does not match doc.
func (c *Checker) Check(doc *rstfmt.Node) error {
	for _, w := range c.widths() {
		first := rstfmt.FormatNode(doc, w)
		reparsed := c.parser().Parse(first)
		second := rstfmt.FormatNode(reparsed, w)
		if first == second && rstfmt.StructurallyEqual(doc, reparsed) {
			continue
		}
		return &Failure{
			Width:      w,
			First:      first,
			Second:     second,
			FirstTree:  dumpTree(doc),
			SecondTree: dumpTree(reparsed),
			Diff:       cmp.Diff(first, second),
		}
	}
	return nil
}

// CheckString parses src and runs Check on the result.
func (c *Checker) CheckString(src string) error {
	return c.Check(c.parser().Parse(src))
}

// Check runs the fixed-point check on doc with a zero Checker.
func Check(doc *rstfmt.Node) error {
	return (&Checker{}).Check(doc)
}

// CheckString runs the fixed-point check on source text with a zero
// Checker.
func CheckString(src string) error {
	return (&Checker{}).CheckString(src)
}
