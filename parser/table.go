package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/gentlegiantJGC/rstfmt"
)

var (
	gridBorderRe = regexp.MustCompile(`^\+(?:-+\+)+$`)
	headerSepRe  = regexp.MustCompile(`^\+(?:=+\+)+$`)
)

func isGridBorder(line string) bool {
	return gridBorderRe.MatchString(strings.TrimRight(line, " "))
}

func isHeaderSep(line string) bool {
	return headerSepRe.MatchString(strings.TrimRight(line, " "))
}

func isRowLine(line string) bool {
	return strings.HasPrefix(line, "|")
}

// borderWidths reads the declared column widths off a border line: the
// length of each dash run between the + boundary markers.
func borderWidths(line string) []int {
	line = strings.TrimRight(line, " ")
	var widths []int
	run := 0
	for i := 1; i < len(line); i++ {
		if line[i] == '+' {
			widths = append(widths, run)
			run = 0
			continue
		}
		run++
	}
	return widths
}

// splitRowLine cuts one row line into its cell texts using the declared
// widths. Cells are measured in display columns so wide runes keep the
// grid aligned.
func splitRowLine(line string, widths []int) []string {
	cells := make([]string, len(widths))
	pos := 0
	if strings.HasPrefix(line, "|") {
		pos = 1
	}
	for i, w := range widths {
		var sb strings.Builder
		cols := 0
		for pos < len(line) && cols < w {
			r, size := utf8.DecodeRuneInString(line[pos:])
			sb.WriteRune(r)
			cols += runewidth.RuneWidth(r)
			pos += size
		}
		if pos < len(line) && line[pos] == '|' {
			pos++
		}
		cell := strings.TrimRight(sb.String(), " ")
		cell = strings.TrimPrefix(cell, " ")
		cells[i] = cell
	}
	return cells
}

// parseGridTable consumes a grid table starting at the border on line
// i and returns the table node and the index past it.
func (p *Parser) parseGridTable(lines []string, i int) (*rstfmt.Node, int) {
	widths := borderWidths(lines[i])
	i++

	var (
		headRows []*rstfmt.Node
		bodyRows []*rstfmt.Node
		sawSep   bool
		cell     = make([][]string, len(widths))
	)
	flushRow := func() {
		empty := true
		for _, c := range cell {
			if len(c) > 0 {
				empty = false
				break
			}
		}
		if empty {
			return
		}
		row := rstfmt.NewNode(rstfmt.Row)
		for k := range cell {
			row.Children = append(row.Children, rstfmt.NewNode(rstfmt.Entry, p.parseBody(cell[k])...))
		}
		bodyRows = append(bodyRows, row)
		cell = make([][]string, len(widths))
	}

	for i < len(lines) {
		line := lines[i]
		switch {
		case isRowLine(line):
			for k, c := range splitRowLine(line, widths) {
				if k < len(cell) {
					cell[k] = append(cell[k], c)
				}
			}
		case isHeaderSep(line):
			flushRow()
			headRows = bodyRows
			bodyRows = nil
			sawSep = true
		case isGridBorder(line):
			flushRow()
		default:
			flushRow()
			return buildTable(widths, headRows, bodyRows, sawSep), i
		}
		i++
	}
	flushRow()
	return buildTable(widths, headRows, bodyRows, sawSep), i
}

func buildTable(widths []int, headRows, bodyRows []*rstfmt.Node, sawSep bool) *rstfmt.Node {
	tgroup := rstfmt.NewNode(rstfmt.TGroup)
	for _, w := range widths {
		spec := rstfmt.NewNode(rstfmt.Colspec)
		spec.Attrs.Colwidth = w
		tgroup.Children = append(tgroup.Children, spec)
	}
	if sawSep {
		tgroup.Children = append(tgroup.Children, rstfmt.NewNode(rstfmt.THead, headRows...))
	}
	tgroup.Children = append(tgroup.Children, rstfmt.NewNode(rstfmt.TBody, bodyRows...))
	return rstfmt.NewNode(rstfmt.Table, tgroup)
}
