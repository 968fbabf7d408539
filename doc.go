// Package rstfmt renders reStructuredText document trees as canonical
// plain-text markup.
//
// The package is the pretty-printing engine behind a reST reformatter:
// given a [Node] tree describing headings, lists, tables, directives,
// and inline markup, it produces normalized text at a target line
// width. Rendering the output of a render again yields byte-identical
// text, and re-parsing it yields a structurally equivalent tree; the
// selfcheck package verifies both properties.
//
// # Rendering
//
// The central entry points are [Render], [FormatNode], and [Lines]:
//
//	err := rstfmt.Render(os.Stdout, doc, rstfmt.Context{Width: 72})
//	text := rstfmt.FormatNode(doc, 72)
//
// [Lines] exposes the underlying lazy line sequence. A [Context] value
// carries the propagated state (section depth, available width, list
// marker, table column widths); it is immutable, and every accessor
// returns a modified copy.
//
// A width of zero or less disables wrapping. Wrapping never splits a
// token: a single token wider than the width is emitted alone on its
// own line.
//
// # Trees
//
// Trees come from the parser package (or are built directly from
// [Node] values). [Preprocess] must run once before rendering: it
// prunes diagnostic nodes and annotates references with their adjacent
// targets, which decides between the named and anonymous reference
// forms.
//
// Nodes of an unknown [Kind] render as a highlighted placeholder
// instead of failing, so [Dump] remains usable on unexpected trees.
//
// # Tables
//
// Tables are laid out from their declared colspec widths and the
// content is never measured. Declared widths that are too small for
// the content produce a malformed table; this is an accepted
// limitation of the interchange format, not an error.
package rstfmt
