package rstfmt_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gentlegiantJGC/rstfmt"
)

func TestPreprocessPrunesSystemMessages(t *testing.T) {
	t.Parallel()
	doc := rstfmt.NewNode(rstfmt.Document,
		para("keep"),
		rstfmt.NewNode(rstfmt.SystemMessage),
		para("also keep"),
	)
	out := rstfmt.Preprocess(doc)
	require.Len(t, out.Children, 2)
	assert.Equal(t, rstfmt.Paragraph, out.Children[0].Kind)
	assert.Equal(t, rstfmt.Paragraph, out.Children[1].Kind)
	// The input is untouched.
	assert.Len(t, doc.Children, 3)
}

func TestPreprocessResolvesTargets(t *testing.T) {
	t.Parallel()
	ref := rstfmt.NewNode(rstfmt.Reference, rstfmt.NewText("docs"))
	ref.Attrs.RefURI = "https://docs.example"
	target := rstfmt.NewNode(rstfmt.Target)
	target.Attrs.RefURI = "https://docs.example"
	doc := rstfmt.NewNode(rstfmt.Document,
		rstfmt.NewNode(rstfmt.Paragraph, ref, target),
	)
	out := rstfmt.Preprocess(doc)
	outRef := out.Children[0].Children[0]
	require.NotNil(t, outRef.Attrs.Target)
	assert.Equal(t, rstfmt.Target, outRef.Attrs.Target.Kind)
	// The original reference is left alone.
	assert.Nil(t, ref.Attrs.Target)
}

func TestPreprocessCopiesDeeply(t *testing.T) {
	t.Parallel()
	doc := rstfmt.NewNode(rstfmt.Document, para("text"))
	out := rstfmt.Preprocess(doc)
	out.Children[0].Children[0].Text = "changed"
	assert.Equal(t, "text", doc.Children[0].Children[0].Text)
}

func TestStructurallyEqual(t *testing.T) {
	t.Parallel()
	a := rstfmt.NewNode(rstfmt.Document, para("one"), para("two"))
	b := rstfmt.NewNode(rstfmt.Document, para("eins"), para("zwei"))
	assert.True(t, rstfmt.StructurallyEqual(a, b))
}

func TestStructurallyEqualKindMismatch(t *testing.T) {
	t.Parallel()
	a := rstfmt.NewNode(rstfmt.Document, para("one"))
	b := rstfmt.NewNode(rstfmt.Document, rstfmt.NewNode(rstfmt.BlockQuote, para("one")))
	assert.False(t, rstfmt.StructurallyEqual(a, b))
}

func TestStructurallyEqualChildCountMismatch(t *testing.T) {
	t.Parallel()
	a := rstfmt.NewNode(rstfmt.Document, para("one"))
	b := rstfmt.NewNode(rstfmt.Document, para("one"), para("two"))
	assert.False(t, rstfmt.StructurallyEqual(a, b))
}

func TestDump(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	doc := rstfmt.NewNode(rstfmt.Document, para("hello"))
	rstfmt.Dump(&buf, doc)
	out := buf.String()
	assert.Contains(t, out, "document")
	assert.Contains(t, out, "paragraph")
	assert.Contains(t, out, `"hello"`)
}
