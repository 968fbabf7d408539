package rstfmt

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanPrecedeMarkup(t *testing.T) {
	t.Parallel()
	assert.True(t, CanPrecedeMarkup(' '))
	assert.True(t, CanPrecedeMarkup('('))
	assert.True(t, CanPrecedeMarkup('-'))
	assert.False(t, CanPrecedeMarkup('a'))
	assert.False(t, CanPrecedeMarkup('.'))
}

func TestCanFollowMarkup(t *testing.T) {
	t.Parallel()
	assert.True(t, CanFollowMarkup(' '))
	assert.True(t, CanFollowMarkup('.'))
	assert.True(t, CanFollowMarkup(')'))
	assert.False(t, CanFollowMarkup('a'))
	assert.False(t, CanFollowMarkup('('))
}

func TestSplitWordsPlain(t *testing.T) {
	t.Parallel()
	words := splitWords(chunk{text: "one two"})
	require.Len(t, words, 2)
	assert.Equal(t, "one", words[0].text)
	assert.Equal(t, "two", words[1].text)
	assert.False(t, words[0].startSpace)
	assert.False(t, words[1].endSpace)
}

func TestSplitWordsBoundaryFlags(t *testing.T) {
	t.Parallel()
	words := splitWords(chunk{text: " one ("})
	require.Len(t, words, 2)
	assert.True(t, words[0].startSpace)
	assert.True(t, words[0].startPunct)
	assert.False(t, words[1].endSpace)
	// "(" may directly precede a markup span.
	assert.True(t, words[1].endPunct)
}

func TestSplitWordsEmptyChunk(t *testing.T) {
	t.Parallel()
	words := splitWords(chunk{})
	require.Len(t, words, 1)
	assert.Empty(t, words[0].text)
	assert.True(t, words[0].endPunct)
	assert.False(t, words[0].startSpace)
}

func TestSplitWordsWhitespaceOnly(t *testing.T) {
	t.Parallel()
	words := splitWords(chunk{text: "  "})
	require.Len(t, words, 1)
	assert.True(t, words[0].startSpace)
	assert.True(t, words[0].endSpace)
}

func TestSplitWordsMarkup(t *testing.T) {
	t.Parallel()
	words := splitWords(chunk{text: "**a b**", markup: true})
	require.Len(t, words, 2)
	assert.True(t, words[0].inMarkup)
	assert.True(t, words[1].inMarkup)
}

func TestMergeWordsPlainOnly(t *testing.T) {
	t.Parallel()
	words := mergeWords([]chunk{{text: "one two three"}})
	assert.Equal(t, []string{"one", "two", "three"}, words)
}

func TestMergeWordsEscapeBeforeMarkup(t *testing.T) {
	t.Parallel()
	words := mergeWords([]chunk{
		{text: "word"},
		{text: "*em*", markup: true},
	})
	assert.Equal(t, []string{`word\ *em*`}, words)
}

func TestMergeWordsEscapeAfterMarkup(t *testing.T) {
	t.Parallel()
	words := mergeWords([]chunk{
		{text: "*em*", markup: true},
		{text: "word"},
	})
	assert.Equal(t, []string{`*em*\ word`}, words)
}

func TestMergeWordsPunctNeedsNoEscape(t *testing.T) {
	t.Parallel()
	words := mergeWords([]chunk{
		{text: "*em*", markup: true},
		{text: ", next"},
	})
	assert.Equal(t, []string{"*em*,", "next"}, words)
}

func TestMergeWordsSpaceSeparates(t *testing.T) {
	t.Parallel()
	words := mergeWords([]chunk{
		{text: "word "},
		{text: "*em*", markup: true},
	})
	assert.Equal(t, []string{"word", "*em*"}, words)
}

func TestMergeWordsAdjacentSpans(t *testing.T) {
	t.Parallel()
	// Two spans separated only by an escaped space in the source show
	// up with an empty chunk between them.
	words := mergeWords([]chunk{
		{text: "*a*", markup: true},
		{},
		{text: "*b*", markup: true},
	})
	assert.Equal(t, []string{`*a*\ *b*`}, words)
}

func TestMergedText(t *testing.T) {
	t.Parallel()
	text := mergedText([]chunk{{text: "one two"}, {text: "**b**", markup: true}})
	assert.Equal(t, `one two\ **b**`, text)
}

func TestWrapTextGreedy(t *testing.T) {
	t.Parallel()
	lines := slices.Collect(wrapText(9, []chunk{{text: "one two three four"}}))
	assert.Equal(t, []string{"one two", "three", "four"}, lines)
}

func TestWrapTextExactFit(t *testing.T) {
	t.Parallel()
	lines := slices.Collect(wrapText(7, []chunk{{text: "one two"}}))
	assert.Equal(t, []string{"one two"}, lines)
}

func TestWrapTextOversizeTokenAlone(t *testing.T) {
	t.Parallel()
	lines := slices.Collect(wrapText(3, []chunk{{text: "a unbreakable b"}}))
	assert.Equal(t, []string{"a", "unbreakable", "b"}, lines)
}

func TestWrapTextUnbounded(t *testing.T) {
	t.Parallel()
	lines := slices.Collect(wrapText(0, []chunk{{text: "one two three"}}))
	assert.Equal(t, []string{"one two three"}, lines)
}

func TestWrapTextMergedTokenNotSplit(t *testing.T) {
	t.Parallel()
	lines := slices.Collect(wrapText(5, []chunk{
		{text: "aa"},
		{text: "**b**", markup: true},
	}))
	// The merged token is wider than the line but must stay whole.
	assert.Equal(t, []string{`aa\ **b**`}, lines)
}

func TestWrapTextWideRunes(t *testing.T) {
	t.Parallel()
	// Each CJK rune is two columns, so two of them fill width 4.
	lines := slices.Collect(wrapText(4, []chunk{{text: "你好 世界 again"}}))
	assert.Equal(t, []string{"你好", "世界", "again"}, lines)
}
