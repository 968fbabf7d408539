package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBorderWidths(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []int{5, 3}, borderWidths("+-----+---+"))
	assert.Equal(t, []int{1}, borderWidths("+-+"))
}

func TestIsGridBorder(t *testing.T) {
	t.Parallel()
	assert.True(t, isGridBorder("+---+---+"))
	assert.True(t, isGridBorder("+-+"))
	assert.False(t, isGridBorder("+===+"))
	assert.False(t, isGridBorder("---"))
	assert.False(t, isGridBorder("+--+ x"))
}

func TestIsHeaderSep(t *testing.T) {
	t.Parallel()
	assert.True(t, isHeaderSep("+===+====+"))
	assert.False(t, isHeaderSep("+---+"))
}

func TestSplitRowLine(t *testing.T) {
	t.Parallel()
	cells := splitRowLine("| a   | b   |", []int{5, 5})
	assert.Equal(t, []string{"a", "b"}, cells)
}

func TestSplitRowLineWideRunes(t *testing.T) {
	t.Parallel()
	// The CJK cell occupies two display columns per rune, so the cut
	// points must count columns, not bytes.
	cells := splitRowLine("| 你好 | ab  |", []int{6, 5})
	assert.Equal(t, []string{"你好", "ab"}, cells)
}

func TestSplitTarget(t *testing.T) {
	t.Parallel()
	name, uri, ok := splitTarget("_example: https://example.com")
	require.True(t, ok)
	assert.Equal(t, "example", name)
	assert.Equal(t, "https://example.com", uri)

	name, uri, ok = splitTarget("_bare:")
	require.True(t, ok)
	assert.Equal(t, "bare", name)
	assert.Empty(t, uri)

	_, _, ok = splitTarget("no underscore")
	assert.False(t, ok)
}

func TestIsUnderlineFor(t *testing.T) {
	t.Parallel()
	assert.True(t, isUnderlineFor("=======", "Example"))
	assert.True(t, isUnderlineFor("========", "Example"))
	assert.False(t, isUnderlineFor("===", "Example"))
	assert.False(t, isUnderlineFor("==-", "Example"))
	assert.False(t, isUnderlineFor("*******", "Example"))
}

func TestCollectIndented(t *testing.T) {
	t.Parallel()
	lines := []string{"   one", "", "   two", "tail"}
	body, next := collectIndented(lines, 0, 3, false)
	assert.Equal(t, []string{"one", "", "two"}, body)
	assert.Equal(t, 3, next)
}

func TestCollectIndentedStopsAtDedent(t *testing.T) {
	t.Parallel()
	lines := []string{"   one", "  short"}
	body, next := collectIndented(lines, 0, 3, false)
	assert.Equal(t, []string{"one"}, body)
	assert.Equal(t, 1, next)
}

func TestCollectIndentedSkipLeading(t *testing.T) {
	t.Parallel()
	lines := []string{"", "   one"}
	body, next := collectIndented(lines, 0, 3, true)
	assert.Equal(t, []string{"one"}, body)
	assert.Equal(t, 2, next)

	_, next = collectIndented(lines, 0, 3, false)
	assert.Equal(t, 0, next)
}

func TestRegistryDefaults(t *testing.T) {
	t.Parallel()
	reg := Default()
	assert.Equal(t, DirectiveAdmonition, reg.behavior("note"))
	assert.Equal(t, DirectiveImage, reg.behavior("image"))
	assert.Equal(t, DirectiveCode, reg.behavior("code"))
	assert.Equal(t, DirectiveGeneric, reg.behavior("unknown"))
	assert.True(t, reg.hasRole("ref"))
	assert.False(t, reg.hasRole("nosuch"))
}
