package selfcheck_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gentlegiantJGC/rstfmt"
	"github.com/gentlegiantJGC/rstfmt/parser"
	"github.com/gentlegiantJGC/rstfmt/selfcheck"
)

func TestCheckStringSections(t *testing.T) {
	t.Parallel()
	src := "Document Title\n" +
		"==============\n" +
		"\n" +
		"Intro paragraph with *emphasis*, **strong**, and ``literal`` text.\n" +
		"\n" +
		"Subsection\n" +
		"----------\n" +
		"\n" +
		"More text below the subsection.\n"
	assert.NoError(t, selfcheck.CheckString(src))
}

func TestCheckStringReferences(t *testing.T) {
	t.Parallel()
	src := "See example_, anonymous__, |subst|_ and `two words`_ plus\n" +
		"`docs <https://docs.example>`_ and `other <https://o.example>`__.\n" +
		"\n" +
		"Visit https://example.com/page or mail me@example.org today.\n" +
		"\n" +
		".. _example: https://example.com\n" +
		"\n" +
		".. __: https://example.com/two\n"
	assert.NoError(t, selfcheck.CheckString(src))
}

func TestCheckStringLists(t *testing.T) {
	t.Parallel()
	src := "- item one\n" +
		"- item two with a longer tail\n" +
		"\n" +
		"#. first\n" +
		"#. second\n" +
		"\n" +
		"term\n" +
		"   definition body\n" +
		"\n" +
		"A quote follows.\n" +
		"\n" +
		"   quoted material\n"
	assert.NoError(t, selfcheck.CheckString(src))
}

func TestCheckStringDirectives(t *testing.T) {
	t.Parallel()
	src := ".. note::\n" +
		"\n" +
		"   Take care here.\n" +
		"\n" +
		".. image:: logo.png\n" +
		"\n" +
		".. code:: python\n" +
		"\n" +
		"   print(\"hello\")\n" +
		"\n" +
		".. foo:: bar\n" +
		"   :opt: val\n" +
		"\n" +
		"   raw body\n" +
		"\n" +
		".. a comment line\n"
	assert.NoError(t, selfcheck.CheckString(src))
}

func TestCheckStringTable(t *testing.T) {
	t.Parallel()
	src := "+----------+----------+\n" +
		"| alpha    | beta     |\n" +
		"+==========+==========+\n" +
		"| one two  | x        |\n" +
		"| three    |          |\n" +
		"+----------+----------+\n"
	assert.NoError(t, selfcheck.CheckString(src))
}

func TestCheckStringRoles(t *testing.T) {
	t.Parallel()
	assert.NoError(t, selfcheck.CheckString("see :ref:`section-name` for details\n"))
}

func TestCheckStringTitleReferenceAndAdmonitions(t *testing.T) {
	t.Parallel()
	src := "read `The Fine Manual` before asking\n" +
		"\n" +
		".. warning::\n" +
		"\n" +
		"   Mind the gap.\n" +
		"\n" +
		".. hint::\n" +
		"\n" +
		"   Try again.\n"
	assert.NoError(t, selfcheck.CheckString(src))
}

func TestCheckStringEmpty(t *testing.T) {
	t.Parallel()
	assert.NoError(t, selfcheck.CheckString(""))
}

func TestCheckReportsFailure(t *testing.T) {
	t.Parallel()
	// Raw asterisks in a text node re-parse as emphasis, so this tree
	// cannot be a fixed point.
	doc := rstfmt.NewNode(rstfmt.Document,
		rstfmt.NewNode(rstfmt.Paragraph, rstfmt.NewText("a *b* c")),
	)
	err := selfcheck.Check(doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, selfcheck.ErrInconsistent)

	var failure *selfcheck.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, selfcheck.DefaultWidths[0], failure.Width)
	assert.NotEmpty(t, failure.First)
	assert.NotEmpty(t, failure.FirstTree)
	assert.NotEmpty(t, failure.SecondTree)
}

func TestCheckerCustomWidths(t *testing.T) {
	t.Parallel()
	checker := &selfcheck.Checker{
		Parser: parser.New(nil),
		Widths: []int{7, 0},
	}
	assert.NoError(t, checker.CheckString("plain words only here\n"))
}
