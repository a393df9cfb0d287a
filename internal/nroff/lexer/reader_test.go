package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReader(input string) *Reader {
	src := NewFileSource("test.man", strings.NewReader(input))
	return NewReader(NewPushbackSource(src))
}

func TestReaderExpandsSingleFontMacro(t *testing.T) {
	r := newTestReader(".B hello world\n")
	line, ok, err := r.NextLine()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "\\fBhello world\\fR\n", line.Text)
	assert.False(t, line.IsMacro)

	_, ok, err = r.NextLine()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReaderExpandsAlternatingFontMacro(t *testing.T) {
	r := newTestReader(".BI foo bar baz\n")
	line, ok, err := r.NextLine()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "\\fBfoo\\fIbar\\fBbaz\\fR\n", line.Text)
}

func TestReaderExpandsAlternatingFontMacroZeroArgs(t *testing.T) {
	r := newTestReader(".BI\n")
	line, ok, err := r.NextLine()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "\\fI\\fR\n", line.Text)
}

func TestReaderPassesThroughNoFillBlock(t *testing.T) {
	r := newTestReader(".nf\nverbatim line one\nverbatim line two\n.fi\n")
	var got []string
	for {
		line, ok, err := r.NextLine()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, line.Text)
	}
	assert.Equal(t, []string{".nf\n", "verbatim line one\n", "verbatim line two\n", ".fi\n"}, got)
}

func TestReaderPassesSoIncludeToParser(t *testing.T) {
	r := newTestReader(".so other.man\n")
	line, ok, err := r.NextLine()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ".so other.man\n", line.Text)
	assert.True(t, line.IsMacro)
}

func TestReaderDetectsFatalGeneratorMarker(t *testing.T) {
	r := newTestReader(`.\" Generated by Pod::Man` + "\n" + ".TH FOO 1\n")
	_, _, err := r.NextLine()
	require.Error(t, err)
	var genErr *GeneratedFileError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "Pod::Man", genErr.Tool)
}

func TestReaderWarnsOnNonFatalGeneratorMarker(t *testing.T) {
	r := newTestReader(`.\" generated by help2man` + "\n" + ".TH FOO 1\n")
	var warned string
	r.OnWarnGenerator = func(tool string, ref SourceRef) { warned = tool }
	line, ok, err := r.NextLine()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "help2man", warned)
	assert.Equal(t, ".TH FOO 1\n", line.Text)
}

func TestReaderMergesBackslashContinuation(t *testing.T) {
	r := newTestReader("one line that \\\ncontinues here\n")
	line, ok, err := r.NextLine()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "one line that continues here\n", line.Text)
}

func TestReaderOrphanFontMacroWrapsFollowingText(t *testing.T) {
	r := newTestReader(".B\nhello there\n")
	line, ok, err := r.NextLine()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "\\fBhello there\\fR\n", line.Text)
}

func TestReaderOrphanFontMacroFailsOnOtherMacro(t *testing.T) {
	r := newTestReader(".B\n.PD\n")
	_, _, err := r.NextLine()
	require.Error(t, err)
	var orphanErr *OrphanMacroError
	require.ErrorAs(t, err, &orphanErr)
}

func TestReaderDanglingContinuationAtEOF(t *testing.T) {
	r := newTestReader("trailing backslash\\")
	_, _, err := r.NextLine()
	require.Error(t, err)
	var danglingErr *DanglingContinuationError
	require.ErrorAs(t, err, &danglingErr)
}

func TestReaderPushesMacroOnlyCommentToPending(t *testing.T) {
	r := newTestReader(".\\\" a note\n.TH FOO 1\n")
	line, ok, err := r.NextLine()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ".TH FOO 1\n", line.Text)
	require.Len(t, r.PendingComments, 1)
	assert.Equal(t, " a note", r.PendingComments[0])
}
