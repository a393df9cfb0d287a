package transform

import (
	"testing"

	"github.com/foxcpp/po4man/internal/nroff/font"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreTranslateRejectsContinuation(t *testing.T) {
	s := font.New(font.Regular)
	_, _, err := PreTranslate(s, `text\c`, Options{})
	assert.ErrorIs(t, err, ErrUnhandledContinuation)
}

func TestPreTranslateEscapesAngleBrackets(t *testing.T) {
	s := font.New(font.Regular)
	_, msgid, err := PreTranslate(s, "a < b > c", Options{})
	require.NoError(t, err)
	assert.Equal(t, "a E<lt> b E<gt> c", msgid)
}

func TestPreTranslateStripsLeadingNewlines(t *testing.T) {
	s := font.New(font.Regular)
	lead, msgid, err := PreTranslate(s, "\n\nhello", Options{})
	require.NoError(t, err)
	assert.Equal(t, "\n\n", lead)
	assert.Equal(t, "hello", msgid)
}

func TestPreTranslateRunsFontStack(t *testing.T) {
	s := font.New(font.Regular)
	_, msgid, err := PreTranslate(s, `\fBhello world\fR`, Options{})
	require.NoError(t, err)
	assert.Equal(t, "B<hello world>", msgid)
}

func TestPreTranslateConvertsQuotesOutsideMdoc(t *testing.T) {
	s := font.New(font.Regular)
	_, msgid, err := PreTranslate(s, `\*(lqquoted\*(rq and \(dqplain\(dq and word\-word`, Options{})
	require.NoError(t, err)
	assert.Equal(t, "``quoted'' and \"plain\" and word-word", msgid)
}

func TestPreTranslatePreservesHyphenEscapeInMdoc(t *testing.T) {
	s := font.New(font.Regular)
	_, msgid, err := PreTranslate(s, `word\-word`, Options{Mdoc: true})
	require.NoError(t, err)
	assert.Equal(t, `word\-word`, msgid)
}

func TestPreTranslateFoldsPO4AInline(t *testing.T) {
	s := font.New(font.Regular)
	_, msgid, err := PreTranslate(s, "see PO4A-INLINE:Xr foo 1:PO4A-INLINE here", Options{})
	require.NoError(t, err)
	assert.Equal(t, "see E<Xr foo 1> here", msgid)
}

func TestPreTranslateMigratesTrailingPunctuationInMdoc(t *testing.T) {
	s := font.New(font.Regular)
	_, msgid, err := PreTranslate(s, "PO4A-INLINE:Xr foo 1.:PO4A-INLINE", Options{Mdoc: true})
	require.NoError(t, err)
	assert.Equal(t, "E<Xr foo 1>.", msgid)
}

func TestPreTranslateEncodesNonBreakingSpace(t *testing.T) {
	s := font.New(font.Regular)
	_, msgid, err := PreTranslate(s, "foo"+NBSP+"bar", Options{})
	require.NoError(t, err)
	assert.Equal(t, `foo\ bar`, msgid)
}
