package parser

import (
	"strings"
	"testing"

	"github.com/foxcpp/po4man/internal/nroff/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoTranslator struct {
	output []string
}

func (e *echoTranslator) Translate(msgid string, ref lexer.SourceRef, msgType string, wrap bool, comment string) (string, error) {
	return msgid, nil
}

func (e *echoTranslator) PushOutput(line string) {
	e.output = append(e.output, line)
}

// translatingTranslator substitutes a msgstr from a fixed msgid->msgstr
// map (falling back to echoing msgid), modeling a catalog that actually
// holds a translation rather than always passing text through.
type translatingTranslator struct {
	translations map[string]string
	output       []string
}

func (t *translatingTranslator) Translate(msgid string, ref lexer.SourceRef, msgType string, wrap bool, comment string) (string, error) {
	if msgstr, ok := t.translations[msgid]; ok {
		return msgstr, nil
	}
	return msgid, nil
}

func (t *translatingTranslator) PushOutput(line string) {
	t.output = append(t.output, line)
}

func newTestParser(input string) (*Parser, *echoTranslator) {
	src := lexer.NewFileSource("test.man", strings.NewReader(input))
	r := lexer.NewReader(lexer.NewPushbackSource(src))
	tr := &echoTranslator{}
	return New(r, tr, DefaultOptions()), tr
}

func TestParserFontMacroBecomesParagraph(t *testing.T) {
	p, tr := newTestParser(".B hello world\n")
	require.NoError(t, p.Run())
	assert.Equal(t, []string{"\\fBhello world\\fP\n"}, tr.output)
}

// TestParserParagraphRoundTripsThroughPostTranslate drives a full
// pre-transform -> catalog -> post-transform cycle with a translator that
// actually substitutes a msgstr (as a real catalog lookup would), and
// checks the emitted line is valid nroff, not the §4.4 surface form the
// catalog sees as its msgid/msgstr.
func TestParserParagraphRoundTripsThroughPostTranslate(t *testing.T) {
	src := lexer.NewFileSource("test.man", strings.NewReader(".B hello world\n"))
	r := lexer.NewReader(lexer.NewPushbackSource(src))
	tr := &translatingTranslator{
		translations: map[string]string{
			"B<hello world>\n": "B<bonjour monde>\n",
		},
	}
	p := New(r, tr, DefaultOptions())
	require.NoError(t, p.Run())
	require.Equal(t, []string{"\\fBbonjour monde\\fP\n"}, tr.output)
}

func TestParserRejectsSoInclude(t *testing.T) {
	p, _ := newTestParser(".so other.man\n")
	err := p.Run()
	require.Error(t, err)
	var unsupported *UnsupportedConstructError
	require.ErrorAs(t, err, &unsupported)
}

func TestParserEmitsHeaderBannerBeforeTH(t *testing.T) {
	p, tr := newTestParser(`.TH FOO 1 "1 Jan 2026" "po4man" "User Commands"` + "\n")
	require.NoError(t, p.Run())
	require.NotEmpty(t, tr.output)
	assert.Equal(t, headerBanner+"\n", tr.output[0])
	assert.Contains(t, tr.output[1], ".TH FOO 1")
}

func TestParserNoFillBlockPassesThrough(t *testing.T) {
	p, tr := newTestParser(".nf\nverbatim one\nverbatim two\n.fi\n")
	require.NoError(t, p.Run())
	assert.Equal(t, []string{".nf\n", "verbatim one\n", "verbatim two\n", ".fi\n"}, tr.output)
}

func TestParserTPEmitsTagThenBody(t *testing.T) {
	p, tr := newTestParser(".TP\n.B \\-f\nbody text\n")
	require.NoError(t, p.Run())
	require.Len(t, tr.output, 3)
	assert.Equal(t, ".TP \n", tr.output[0])
	assert.Equal(t, "\\fB\\-f\\fP\n", tr.output[1])
}

func TestParserGroffCodeFailAbortsOnDe(t *testing.T) {
	p, _ := newTestParser(".de foo\n..\n")
	err := p.Run()
	require.Error(t, err)
	var unsupported *UnsupportedConstructError
	require.ErrorAs(t, err, &unsupported)
}

func TestParserGroffCodeVerbatimPassesThrough(t *testing.T) {
	p, tr := newTestParser(".de foo\nbody line\n..\n")
	p.opts.GroffCode = GroffCodeVerbatim
	require.NoError(t, p.Run())
	assert.Equal(t, []string{".de foo\n", "body line\n", "..\n"}, tr.output)
}

func TestParserDdActivatesMdocMode(t *testing.T) {
	p, tr := newTestParser(".Dd January 1, 2026\n")
	require.NoError(t, p.Run())
	assert.True(t, p.mdoc)
	require.Len(t, tr.output, 2)
	assert.Equal(t, headerBanner+"\n", tr.output[0])
}
