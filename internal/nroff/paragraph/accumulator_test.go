package paragraph

import (
	"testing"

	"github.com/foxcpp/po4man/internal/nroff/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTranslator struct {
	output    []string
	translate func(msgid string, wrap bool, comment string) string
}

func (f *fakeTranslator) Translate(msgid string, ref lexer.SourceRef, msgType string, wrap bool, comment string) (string, error) {
	if f.translate != nil {
		return f.translate(msgid, wrap, comment), nil
	}
	return msgid, nil
}

func (f *fakeTranslator) PushOutput(line string) {
	f.output = append(f.output, line)
}

func TestAccumulatorFlushesOnBlankLine(t *testing.T) {
	f := &fakeTranslator{}
	a := New(f)
	a.AppendText("hello\n", lexer.SourceRef{Line: 1})
	a.AppendText("world\n", lexer.SourceRef{Line: 2})
	require.NoError(t, a.BeginBlank("\n"))
	assert.Equal(t, []string{"hello\nworld\n", "\n"}, f.output)
	assert.Equal(t, Yes, a.Mode)
}

func TestAccumulatorDemotesWrapModeOnIndentedLine(t *testing.T) {
	f := &fakeTranslator{}
	a := New(f)
	a.AppendText("normal text\n", lexer.SourceRef{Line: 1})
	assert.Equal(t, Yes, a.Mode)
	a.AppendText("    indented text\n", lexer.SourceRef{Line: 2})
	assert.Equal(t, No, a.Mode)
	require.NoError(t, a.Flush())
	assert.Equal(t, Yes, a.Mode)
}

func TestAccumulatorPendingCommentsFlushBeforeParagraph(t *testing.T) {
	f := &fakeTranslator{}
	a := New(f)
	a.PushComment(" a note")
	a.AppendText("hello\n", lexer.SourceRef{Line: 1})
	require.NoError(t, a.Flush())
	assert.Equal(t, []string{".\\\" a note\n", "hello\n"}, f.output)
}

func TestAccumulatorNoWrapBlockPassesThrough(t *testing.T) {
	f := &fakeTranslator{}
	a := New(f)
	require.NoError(t, a.BeginNoWrap(".nf\n"))
	assert.Equal(t, MacroNo, a.Mode)
	a.PassThrough("verbatim\n")
	require.NoError(t, a.EndNoWrap(".fi\n"))
	assert.Equal(t, Yes, a.Mode)
	assert.Equal(t, []string{".nf\n", "verbatim\n", ".fi\n"}, f.output)
}

func TestAccumulatorFlushIsNoOpWhenEmpty(t *testing.T) {
	f := &fakeTranslator{}
	a := New(f)
	require.NoError(t, a.Flush())
	assert.Empty(t, f.output)
}

func TestAccumulatorMacroLineFlushesFirst(t *testing.T) {
	f := &fakeTranslator{}
	a := New(f)
	a.AppendText("paragraph text\n", lexer.SourceRef{Line: 1})
	require.NoError(t, a.BeginMacroLine())
	assert.Equal(t, []string{"paragraph text\n"}, f.output)
}

func TestAccumulatorForceNoWrapOverridesYesMode(t *testing.T) {
	var gotWrap bool
	f := &fakeTranslator{translate: func(msgid string, wrap bool, comment string) string {
		gotWrap = wrap
		return msgid
	}}
	a := New(f)
	a.ForceNoWrap = true
	a.AppendText("plain paragraph\n", lexer.SourceRef{Line: 1})
	assert.Equal(t, Yes, a.Mode)
	require.NoError(t, a.Flush())
	assert.False(t, gotWrap)
}
