// Package paragraph implements the paragraph accumulator of §4.6: it
// buffers consecutive text lines into one translatable unit, tracks the
// wrap-mode state machine, and arranges for comments buffered on
// macro-only or blank lines to surface immediately before the paragraph
// they were attached to.
package paragraph

import (
	"strings"

	"github.com/foxcpp/po4man/internal/nroff/lexer"
)

// WrapMode is the paragraph accumulator's fill-mode state, toggled by
// .nf/.fi (and .EX/.EE, .EQ/.EN) and by indentation within a paragraph.
type WrapMode int

const (
	// Yes is the default: the catalog may rewrap the paragraph on output.
	Yes WrapMode = iota
	// No means the paragraph must be emitted exactly as accumulated (set
	// by an indented continuation line within an otherwise-filled block).
	No
	// MacroNo means a .nf/.EX/.EQ block is open: lines pass through
	// verbatim and are never accumulated into a paragraph at all.
	MacroNo
)

// Translator is the catalog surface the accumulator calls into: translate
// one unit of text, and push an already-finished line straight to output.
type Translator interface {
	Translate(msgid string, ref lexer.SourceRef, msgType string, wrap bool, comment string) (string, error)
	PushOutput(line string)
}

// Accumulator implements the paragraph buffering and wrap-mode rules of
// §4.6. It holds no knowledge of macro semantics; callers invoke it from
// the structural macro handlers and the text-line dispatch loop.
type Accumulator struct {
	Translator Translator

	Mode WrapMode

	// ForceNoWrap overrides Mode when computing the wrap flag passed to
	// Translate, for callers (the -no-wrap CLI flag) that want every
	// paragraph treated as preformatted regardless of indentation.
	ForceNoWrap bool

	// PostTranslate re-expands a Translate result (still in the §4.4
	// surface form) back into nroff escapes, per §4.5. Set by the parser,
	// which is the only layer that knows the current mdoc flag; nil is
	// only valid in tests that want to inspect the raw msgstr.
	PostTranslate func(msgstr string) (string, error)

	lines    []string
	ref      lexer.SourceRef
	comments []string
}

// New returns an Accumulator in wrap mode Yes with an empty paragraph.
func New(t Translator) *Accumulator {
	return &Accumulator{Translator: t, Mode: Yes}
}

// PushComment buffers a comment that appeared on a macro-only or blank
// line; it is emitted as a ".\"" line immediately before the next
// paragraph this accumulator flushes.
func (a *Accumulator) PushComment(text string) {
	a.comments = append(a.comments, text)
}

// AppendText appends one already-unescaped text line to the paragraph in
// progress, per the indentation rule of §4.6: a line starting with
// whitespace followed by a non-space, non-dot character demotes Yes to
// No (it signals pre-formatted content inside an otherwise filled
// paragraph).
func (a *Accumulator) AppendText(text string, ref lexer.SourceRef) {
	if len(a.lines) == 0 {
		a.ref = ref
	}
	if a.Mode == Yes && startsIndented(text) {
		a.Mode = No
	}
	a.lines = append(a.lines, text)
}

func startsIndented(text string) bool {
	trimmed := strings.TrimLeft(text, " \t")
	if trimmed == text || trimmed == "" {
		return false
	}
	c := trimmed[0]
	return c != '.' && c != '\''
}

// Flush translates any buffered paragraph and pushes it to output,
// prefixed by any pending comments, per §4.6's flush rule. wrap is
// derived from Mode (false when Mode is No or MacroNo). No-op if the
// paragraph is empty and there are no pending comments.
func (a *Accumulator) Flush() error {
	if len(a.lines) == 0 && len(a.comments) == 0 {
		return nil
	}

	for _, c := range a.comments {
		a.Translator.PushOutput(`.\"` + c + "\n")
	}
	a.comments = nil

	if len(a.lines) == 0 {
		a.Mode = normalizeAfterFlush(a.Mode)
		return nil
	}

	msgid := strings.Join(a.lines, "")
	out, err := a.Translator.Translate(msgid, a.ref, "paragraph", a.Mode == Yes && !a.ForceNoWrap, "")
	if err != nil {
		return err
	}
	if a.PostTranslate != nil {
		out, err = a.PostTranslate(out)
		if err != nil {
			return err
		}
	}
	a.Translator.PushOutput(out)
	a.lines = nil
	a.Mode = normalizeAfterFlush(a.Mode)
	return nil
}

func normalizeAfterFlush(mode WrapMode) WrapMode {
	if mode == No {
		return Yes
	}
	return mode
}

// BeginMacroLine flushes any paragraph in progress (promoting No back to
// Yes per the flush rule) before a macro line is dispatched.
func (a *Accumulator) BeginMacroLine() error {
	return a.Flush()
}

// BeginBlank flushes the paragraph, emits the blank line, and reverts a
// No wrap mode back to Yes.
func (a *Accumulator) BeginBlank(blankLine string) error {
	// Buffered comments with no paragraph yet stay buffered for the
	// paragraph or macro line that follows the blank.
	if len(a.lines) > 0 {
		if err := a.Flush(); err != nil {
			return err
		}
	}
	a.Translator.PushOutput(blankLine)
	return nil
}

// BeginNoWrap handles a no-wrap-begin macro (.nf/.EX/.EQ): flushes,
// switches to MacroNo, and emits the macro verbatim.
func (a *Accumulator) BeginNoWrap(macroLine string) error {
	if err := a.Flush(); err != nil {
		return err
	}
	a.Mode = MacroNo
	a.Translator.PushOutput(macroLine)
	return nil
}

// EndNoWrap handles a no-wrap-end macro (.fi/.EE/.EN): restores Yes and
// emits the macro verbatim.
func (a *Accumulator) EndNoWrap(macroLine string) error {
	a.Mode = Yes
	a.Translator.PushOutput(macroLine)
	return nil
}

// PassThrough emits a line verbatim without touching the paragraph buffer
// or wrap mode; used for lines inside a MacroNo block.
func (a *Accumulator) PassThrough(line string) {
	a.Translator.PushOutput(line)
}
