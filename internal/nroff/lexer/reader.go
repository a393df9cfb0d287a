package lexer

import (
	"regexp"
	"strings"

	"github.com/foxcpp/po4man/internal/nroff/argsplit"
)

// Line is one logical line assembled from one or more physical lines,
// ready for the paragraph accumulator or macro dispatch.
type Line struct {
	Text    string // ends in "\n"
	Ref     SourceRef
	Comment string // trailing comment attached to this same line, if any
	IsMacro bool
}

// Reader implements the line-level tokenizer of §4.1: it reconstructs
// logical lines from physical ones, normalizes escapes, strips comments,
// and expands the single/alternating font macros into inline \f…
// escapes.
type Reader struct {
	Source *PushbackSource

	// PendingComments accumulates comment text from macro-only or blank
	// lines; it belongs to the paragraph that follows, not the one that
	// precedes it (§3).
	PendingComments []string

	// OnWarnGenerator is invoked (if non-nil) when a non-fatal generator
	// marker is detected in a comment.
	OnWarnGenerator func(tool string, ref SourceRef)
}

// NewReader wraps src with the logical-line reconstruction described in §4.1.
func NewReader(src *PushbackSource) *Reader {
	return &Reader{Source: src}
}

var (
	reFontWhitespace = regexp.MustCompile(`^(\\f(?:\[[^\]]*\]|\([A-Za-z0-9]{2}|[A-Za-z0-9]))(\s+)`)
	alternatingMacros = map[string]bool{"BI": true, "BR": true, "IB": true, "IR": true, "RB": true, "RI": true}
	singleFontMacros  = map[string]bool{"B": true, "I": true}
	sectionBreakMacros = map[string]bool{".SH": true, ".TP": true, ".P": true, ".PP": true, ".LP": true}
)

// NextLine returns the next logical line, or ok=false at EOF.
func (r *Reader) NextLine() (Line, bool, error) {
	for {
		phys, ok := r.Source.ShiftLine()
		if !ok {
			return Line{}, false, nil
		}

		if strings.HasPrefix(phys.Text, ".if") || strings.HasPrefix(phys.Text, ".ie") || strings.HasPrefix(phys.Text, ".de") {
			return Line{Text: phys.Text + "\n", Ref: phys.Ref, IsMacro: true}, true, nil
		}

		text := phys.Text
		isMacro := len(text) > 0 && (text[0] == '.' || text[0] == '\'')
		if isMacro {
			text = strings.ReplaceAll(text, `\\`, `\`)
		}
		text = strings.ReplaceAll(text, `\\`, `\e`)
		text = strings.ReplaceAll(text, `\.`, `.`)

		code, comment, hasComment := splitComment(text)
		if hasComment {
			if tool, fatal := classifyGenerator(comment); tool != "" {
				if fatal {
					return Line{}, false, &GeneratedFileError{Tool: tool, Ref: phys.Ref}
				}
				if r.OnWarnGenerator != nil {
					r.OnWarnGenerator(tool, phys.Ref)
				}
			}
			trimmed := strings.TrimSpace(code)
			if trimmed == "" || trimmed == "." || trimmed == "'" {
				if strings.TrimSpace(comment) != "" {
					r.PendingComments = append(r.PendingComments, comment)
				}
				continue
			}
			text = code
		}

		line, merged, err := r.resolveContinuations(text, phys.Ref, isMacro)
		if err != nil {
			return Line{}, false, err
		}
		if merged {
			// the orphan line was replaced wholesale by a reprocessed
			// successor; line already carries its own trailing "\n".
			line.Comment = comment
			return line, true, nil
		}
		text = line.Text

		if isMacro {
			if expanded, ok := expandFontMacro(text); ok {
				text = expanded
				isMacro = false
			}
		}

		text = reFontWhitespace.ReplaceAllString(text, "$2$1")
		return Line{Text: text + "\n", Ref: phys.Ref, Comment: comment, IsMacro: isMacro}, true, nil
	}
}

// splitComment splits off a trailing comment introduced by an unescaped
// \" or \#. Assumes \\ has already been normalized to \e, so a literal
// \" or \# unambiguously introduces a comment.
func splitComment(text string) (code, comment string, hasComment bool) {
	idx := -1
	for _, marker := range []string{`\"`, `\#`} {
		if i := strings.Index(text, marker); i >= 0 && (idx == -1 || i < idx) {
			idx = i
		}
	}
	if idx == -1 {
		return text, "", false
	}
	return text[:idx], text[idx+2:], true
}

func classifyGenerator(comment string) (tool string, fatal bool) {
	for _, g := range fatalGenerators {
		if strings.Contains(comment, g) {
			return g, true
		}
	}
	for _, g := range warnGenerators {
		if strings.Contains(comment, g) {
			return g, false
		}
	}
	return "", false
}

// resolveContinuations implements step 5 of §4.1: trailing-backslash joins
// and the orphan .B/.I rules. merged=true means the returned line already
// fully replaces what would otherwise have been produced for this
// physical line (used by the "section-break" orphan rule, which abandons
// the orphan macro and reprocesses its successor from scratch).
func (r *Reader) resolveContinuations(text string, ref SourceRef, isMacro bool) (Line, bool, error) {
	for {
		if strings.HasSuffix(text, `\`) {
			next, ok := r.Source.ShiftLine()
			if !ok {
				return Line{}, false, &DanglingContinuationError{Ref: ref}
			}
			text = strings.TrimSuffix(text, `\`) + next.Text
			continue
		}

		trimmed := strings.TrimSpace(text)
		if !isMacro || !(trimmed == ".B" || trimmed == ".I") {
			return Line{Text: text}, false, nil
		}

		font := trimmed[1:]
		next, ok := r.Source.ShiftLine()
		if !ok {
			return Line{}, false, &OrphanMacroError{Macro: trimmed, Ref: ref}
		}
		nextTrimmed := strings.TrimSpace(next.Text)
		nextMacroName := macroNameOf(nextTrimmed)

		switch {
		case singleFontMacros[nextMacroName] || alternatingMacros[nextMacroName]:
			text = "." + font + nextMacroName + strings.TrimPrefix(nextTrimmed, "."+nextMacroName)
		case sectionBreakMacros[nextTrimmed] || sectionBreakMacroWithArgs(nextTrimmed):
			r.Source.Unshift(PhysicalLine{Text: `\f` + font + next.Text, Ref: next.Ref})
			inner, ok, err := r.NextLine()
			return inner, true, combineErr(ok, err)
		case strings.HasPrefix(nextTrimmed, `.IP "`):
			quoteEnd := strings.Index(nextTrimmed[5:], `"`)
			if quoteEnd < 0 {
				return Line{}, false, &OrphanMacroError{Macro: trimmed, NextLine: next.Text, Ref: ref}
			}
			insertAt := 5 + quoteEnd
			text = nextTrimmed[:insertAt] + `\f` + font + nextTrimmed[insertAt:]
		case strings.HasPrefix(nextTrimmed, "."), strings.HasPrefix(nextTrimmed, "'"):
			return Line{}, false, &OrphanMacroError{Macro: trimmed, NextLine: next.Text, Ref: ref}
		default:
			escaped := strings.ReplaceAll(next.Text, `"`, `\(dq`)
			text = trimmed + ` "` + escaped + `"`
		}
	}
}

func combineErr(ok bool, err error) error {
	if !ok && err == nil {
		return nil
	}
	return err
}

func macroNameOf(trimmed string) string {
	if len(trimmed) == 0 || trimmed[0] != '.' {
		return ""
	}
	name, _, _ := strings.Cut(trimmed[1:], " ")
	return name
}

func sectionBreakMacroWithArgs(trimmed string) bool {
	name := macroNameOf(trimmed)
	return name != "" && sectionBreakMacros["."+name]
}

// expandFontMacro converts a `.B`/`.I`/alternating macro line (e.g.
// ".BI foo bar baz") into its inline font-escape equivalent (e.g.
// "\fBfoo\fIbar\fBbaz\fR"), per the "Font-macro expansion" rule of §4.1.
func expandFontMacro(code string) (string, bool) {
	if len(code) == 0 || code[0] != '.' {
		return "", false
	}
	name, rest, _ := strings.Cut(code[1:], " ")
	if !singleFontMacros[name] && !alternatingMacros[name] {
		return "", false
	}
	args, err := argsplit.Split(strings.TrimSpace(rest))
	if err != nil {
		return "", false
	}

	if len(name) == 1 {
		return `\f` + name + strings.Join(args, " ") + `\fR`, true
	}

	if len(args) == 0 {
		// Matches the reference implementation's quirk: a bare alternating
		// macro with no arguments still opens with the *second* font.
		return `\f` + string(name[1]) + `\fR`, true
	}
	var b strings.Builder
	for i, a := range args {
		b.WriteString(`\f`)
		b.WriteByte(name[i%2])
		b.WriteString(a)
	}
	b.WriteString(`\fR`)
	return b.String(), true
}
