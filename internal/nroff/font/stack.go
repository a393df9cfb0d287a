// Package font implements the font-stack engine: it tracks the current,
// previous and regular font slots and rewrites inline \f… escapes into the
// compact surface markup (B<…>, I<…>, R<…>, CW<…>) a translator sees.
package font

import (
	"regexp"
	"strings"
)

// Font is the internal name of a font selector: a bare letter ("B", "I",
// "R"), a parenthesized two-letter combination ("(BI"), a bracketed named
// font ("[Symbol]"), or the internal constant-width alias "(CW".
type Font string

const (
	Regular      Font = "R"
	Bold         Font = "B"
	Italic       Font = "I"
	ConstantWidth Font = "(CW"
)

// escapeRegex matches the selector text of a \f… escape: a bracketed name,
// a parenthesized two-character combination, or a single character.
var escapeRegex = regexp.MustCompile(`\\f(\[[^\]]*\]|\([A-Za-z0-9]{2}|[A-Za-z0-9])`)

// numberedFonts maps the legacy \f1-\f4 escapes to their named equivalents.
var numberedFonts = map[byte]Font{'1': Regular, '2': Italic, '3': Bold, '4': Font("(BI")}

// surfaceTag maps a surface-marked font to the letters used in B<…>/I<…>/R<…>/CW<…>.
var surfaceTag = map[Font]string{Bold: "B", Italic: "I", Regular: "R", ConstantWidth: "CW"}

// Stack holds the three named font slots of §3: current, previous and
// regular. Updated by \f… escapes, .ft, and the section-heading macros
// that set regular=B for the duration of their argument.
type Stack struct {
	Current  Font
	Previous Font
	Regular  Font
}

// New returns a Stack with all three slots set to regular.
func New(regular Font) *Stack {
	return &Stack{Current: regular, Previous: regular, Regular: regular}
}

// ApplySelector updates Current/Previous according to the selector text
// that followed \f (not including the \f itself), per the rules in §4.3:
// \fP, \f[], \f[P] swap with previous; \f1-\f4 map to named fonts; a
// single letter selects that letter; two letters select "(XX"; a
// bracketed name selects "[name]" verbatim.
func (s *Stack) ApplySelector(raw string) {
	switch {
	case raw == "" || raw == "P" || raw == "[]" || raw == "[P]":
		s.Current, s.Previous = s.Previous, s.Current
	case strings.HasPrefix(raw, "["):
		s.set(Font(raw))
	case strings.HasPrefix(raw, "("):
		s.set(Font(raw))
	case len(raw) == 1 && raw[0] >= '1' && raw[0] <= '4':
		s.set(numberedFonts[raw[0]])
	default:
		s.set(Font(raw))
	}
}

func (s *Stack) set(f Font) {
	s.Previous = s.Current
	s.Current = f
}

type fragment struct {
	sel  Font
	text string
}

// splitOnEscapes prepends the current state so that the first fragment
// always carries an explicit selector, then splits s on every recognized
// \f… escape, resolving each selector against a running copy of the stack.
func (s *Stack) splitOnEscapes(text string) []fragment {
	prefixed := `\f` + string(s.Previous) + `\f` + string(s.Current) + text
	matches := escapeRegex.FindAllStringSubmatchIndex(prefixed, -1)
	if len(matches) == 0 {
		return []fragment{{sel: s.Current, text: text}}
	}

	temp := Stack{Current: s.Current, Previous: s.Previous, Regular: s.Regular}
	fragments := make([]fragment, 0, len(matches))
	for i, m := range matches {
		raw := prefixed[m[2]:m[3]]
		temp.ApplySelector(raw)
		start := m[1]
		end := len(prefixed)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		fragments = append(fragments, fragment{sel: temp.Current, text: prefixed[start:end]})
	}
	return fragments
}

// merge collapses consecutive fragments sharing the same selector and
// elides fragments left with no text.
func merge(fragments []fragment) []fragment {
	var out []fragment
	for _, f := range fragments {
		if n := len(out); n > 0 && out[n-1].sel == f.sel {
			out[n-1].text += f.text
			continue
		}
		out = append(out, f)
	}
	kept := out[:0]
	for _, f := range out {
		if f.text != "" {
			kept = append(kept, f)
		}
	}
	return kept
}

// Transform applies the font-stack engine to a paragraph-level string,
// rewriting every \f… escape for B/I/R/CW into surface markup and
// collapsing redundant selectors, per §4.3. Afterwards the receiver's
// Current is the regular font; when text ended in another font, that font
// becomes Previous.
func (s *Stack) Transform(text string) string {
	fragments := merge(s.splitOnEscapes(text))

	var out strings.Builder
	for _, f := range fragments {
		switch {
		case f.sel == s.Regular:
			out.WriteString(f.text)
		case surfaceTag[f.sel] != "":
			out.WriteString(surfaceTag[f.sel])
			out.WriteByte('<')
			out.WriteString(f.text)
			out.WriteByte('>')
		default:
			out.WriteString(`\f`)
			out.WriteString(string(f.sel))
			out.WriteString(f.text)
		}
	}

	if len(fragments) > 0 {
		s.Current = fragments[len(fragments)-1].sel
	}
	if s.Current != s.Regular {
		s.Previous = s.Current
		s.Current = s.Regular
	}
	return out.String()
}
