// Package transform implements the pre- and post-translation string
// transforms of §4.4/§4.5: the font-stack engine runs inside these, and
// everything else massages nroff escapes into (and back out of) the
// surface markup a translator sees in the catalog.
package transform

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/foxcpp/po4man/internal/nroff/font"
)

// NBSP is the internal sentinel standing in for a non-breaking space while
// a string is threaded through the splitter and the transforms; restored
// to its charset-specific output form by PostTranslate.
const NBSP = "\xA0"

// ErrUnhandledContinuation is returned when \c appears in translatable
// text; po4man does not implement the no-newline continuation protocol.
var ErrUnhandledContinuation = fmt.Errorf(`\c is not supported in translatable text`)

var (
	poInlineRegex = regexp.MustCompile(`PO4A-INLINE:(.*?):PO4A-INLINE`)
	trailingPunct = regexp.MustCompile(`([.,;:)\]]+)$`)
)

// Options controls the mdoc-sensitive branches of the transforms.
type Options struct {
	Mdoc bool
}

// PreTranslate converts a line of nroff source into the string handed to
// the translation catalog, per §4.4. Leading newlines stripped from text
// are returned separately in leading so the caller can push them straight
// to the output stream instead of letting an empty or newline-only msgid
// reach the catalog.
func PreTranslate(s *font.Stack, text string, opts Options) (leading, msgid string, err error) {
	if strings.Contains(text, `\c`) {
		return "", "", ErrUnhandledContinuation
	}

	text = strings.ReplaceAll(text, ">", "E<gt>")
	text = strings.ReplaceAll(text, "<", "E<lt>")
	text = strings.ReplaceAll(text, "EE<lt>gt>", "E<gt>")

	text = poInlineRegex.ReplaceAllStringFunc(text, func(m string) string {
		sub := poInlineRegex.FindStringSubmatch(m)[1]
		if opts.Mdoc {
			if loc := trailingPunct.FindStringIndex(sub); loc != nil {
				punct := sub[loc[0]:loc[1]]
				return "E<" + sub[:loc[0]] + ">" + punct
			}
		}
		return "E<" + sub + ">"
	})

	text = s.Transform(text)

	var lead strings.Builder
	for strings.HasPrefix(text, "\n") {
		lead.WriteByte('\n')
		text = text[1:]
	}

	if !opts.Mdoc {
		text = strings.ReplaceAll(text, `\-`, "-")
		text = strings.ReplaceAll(text, `\*(lq`, "``")
		text = strings.ReplaceAll(text, `\*(rq`, "''")
		text = strings.ReplaceAll(text, `\(dq`, `"`)
	}

	text = strings.ReplaceAll(text, NBSP, `\ `)

	return lead.String(), text, nil
}
