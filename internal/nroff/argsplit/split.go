// Package argsplit tokenizes the argument string of a nroff macro
// invocation, honoring double-quote grouping, doubled-quote escapes, and
// trailing-backslash joins.
package argsplit

import (
	"errors"
	"strings"
)

// ErrDanglingBackslash is returned when the argument string ends in a
// backslash with nothing following it.
var ErrDanglingBackslash = errors.New("argsplit: dangling backslash at end of input")

// nbspSentinel is substituted for a non-breaking space before splitting and
// restored in each emitted argument afterwards, so that a non-breaking
// space inside an argument never looks like an argument separator.
const nbspSentinel = "\x00PO4MAN-NBSP\x00"

// Split tokenizes s on unquoted runs of spaces. A double-quoted region is
// one argument; "" inside a quoted region is a literal " (emitted as
// \(dq); a trailing backslash on a token joins it to the next token with a
// single escaped space between them.
func Split(s string) ([]string, error) {
	s = strings.ReplaceAll(s, "\xA0", nbspSentinel)

	var args []string
	var cur strings.Builder
	haveCur := false
	inQuotes := false
	runes := []rune(s)

	flush := func() {
		if haveCur {
			args = append(args, strings.ReplaceAll(cur.String(), nbspSentinel, "\xA0"))
			cur.Reset()
			haveCur = false
		}
	}

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case inQuotes && c == '"':
			if i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteString(`\(dq`)
				haveCur = true
				i++
				continue
			}
			inQuotes = false
			haveCur = true
		case !inQuotes && c == '"' && !haveCur:
			inQuotes = true
			haveCur = true
		case !inQuotes && c == ' ':
			flush()
		case c == '\\' && i == len(runes)-1:
			return nil, ErrDanglingBackslash
		case !inQuotes && c == '\\' && i+1 < len(runes) && runes[i+1] == ' ':
			cur.WriteByte(' ')
			haveCur = true
			i++
		default:
			cur.WriteRune(c)
			haveCur = true
		}
	}
	flush()
	return args, nil
}

// Join rebuilds an argument string suitable for re-splitting, quoting any
// argument that contains whitespace.
func Join(args []string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if strings.ContainsAny(a, " \t") {
			parts[i] = `"` + strings.ReplaceAll(a, `"`, `""`) + `"`
		} else {
			parts[i] = a
		}
	}
	return strings.Join(parts, " ")
}
