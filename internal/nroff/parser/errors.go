package parser

import (
	"fmt"

	"github.com/foxcpp/po4man/internal/nroff/lexer"
)

// UnsupportedConstructError is fatal: the construct is recognized but
// po4man does not (and, per §7, will not) translate it.
type UnsupportedConstructError struct {
	Macro string
	Ref   lexer.SourceRef
}

func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("%s: unsupported construct %q", e.Ref, e.Macro)
}

// ArgumentShapeError is fatal: a macro's arguments don't have the shape
// its handler requires.
type ArgumentShapeError struct {
	Macro  string
	Detail string
	Ref    lexer.SourceRef
}

func (e *ArgumentShapeError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Ref, e.Detail, e.Macro)
}

// UnknownMacroError is fatal: the macro table has no entry and no
// structural handler claims the name.
type UnknownMacroError struct {
	Macro string
	Ref   lexer.SourceRef
}

func (e *UnknownMacroError) Error() string {
	return fmt.Sprintf("%s: unknown macro %q", e.Ref, e.Macro)
}
