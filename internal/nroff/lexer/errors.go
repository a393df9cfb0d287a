package lexer

import "fmt"

// GeneratedFileError is returned when the input carries a comment marker
// left behind by a man-page generator tool that should be translated at
// its own source instead of at the nroff level. The caller maps this to
// exit code 254.
type GeneratedFileError struct {
	Tool string
	Ref  SourceRef
}

func (e *GeneratedFileError) Error() string {
	return fmt.Sprintf("%s: this page was generated by %s; translate its source instead", e.Ref, e.Tool)
}

// OrphanMacroError is returned when an orphan .B/.I macro is followed by a
// line the continuation rules of §4.1 cannot merge it with.
type OrphanMacroError struct {
	Macro    string
	NextLine string
	Ref      SourceRef
}

func (e *OrphanMacroError) Error() string {
	return fmt.Sprintf("%s: orphan %q cannot be merged with following line %q", e.Ref, e.Macro, e.NextLine)
}

// DanglingContinuationError is returned when a line ends in a continuation
// backslash with no following physical line to merge.
type DanglingContinuationError struct {
	Ref SourceRef
}

func (e *DanglingContinuationError) Error() string {
	return fmt.Sprintf("%s: line continuation backslash with nothing to continue", e.Ref)
}

// fatalGenerators abort parsing immediately: their man pages should be
// translated at the source that generates them, not post-hoc.
var fatalGenerators = []string{"Pod::Man", "docbook-to-man", "docbook2man", "db2man.xsl"}

// warnGenerators only trigger a warning; translation proceeds.
var warnGenerators = []string{"help2man", "latex2man", "mtex2man", "DO NOT EDIT"}
