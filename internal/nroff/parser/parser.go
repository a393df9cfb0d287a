// Package parser ties the line reader, font stack, paragraph accumulator
// and macro tables together into the structural macro handlers of §4.7
// and the mdoc activation of §4.8.
package parser

import (
	"log"
	"strings"

	"github.com/foxcpp/po4man/internal/nroff/argsplit"
	"github.com/foxcpp/po4man/internal/nroff/font"
	"github.com/foxcpp/po4man/internal/nroff/lexer"
	"github.com/foxcpp/po4man/internal/nroff/macro"
	"github.com/foxcpp/po4man/internal/nroff/paragraph"
	"github.com/foxcpp/po4man/internal/nroff/transform"
)

// GroffCodePolicy selects how .de/.ie/.if blocks are handled.
type GroffCodePolicy string

const (
	GroffCodeFail     GroffCodePolicy = "fail"
	GroffCodeVerbatim GroffCodePolicy = "verbatim"
	GroffCodeTranslate GroffCodePolicy = "translate"
)

// Options configures a Parser's deviations from the default tables and
// policies (§6's configuration options).
type Options struct {
	GroffCode GroffCodePolicy
	NoWrap    macro.NoWrapSets

	// ForceNoWrap treats every paragraph as preformatted, regardless of
	// indentation, passing wrap=false to every Translate call.
	ForceNoWrap bool
}

// DefaultOptions returns the baseline configuration: groff_code=fail and
// the built-in no-wrap pairs.
func DefaultOptions() Options {
	return Options{GroffCode: GroffCodeFail, NoWrap: macro.DefaultNoWrapSets()}
}

// Parser drives one document through the full pipeline: reader → font
// stack → pre/post transform → paragraph accumulator → catalog, with
// structural macro handlers consulted by name before falling back to the
// active macro table's generic dispatch.
type Parser struct {
	Reader *lexer.Reader
	Acc    *paragraph.Accumulator
	Font   *font.Stack

	manTable  *macro.Table
	mdocTable *macro.Table
	active    *macro.Table
	mdoc      bool

	headerEmitted bool
	opts          Options
}

// RegisterMacroOverride applies a variant override to both the man and
// mdoc tables, letting a caller reclassify macros (e.g. via CLI flags)
// before a mode switch decides which table becomes active.
func (p *Parser) RegisterMacroOverride(names []string, variant macro.Variant) {
	p.manTable.RegisterList(names, variant)
	p.mdocTable.RegisterList(names, variant)
}

// New wires a Parser around an already-constructed Reader and Translator.
func New(r *lexer.Reader, t paragraph.Translator, opts Options) *Parser {
	manTable := macro.NewManTable()
	acc := paragraph.New(t)
	acc.ForceNoWrap = opts.ForceNoWrap
	p := &Parser{
		Reader:    r,
		Acc:       acc,
		Font:      font.New(font.Regular),
		manTable:  manTable,
		mdocTable: macro.NewMdocTable(),
		active:    manTable,
		opts:      opts,
	}
	// mdoc can still flip true after construction (a .Dd line activates
	// it), so this reads p.mdoc at call time rather than capturing it now.
	acc.PostTranslate = func(msgstr string) (string, error) {
		return transform.PostTranslate(msgstr, transform.Options{Mdoc: p.mdoc})
	}
	return p
}

// Run drives the reader to EOF, dispatching every logical line, and
// flushes the final paragraph.
func (p *Parser) Run() error {
	for {
		line, ok, err := p.Reader.NextLine()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if err := p.dispatch(line); err != nil {
			return err
		}
	}
	for _, c := range p.Reader.PendingComments {
		p.Acc.PushComment(c)
	}
	p.Reader.PendingComments = nil
	return p.Acc.Flush()
}

func (p *Parser) dispatch(line lexer.Line) error {
	for _, c := range p.Reader.PendingComments {
		p.Acc.PushComment(c)
	}
	p.Reader.PendingComments = nil
	if line.Comment != "" {
		p.Acc.PushComment(line.Comment)
	}

	trimmed := strings.TrimRight(line.Text, "\n")
	if strings.TrimSpace(trimmed) == "" {
		return p.Acc.BeginBlank(line.Text)
	}

	if !line.IsMacro {
		return p.dispatchText(trimmed, line.Ref)
	}
	return p.dispatchMacro(trimmed, line.Ref)
}

func (p *Parser) dispatchText(text string, ref lexer.SourceRef) error {
	if p.Acc.Mode == paragraph.MacroNo {
		p.Acc.PassThrough(text + "\n")
		return nil
	}
	opts := transform.Options{Mdoc: p.mdoc}
	lead, msgid, err := transform.PreTranslate(p.Font, text+"\n", opts)
	if err != nil {
		return err
	}
	if lead != "" {
		p.Acc.Translator.PushOutput(lead)
	}
	p.Acc.AppendText(msgid, ref)
	return nil
}

func (p *Parser) dispatchMacro(text string, ref lexer.SourceRef) error {
	name, rest := macroNameAndRest(text)

	if h, ok := p.structuralHandlers()[name]; ok {
		return h(rest, ref)
	}

	if p.opts.NoWrap.IsBegin(name) {
		return p.Acc.BeginNoWrap(text + "\n")
	}
	if p.opts.NoWrap.IsEnd(name) {
		return p.Acc.EndNoWrap(text + "\n")
	}
	if p.Acc.Mode == paragraph.MacroNo {
		p.Acc.PassThrough(text + "\n")
		return nil
	}

	entry, ok := p.active.Lookup(name)
	if !ok {
		return &UnknownMacroError{Macro: name, Ref: ref}
	}
	return p.dispatchVariant(entry, name, rest, ref)
}

func macroNameAndRest(text string) (string, string) {
	body := strings.TrimPrefix(strings.TrimPrefix(text, "."), "'")
	name, rest, _ := strings.Cut(body, " ")
	return name, strings.TrimSpace(rest)
}

func (p *Parser) dispatchVariant(e macro.Entry, name, rest string, ref lexer.SourceRef) error {
	switch e.Variant {
	case macro.Untranslated:
		return p.flushAndEmit("." + joinNameRest(name, rest))
	case macro.NoArg:
		if rest != "" {
			// warning only (§7); proceed, the argument is dropped from
			// translation but kept verbatim in the emitted line.
			log.Printf("%s: macro %q takes no arguments, got %q", ref, name, rest)
		}
		return p.flushAndEmit("." + joinNameRest(name, rest))
	case macro.TranslateJoined:
		return p.translateJoinedMacro(name, rest, ref)
	case macro.TranslateEach:
		return p.translateEachMacro(name, rest, ref, e.KeepFirstArg)
	case macro.Inline:
		marker := "PO4A-INLINE:." + joinNameRest(name, rest) + ":PO4A-INLINE"
		_, msgid, err := transform.PreTranslate(p.Font, marker, transform.Options{Mdoc: p.mdoc})
		if err != nil {
			return err
		}
		p.Acc.AppendText(msgid, ref)
		return nil
	default:
		return &UnknownMacroError{Macro: name, Ref: ref}
	}
}

func joinNameRest(name, rest string) string {
	if rest == "" {
		return name
	}
	return name + " " + rest
}

func (p *Parser) flushAndEmit(line string) error {
	if err := p.Acc.Flush(); err != nil {
		return err
	}
	p.Acc.Translator.PushOutput(line + "\n")
	return nil
}

func (p *Parser) translateJoinedMacro(name, rest string, ref lexer.SourceRef) error {
	if err := p.Acc.Flush(); err != nil {
		return err
	}
	if rest == "" {
		p.Acc.Translator.PushOutput("." + name + "\n")
		return nil
	}
	_, msgid, err := transform.PreTranslate(p.Font, rest, transform.Options{Mdoc: p.mdoc})
	if err != nil {
		return err
	}
	out, err := p.Acc.Translator.Translate(msgid, ref, name, false, "")
	if err != nil {
		return err
	}
	post, err := transform.PostTranslate(out, transform.Options{Mdoc: p.mdoc})
	if err != nil {
		return err
	}
	p.Acc.Translator.PushOutput("." + name + " " + post + "\n")
	return nil
}

func (p *Parser) translateEachMacro(name, rest string, ref lexer.SourceRef, keepFirst bool) error {
	if err := p.Acc.Flush(); err != nil {
		return err
	}
	args, err := argsplit.Split(rest)
	if err != nil {
		return &ArgumentShapeError{Macro: name, Detail: err.Error(), Ref: ref}
	}
	for i, a := range args {
		if i == 0 && keepFirst {
			continue
		}
		_, msgid, err := transform.PreTranslate(p.Font, a, transform.Options{Mdoc: p.mdoc})
		if err != nil {
			return err
		}
		out, err := p.Acc.Translator.Translate(msgid, ref, name, false, "")
		if err != nil {
			return err
		}
		post, err := transform.PostTranslate(out, transform.Options{Mdoc: p.mdoc})
		if err != nil {
			return err
		}
		args[i] = post
	}
	p.Acc.Translator.PushOutput("." + name + " " + argsplit.Join(args) + "\n")
	return nil
}
