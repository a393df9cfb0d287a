package parser

import (
	"strings"

	"github.com/foxcpp/po4man/internal/nroff/argsplit"
	"github.com/foxcpp/po4man/internal/nroff/font"
	"github.com/foxcpp/po4man/internal/nroff/lexer"
	"github.com/foxcpp/po4man/internal/nroff/macro"
	"github.com/foxcpp/po4man/internal/nroff/transform"
)

// headerBanner is emitted exactly once, immediately before the first .TH
// or .Dd, per the ordering rule of §5.
const headerBanner = `.\" This file was generated by po4man; translate its source document instead.`

func (p *Parser) structuralHandlers() map[string]func(rest string, ref lexer.SourceRef) error {
	return map[string]func(rest string, ref lexer.SourceRef) error{
		"TH":  p.handleTH,
		"Dd":  p.handleDd,
		"SH":  func(rest string, ref lexer.SourceRef) error { return p.handleSectionHeading("SH", rest, ref) },
		"SS":  func(rest string, ref lexer.SourceRef) error { return p.handleSectionHeading("SS", rest, ref) },
		"TP":  p.handleTP,
		"IP":  p.handleIP,
		"UR":  p.handleUR,
		"UE":  p.handleUE,
		"UN":  p.handleUN,
		"de":  p.handleDe,
		"ie":  func(rest string, ref lexer.SourceRef) error { return p.handleIeIf("ie", rest, ref) },
		"if":  func(rest string, ref lexer.SourceRef) error { return p.handleIeIf("if", rest, ref) },
		"ds":  p.handleDs,
		"ig":  p.handleIg,
		"ta":  p.handleTa,
		"TS":  p.handleTS,
		"so":  p.handleInclude,
		"mso": p.handleInclude,
		"ft":  p.handleFt,
	}
}

func (p *Parser) emitHeaderBannerOnce() {
	if p.headerEmitted {
		return
	}
	p.headerEmitted = true
	p.Acc.Translator.PushOutput(headerBanner + "\n")
}

// handleTH emits the header banner, translates title/date/source/manual
// (preserving the section number untranslated), and turns off mdoc mode.
func (p *Parser) handleTH(rest string, ref lexer.SourceRef) error {
	if err := p.Acc.Flush(); err != nil {
		return err
	}
	p.emitHeaderBannerOnce()
	p.mdoc = false
	p.active = p.manTable

	args, err := argsplit.Split(rest)
	if err != nil {
		return &ArgumentShapeError{Macro: "TH", Detail: err.Error(), Ref: ref}
	}
	for i, a := range args {
		if i == 1 {
			continue // section number: preserved untranslated
		}
		translated, err := p.translateArgument(a, "TH", ref)
		if err != nil {
			return err
		}
		args[i] = translated
	}
	p.Acc.Translator.PushOutput(".TH " + argsplit.Join(args) + "\n")
	return nil
}

// handleDd activates mdoc mode, installs the mdoc table, emits the
// header banner, and translates the date argument.
func (p *Parser) handleDd(rest string, ref lexer.SourceRef) error {
	if err := p.Acc.Flush(); err != nil {
		return err
	}
	p.emitHeaderBannerOnce()
	p.mdoc = true
	p.active = p.mdocTable

	translated, err := p.translateArgument(rest, "Dd", ref)
	if err != nil {
		return err
	}
	p.Acc.Translator.PushOutput(".Dd " + translated + "\n")
	return nil
}

func (p *Parser) translateArgument(arg, msgType string, ref lexer.SourceRef) (string, error) {
	if arg == "" {
		return arg, nil
	}
	_, msgid, err := transform.PreTranslate(p.Font, arg, transform.Options{Mdoc: p.mdoc})
	if err != nil {
		return "", err
	}
	out, err := p.Acc.Translator.Translate(msgid, ref, msgType, false, "")
	if err != nil {
		return "", err
	}
	return transform.PostTranslate(out, transform.Options{Mdoc: p.mdoc})
}

// handleSectionHeading implements .SH/.SS: translate the joined argument
// if present on this line; otherwise consume the next line (unless it is
// itself a macro, in which case put it back untouched) and translate
// that. Runs the font stack with regular=B for the duration, per §4.4.
func (p *Parser) handleSectionHeading(name, rest string, ref lexer.SourceRef) error {
	if err := p.Acc.Flush(); err != nil {
		return err
	}

	if rest != "" {
		return p.emitTranslatedHeading(name, rest, ref)
	}

	next, ok, err := p.Reader.NextLine()
	if err != nil {
		return err
	}
	if !ok {
		p.Acc.Translator.PushOutput("." + name + "\n")
		return nil
	}
	if next.IsMacro {
		p.Reader.Source.Unshift(lexer.PhysicalLine{Text: strings.TrimSuffix(next.Text, "\n"), Ref: next.Ref})
		p.Acc.Translator.PushOutput("." + name + "\n")
		return nil
	}
	return p.emitTranslatedHeading(name, strings.TrimSuffix(next.Text, "\n"), ref)
}

func (p *Parser) emitTranslatedHeading(name, arg string, ref lexer.SourceRef) error {
	saved := *p.Font
	*p.Font = *font.New(font.Bold)
	out, err := p.translateArgument(arg, name, ref)
	*p.Font = saved
	if err != nil {
		return err
	}
	p.Acc.Translator.PushOutput("." + name + " " + out + "\n")
	return nil
}

// handleTP emits the macro verbatim, absorbs any immediately-following
// .PD lines verbatim, then either inline-registers a following inline
// macro tag with its translated argument, puts any other macro line back
// for the dispatcher, or translates a following text tag with
// wrap=false, resetting the font stack to regular between tag and body.
func (p *Parser) handleTP(rest string, ref lexer.SourceRef) error {
	if err := p.Acc.Flush(); err != nil {
		return err
	}
	p.Acc.Translator.PushOutput(".TP " + rest + "\n")

	for {
		next, ok, err := p.Reader.NextLine()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		nextTrimmed := strings.TrimSuffix(next.Text, "\n")
		name, nrest := macroNameAndRest(nextTrimmed)
		if next.IsMacro && name == "PD" {
			p.Acc.Translator.PushOutput(nextTrimmed + "\n")
			continue
		}
		if e, found := p.active.Lookup(name); next.IsMacro && (!found || e.Variant != macro.Inline) {
			p.Reader.Source.Unshift(lexer.PhysicalLine{Text: nextTrimmed, Ref: next.Ref})
		} else if next.IsMacro {
			out, err := p.translateArgument(nrest, name, next.Ref)
			if err != nil {
				return err
			}
			p.Acc.Translator.PushOutput("." + name + " " + out + "\n")
		} else {
			_, msgid, err := transform.PreTranslate(p.Font, nextTrimmed, transform.Options{Mdoc: p.mdoc})
			if err != nil {
				return err
			}
			out, err := p.Acc.Translator.Translate(msgid, next.Ref, "tag", false, "")
			if err != nil {
				return err
			}
			post, err := transform.PostTranslate(out, transform.Options{Mdoc: p.mdoc})
			if err != nil {
				return err
			}
			p.Acc.Translator.PushOutput(post + "\n")
		}
		p.Font.Current = p.Font.Regular
		p.Font.Previous = p.Font.Regular
		return nil
	}
}

// handleIP translates the tag argument, if present, preserving any
// indent value that follows it.
func (p *Parser) handleIP(rest string, ref lexer.SourceRef) error {
	if err := p.Acc.Flush(); err != nil {
		return err
	}
	args, err := argsplit.Split(rest)
	if err != nil {
		return &ArgumentShapeError{Macro: "IP", Detail: err.Error(), Ref: ref}
	}
	if len(args) == 0 {
		p.Acc.Translator.PushOutput(".IP\n")
		return nil
	}
	translated, err := p.translateArgument(args[0], "IP", ref)
	if err != nil {
		return err
	}
	args[0] = translated
	p.Acc.Translator.PushOutput(".IP " + argsplit.Join(args) + "\n")
	return nil
}

// handleUR implements .UR/.UE/.UN: .UR with argument ":" is untranslated;
// otherwise the joined argument is translated. .UE takes no argument.
func (p *Parser) handleUR(rest string, ref lexer.SourceRef) error {
	if err := p.Acc.Flush(); err != nil {
		return err
	}
	if rest == ":" {
		p.Acc.Translator.PushOutput(".UR :\n")
		return nil
	}
	return p.emitTranslatedJoined("UR", rest, ref)
}

func (p *Parser) handleUE(rest string, ref lexer.SourceRef) error {
	return p.flushAndEmit(".UE " + rest)
}

func (p *Parser) handleUN(rest string, ref lexer.SourceRef) error {
	return p.emitTranslatedJoined("UN", rest, ref)
}

func (p *Parser) emitTranslatedJoined(name, rest string, ref lexer.SourceRef) error {
	out, err := p.translateArgument(rest, name, ref)
	if err != nil {
		return err
	}
	p.Acc.Translator.PushOutput("." + name + " " + out + "\n")
	return nil
}

// handleDe, handleIeIf implement the groff_code policy of §4.7: fail
// aborts, verbatim passes the block through unchanged, translate
// accumulates it as one wrap=false unit of type "groff code". .ie also
// consumes its .el counterpart into the same block.
func (p *Parser) handleDe(rest string, ref lexer.SourceRef) error {
	return p.handleGroffBlock(".de "+rest, "de", ref, func(line string) bool {
		return strings.TrimSpace(line) == ".."
	})
}

func (p *Parser) handleIeIf(name, rest string, ref lexer.SourceRef) error {
	return p.handleGroffBlock("."+name+" "+rest, name, ref, braceBalanced)
}

func braceBalanced(line string) bool {
	return !strings.Contains(line, "\\{")
}

func (p *Parser) handleGroffBlock(firstLine, msgType string, ref lexer.SourceRef, isEnd func(string) bool) error {
	switch p.opts.GroffCode {
	case GroffCodeFail:
		return &UnsupportedConstructError{Macro: msgType, Ref: ref}
	case GroffCodeVerbatim:
		if err := p.Acc.Flush(); err != nil {
			return err
		}
		p.Acc.Translator.PushOutput(firstLine + "\n")
		for {
			line, ok, err := p.Reader.NextLine()
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			p.Acc.Translator.PushOutput(line.Text)
			if isEnd(strings.TrimSuffix(line.Text, "\n")) {
				return nil
			}
		}
	default: // GroffCodeTranslate
		if err := p.Acc.Flush(); err != nil {
			return err
		}
		var block strings.Builder
		block.WriteString(firstLine)
		block.WriteString("\n")
		for {
			line, ok, err := p.Reader.NextLine()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			block.WriteString(line.Text)
			if isEnd(strings.TrimSuffix(line.Text, "\n")) {
				break
			}
		}
		msgid := block.String()
		out, err := p.Acc.Translator.Translate(msgid, ref, "groff code", false, "")
		if err != nil {
			return err
		}
		p.Acc.Translator.PushOutput(out)
		return nil
	}
}

// handleDs translates the value argument; the catalog type names the
// variable so cross-references remain findable.
func (p *Parser) handleDs(rest string, ref lexer.SourceRef) error {
	if err := p.Acc.Flush(); err != nil {
		return err
	}
	name, value, _ := strings.Cut(rest, " ")
	translated, err := p.translateArgument(value, "ds "+name, ref)
	if err != nil {
		return err
	}
	p.Acc.Translator.PushOutput(".ds " + name + " " + translated + "\n")
	return nil
}

// handleIg consumes lines verbatim until ".<end>." (".." when no
// argument is given) and passes them through unchanged.
func (p *Parser) handleIg(rest string, ref lexer.SourceRef) error {
	if err := p.Acc.Flush(); err != nil {
		return err
	}
	end := "." + strings.TrimSpace(rest) + "."
	if strings.TrimSpace(rest) == "" {
		end = ".."
	}
	p.Acc.Translator.PushOutput(".ig " + rest + "\n")
	for {
		line, ok, err := p.Reader.NextLine()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		p.Acc.Translator.PushOutput(line.Text)
		if strings.TrimSpace(strings.TrimSuffix(line.Text, "\n")) == end {
			return nil
		}
	}
}

// handleTa translates the tab-specification argument string (it may
// contain translatable text alongside tab stop numbers).
func (p *Parser) handleTa(rest string, ref lexer.SourceRef) error {
	return p.emitTranslatedJoined("ta", rest, ref)
}

// handleTS emits the table header verbatim until the terminator line
// (one ending in "."), then translates each data row cell-by-cell,
// splitting and rejoining on literal tab characters.
func (p *Parser) handleTS(rest string, ref lexer.SourceRef) error {
	if err := p.Acc.Flush(); err != nil {
		return err
	}
	p.Acc.Translator.PushOutput(".TS " + rest + "\n")
	for {
		line, ok, err := p.Reader.NextLine()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		p.Acc.Translator.PushOutput(line.Text)
		if strings.HasSuffix(strings.TrimRight(line.Text, "\n"), ".") {
			break
		}
	}
	for {
		line, ok, err := p.Reader.NextLine()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		trimmed := strings.TrimSuffix(line.Text, "\n")
		if strings.TrimSpace(trimmed) == ".TE" {
			p.Acc.Translator.PushOutput(".TE\n")
			return nil
		}
		cells := strings.Split(trimmed, "\t")
		for i, cell := range cells {
			_, msgid, err := transform.PreTranslate(p.Font, cell, transform.Options{Mdoc: p.mdoc})
			if err != nil {
				return err
			}
			out, err := p.Acc.Translator.Translate(msgid, line.Ref, "tbl table", false, "")
			if err != nil {
				return err
			}
			post, err := transform.PostTranslate(out, transform.Options{Mdoc: p.mdoc})
			if err != nil {
				return err
			}
			cells[i] = post
		}
		p.Acc.Translator.PushOutput(strings.Join(cells, "\t") + "\n")
	}
}

// handleInclude fails: file inclusion (.so/.mso) is not supported.
func (p *Parser) handleInclude(rest string, ref lexer.SourceRef) error {
	return &UnsupportedConstructError{Macro: "so/mso", Ref: ref}
}

// handleFt updates the font stack's current slot, defaulting to the
// previous font when no argument is given (mirroring \fP).
func (p *Parser) handleFt(rest string, ref lexer.SourceRef) error {
	if err := p.Acc.Flush(); err != nil {
		return err
	}
	p.Font.ApplySelector(strings.TrimSpace(rest))
	p.Acc.Translator.PushOutput(".ft " + rest + "\n")
	return nil
}
