// Command po4man converts between nroff/mdoc man pages and translatable
// message catalogs, in either direction: extracting a catalog from an
// untranslated page, or applying a translated catalog back onto one.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/foxcpp/po4man/catalog"
	"github.com/foxcpp/po4man/internal/nroff/lexer"
	"github.com/foxcpp/po4man/internal/nroff/macro"
	"github.com/foxcpp/po4man/internal/nroff/parser"
)

func main() {
	cfg := parseFlags()
	if err := NewApp(cfg).Run(); err != nil {
		die(err)
	}
}

// =====================================================================================
// Config & CLI
// =====================================================================================

type Config struct {
	mode     string
	input    string
	poPath   string
	locale   string
	groff    string
	noWrap   bool

	untranslated    string
	noArg           string
	translateJoined string
	translateEach   string
	inline          string

	debug   bool
	verbose bool
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.mode, "mode", "extract", "Operation mode: extract or translate")
	flag.StringVar(&cfg.input, "input", "", "Path to the nroff/mdoc source (default stdin)")
	flag.StringVar(&cfg.poPath, "po", "", "Path to the sqlite-backed catalog store")
	flag.StringVar(&cfg.locale, "locale", "", "Locale to apply in translate mode")
	flag.StringVar(&cfg.groff, "groff-code", "fail", "Policy for .de/.ie/.if blocks: fail, verbatim, translate")
	flag.BoolVar(&cfg.noWrap, "no-wrap", false, "Force wrap=NO for every extracted paragraph")
	flag.StringVar(&cfg.untranslated, "untranslated", "", "Comma-separated macros to register as Untranslated")
	flag.StringVar(&cfg.noArg, "noarg", "", "Comma-separated macros to register as NoArg")
	flag.StringVar(&cfg.translateJoined, "translate-joined", "", "Comma-separated macros to register as TranslateJoined")
	flag.StringVar(&cfg.translateEach, "translate-each", "", "Comma-separated macros to register as TranslateEach")
	flag.StringVar(&cfg.inline, "inline", "", "Comma-separated macros to register as Inline")
	flag.BoolVar(&cfg.debug, "debug", false, "Log the macro override options before running")
	flag.BoolVar(&cfg.verbose, "v", false, "Verbose logging")
	flag.Parse()
	return cfg
}

// =====================================================================================
// App wiring
// =====================================================================================

type App struct {
	cfg Config
}

func NewApp(cfg Config) *App {
	return &App{cfg: cfg}
}

func (a *App) Run() error {
	store, err := a.openStore()
	if err != nil {
		return fmt.Errorf("open catalog store: %w", err)
	}
	if store != nil {
		defer store.Close()
	}

	locale := ""
	if a.cfg.mode == "translate" {
		locale = a.cfg.locale
	}
	// store is a typed nil when -po is unset; passed through a Backend
	// interface parameter directly it would no longer compare equal to
	// nil, so pass an explicit untyped nil instead.
	var backend catalog.Backend
	if store != nil {
		backend = store
	}
	cat := catalog.New(backend, locale)

	p, err := a.buildParser(cat)
	if err != nil {
		return err
	}

	if a.cfg.verbose {
		log.Printf("running in %s mode (groff-code=%s)", a.cfg.mode, a.cfg.groff)
	}

	if err := p.Run(); err != nil {
		var gen *lexer.GeneratedFileError
		if errors.As(err, &gen) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(254)
		}
		return err
	}

	for _, line := range cat.Output {
		fmt.Print(line)
	}
	return nil
}

func (a *App) openStore() (*catalog.Store, error) {
	if a.cfg.poPath == "" {
		return nil, nil
	}
	return catalog.OpenStore(a.cfg.poPath)
}

func (a *App) buildParser(cat *catalog.Catalog) (*parser.Parser, error) {
	src, err := a.openInput()
	if err != nil {
		return nil, err
	}

	opts := parser.DefaultOptions()
	switch a.cfg.groff {
	case "fail":
		opts.GroffCode = parser.GroffCodeFail
	case "verbatim":
		opts.GroffCode = parser.GroffCodeVerbatim
	case "translate":
		opts.GroffCode = parser.GroffCodeTranslate
	default:
		return nil, fmt.Errorf("unknown -groff-code value %q", a.cfg.groff)
	}
	opts.ForceNoWrap = a.cfg.noWrap

	reader := lexer.NewReader(lexer.NewPushbackSource(src))
	reader.OnWarnGenerator = func(tool string, ref lexer.SourceRef) {
		log.Printf("%s: this page appears to be generated by %s", ref, tool)
	}
	p := parser.New(reader, cat, opts)
	a.applyMacroOverrides(p)
	if a.cfg.debug {
		log.Printf("macro overrides: untranslated=%q noarg=%q translate-joined=%q translate-each=%q inline=%q",
			a.cfg.untranslated, a.cfg.noArg, a.cfg.translateJoined, a.cfg.translateEach, a.cfg.inline)
	}
	return p, nil
}

func (a *App) applyMacroOverrides(p *parser.Parser) {
	overrides := []struct {
		names   string
		variant macro.Variant
	}{
		{a.cfg.untranslated, macro.Untranslated},
		{a.cfg.noArg, macro.NoArg},
		{a.cfg.translateJoined, macro.TranslateJoined},
		{a.cfg.translateEach, macro.TranslateEach},
		{a.cfg.inline, macro.Inline},
	}
	for _, o := range overrides {
		names := splitCommaList(o.names)
		if len(names) == 0 {
			continue
		}
		p.RegisterMacroOverride(names, o.variant)
	}
}

func (a *App) openInput() (lexer.LineSource, error) {
	if a.cfg.input == "" {
		return lexer.NewFileSource("<stdin>", os.Stdin), nil
	}
	f, err := os.Open(a.cfg.input)
	if err != nil {
		return nil, err
	}
	return lexer.NewFileSource(a.cfg.input, f), nil
}

func splitCommaList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func die(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
