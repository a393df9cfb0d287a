package man

import (
	"path/filepath"
	"sort"

	"github.com/bazelbuild/bazel-gazelle/config"
	"github.com/bazelbuild/bazel-gazelle/label"
	"github.com/bazelbuild/bazel-gazelle/language"
	"github.com/bazelbuild/bazel-gazelle/repo"
	"github.com/bazelbuild/bazel-gazelle/resolve"
	"github.com/bazelbuild/bazel-gazelle/rule"
	"github.com/bmatcuk/doublestar/v4"
)

// manPagePatterns match the conventional man-page source suffixes: a
// numbered section (.1 through .9; lettered variants such as .3p are not
// matched) and po4a's own ".in" template suffix for pages containing
// PO4A-INCLUDE markers processed before translation.
var manPagePatterns = []string{"*.[1-9]", "*.[1-9].in"}

func (c *manLanguage) GenerateRules(args language.GenerateArgs) language.GenerateResult {
	srcs := collectManPages(args.RegularFiles)
	if len(srcs) == 0 {
		return language.GenerateResult{}
	}

	conf := getManConfig(args.Config)

	var result language.GenerateResult
	for _, src := range srcs {
		ruleName := ruleNameForSource(src)
		r := rule.NewRule("po4a_man", ruleName)
		r.SetAttr("srcs", []string{src})
		if len(conf.poFiles) > 0 {
			r.SetAttr("pos", append([]string(nil), conf.poFiles...))
		}
		if args.File == nil || !args.File.HasDefaultVisibility() {
			r.SetAttr("visibility", []string{"//visibility:public"})
		}
		result.Gen = append(result.Gen, r)
		result.Imports = append(result.Imports, conf.poFiles)
	}

	result.Empty = c.findEmptyRules(args.File, srcs)
	return result
}

func collectManPages(files []string) []string {
	var matched []string
	for _, f := range files {
		for _, pattern := range manPagePatterns {
			if ok, _ := doublestar.Match(pattern, f); ok {
				matched = append(matched, f)
				break
			}
		}
	}
	sort.Strings(matched)
	return matched
}

func ruleNameForSource(src string) string {
	base := filepath.Base(src)
	name := base
	for i, c := range name {
		if c == '.' {
			name = name[:i] + "_" + name[i+1:]
		}
	}
	return name
}

// findEmptyRules reports po4a_man rules present in the existing build
// file whose source no longer matches any discovered man page, so
// Gazelle removes them instead of leaving stale rules behind.
func (c *manLanguage) findEmptyRules(f *rule.File, srcs []string) []*rule.Rule {
	if f == nil {
		return nil
	}
	known := make(map[string]bool, len(srcs))
	for _, s := range srcs {
		known[s] = true
	}

	var empty []*rule.Rule
	for _, r := range f.Rules {
		if r.Kind() != "po4a_man" {
			continue
		}
		stillValid := false
		for _, s := range r.AttrStrings("srcs") {
			if known[s] {
				stillValid = true
				break
			}
		}
		if !stillValid {
			empty = append(empty, rule.NewRule("po4a_man", r.Name()))
		}
	}
	return empty
}

func (c *manLanguage) Name() string { return languageName }

// Embeds is nil: po4a_man rules have no Bazel-level embed relationship.
func (c *manLanguage) Embeds(r *rule.Rule, from label.Label) []label.Label { return nil }

// Imports returns no ImportSpecs: po4a_man sources don't participate in
// a cross-package import graph the way cc_library headers do.
func (c *manLanguage) Imports(conf *config.Config, r *rule.Rule, f *rule.File) []resolve.ImportSpec {
	return nil
}

// Resolve is a no-op: po4a_man rules carry no cross-package dependency
// edges for Gazelle to resolve, only file-level srcs/pos attributes.
func (c *manLanguage) Resolve(conf *config.Config, ix *resolve.RuleIndex, rc *repo.RemoteCache, r *rule.Rule, imports interface{}, from label.Label) {
}
