// Package man implements a bazel-gazelle language.Language plugin that
// discovers man-page sources in a package directory and emits po4a_man
// rules binding each one to its associated PO catalogs.
package man

import (
	"github.com/bazelbuild/bazel-gazelle/config"
	"github.com/bazelbuild/bazel-gazelle/language"
	"github.com/bazelbuild/bazel-gazelle/rule"
)

const languageName = "man"

type manLanguage struct{}

// NewLanguage returns the po4a_man Gazelle language plugin.
func NewLanguage() language.Language {
	return &manLanguage{}
}

func (*manLanguage) Kinds() map[string]rule.KindInfo {
	return map[string]rule.KindInfo{
		"po4a_man": {
			NonEmptyAttrs:  map[string]bool{"srcs": true},
			MergeableAttrs: map[string]bool{"srcs": true, "pos": true},
		},
	}
}

func (*manLanguage) Loads() []rule.LoadInfo {
	return []rule.LoadInfo{
		{
			Name:    "//tools/po4man:defs.bzl",
			Symbols: []string{"po4a_man"},
		},
	}
}

func (*manLanguage) Fix(c *config.Config, f *rule.File) {}
