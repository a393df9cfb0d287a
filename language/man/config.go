package man

import (
	"flag"
	"strings"

	"github.com/bazelbuild/bazel-gazelle/config"
	"github.com/bazelbuild/bazel-gazelle/rule"
)

func (*manLanguage) RegisterFlags(fs *flag.FlagSet, cmd string, c *config.Config) {}
func (*manLanguage) CheckFlags(fs *flag.FlagSet, c *config.Config) error          { return nil }

func (*manLanguage) KnownDirectives() []string {
	return []string{"po4a_pos"}
}

func (*manLanguage) Configure(c *config.Config, rel string, f *rule.File) {
	var conf *manConfig
	if parentConf, ok := c.Exts[languageName]; !ok {
		conf = newManConfig()
	} else {
		conf = parentConf.(*manConfig).clone()
	}
	c.Exts[languageName] = conf

	if f == nil {
		return
	}
	for _, d := range f.Directives {
		if d.Key != "po4a_pos" {
			continue
		}
		conf.poFiles = splitCommaList(d.Value)
	}
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

// manConfig is the per-package configuration cloned down the directory
// tree as Configure walks it, mirroring cppConfig's shape.
type manConfig struct {
	poFiles []string
}

func getManConfig(c *config.Config) *manConfig {
	return c.Exts[languageName].(*manConfig)
}

func newManConfig() *manConfig {
	return &manConfig{}
}

func (conf *manConfig) clone() *manConfig {
	cp := *conf
	cp.poFiles = append([]string(nil), conf.poFiles...)
	return &cp
}
