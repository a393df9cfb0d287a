// Package catalog implements the translation catalog surface the nroff
// parser calls into: translate(msgid, ref, type, opts) and push_output,
// backed by a translation-memory store and an exportable snapshot format.
package catalog

import (
	"fmt"

	"github.com/foxcpp/po4man/internal/nroff/lexer"
)

// Entry is one catalog lookup result: the resolved translation plus the
// bookkeeping the caller needs to decide how to wrap it.
type Entry struct {
	Msgid  string
	Msgstr string
	Type   string
	Ref    lexer.SourceRef
	Wrap   bool
}

// Backend is the subset of *Store the Catalog depends on; extracted so
// tests can substitute a mock without standing up a real sqlite file.
type Backend interface {
	Record(msgid, msgType string, ref lexer.SourceRef, comment string) error
	Lookup(msgid, locale string) (string, error)
}

// Catalog implements paragraph.Translator and macro.Structural handlers'
// translate/push_output surface (§6), backed by a Store for lookups and
// an in-memory output buffer the caller drains at the end of a run.
type Catalog struct {
	Store  Backend
	Output []string

	// Locale selects which translation column Lookup reads; "" means
	// passthrough (msgid echoed back), used for dry runs and extraction.
	Locale string
}

// New returns a Catalog backed by store. A nil store is valid and makes
// Translate a passthrough (msgid is returned unchanged) — the mode used
// to extract a catalog from a document rather than apply one to it.
func New(store Backend, locale string) *Catalog {
	return &Catalog{Store: store, Locale: locale}
}

// Translate resolves msgid to its translation. With Locale empty, msgid is
// recorded in the backing store (if any) as an extraction and returned
// unchanged; otherwise it is looked up for Locale, and msgid is returned
// when no translation exists. It satisfies the paragraph.Translator
// interface.
func (c *Catalog) Translate(msgid string, ref lexer.SourceRef, msgType string, wrap bool, comment string) (string, error) {
	if c.Store == nil || c.Locale == "" {
		if c.Store != nil {
			if err := c.Store.Record(msgid, msgType, ref, comment); err != nil {
				return "", fmt.Errorf("record %s: %w", ref, err)
			}
		}
		return msgid, nil
	}

	msgstr, err := c.Store.Lookup(msgid, c.Locale)
	if err != nil {
		return "", fmt.Errorf("lookup %s: %w", ref, err)
	}
	if msgstr == "" {
		return msgid, nil
	}
	return msgstr, nil
}

// PushOutput appends a finished line to the in-memory output buffer.
func (c *Catalog) PushOutput(line string) {
	c.Output = append(c.Output, line)
}
