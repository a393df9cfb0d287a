package catalog

import (
	"testing"

	"github.com/foxcpp/po4man/internal/nroff/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreRecordAndLookupMiss(t *testing.T) {
	s := newTestStore(t)
	ref := lexer.SourceRef{Path: "foo.1", Line: 10}
	require.NoError(t, s.Record("B<hello>", "paragraph", ref, ""))

	got, err := s.Lookup("B<hello>", "fr")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestStoreSetTranslationAndLookup(t *testing.T) {
	s := newTestStore(t)
	ref := lexer.SourceRef{Path: "foo.1", Line: 10}
	require.NoError(t, s.Record("B<hello>", "paragraph", ref, ""))
	require.NoError(t, s.SetTranslation("B<hello>", "fr", "B<bonjour>"))

	got, err := s.Lookup("B<hello>", "fr")
	require.NoError(t, err)
	assert.Equal(t, "B<bonjour>", got)

	got, err = s.Lookup("B<hello>", "de")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestStoreRecordIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ref := lexer.SourceRef{Path: "foo.1", Line: 10}
	require.NoError(t, s.Record("B<hello>", "paragraph", ref, ""))
	require.NoError(t, s.Record("B<hello>", "paragraph", ref, ""))

	all, err := s.All()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
