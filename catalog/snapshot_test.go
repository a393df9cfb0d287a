package catalog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	msgs := []Message{
		{
			Msgid:      "B<hello>",
			Type:       "paragraph",
			SourcePath: "foo.1",
			SourceLine: 5,
			Wrap:       true,
			Translations: []Translation{
				{Locale: "fr", Msgstr: "B<bonjour>"},
			},
		},
		{
			Msgid: "plain text",
			Type:  "paragraph",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, msgs))

	got, err := ReadSnapshot(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "B<hello>", got[0].Msgid)
	assert.Equal(t, "foo.1", got[0].SourcePath)
	assert.Equal(t, 5, got[0].SourceLine)
	assert.True(t, got[0].Wrap)
	require.Len(t, got[0].Translations, 1)
	assert.Equal(t, "fr", got[0].Translations[0].Locale)
	assert.Equal(t, "B<bonjour>", got[0].Translations[0].Msgstr)

	assert.Equal(t, "plain text", got[1].Msgid)
	assert.False(t, got[1].Wrap)
}

func TestSnapshotEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, nil))

	got, err := ReadSnapshot(&buf)
	require.NoError(t, err)
	assert.Empty(t, got)
}
