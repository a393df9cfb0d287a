package argsplit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"simple words", "foo bar baz", []string{"foo", "bar", "baz"}},
		{"quoted group", `"foo bar" baz`, []string{"foo bar", "baz"}},
		{"doubled quote", `"say ""hi""" there`, []string{`say \(dqhi\(dq`, "there"}},
		{"escaped space joins token", `foo\ bar baz`, []string{"foo bar", "baz"}},
		{"collapsed repeated spaces", "foo   bar", []string{"foo", "bar"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Split(c.in)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestSplitDanglingBackslash(t *testing.T) {
	_, err := Split(`foo\`)
	assert.ErrorIs(t, err, ErrDanglingBackslash)
}

func TestSplitNonBreakingSpacePreserved(t *testing.T) {
	got, err := Split("foo\xA0bar baz")
	require.NoError(t, err)
	assert.Equal(t, []string{"foo\xA0bar", "baz"}, got)
}

func TestJoinRoundTrip(t *testing.T) {
	args := []string{"foo bar", "baz"}
	joined := Join(args)
	got, err := Split(joined)
	require.NoError(t, err)
	assert.Equal(t, args, got)
}
