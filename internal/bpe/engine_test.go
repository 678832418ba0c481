package bpe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptacct/promptacct/errs"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	table := newFixtureTable(t)
	e, err := New(table)
	require.NoError(t, err)
	return e
}

func TestEncodeOrdinary_MergesGreedily(t *testing.T) {
	e := newTestEngine(t)

	ranks, err := e.EncodeOrdinary("hello world")
	require.NoError(t, err)

	// Under \s+|\w+|[^\s\w]+, "hello world" pretokenizes into three
	// pieces ("hello", " ", "world"): \w+ doesn't span the space, so it
	// never becomes a merge candidate with either word. Each piece fully
	// merges down to a single rank, for three ranks total.
	require.Len(t, ranks, 3)

	decoded := e.Decode(ranks)
	assert.Equal(t, "hello world", decoded)
}

func TestEncodeOrdinary_RoundTripsArbitraryText(t *testing.T) {
	e := newTestEngine(t)

	cases := []string{
		"hello",
		"world",
		"hello, world!",
		"a",
		"",
		"  hello  world  ",
	}
	for _, text := range cases {
		ranks, err := e.EncodeOrdinary(text)
		require.NoErrorf(t, err, "text=%q", text)
		assert.Equalf(t, text, e.Decode(ranks), "text=%q", text)
	}
}

func TestCount_MatchesEncodeLength(t *testing.T) {
	e := newTestEngine(t)

	for _, text := range []string{"hello world", "hi", "worldly hero"} {
		ranks, err := e.EncodeOrdinary(text)
		require.NoError(t, err)
		n, err := e.Count(text)
		require.NoError(t, err)
		assert.Equal(t, len(ranks), n)
	}
}

func TestEncode_AllowedSpecialTokenEmitsReservedRank(t *testing.T) {
	e := newTestEngine(t)

	ranks, err := e.Encode("hello<|endoftext|>world", AllSpecialTokens(), NoSpecialTokens())
	require.NoError(t, err)

	known := e.specialTokens()
	specialRank := known["<|endoftext|>"]

	var sawSpecial bool
	for _, r := range ranks {
		if r == specialRank {
			sawSpecial = true
		}
	}
	assert.True(t, sawSpecial, "expected the special token's reserved rank to appear in the output")
}

func TestEncode_DisallowedSpecialTokenErrors(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Encode("hello<|endoftext|>world", NoSpecialTokens(), AllSpecialTokens())
	require.Error(t, err)

	var disallowed *errs.DisallowedSpecialError
	require.ErrorAs(t, err, &disallowed)
	assert.Equal(t, "<|endoftext|>", disallowed.Token)
}

func TestEncode_EmptySpecialSetsRoundTripPlainText(t *testing.T) {
	e := newTestEngine(t)

	// With both special sets empty and no special literal in the input,
	// Encode goes straight through EncodeOrdinary's pattern/merge path and
	// the result decodes back to the input.
	ranks, err := e.Encode("hello world", NoSpecialTokens(), NoSpecialTokens())
	require.NoError(t, err)
	assert.Equal(t, "hello world", e.Decode(ranks))
}

func TestEncodeOrdinary_IsDeterministic(t *testing.T) {
	e := newTestEngine(t)

	first, err := e.EncodeOrdinary("hello world, hello there!")
	require.NoError(t, err)
	second, err := e.EncodeOrdinary("hello world, hello there!")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDecode_SkipsUnknownRanks(t *testing.T) {
	e := newTestEngine(t)

	ranks, err := e.EncodeOrdinary("hello")
	require.NoError(t, err)

	withJunk := append(append([]int32{}, ranks[:1]...), 999999)
	withJunk = append(withJunk, ranks[1:]...)

	assert.Equal(t, "hello", e.Decode(withJunk))
}

func TestNew_RejectsUncompilablePattern(t *testing.T) {
	table := newFixtureTable(t)
	table.Pattern = "(unterminated"
	_, err := New(table)
	require.Error(t, err)
}
