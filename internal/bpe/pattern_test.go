package bpe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitter_SplitsWordsPunctuationAndWhitespace(t *testing.T) {
	s, err := newSplitter(`\s+|\w+|[^\s\w]+`)
	require.NoError(t, err)

	pieces, err := s.Split("hello, world!")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", ",", " ", "world", "!"}, pieces)
}

func TestSplitter_EmptyInputYieldsNoPieces(t *testing.T) {
	s, err := newSplitter(`\s+|\w+|[^\s\w]+`)
	require.NoError(t, err)

	pieces, err := s.Split("")
	require.NoError(t, err)
	assert.Empty(t, pieces)
}

func TestSplitter_RejectsUncompilablePattern(t *testing.T) {
	_, err := newSplitter("(unterminated")
	require.Error(t, err)
}

func TestFindFirstLiteral_PrefersLeftmostThenLongest(t *testing.T) {
	literals := map[string]bool{"ab": true, "abc": true}

	idx, lit, found := findFirstLiteral("xxabcxx", literals)
	require.True(t, found)
	assert.Equal(t, 2, idx)
	assert.Equal(t, "abc", lit, "a tie at the same start index should prefer the longest literal")
}

func TestFindFirstLiteral_NoMatchReturnsFalse(t *testing.T) {
	_, _, found := findFirstLiteral("hello", map[string]bool{"zzz": true})
	assert.False(t, found)
}
