package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallTable(t *testing.T) *Table {
	t.Helper()
	stringRanks := map[string]int32{"a": 0, "b": 1, "ab": 2}
	binaryRanks := []BinaryRank{
		{Bytes: []byte{0xff, 0xfe}, Rank: 3},
	}
	special := map[string]int32{"<|end|>": 4}
	tbl, err := New("test", `\w+`, special, stringRanks, binaryRanks)
	require.NoError(t, err)
	return tbl
}

func TestNew_RejectsDuplicateRank(t *testing.T) {
	stringRanks := map[string]int32{"a": 0, "b": 0}
	_, err := New("dup", `\w+`, nil, stringRanks, nil)
	require.Error(t, err)
}

func TestNew_RejectsDuplicateBinaryRankEntry(t *testing.T) {
	binaryRanks := []BinaryRank{
		{Bytes: []byte{0x01}, Rank: 0},
		{Bytes: []byte{0x01}, Rank: 1},
	}
	_, err := New("dup", `\w+`, nil, nil, binaryRanks)
	require.Error(t, err)
}

func TestNew_RejectsSpecialTokenRankCollision(t *testing.T) {
	stringRanks := map[string]int32{"a": 0}
	special := map[string]int32{"<|x|>": 0}
	_, err := New("collide", `\w+`, special, stringRanks, nil)
	require.Error(t, err)
}

func TestLookupString_FindsKnownString(t *testing.T) {
	tbl := smallTable(t)
	rank, ok := tbl.LookupString("ab")
	require.True(t, ok)
	assert.Equal(t, int32(2), rank)
}

func TestLookupBytes_FindsStringAndBinaryEntries(t *testing.T) {
	tbl := smallTable(t)

	rank, ok := tbl.LookupBytes([]byte("ab"))
	require.True(t, ok)
	assert.Equal(t, int32(2), rank)

	rank, ok = tbl.LookupBytes([]byte{0xff, 0xfe})
	require.True(t, ok)
	assert.Equal(t, int32(3), rank)

	_, ok = tbl.LookupBytes([]byte{0x00, 0x01, 0x02})
	assert.False(t, ok)
}

func TestDecode_ResolvesStringBinaryAndSpecialTokens(t *testing.T) {
	tbl := smallTable(t)

	d, ok := tbl.Decode(2)
	require.True(t, ok)
	assert.True(t, d.IsString)
	assert.Equal(t, "ab", d.Str)

	d, ok = tbl.Decode(3)
	require.True(t, ok)
	assert.False(t, d.IsString)
	assert.Equal(t, []byte{0xff, 0xfe}, d.Bytes)

	d, ok = tbl.Decode(4)
	require.True(t, ok)
	assert.Equal(t, "<|end|>", d.Str)

	_, ok = tbl.Decode(999)
	assert.False(t, ok)
}

func TestMaxRank_ExcludesSpecialTokens(t *testing.T) {
	tbl := smallTable(t)
	// Highest BPE-vocabulary rank is 3 (the binary entry); the special
	// token at rank 4 must not inflate MaxRank, since callers size merge
	// structures off the BPE vocabulary alone.
	assert.Equal(t, int32(3), tbl.MaxRank())
}
