package bpe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPieceCache_CachedResultIsInvisibleToCallers(t *testing.T) {
	table := newFixtureTable(t)
	e, err := New(table, WithCacheSize(4))
	require.NoError(t, err)

	uncached, err := e.EncodeOrdinary("hello")
	require.NoError(t, err)

	// Encoding the same piece again should take the cache path and still
	// produce the identical rank sequence: the cache is a memoization
	// layer, never an observable part of the result.
	cached, err := e.EncodeOrdinary("hello")
	require.NoError(t, err)

	assert.Equal(t, uncached, cached)
}

func TestPieceCache_EvictsOldestOnOverflowWithoutPromotionOnHit(t *testing.T) {
	c := newPieceCache(2)

	c.insert("a", []int32{1})
	c.insert("b", []int32{2})

	// Read "a" repeatedly. Under true LRU this would promote "a" and
	// protect it from eviction; this cache deliberately uses Peek, so
	// repeated reads must NOT change eviction order.
	_, _ = c.lookup("a")
	_, _ = c.lookup("a")
	_, _ = c.lookup("a")

	c.insert("c", []int32{3})

	_, stillThere := c.lookup("a")
	assert.False(t, stillThere, "Peek-only reads must not protect an entry from FIFO eviction")

	_, bHit := c.lookup("b")
	assert.True(t, bHit)

	_, cHit := c.lookup("c")
	assert.True(t, cHit)
}

func TestPieceCache_MissReturnsFalse(t *testing.T) {
	c := newPieceCache(4)
	_, ok := c.lookup("nonexistent")
	assert.False(t, ok)
}
