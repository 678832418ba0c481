package bpe

import lru "github.com/hashicorp/golang-lru/v2"

// DefaultCacheSize is the Piece Cache's default capacity (spec §3).
const DefaultCacheSize = 100_000

// pieceCache memoizes mergePiece results keyed by piece string. Spec §4.3
// requires eviction by insertion order with no reordering on a hit — true
// LRU semantics would promote a hit piece and defeat the "cheaper than LRU,
// Zipfian-sufficient" rationale the spec calls out. hashicorp/golang-lru/v2
// gives us that for free as long as we only ever call Peek (read without
// promotion) and Add (insert, evicting the oldest entry on overflow):
// without any call to Get, "least recently used" degenerates to "oldest
// inserted", which is exactly the bounded FIFO the spec describes.
type pieceCache struct {
	lru *lru.Cache[string, []int32]
}

func newPieceCache(size int) *pieceCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, []int32](size)
	if err != nil {
		// Only returns an error for a non-positive size, which we've just
		// ruled out.
		panic(err)
	}
	return &pieceCache{lru: c}
}

func (c *pieceCache) lookup(piece string) ([]int32, bool) {
	return c.lru.Peek(piece)
}

func (c *pieceCache) insert(piece string, ranks []int32) {
	c.lru.Add(piece, ranks)
}

func (c *pieceCache) Len() int { return c.lru.Len() }
