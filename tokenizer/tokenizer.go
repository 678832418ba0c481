// Package tokenizer is the public-facing Tokenizer API (spec §6): a thin
// facade over internal/encoding.Table and internal/bpe.Engine for callers
// outside this module who only need encode/decode/count, not the merge
// internals.
package tokenizer

import (
	"github.com/promptacct/promptacct/internal/bpe"
	"github.com/promptacct/promptacct/internal/encoding"
)

// Table is an immutable BPE vocabulary loaded once and shared read-only.
type Table = encoding.Table

// BinaryRank is one non-UTF-8 vocabulary entry of a Table.
type BinaryRank = encoding.BinaryRank

// NewTable validates and constructs a Table from the Encoding Table data
// shape of spec §3.
func NewTable(name, pattern string, special map[string]int32, stringRanks map[string]int32, binaryRanks []BinaryRank) (*Table, error) {
	return encoding.New(name, pattern, special, stringRanks, binaryRanks)
}

// LoadGPT2Table builds a Table from a GPT-2-style vocab.json file.
func LoadGPT2Table(vocabPath string, special map[string]int32) (*Table, error) {
	return encoding.LoadGPT2Vocab(vocabPath, special)
}

// SpecialSet selects which special-token literals an Encode call treats as
// allowed or disallowed: AllSpecialTokens, NoSpecialTokens, or an explicit
// SpecialTokenLiterals subset.
type SpecialSet = bpe.SpecialSet

func AllSpecialTokens() SpecialSet                   { return bpe.AllSpecialTokens() }
func NoSpecialTokens() SpecialSet                    { return bpe.NoSpecialTokens() }
func SpecialTokenLiterals(lits ...string) SpecialSet { return bpe.SpecialTokenLiterals(lits...) }

// Option configures an Engine at construction time.
type Option = bpe.Option

// WithCacheSize overrides the Piece Cache's capacity.
func WithCacheSize(n int) Option { return bpe.WithCacheSize(n) }

// WithExtraSpecialTokens adds special tokens beyond the ones baked into the
// table.
func WithExtraSpecialTokens(extra map[string]int32) Option { return bpe.WithExtraSpecialTokens(extra) }

// Engine encodes and decodes text against one Table. Not safe for
// concurrent use (spec §5); construct one per worker goroutine.
type Engine struct {
	inner *bpe.Engine
}

// New builds an Engine from a Table.
func New(table *Table, opts ...Option) (*Engine, error) {
	inner, err := bpe.New(table, opts...)
	if err != nil {
		return nil, err
	}
	return &Engine{inner: inner}, nil
}

// Encode tokenizes text with special-token awareness.
func (e *Engine) Encode(text string, allowedSpecial, disallowedSpecial SpecialSet) ([]int32, error) {
	return e.inner.Encode(text, allowedSpecial, disallowedSpecial)
}

// EncodeOrdinary tokenizes text with no special-token awareness.
func (e *Engine) EncodeOrdinary(text string) ([]int32, error) {
	return e.inner.EncodeOrdinary(text)
}

// Decode inverts a rank sequence back to text, best-effort on unknown ranks.
func (e *Engine) Decode(ranks []int32) string {
	return e.inner.Decode(ranks)
}

// Count is equivalent to len(EncodeOrdinary(text)) but avoids retaining the
// token slice.
func (e *Engine) Count(text string) (int, error) {
	return e.inner.Count(text)
}
