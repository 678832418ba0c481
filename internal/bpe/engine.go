// Package bpe implements the BPE Engine and Piece Cache (spec §4.2, §4.3):
// encode/decode/count over an immutable encoding.Table, bit-exact with the
// reference tokenizer the table was generated from.
package bpe

import (
	"strings"

	"github.com/promptacct/promptacct/errs"
	"github.com/promptacct/promptacct/internal/encoding"
)

// Engine encodes and decodes text against one Table. It owns a mutable
// Piece Cache and is therefore not safe for concurrent use — callers
// wanting parallelism construct one Engine per worker (spec §5); the Table
// itself is read-only and may be shared across engines.
type Engine struct {
	table     *encoding.Table
	split     *splitter
	cache     *pieceCache
	extraSpec map[string]int32
}

// Option configures New.
type Option func(*Engine)

// WithCacheSize overrides the Piece Cache's capacity (default
// DefaultCacheSize).
func WithCacheSize(n int) Option {
	return func(e *Engine) { e.cache = newPieceCache(n) }
}

// WithExtraSpecialTokens adds special tokens beyond the ones baked into the
// table, e.g. a fine-tune's custom control tokens.
func WithExtraSpecialTokens(extra map[string]int32) Option {
	return func(e *Engine) { e.extraSpec = extra }
}

// New builds an Engine from an encoding Table.
func New(table *encoding.Table, opts ...Option) (*Engine, error) {
	split, err := newSplitter(table.Pattern)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		table: table,
		split: split,
		cache: newPieceCache(DefaultCacheSize),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) specialTokens() map[string]int32 {
	if len(e.extraSpec) == 0 {
		return e.table.SpecialTokens
	}
	merged := make(map[string]int32, len(e.table.SpecialTokens)+len(e.extraSpec))
	for k, v := range e.table.SpecialTokens {
		merged[k] = v
	}
	for k, v := range e.extraSpec {
		merged[k] = v
	}
	return merged
}

// EncodeOrdinary applies the pattern and BPE merge with no special-token
// awareness: every byte of text, including any special-token literal it
// happens to contain, is tokenized as ordinary content.
func (e *Engine) EncodeOrdinary(text string) ([]int32, error) {
	pieces, err := e.split.Split(text)
	if err != nil {
		return nil, err
	}

	out := make([]int32, 0, len(text)/3+1)
	for _, piece := range pieces {
		if rank, ok := e.table.LookupString(piece); ok {
			out = append(out, rank)
			continue
		}
		if cached, ok := e.cache.lookup(piece); ok {
			out = append(out, cached...)
			continue
		}
		ranks := mergePiece(e.table, []byte(piece))
		e.cache.insert(piece, ranks)
		out = append(out, ranks...)
	}
	return out, nil
}

// Encode tokenizes text with special-token awareness (spec §4.2 step 1):
// any disallowed special-token literal present in text fails the whole
// call; allowed literals are emitted as their single reserved rank and
// everything between them goes through EncodeOrdinary.
func (e *Engine) Encode(text string, allowed, disallowed SpecialSet) ([]int32, error) {
	known := e.specialTokens()
	allowedLiterals := allowed.resolve(known)
	disallowedLiterals := disallowed.resolve(known)
	for lit := range allowedLiterals {
		delete(disallowedLiterals, lit)
	}

	if _, lit, found := findFirstLiteral(text, disallowedLiterals); found {
		return nil, &errs.DisallowedSpecialError{Token: lit}
	}

	var out []int32
	rest := text
	for {
		idx, lit, found := findFirstLiteral(rest, allowedLiterals)
		if !found {
			ranks, err := e.EncodeOrdinary(rest)
			if err != nil {
				return nil, err
			}
			return append(out, ranks...), nil
		}
		if idx > 0 {
			ranks, err := e.EncodeOrdinary(rest[:idx])
			if err != nil {
				return nil, err
			}
			out = append(out, ranks...)
		}
		out = append(out, known[lit])
		rest = rest[idx+len(lit):]
	}
}

// Count is equivalent to len(EncodeOrdinary(text)) but avoids retaining the
// token slice.
func (e *Engine) Count(text string) (int, error) {
	ranks, err := e.EncodeOrdinary(text)
	if err != nil {
		return 0, err
	}
	return len(ranks), nil
}

// Decode inverts a rank sequence back to text. Per spec §4.2/§7, an unknown
// rank is skipped rather than treated as an error: decode is best-effort.
// Ranks that resolve to a string are appended directly; ranks that resolve
// to raw bytes accumulate in a buffer flushed (UTF-8 decoded) whenever a
// string rank or the end of the sequence is reached, so the dominant
// string case never pays for a byte round-trip.
func (e *Engine) Decode(ranks []int32) string {
	var out strings.Builder
	var pending []byte

	flush := func() {
		if len(pending) > 0 {
			out.Write(pending)
			pending = pending[:0]
		}
	}

	for _, r := range ranks {
		d, ok := e.table.Decode(r)
		if !ok {
			continue
		}
		if d.IsString {
			flush()
			out.WriteString(d.Str)
			continue
		}
		pending = append(pending, d.Bytes...)
	}
	flush()
	return out.String()
}
