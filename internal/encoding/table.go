// Package encoding holds the immutable, per-vocabulary data a BPE Engine is
// built from: the pretokenization pattern, the special-token map, the rank
// tables, and the rank->bytes decoder. A Table is produced once (normally by
// an offline generator, out of scope for this module — see testdata/README.md)
// and shared read-only across every engine built from it.
package encoding

import (
	"bytes"
	"fmt"
	"sort"
	"unicode/utf8"
)

// BinaryRank is one entry of a Table's binary-ranks table: a token whose byte
// sequence does not round-trip through UTF-8 decode/encode bit-exactly.
type BinaryRank struct {
	Bytes []byte
	Rank  int32
}

// DecodedToken is the decoder's value type: a rank resolves to either a UTF-8
// string (the common case) or a raw byte sequence.
type DecodedToken struct {
	Str      string
	Bytes    []byte
	IsString bool
}

// Table is an immutable BPE vocabulary: pattern, special tokens, rank
// tables, and decoder. Construct with New; the zero value is not valid.
type Table struct {
	Name          string
	Pattern       string
	SpecialTokens map[string]int32

	stringRanks map[string]int32
	binaryRanks []BinaryRank // sorted lexicographically by Bytes
	decoder     map[int32]DecodedToken

	firstByteIndex [256][]BinaryRank
	maxRank        int32
}

// New validates and constructs a Table from the six fields of the data
// model. The decoder is derived, not supplied: every string_ranks entry
// decodes to itself, every binary_ranks entry decodes to its raw bytes.
func New(name, pattern string, special map[string]int32, stringRanks map[string]int32, binaryRanks []BinaryRank) (*Table, error) {
	sorted := append([]BinaryRank(nil), binaryRanks...)
	sort.Slice(sorted, func(i, j int) bool { return bytes.Compare(sorted[i].Bytes, sorted[j].Bytes) < 0 })
	for i := 1; i < len(sorted); i++ {
		if bytes.Equal(sorted[i-1].Bytes, sorted[i].Bytes) {
			return nil, fmt.Errorf("encoding %q: duplicate binary rank entry %q", name, sorted[i].Bytes)
		}
	}

	decoder := make(map[int32]DecodedToken, len(stringRanks)+len(sorted))
	seen := make(map[int32]bool, len(stringRanks)+len(sorted))
	var maxRank int32

	for tokenStr, rank := range stringRanks {
		if !utf8.ValidString(tokenStr) {
			return nil, fmt.Errorf("encoding %q: string_ranks entry %q is not valid UTF-8", name, tokenStr)
		}
		if seen[rank] {
			return nil, fmt.Errorf("encoding %q: rank %d used more than once", name, rank)
		}
		seen[rank] = true
		decoder[rank] = DecodedToken{Str: tokenStr, IsString: true}
		if rank > maxRank {
			maxRank = rank
		}
	}

	for _, br := range sorted {
		if seen[br.Rank] {
			return nil, fmt.Errorf("encoding %q: rank %d used more than once", name, br.Rank)
		}
		seen[br.Rank] = true
		decoder[br.Rank] = DecodedToken{Bytes: append([]byte(nil), br.Bytes...)}
		if br.Rank > maxRank {
			maxRank = br.Rank
		}
	}

	for lit, rank := range special {
		if seen[rank] {
			return nil, fmt.Errorf("encoding %q: special token %q reuses rank %d from the BPE vocabulary", name, lit, rank)
		}
		_ = lit
	}

	t := &Table{
		Name:          name,
		Pattern:       pattern,
		SpecialTokens: special,
		stringRanks:   stringRanks,
		binaryRanks:   sorted,
		decoder:       decoder,
		maxRank:       maxRank,
	}
	t.buildFirstByteIndex()
	return t, nil
}

func (t *Table) buildFirstByteIndex() {
	for b := 0; b < 256; b++ {
		lo := sort.Search(len(t.binaryRanks), func(i int) bool {
			return len(t.binaryRanks[i].Bytes) > 0 && int(t.binaryRanks[i].Bytes[0]) >= b
		})
		hi := sort.Search(len(t.binaryRanks), func(i int) bool {
			return len(t.binaryRanks[i].Bytes) > 0 && int(t.binaryRanks[i].Bytes[0]) > b
		})
		if lo < hi {
			t.firstByteIndex[b] = t.binaryRanks[lo:hi]
		}
	}
}

// MaxRank returns the highest rank used by this table's BPE vocabulary
// (excluding special tokens), used to size the bucket queue in the merge
// loop.
func (t *Table) MaxRank() int32 { return t.maxRank }

// LookupString returns the rank for a piece already known to be valid UTF-8.
func (t *Table) LookupString(s string) (int32, bool) {
	r, ok := t.stringRanks[s]
	return r, ok
}

// LookupBytes resolves the rank for an arbitrary byte slice: valid-UTF-8
// slices go through the string table, everything else is resolved by binary
// search against first_byte_index, per spec §4.2.
func (t *Table) LookupBytes(b []byte) (int32, bool) {
	if utf8.Valid(b) {
		if r, ok := t.stringRanks[string(b)]; ok {
			return r, true
		}
	}
	if len(b) == 0 {
		return 0, false
	}
	bucket := t.firstByteIndex[b[0]]
	i := sort.Search(len(bucket), func(i int) bool { return bytes.Compare(bucket[i].Bytes, b) >= 0 })
	if i < len(bucket) && bytes.Equal(bucket[i].Bytes, b) {
		return bucket[i].Rank, true
	}
	return 0, false
}

// Decode resolves a rank via the decoder, falling back to the inverse of
// SpecialTokens. Ok is false for an unknown rank; spec §4.2 defines decode
// of an unknown rank as a no-op, not an error, so callers should skip rather
// than fail.
func (t *Table) Decode(rank int32) (DecodedToken, bool) {
	if d, ok := t.decoder[rank]; ok {
		return d, true
	}
	for lit, r := range t.SpecialTokens {
		if r == rank {
			return DecodedToken{Str: lit, IsString: true}, true
		}
	}
	return DecodedToken{}, false
}
