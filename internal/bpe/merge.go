package bpe

import "github.com/promptacct/promptacct/internal/encoding"

// mergePiece runs the BPE merge loop over a single piece (a pretokenized,
// non-overlapping span produced by the pattern regex) and returns its final
// token ranks in order.
//
// The sub-tokens are tracked as a doubly linked list over byte offsets
// (starts/prev/next), the way spec §4.2 describes, rather than over mutable
// token values: prev/next walk live slot indices, starts[i] is the byte
// offset where slot i began and never changes once assigned, and a slot's
// current span runs from starts[i] to starts[next[i]] (or the piece's end).
// Every rank a slot could resolve to is looked up by re-slicing the piece,
// not by a precomputed pair table — a merge candidate's rank is simply
// table.LookupBytes of the two adjacent slots' combined span. This is the
// one place the teacher's own approach (a pairRank/pairToken map keyed by
// token ID, appropriate for GPT-2's explicit merge-rule list) doesn't
// transfer: a rank-table vocabulary has no separate "pair -> merged token"
// mapping, the merged span's own rank *is* the merged token ID. What does
// transfer is the scheduling discipline around it: a doubly linked list of
// live slots, a liveVersion per slot so a candidate pushed before a merge
// can be told apart from one pushed after it, and a leftmost-rank priority
// queue driving the merge order — queue.go's bucketQueue uses that
// liveVersion itself to drop a stale candidate the moment it's scanned,
// rather than leaving this loop to notice and skip it after every Pop.
func mergePiece(table *encoding.Table, piece []byte) []int32 {
	n := len(piece)
	if n == 0 {
		return nil
	}

	starts := make([]int, n)
	tokens := make([]int32, n)
	prev := make([]int, n)
	next := make([]int, n)
	live := make([]int32, n)

	for i := 0; i < n; i++ {
		starts[i] = i
		prev[i] = i - 1
		next[i] = i + 1
		if rank, ok := table.LookupBytes(piece[i : i+1]); ok {
			tokens[i] = rank
		} else {
			// Every raw byte must resolve via binary_ranks in a complete
			// table; a miss here means the table is missing base-byte
			// coverage. Encode must still make progress, so fall back to
			// leaving the slot unresolved at -1: it is only merged away if a
			// longer span containing it has a table entry (rankAt looks up
			// the combined span), and otherwise is emitted as -1, which
			// Decode skips as an unknown rank.
			tokens[i] = -1
		}
	}
	next[n-1] = -1

	queue := newBucketQueue(table.MaxRank(), live)

	spanEnd := func(slotAfterRight int) int {
		if slotAfterRight == -1 {
			return n
		}
		return starts[slotAfterRight]
	}

	rankAt := func(i int) (int32, bool) {
		j := next[i]
		if j == -1 {
			return 0, false
		}
		return table.LookupBytes(piece[starts[i]:spanEnd(next[j])])
	}

	pushIfMergeable := func(i int) {
		if i == -1 || next[i] == -1 {
			return
		}
		j := next[i]
		if rank, ok := rankAt(i); ok {
			queue.Push(mergeCand{Rank: rank, Pos: i, J: j, VerL: live[i], VerR: live[j]})
		}
	}

	for i := 0; next[i] != -1; i = next[i] {
		pushIfMergeable(i)
	}

	for {
		c, ok := queue.Pop()
		if !ok {
			break
		}
		// The queue only ever hands back a candidate whose pinned Pos/J
		// versions still match live, so next[c.Pos] == c.J already holds —
		// a slot's next pointer only ever changes in the same step that
		// bumps its liveVersion. next[c.J] is likewise unchanged (a change
		// would have bumped c.J's version), and starts never change, so the
		// span is the one c.Rank was computed for; the fresh lookup below
		// is a consistency check that skips the candidate on any mismatch.
		i, j := c.Pos, c.J

		rankNow, ok := rankAt(i)
		if !ok || rankNow != c.Rank {
			continue
		}

		tokens[i] = rankNow

		nj := next[j]
		next[i] = nj
		if nj != -1 {
			prev[nj] = i
		}
		prev[j], next[j] = -1, -1

		live[i]++
		live[j]++

		if pi := prev[i]; pi != -1 {
			pushIfMergeable(pi)
		}
		pushIfMergeable(i)
	}

	out := make([]int32, 0, n)
	for i := 0; i != -1; i = next[i] {
		out = append(out, tokens[i])
	}
	return out
}
