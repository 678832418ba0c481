package bpe

// mergeCand is a candidate merge: combining the sub-token at Pos with its
// right neighbor — at J, the value of next[Pos] when the candidate was
// built — would produce a token of the given Rank. VerL/VerR pin the
// liveVersion of Pos and J at push time, so bucketQueue can recognize and
// drop a candidate invalidated by an intervening merge elsewhere in the
// piece without the merge loop re-checking it after every Pop.
type mergeCand struct {
	Rank int32
	Pos  int
	J    int
	VerL int32
	VerR int32
}

// bucketQueue is a priority queue over mergeCand ordered by (Rank, Pos),
// bucketed by rank rather than heap-ordered: BPE rank spaces are dense small
// integers, so grouping by rank turns the hot "find the current minimum"
// step into an amortized scan of empty buckets rather than O(log n)
// comparisons per push/pop.
//
// It also owns a reference to the merge loop's liveVersion slice. Pop
// compacts each bucket it visits — dropping any candidate whose pinned
// Pos/J versions no longer match live, the same scan that finds the
// leftmost survivor — so a slot that merged away elsewhere is forgotten the
// first time this queue notices, not re-discovered and skipped on every
// later Pop the way a plain priority queue with no version awareness would.
type bucketQueue struct {
	buckets    [][]mergeCand
	current    int
	totalCount int
	live       []int32
}

func newBucketQueue(maxRank int32, live []int32) *bucketQueue {
	return &bucketQueue{
		buckets: make([][]mergeCand, maxRank+2),
		live:    live,
	}
}

func (bq *bucketQueue) Len() int { return bq.totalCount }

// Push appends c to its rank's bucket. Buckets don't need to stay ordered by
// Pos at push time — Pop's compaction scan is what finds the leftmost
// surviving candidate — so there's no insertion-sort/binary-search split to
// maintain here.
func (bq *bucketQueue) Push(c mergeCand) {
	rank := int(c.Rank)
	if rank >= len(bq.buckets) {
		grown := make([][]mergeCand, rank+1)
		copy(grown, bq.buckets)
		bq.buckets = grown
	}
	bq.buckets[rank] = append(bq.buckets[rank], c)
	bq.totalCount++
}

// stale reports whether c's pinned slot versions no longer match the merge
// loop's current liveVersion for Pos or J — i.e. one of the two slots a
// merge at c would combine has since merged into something else.
func (bq *bucketQueue) stale(c mergeCand) bool {
	return bq.live[c.Pos] != c.VerL || bq.live[c.J] != c.VerR
}

// Pop returns the leftmost live candidate out of the lowest non-empty
// bucket. While scanning that bucket for the leftmost survivor it also
// compacts out every stale entry it passes over, so a bucket that has
// accumulated dead candidates from merges elsewhere in the piece sheds them
// in one pass instead of being rescanned past them repeatedly.
func (bq *bucketQueue) Pop() (mergeCand, bool) {
	for bq.current < len(bq.buckets) {
		bucket := bq.buckets[bq.current]
		if len(bucket) == 0 {
			bq.current++
			continue
		}

		write, best := 0, -1
		for read := range bucket {
			c := bucket[read]
			if bq.stale(c) {
				bq.totalCount--
				continue
			}
			bucket[write] = c
			if best == -1 || c.Pos < bucket[best].Pos {
				best = write
			}
			write++
		}
		bucket = bucket[:write]

		if best == -1 {
			bq.buckets[bq.current] = bucket
			bq.current++
			continue
		}

		winner := bucket[best]
		bucket = append(bucket[:best], bucket[best+1:]...)
		bq.buckets[bq.current] = bucket
		bq.totalCount--
		return winner, true
	}
	return mergeCand{}, false
}
