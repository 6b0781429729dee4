package ranking

import "container/heap"

// candidate is one matching record awaiting ranking.
type candidate struct {
	index     int
	score     float64
	factor    float64
	positions []int
}

// better reports whether a ranks ahead of b: higher score, then higher
// factor, then earlier corpus index. The order is total, so shard merges
// and repeated queries agree.
func better(a, b candidate) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	if a.factor != b.factor {
		return a.factor > b.factor
	}
	return a.index < b.index
}

// candidateHeap is a min-heap: the root is the worst kept candidate.
type candidateHeap []candidate

func (h candidateHeap) Len() int           { return len(h) }
func (h candidateHeap) Less(i, j int) bool { return better(h[j], h[i]) }
func (h candidateHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x any) {
	*h = append(*h, x.(candidate)) //nolint:forcetypeassert // only candidates are pushed
}

func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}

// topN keeps the best limit candidates seen so far.
type topN struct {
	limit int
	h     candidateHeap
}

func newTopN(limit int) *topN {
	return &topN{limit: limit, h: make(candidateHeap, 0, min(limit, 64))}
}

// offer inserts c while there is room; once full, c replaces the worst kept
// candidate only if it is strictly better.
func (t *topN) offer(c candidate) {
	if len(t.h) < t.limit {
		heap.Push(&t.h, c)
		return
	}
	if better(c, t.h[0]) {
		t.h[0] = c
		heap.Fix(&t.h, 0)
	}
}

// drain empties the heap and returns its candidates best-first.
func (t *topN) drain() []candidate {
	out := make([]candidate, len(t.h))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&t.h).(candidate) //nolint:forcetypeassert // only candidates are pushed
	}
	return out
}
