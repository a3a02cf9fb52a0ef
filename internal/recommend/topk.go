// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package recommend

import (
	"math"
	"sort"
)

// TopK retains the n highest-scoring items out of a stream of offers.
//
// It is a bounded min-heap whose root is the weakest retained entry:
// lowest score, and for equal scores the highest item index. Offer is
// O(log n), Extract is O(n log n), memory is O(n) regardless of how many
// items are offered.
//
// A TopK is not safe for concurrent use; each scoring task owns one.
type TopK struct {
	n    int
	heap []ScoredItem
}

// NewTopK creates a selector with capacity n. A non-positive n yields a
// selector that never retains anything.
func NewTopK(n int) *TopK {
	if n < 0 {
		n = 0
	}
	return &TopK{
		n:    n,
		heap: make([]ScoredItem, 0, n),
	}
}

// Cap returns the capacity n.
func (t *TopK) Cap() int {
	return t.n
}

// Len returns the number of retained items.
func (t *TopK) Len() int {
	return len(t.heap)
}

// Offer considers item for retention.
//
// Below capacity the item is always kept. At capacity it replaces the
// current minimum only when its score is strictly greater; ties with the
// minimum are discarded. NaN scores are never retained.
func (t *TopK) Offer(item ScoredItem) {
	if t.n == 0 || math.IsNaN(item.Score) {
		return
	}

	if len(t.heap) < t.n {
		t.heap = append(t.heap, item)
		t.bubbleUp(len(t.heap) - 1)
		return
	}

	if item.Score > t.heap[0].Score {
		t.heap[0] = item
		t.bubbleDown(0)
	}
}

// Min returns the weakest retained item. ok is false when nothing is retained.
func (t *TopK) Min() (item ScoredItem, ok bool) {
	if len(t.heap) == 0 {
		return ScoredItem{}, false
	}
	return t.heap[0], true
}

// Extract returns the retained items ordered by descending score, with
// equal scores ordered by ascending item index. The selector is unchanged.
func (t *TopK) Extract() []ScoredItem {
	out := make([]ScoredItem, len(t.heap))
	copy(out, t.heap)

	sort.Slice(out, func(i, j int) bool {
		return ranksBefore(out[i], out[j])
	})
	return out
}

// ranksBefore is the output order: higher score first, then lower index.
func ranksBefore(a, b ScoredItem) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Index < b.Index
}

// weaker is the heap order, the inverse of ranksBefore.
func weaker(a, b ScoredItem) bool {
	return ranksBefore(b, a)
}

// bubbleUp moves the element at index i up to its correct position.
func (t *TopK) bubbleUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !weaker(t.heap[i], t.heap[parent]) {
			break
		}
		t.heap[i], t.heap[parent] = t.heap[parent], t.heap[i]
		i = parent
	}
}

// bubbleDown moves the element at index i down to its correct position.
func (t *TopK) bubbleDown(i int) {
	n := len(t.heap)
	for {
		weakest := i
		left := 2*i + 1
		right := 2*i + 2

		if left < n && weaker(t.heap[left], t.heap[weakest]) {
			weakest = left
		}
		if right < n && weaker(t.heap[right], t.heap[weakest]) {
			weakest = right
		}

		if weakest == i {
			break
		}

		t.heap[i], t.heap[weakest] = t.heap[weakest], t.heap[i]
		i = weakest
	}
}
