// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package recommend

import (
	"context"
	"fmt"
	"iter"
)

// defaultCheckEvery is how many candidates are scored between context checks.
const defaultCheckEvery = 1024

// Scorer computes one user's top-N list by brute-force inner product.
// It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	// CheckEvery is the number of candidates scored between cancellation
	// checks. Zero uses defaultCheckEvery.
	CheckEvery int
}

// Score offers dot(user, item) for every candidate into a fresh TopK(n)
// and returns the extracted list, descending by score.
//
// If ctx is canceled mid-way the context error is returned and no
// partial list is produced.
func (s Scorer) Score(ctx context.Context, user []float64, items *FeatureMatrix, candidates iter.Seq[int], n int) ([]ScoredItem, error) {
	if len(user) != items.Factors() {
		return nil, &DimensionMismatchError{UserFactors: len(user), ItemFactors: items.Factors()}
	}

	checkEvery := s.CheckEvery
	if checkEvery <= 0 {
		checkEvery = defaultCheckEvery
	}

	top := NewTopK(n)
	if top.Cap() == 0 {
		return []ScoredItem{}, nil
	}

	scored := 0
	for idx := range candidates {
		if scored%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("scoring aborted after %d candidates: %w", scored, err)
			}
		}

		vec := items.Column(idx)
		if vec == nil {
			continue
		}

		top.Offer(ScoredItem{Index: idx, Score: Dot(user, vec)})
		scored++
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scoring aborted after %d candidates: %w", scored, err)
	}

	return top.Extract(), nil
}

// Dot returns the inner product of two equal-length vectors.
// Extra trailing elements of the longer vector are ignored.
func Dot(a, b []float64) float64 {
	n := min(len(a), len(b))
	a, b = a[:n], b[:n]

	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
