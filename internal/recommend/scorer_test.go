// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package recommend

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestScorer_Score(t *testing.T) {
	tests := []struct {
		name       string
		unseenOnly bool
		n          int
		want       []ScoredItem
	}{
		{"top two", false, 2, []ScoredItem{{3, 10}, {1, 6}}},
		{"unseen excludes best item", true, 2, []ScoredItem{{1, 6}, {2, 2}}},
		{"n larger than catalog", false, 10, []ScoredItem{{3, 10}, {1, 6}, {2, 2}}},
		{"n zero", false, 0, []ScoredItem{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := newTestDataset(t)
			f, err := NewFilterPipeline(ds, nil, tt.unseenOnly)
			if err != nil {
				t.Fatal(err)
			}

			got, err := Scorer{}.Score(context.Background(), ds.UserFactors.Column(1), ds.ItemFactors, f.Candidates(1), tt.n)
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScorer_DimensionMismatch(t *testing.T) {
	ds := newTestDataset(t)
	f, _ := NewFilterPipeline(ds, nil, false)

	_, err := Scorer{}.Score(context.Background(), []float64{1, 2}, ds.ItemFactors, f.Candidates(1), 2)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Score() error = %v, want ErrDimensionMismatch", err)
	}
}

func TestScorer_Canceled(t *testing.T) {
	ds := newTestDataset(t)
	f, _ := NewFilterPipeline(ds, nil, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := Scorer{CheckEvery: 1}.Score(ctx, ds.UserFactors.Column(1), ds.ItemFactors, f.Candidates(1), 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Score() error = %v, want context.Canceled", err)
	}
	if got != nil {
		t.Errorf("Score() returned partial result %v", got)
	}
}

func TestScorer_CanceledMidway(t *testing.T) {
	ds := newTestDataset(t)

	ctx, cancel := context.WithCancel(context.Background())
	candidates := func(yield func(int) bool) {
		for _, idx := range []int{1, 2, 3} {
			if idx == 2 {
				cancel()
			}
			if !yield(idx) {
				return
			}
		}
	}

	got, err := Scorer{CheckEvery: 1}.Score(ctx, ds.UserFactors.Column(1), ds.ItemFactors, candidates, 2)
	if !errors.Is(err, context.Canceled) || got != nil {
		t.Errorf("Score() = %v, %v; want nil, context.Canceled", got, err)
	}
}

func TestScorer_SkipsOutOfRangeCandidates(t *testing.T) {
	ds := newTestDataset(t)
	candidates := slices.Values([]int{1, 99, 3})

	got, err := Scorer{}.Score(context.Background(), ds.UserFactors.Column(1), ds.ItemFactors, candidates, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []ScoredItem{{3, 10}, {1, 6}}) {
		t.Errorf("Score() = %v", got)
	}
}

func TestDot(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"empty", nil, nil, 0},
		{"single", []float64{2}, []float64{3}, 6},
		{"vector", []float64{1, 2, 3}, []float64{4, 5, 6}, 32},
		{"negative", []float64{1, -1}, []float64{1, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dot(tt.a, tt.b); got != tt.want {
				t.Errorf("Dot() = %v, want %v", got, tt.want)
			}
		})
	}
}

func BenchmarkScorer_Score(b *testing.B) {
	const factors, items = 32, 10000

	cols := make([][]float64, items)
	for i := range cols {
		cols[i] = make([]float64, factors)
		for f := range cols[i] {
			cols[i][f] = float64((i*31+f*17)%97) / 97
		}
	}
	m, _ := FeatureMatrixFromColumns(cols)
	user := cols[0]

	catalog := make([]int, items)
	for i := range catalog {
		catalog[i] = i + 1
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Scorer{}.Score(context.Background(), user, m, slices.Values(catalog), 10)
	}
}
