// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package recommend

import (
	"fmt"
	"iter"
)

// Eligibility decides whether a catalog item may be recommended at all,
// independent of the user. It is evaluated once per item when the
// FilterPipeline is built.
type Eligibility interface {
	Eligible(index int, item Item) (bool, error)
}

// EligibilityFunc adapts a function to the Eligibility interface.
type EligibilityFunc func(index int, item Item) (bool, error)

// Eligible implements Eligibility.
func (f EligibilityFunc) Eligible(index int, item Item) (bool, error) {
	return f(index, item)
}

// AllowAll accepts every mapped item.
var AllowAll Eligibility = EligibilityFunc(func(int, Item) (bool, error) {
	return true, nil
})

// FilterPipeline produces the candidate item indices for a user.
//
// The eligible catalog is computed once, in ascending item index order,
// from the items that have both a matrix column and an index mapping
// entry and pass the Eligibility predicate. Per-user candidates are then
// yielded lazily from that shared catalog.
type FilterPipeline struct {
	catalog    []int
	seen       SeenSet
	unseenOnly bool

	unmappedItems  int
	missingColumns int
	ineligible     int
}

// NewFilterPipeline builds the eligible catalog for ds.
// A nil eligibility is treated as AllowAll.
func NewFilterPipeline(ds *Dataset, eligibility Eligibility, unseenOnly bool) (*FilterPipeline, error) {
	if eligibility == nil {
		eligibility = AllowAll
	}

	f := &FilterPipeline{
		seen:       ds.Seen,
		unseenOnly: unseenOnly,
	}

	columns := ds.ItemFactors.Columns()
	f.catalog = make([]int, 0, min(columns, len(ds.Items)))

	for idx := 1; idx <= columns; idx++ {
		item, ok := ds.Items[idx]
		if !ok {
			f.unmappedItems++
			continue
		}

		eligible, err := eligibility.Eligible(idx, item)
		if err != nil {
			return nil, fmt.Errorf("eligibility of item %d (%s): %w", idx, item.ID, err)
		}
		if !eligible {
			f.ineligible++
			continue
		}

		f.catalog = append(f.catalog, idx)
	}

	for idx := range ds.Items {
		if idx < 1 || idx > columns {
			f.missingColumns++
		}
	}

	return f, nil
}

// Candidates yields the eligible item indices for user in ascending order,
// skipping items the user has seen when unseen filtering is enabled.
func (f *FilterPipeline) Candidates(user int) iter.Seq[int] {
	var seen map[int]struct{}
	if f.unseenOnly {
		seen = f.seen[user]
	}

	return func(yield func(int) bool) {
		for _, idx := range f.catalog {
			if _, skip := seen[idx]; skip {
				continue
			}
			if !yield(idx) {
				return
			}
		}
	}
}

// CatalogSize returns the number of eligible items before per-user filtering.
func (f *FilterPipeline) CatalogSize() int {
	return len(f.catalog)
}

// UnmappedItems returns the number of item matrix columns without an index entry.
func (f *FilterPipeline) UnmappedItems() int {
	return f.unmappedItems
}

// MissingColumns returns the number of index entries without a matrix column.
func (f *FilterPipeline) MissingColumns() int {
	return f.missingColumns
}

// Ineligible returns the number of mapped items rejected by the Eligibility predicate.
func (f *FilterPipeline) Ineligible() int {
	return f.ineligible
}
