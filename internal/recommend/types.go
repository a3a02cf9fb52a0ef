// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package recommend

import "fmt"

// Item is an entry of the item catalog keyed by its 1-based item index.
type Item struct {
	// ID is the external item identifier.
	ID string `json:"id"`

	// Tags are the item's category tags ("itypes").
	Tags []string `json:"tags,omitempty"`
}

// FeatureMatrix holds latent-factor vectors for one entity kind.
//
// The matrix has Factors() rows and Columns() columns. Storage is
// column-major, so the FeatureVector of entity c is a contiguous slice.
type FeatureMatrix struct {
	factors int
	columns int
	data    []float64
}

// NewFeatureMatrix allocates a zeroed factors x columns matrix.
func NewFeatureMatrix(factors, columns int) *FeatureMatrix {
	if factors < 0 {
		factors = 0
	}
	if columns < 0 {
		columns = 0
	}
	return &FeatureMatrix{
		factors: factors,
		columns: columns,
		data:    make([]float64, factors*columns),
	}
}

// FeatureMatrixFromColumns builds a matrix from per-entity vectors.
// cols[0] becomes column 1. All vectors must share the same length.
func FeatureMatrixFromColumns(cols [][]float64) (*FeatureMatrix, error) {
	if len(cols) == 0 {
		return NewFeatureMatrix(0, 0), nil
	}

	factors := len(cols[0])
	m := NewFeatureMatrix(factors, len(cols))
	for i, col := range cols {
		if len(col) != factors {
			return nil, fmt.Errorf("column %d has %d factors, want %d", i+1, len(col), factors)
		}
		copy(m.data[i*factors:(i+1)*factors], col)
	}
	return m, nil
}

// Factors returns F, the length of every column vector.
func (m *FeatureMatrix) Factors() int {
	return m.factors
}

// Columns returns the number of entity columns.
func (m *FeatureMatrix) Columns() int {
	return m.columns
}

// Column returns the FeatureVector of the 1-based column c.
// The returned slice aliases the matrix and must not be modified.
// Returns nil when c is out of range.
func (m *FeatureMatrix) Column(c int) []float64 {
	if c < 1 || c > m.columns {
		return nil
	}
	start := (c - 1) * m.factors
	return m.data[start : start+m.factors : start+m.factors]
}

// Set stores v at the 1-based (row, col) position.
func (m *FeatureMatrix) Set(row, col int, v float64) error {
	if row < 1 || row > m.factors || col < 1 || col > m.columns {
		return fmt.Errorf("position (%d,%d) outside %dx%d matrix", row, col, m.factors, m.columns)
	}
	m.data[(col-1)*m.factors+row-1] = v
	return nil
}

// SeenSet maps a user index to the set of item indices the user has already rated.
type SeenSet map[int]map[int]struct{}

// Add records that user has seen item.
func (s SeenSet) Add(user, item int) {
	items, ok := s[user]
	if !ok {
		items = make(map[int]struct{})
		s[user] = items
	}
	items[item] = struct{}{}
}

// Contains reports whether user has seen item. Safe on a nil set.
func (s SeenSet) Contains(user, item int) bool {
	_, ok := s[user][item]
	return ok
}

// Dataset is everything a job run reads from its DataSource.
// It is loaded once and shared read-only by all scoring tasks.
type Dataset struct {
	// Users maps user index to external user id.
	Users map[int]string

	// Items maps item index to catalog entry.
	Items map[int]Item

	// Seen holds previously rated items per user. Empty unless unseen filtering is enabled.
	Seen SeenSet

	// UserFactors has one column per user index.
	UserFactors *FeatureMatrix

	// ItemFactors has one column per item index.
	ItemFactors *FeatureMatrix
}

// Validate checks the cross-file invariants of a loaded dataset.
func (d *Dataset) Validate() error {
	if d.UserFactors == nil || d.ItemFactors == nil {
		return fmt.Errorf("dataset is missing a feature matrix")
	}
	if d.UserFactors.Factors() != d.ItemFactors.Factors() {
		return &DimensionMismatchError{
			UserFactors: d.UserFactors.Factors(),
			ItemFactors: d.ItemFactors.Factors(),
		}
	}
	return nil
}

// ScoredItem is an (item index, score) pair produced while scoring one user.
type ScoredItem struct {
	Index int
	Score float64
}

// RecommendedItem is one entry of a persisted recommendation list.
type RecommendedItem struct {
	ItemID string   `json:"iid"`
	Score  float64  `json:"score"`
	Tags   []string `json:"itypes"`
}

// Result is the top-N recommendation list of a single user.
// Items are ordered by descending score.
type Result struct {
	// UserID is the external user id.
	UserID string `json:"uid"`

	// Items is the ordered recommendation list, at most N entries.
	Items []RecommendedItem `json:"items"`

	// ContextID is the effective context id: the app id, or the
	// evaluation id in offline-evaluation mode.
	ContextID int `json:"appid"`

	// AlgoID identifies the algorithm that produced the factors.
	AlgoID int `json:"algoid"`

	// ModelSet tags the role of the result set.
	ModelSet bool `json:"modelset"`
}

// ItemIDs returns the ordered item ids.
func (r *Result) ItemIDs() []string {
	out := make([]string, len(r.Items))
	for i, it := range r.Items {
		out[i] = it.ItemID
	}
	return out
}

// Scores returns the ordered scores.
func (r *Result) Scores() []float64 {
	out := make([]float64, len(r.Items))
	for i, it := range r.Items {
		out[i] = it.Score
	}
	return out
}

// ItemTags returns the ordered per-item tag lists.
func (r *Result) ItemTags() [][]string {
	out := make([][]string, len(r.Items))
	for i, it := range r.Items {
		tags := it.Tags
		if tags == nil {
			tags = []string{}
		}
		out[i] = tags
	}
	return out
}
