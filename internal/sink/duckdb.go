// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package sink

import (
	"context"
	"time"

	"github.com/tomtom215/itemrec/internal/config"
	"github.com/tomtom215/itemrec/internal/database"
	"github.com/tomtom215/itemrec/internal/recommend"
)

// DuckDB writes results into a DuckDB score table.
type DuckDB struct {
	db    *database.DB
	table database.ScoreTable
	owned bool
}

// NewDuckDB opens the database described by cfg and writes to the target's table.
func NewDuckDB(cfg *config.DuckDBConfig, target Target) (*DuckDB, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}
	s := NewDuckDBWithDB(db, target)
	s.owned = true
	return s, nil
}

// NewDuckDBWithDB writes through an existing connection. Close does not close db.
func NewDuckDBWithDB(db *database.DB, target Target) *DuckDB {
	table := database.TableScores
	if target == TargetEval {
		table = database.TableEvalScores
	}
	return &DuckDB{db: db, table: table}
}

// Name implements ResultSink.
func (s *DuckDB) Name() string { return "duckdb" }

// Table returns the table results are written to.
func (s *DuckDB) Table() database.ScoreTable { return s.table }

// Write implements ResultSink.
func (s *DuckDB) Write(ctx context.Context, r *recommend.Result) error {
	return s.db.InsertScore(ctx, s.table, &database.ScoreRow{
		ContextID: r.ContextID,
		AlgoID:    r.AlgoID,
		ModelSet:  r.ModelSet,
		UserID:    r.UserID,
		ItemIDs:   r.ItemIDs(),
		Scores:    r.Scores(),
		ItemTypes: r.ItemTags(),
		CreatedAt: time.Now().UTC(),
	})
}

// Close implements ResultSink.
func (s *DuckDB) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}
