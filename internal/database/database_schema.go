// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

/*
database_schema.go - Score Table Schema

Tables:
  - itemrec_scores: recommendation lists of regular runs
  - offline_eval_itemrec_scores: recommendation lists of offline-evaluation runs

Both tables share one layout. List columns (iids, scores, itypes) are stored
as JSON text so rows round-trip without driver-specific list binding.
The primary key (contextid, algoid, modelset, uid) makes a retried write
replace the earlier attempt instead of duplicating it.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// ScoreTable names a recommendation score table.
type ScoreTable string

const (
	// TableScores holds results of regular runs.
	TableScores ScoreTable = "itemrec_scores"
	// TableEvalScores holds results of offline-evaluation runs.
	TableEvalScores ScoreTable = "offline_eval_itemrec_scores"
)

// Valid reports whether t is one of the known tables.
func (t ScoreTable) Valid() bool {
	return t == TableScores || t == TableEvalScores
}

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the score tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, table := range []ScoreTable{TableScores, TableEvalScores} {
		query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			contextid INTEGER NOT NULL,
			algoid INTEGER NOT NULL,
			modelset BOOLEAN NOT NULL,
			uid TEXT NOT NULL,
			iids TEXT NOT NULL,
			scores TEXT NOT NULL,
			itypes TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			PRIMARY KEY (contextid, algoid, modelset, uid)
		)`, table)

		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}

	return nil
}
