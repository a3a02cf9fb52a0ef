// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/itemrec/internal/database/query"
)

// ScoreRow is one persisted recommendation list.
type ScoreRow struct {
	ContextID int
	AlgoID    int
	ModelSet  bool
	UserID    string
	ItemIDs   []string
	Scores    []float64
	ItemTypes [][]string
	CreatedAt time.Time
}

// ScoreFilter narrows ListScores. Nil fields match everything.
type ScoreFilter struct {
	ContextID *int
	AlgoID    *int
	ModelSet  *bool
	UserIDs   []string
}

// InsertScore writes row into table, replacing any row with the same
// (contextid, algoid, modelset, uid).
func (db *DB) InsertScore(ctx context.Context, table ScoreTable, row *ScoreRow) error {
	if !table.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}

	iids, err := json.Marshal(row.ItemIDs)
	if err != nil {
		return fmt.Errorf("failed to encode iids: %w", err)
	}
	scores, err := json.Marshal(row.Scores)
	if err != nil {
		return fmt.Errorf("failed to encode scores: %w", err)
	}
	itypes, err := json.Marshal(row.ItemTypes)
	if err != nil {
		return fmt.Errorf("failed to encode itypes: %w", err)
	}

	createdAt := row.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	q := fmt.Sprintf(`INSERT OR REPLACE INTO %s
		(contextid, algoid, modelset, uid, iids, scores, itypes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, table)

	if _, err := db.conn.ExecContext(ctx, q,
		row.ContextID, row.AlgoID, row.ModelSet, row.UserID,
		string(iids), string(scores), string(itypes), createdAt,
	); err != nil {
		return fmt.Errorf("failed to insert score for %s: %w", row.UserID, err)
	}
	return nil
}

// ListScores returns rows of table matching filter, ordered by uid.
func (db *DB) ListScores(ctx context.Context, table ScoreTable, filter ScoreFilter) ([]ScoreRow, error) {
	if !table.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}

	wb := query.NewWhereBuilder()
	if filter.ContextID != nil {
		wb.AddEquals("contextid", *filter.ContextID)
	}
	if filter.AlgoID != nil {
		wb.AddEquals("algoid", *filter.AlgoID)
	}
	if filter.ModelSet != nil {
		wb.AddEquals("modelset", *filter.ModelSet)
	}
	wb.AddIn("uid", filter.UserIDs)
	where, args := wb.BuildWithPrefix()

	q := fmt.Sprintf(`SELECT contextid, algoid, modelset, uid, iids, scores, itypes, created_at
		FROM %s %s ORDER BY uid`, table, where)

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer closeWithLog(rows, "rows")

	var out []ScoreRow
	for rows.Next() {
		var (
			r                    ScoreRow
			iids, scores, itypes string
		)
		if err := rows.Scan(&r.ContextID, &r.AlgoID, &r.ModelSet, &r.UserID, &iids, &scores, &itypes, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		if err := json.Unmarshal([]byte(iids), &r.ItemIDs); err != nil {
			return nil, fmt.Errorf("failed to decode iids of %s: %w", r.UserID, err)
		}
		if err := json.Unmarshal([]byte(scores), &r.Scores); err != nil {
			return nil, fmt.Errorf("failed to decode scores of %s: %w", r.UserID, err)
		}
		if err := json.Unmarshal([]byte(itypes), &r.ItemTypes); err != nil {
			return nil, fmt.Errorf("failed to decode itypes of %s: %w", r.UserID, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table, err)
	}
	return out, nil
}

// CountScores returns the number of rows in table.
func (db *DB) CountScores(ctx context.Context, table ScoreTable) (int, error) {
	if !table.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}

	var n int
	if err := db.conn.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}
