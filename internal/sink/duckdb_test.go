// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package sink

import (
	"context"
	"testing"

	"github.com/tomtom215/itemrec/internal/config"
	"github.com/tomtom215/itemrec/internal/database"
)

func TestDuckDB_RoutesByTarget(t *testing.T) {
	db, err := database.New(&config.DuckDBConfig{})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	primary := NewDuckDBWithDB(db, TargetPrimary)
	eval := NewDuckDBWithDB(db, TargetEval)

	if err := primary.Write(ctx, testResult("u1")); err != nil {
		t.Fatalf("primary Write() error = %v", err)
	}
	if err := eval.Write(ctx, testResult("u1")); err != nil {
		t.Fatalf("eval Write() error = %v", err)
	}
	if err := eval.Write(ctx, testResult("u2")); err != nil {
		t.Fatalf("eval Write() error = %v", err)
	}

	for table, want := range map[database.ScoreTable]int{
		database.TableScores:     1,
		database.TableEvalScores: 2,
	} {
		n, err := db.CountScores(ctx, table)
		if err != nil {
			t.Fatalf("CountScores(%s) error = %v", table, err)
		}
		if n != want {
			t.Errorf("CountScores(%s) = %d, want %d", table, n, want)
		}
	}

	rows, err := db.ListScores(ctx, database.TableScores, database.ScoreFilter{UserIDs: []string{"u1"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].ItemIDs[0] != "i3" || rows[0].Scores[0] != 10 {
		t.Errorf("ListScores() = %+v", rows)
	}

	// Borrowed connection stays open.
	if err := primary.Close(); err != nil {
		t.Fatal(err)
	}
	if err := db.Ping(ctx); err != nil {
		t.Errorf("db closed by borrowed sink: %v", err)
	}
}
