// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package sink

import (
	"context"
	"errors"
	"testing"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(TargetPrimary)

	for _, uid := range []string{"u2", "u1", "u2"} {
		if err := m.Write(ctx, testResult(uid)); err != nil {
			t.Fatalf("Write(%s) error = %v", uid, err)
		}
	}

	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (rewrite replaces)", m.Len())
	}
	recs := m.Records()
	if recs[0].UserID != "u2" || recs[1].UserID != "u1" {
		t.Errorf("Records() order = %s, %s", recs[0].UserID, recs[1].UserID)
	}

	if _, ok := m.Get("itemrec_scores:3:7:true:u1"); !ok {
		t.Error("Get() missing u1")
	}

	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if err := m.Write(ctx, testResult("u3")); !errors.Is(err, ErrClosed) {
		t.Errorf("Write() after Close error = %v, want ErrClosed", err)
	}
}

func TestMemory_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMemory(TargetEval)
	if err := m.Write(ctx, testResult("u1")); !errors.Is(err, context.Canceled) {
		t.Errorf("Write() error = %v, want context.Canceled", err)
	}
}
