// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package sink

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/itemrec/internal/config"
)

func setupBadger(t *testing.T, target Target) *Badger {
	t.Helper()

	s, err := NewBadger(&config.BadgerConfig{InMemory: true}, target)
	if err != nil {
		t.Fatalf("NewBadger() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBadger_WriteAndGet(t *testing.T) {
	s := setupBadger(t, TargetPrimary)
	ctx := context.Background()

	if err := s.Write(ctx, testResult("u1")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	// Idempotent per identity.
	if err := s.Write(ctx, testResult("u1")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	rec, err := s.Get("itemrec_scores:3:7:true:u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if rec.UserID != "u1" || len(rec.ItemIDs) != 2 || rec.ItemTypes[0][0] != "book" {
		t.Errorf("Get() = %+v", rec)
	}

	n, err := s.Count()
	if err != nil || n != 1 {
		t.Errorf("Count() = %d, %v; want 1", n, err)
	}
}

func TestBadger_NotFound(t *testing.T) {
	s := setupBadger(t, TargetEval)

	if _, err := s.Get("offline_eval_itemrec_scores:1:1:false:nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestBadger_TargetPrefix(t *testing.T) {
	s := setupBadger(t, TargetEval)
	if err := s.Write(context.Background(), testResult("u1")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get("offline_eval_itemrec_scores:3:7:true:u1"); err != nil {
		t.Errorf("eval record not under eval prefix: %v", err)
	}
}
