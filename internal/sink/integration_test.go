// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

//go:build integration

package sink

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/itemrec/internal/config"
	"github.com/tomtom215/itemrec/internal/logging"
	"github.com/tomtom215/itemrec/internal/testinfra"
)

func TestRedis_Integration(t *testing.T) {
	testinfra.SkipIfNoDocker(t)
	ctx := context.Background()

	backend, err := testinfra.StartRedis(ctx)
	if err != nil {
		t.Fatalf("StartRedis() error = %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, backend)

	s, err := NewRedis(ctx, &config.RedisConfig{Addr: backend.Endpoint, TTL: time.Hour}, TargetEval)
	if err != nil {
		t.Fatalf("NewRedis() error = %v", err)
	}
	defer s.Close()

	if err := s.Write(ctx, testResult("u1")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	rec, err := s.Get(ctx, Key(KeyPrefix(TargetEval), testResult("u1")))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if rec.UserID != "u1" || rec.ItemIDs[0] != "i3" {
		t.Errorf("Get() = %+v", rec)
	}

	if _, err := s.Get(ctx, "offline_eval_itemrec_scores:0:0:false:none"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() missing key error = %v, want ErrNotFound", err)
	}
}

func TestMongo_Integration(t *testing.T) {
	testinfra.SkipIfNoDocker(t)
	ctx := context.Background()

	backend, err := testinfra.StartMongo(ctx)
	if err != nil {
		t.Fatalf("StartMongo() error = %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, backend)

	s, err := NewMongo(ctx, &config.MongoConfig{
		URI:      "mongodb://" + backend.Endpoint,
		Database: "itemrec_test",
	}, TargetPrimary)
	if err != nil {
		t.Fatalf("NewMongo() error = %v", err)
	}
	defer s.Close()

	// Second write upserts the same document.
	for range 2 {
		if err := s.Write(ctx, testResult("u1")); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	rec, err := s.Find(ctx, 3, 7, true, "u1")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(rec.Scores) != 2 || rec.Scores[0] != 10 {
		t.Errorf("Find() = %+v", rec)
	}

	n, err := s.col.CountDocuments(ctx, map[string]any{"uid": "u1"})
	if err != nil || n != 1 {
		t.Errorf("CountDocuments() = %d, %v; want 1", n, err)
	}
}

func TestNATSPublisher_Integration(t *testing.T) {
	testinfra.SkipIfNoDocker(t)
	ctx := context.Background()

	backend, err := testinfra.StartNATS(ctx)
	if err != nil {
		t.Fatalf("StartNATS() error = %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, backend)

	p, err := NewNATSPublisher(&config.NATSConfig{
		URL:       "nats://" + backend.Endpoint,
		JetStream: true,
	}, TargetPrimary, logging.NewWatermillAdapter())
	if err != nil {
		t.Fatalf("NewNATSPublisher() error = %v", err)
	}
	defer p.Close()

	if err := p.Write(ctx, testResult("u1")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
}
