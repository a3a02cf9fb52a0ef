// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/itemrec/internal/config"
	"github.com/tomtom215/itemrec/internal/recommend"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Badger stores JSON records in an embedded BadgerDB.
type Badger struct {
	db     *badger.DB
	prefix string
}

// NewBadger opens the BadgerDB described by cfg.
func NewBadger(cfg *config.BadgerConfig, target Target) (*Badger, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for results: %w", err)
	}
	return &Badger{db: db, prefix: KeyPrefix(target)}, nil
}

// Name implements ResultSink.
func (s *Badger) Name() string { return "badger" }

// Write implements ResultSink.
func (s *Badger) Write(ctx context.Context, r *recommend.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(NewRecord(r, time.Now()))
	if err != nil {
		return Permanent(fmt.Errorf("marshal record: %w", err))
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(Key(s.prefix, r)), data); err != nil {
			return fmt.Errorf("set record: %w", err)
		}
		return nil
	})
}

// Get reads the record stored under key.
func (s *Badger) Get(key string) (*Record, error) {
	var rec Record

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get record: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Count returns the number of records under this sink's prefix.
func (s *Badger) Count() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(s.prefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// Close implements ResultSink.
func (s *Badger) Close() error {
	return s.db.Close()
}
