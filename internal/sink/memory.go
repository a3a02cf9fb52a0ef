// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package sink

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/itemrec/internal/recommend"
)

// Memory keeps records in process. Used for dry runs and tests.
type Memory struct {
	mu      sync.Mutex
	target  Target
	records map[string]*Record
	order   []string
	closed  bool
}

// NewMemory creates an empty in-memory sink.
func NewMemory(target Target) *Memory {
	return &Memory{
		target:  target,
		records: make(map[string]*Record),
	}
}

// Name implements ResultSink.
func (m *Memory) Name() string { return "memory" }

// Write implements ResultSink. A second write for the same key replaces the first.
func (m *Memory) Write(ctx context.Context, r *recommend.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	key := Key(KeyPrefix(m.target), r)
	if _, ok := m.records[key]; !ok {
		m.order = append(m.order, key)
	}
	m.records[key] = NewRecord(r, time.Now())
	return nil
}

// Records returns the stored records in first-write order.
func (m *Memory) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Record, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, *m.records[k])
	}
	return out
}

// Get returns the record stored under key.
func (m *Memory) Get(key string) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[key]
	if !ok {
		return Record{}, false
	}
	return *r, true
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// Close implements ResultSink.
func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
