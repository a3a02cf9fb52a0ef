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

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/itemrec/internal/config"
	"github.com/tomtom215/itemrec/internal/recommend"
)

// Redis stores JSON records as plain string keys.
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedis connects to the server described by cfg and verifies it with PING.
func NewRedis(ctx context.Context, cfg *config.RedisConfig, target Target) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		closeQuietly(client)
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}

	return NewRedisWithClient(client, target, cfg.TTL), nil
}

// NewRedisWithClient writes through an existing client. Close closes client.
func NewRedisWithClient(client redis.UniversalClient, target Target, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: KeyPrefix(target), ttl: ttl}
}

// Name implements ResultSink.
func (s *Redis) Name() string { return "redis" }

// Write implements ResultSink.
func (s *Redis) Write(ctx context.Context, r *recommend.Result) error {
	data, err := json.Marshal(NewRecord(r, time.Now()))
	if err != nil {
		return Permanent(fmt.Errorf("marshal record: %w", err))
	}

	if err := s.client.Set(ctx, Key(s.prefix, r), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", r.UserID, err)
	}
	return nil
}

// Get reads the record stored under key.
func (s *Redis) Get(ctx context.Context, key string) (*Record, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &rec, nil
}

// Close implements ResultSink.
func (s *Redis) Close() error {
	return s.client.Close()
}
