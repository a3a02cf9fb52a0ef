// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package sink

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/itemrec/internal/config"
	"github.com/tomtom215/itemrec/internal/logging"
)

// OpenBackend opens the backend selected by cfg.Backend for target.
//
//nolint:gocritic // zerolog.Logger is passed by value per zerolog convention
func OpenBackend(ctx context.Context, cfg *config.SinkConfig, target Target, logger zerolog.Logger) (ResultSink, error) {
	switch cfg.Backend {
	case config.BackendDuckDB, "":
		return NewDuckDB(&cfg.DuckDB, target)
	case config.BackendBadger:
		return NewBadger(&cfg.Badger, target)
	case config.BackendRedis:
		return NewRedis(ctx, &cfg.Redis, target)
	case config.BackendMongo:
		return NewMongo(ctx, &cfg.Mongo, target)
	case config.BackendNATS:
		return NewNATSPublisher(&cfg.NATS, target, logging.NewWatermillAdapterWithLogger(logger))
	case config.BackendMemory:
		return NewMemory(target), nil
	default:
		return nil, fmt.Errorf("unknown sink backend %q", cfg.Backend)
	}
}

// Open opens the configured backend wrapped in Resilient.
//
//nolint:gocritic // zerolog.Logger is passed by value per zerolog convention
func Open(ctx context.Context, cfg *config.SinkConfig, target Target, logger zerolog.Logger) (*Resilient, error) {
	backend, err := OpenBackend(ctx, cfg, target, logger)
	if err != nil {
		return nil, fmt.Errorf("open %s sink: %w", cfg.Backend, err)
	}

	logger.Info().Str("backend", backend.Name()).Str("target", target.String()).Msg("result sink opened")

	return NewResilient(backend, ResilientConfigFrom(cfg), logger), nil
}

// ResilientConfigFrom maps sink settings onto the resilience wrapper.
func ResilientConfigFrom(cfg *config.SinkConfig) ResilientConfig {
	failures := cfg.BreakerFailures
	if failures < 0 {
		failures = 0
	}
	return ResilientConfig{
		Retry: RetryPolicy{
			Attempts:     cfg.RetryAttempts,
			InitialDelay: cfg.RetryDelay,
			MaxDelay:     cfg.RetryMaxDelay,
			Multiplier:   2,
			Jitter:       0.1,
		},
		WriteTimeout:    cfg.WriteTimeout,
		RateLimit:       cfg.RateLimit,
		RateBurst:       cfg.RateBurst,
		BreakerFailures: uint32(failures), //nolint:gosec // validated gte=1
		BreakerTimeout:  cfg.BreakerTimeout,
	}
}
