// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/itemrec/internal/validation"
)

// Validate checks that required configuration is present and valid.
// Struct tag rules run first, then cross-field rules.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateSink(); err != nil {
		return err
	}

	return c.validateMetrics()
}

// validateSink checks the settings of the selected backend only.
func (c *Config) validateSink() error {
	s := &c.Sink

	if s.RetryMaxDelay > 0 && s.RetryMaxDelay < s.RetryDelay {
		return fmt.Errorf("SINK_RETRY_MAX_DELAY (%v) must be >= SINK_RETRY_DELAY (%v)", s.RetryMaxDelay, s.RetryDelay)
	}

	switch s.Backend {
	case BackendDuckDB:
		// Empty path selects an in-memory database.
		return nil
	case BackendBadger:
		if !s.Badger.InMemory && s.Badger.Path == "" {
			return fmt.Errorf("BADGER_PATH is required when SINK_BACKEND=badger and BADGER_IN_MEMORY=false")
		}
	case BackendRedis:
		if s.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when SINK_BACKEND=redis")
		}
	case BackendMongo:
		if s.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required when SINK_BACKEND=mongo")
		}
		if !strings.HasPrefix(s.Mongo.URI, "mongodb://") && !strings.HasPrefix(s.Mongo.URI, "mongodb+srv://") {
			return fmt.Errorf("MONGO_URI must start with mongodb:// or mongodb+srv://")
		}
		if s.Mongo.Database == "" {
			return fmt.Errorf("MONGO_DATABASE is required when SINK_BACKEND=mongo")
		}
	case BackendNATS:
		if s.NATS.URL == "" {
			return fmt.Errorf("NATS_URL is required when SINK_BACKEND=nats")
		}
		if _, err := url.Parse(s.NATS.URL); err != nil {
			return fmt.Errorf("NATS_URL is invalid: %w", err)
		}
	}
	return nil
}

func (c *Config) validateMetrics() error {
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return fmt.Errorf("METRICS_LISTEN is required when METRICS_ENABLED=true")
	}
	return nil
}
