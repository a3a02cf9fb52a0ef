// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

// Package logging provides the zerolog-based structured logger for itemrec.
//
// A global logger is configured once from config.LoggingConfig and
// components derive children from it:
//
//	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
//	logger := logging.WithComponent("orchestrator")
//	logger.Info().Int("users", n).Msg("scoring started")
//
// Configuration:
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// Logs go to stderr by default.
//
// # Run Context
//
// Every job run gets a run id. ContextWithRunID stores it and Ctx adds it
// as run_id to each entry:
//
//	ctx = logging.ContextWithRunID(ctx, logging.NewRunID())
//	logging.Ctx(ctx).Warn().Int("unmapped", k).Msg("user columns without index entry")
//
// # Adapters
//
// SlogHandler feeds slog records (sutureslog supervisor events) into zerolog.
// WatermillAdapter does the same for Watermill publishers.
//
//	hook := (&sutureslog.Handler{Logger: logging.NewSlogLogger()}).MustHook()
//	pub, err := sink.NewNATSPublisher(&cfg.Sink.NATS, target, logging.NewWatermillAdapter())
//
// # Output Formats
//
// JSON:
//
//	{"level":"info","component":"orchestrator","users":1200,"time":"2026-01-03T10:30:00Z","message":"scoring started"}
//
// Console:
//
//	10:30:00 INF scoring started component=orchestrator users=1200
//
// All exported functions are safe for concurrent use.
package logging
