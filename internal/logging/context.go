// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	runIDKey  contextKey = "run_id"
	loggerKey contextKey = "logger"
)

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// ContextWithRunID tags ctx with the id of the current job run.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext returns the run id, or "" when none is set.
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithLogger stores a logger in the context.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext returns the stored logger or the global one.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return Logger()
}

// Ctx returns the context logger with run_id attached when present.
//
//	logging.Ctx(ctx).Info().Int("users", n).Msg("scoring started")
func Ctx(ctx context.Context) *zerolog.Logger {
	logger := LoggerFromContext(ctx)
	if id := RunIDFromContext(ctx); id != "" {
		logger = logger.With().Str("run_id", id).Logger()
	}
	return &logger
}

// WithComponent creates a child of the global logger with a component field.
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
