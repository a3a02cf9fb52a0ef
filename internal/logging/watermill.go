// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package logging

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

// WatermillAdapter routes Watermill publisher and subscriber logs through zerolog.
type WatermillAdapter struct {
	logger zerolog.Logger
}

var _ watermill.LoggerAdapter = (*WatermillAdapter)(nil)

// NewWatermillAdapter creates an adapter over the global logger.
func NewWatermillAdapter() *WatermillAdapter {
	return &WatermillAdapter{
		logger: With().Str("component", "watermill").Logger(),
	}
}

// NewWatermillAdapterWithLogger creates an adapter over logger.
//
//nolint:gocritic // zerolog.Logger is passed by value per zerolog convention
func NewWatermillAdapterWithLogger(logger zerolog.Logger) *WatermillAdapter {
	return &WatermillAdapter{
		logger: logger.With().Str("component", "watermill").Logger(),
	}
}

// Error implements watermill.LoggerAdapter.
func (a *WatermillAdapter) Error(msg string, err error, fields watermill.LogFields) {
	withFields(a.logger.Error().Err(err), fields).Msg(msg)
}

// Info implements watermill.LoggerAdapter.
func (a *WatermillAdapter) Info(msg string, fields watermill.LogFields) {
	withFields(a.logger.Info(), fields).Msg(msg)
}

// Debug implements watermill.LoggerAdapter.
func (a *WatermillAdapter) Debug(msg string, fields watermill.LogFields) {
	withFields(a.logger.Debug(), fields).Msg(msg)
}

// Trace implements watermill.LoggerAdapter.
func (a *WatermillAdapter) Trace(msg string, fields watermill.LogFields) {
	withFields(a.logger.Trace(), fields).Msg(msg)
}

// With implements watermill.LoggerAdapter.
func (a *WatermillAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &WatermillAdapter{logger: a.logger.With().Fields(map[string]interface{}(fields)).Logger()}
}

func withFields(e *zerolog.Event, fields watermill.LogFields) *zerolog.Event {
	if len(fields) == 0 {
		return e
	}
	return e.Fields(map[string]interface{}(fields))
}
