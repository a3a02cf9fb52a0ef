// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/itemrec/internal/logging"
	"github.com/tomtom215/itemrec/internal/middleware"
	"github.com/tomtom215/itemrec/internal/recommend"
)

// progressSource reports the live state of a run.
type progressSource interface {
	Progress() recommend.Progress
}

// breakerSource reports the sink circuit breaker state.
type breakerSource interface {
	Name() string
	State() string
}

// statusResponse is the body of GET /status.
type statusResponse struct {
	RunID    string             `json:"run_id"`
	Target   string             `json:"target"`
	Progress recommend.Progress `json:"progress"`
	Sink     sinkStatus         `json:"sink"`
	LogLevel string             `json:"log_level"`
}

type sinkStatus struct {
	Backend string `json:"backend"`
	Breaker string `json:"breaker"`
}

// newRouter serves the observability endpoints of a running job.
func newRouter(runID, target string, progress progressSource, breaker breakerSource) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, statusResponse{
			RunID:    runID,
			Target:   target,
			Progress: progress.Progress(),
			Sink: sinkStatus{
				Backend: breaker.Name(),
				Breaker: breaker.State(),
			},
			LogLevel: logging.GetLevel().String(),
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
