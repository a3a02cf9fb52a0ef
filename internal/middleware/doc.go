// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

/*
Package middleware provides HTTP middleware for the job's observability server.

Key Components:

  - Request ID: UUID-based request tracking, attached to the request
    logger so handler logs carry request_id
  - Prometheus Metrics: per-route request counts and latency, labeled
    with the chi route pattern rather than the raw path

Middleware Stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Get("/status", handler)

Both middlewares are standard func(http.Handler) http.Handler values and
work with any router; only route labeling depends on chi.
*/
package middleware
