// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/itemrec/internal/metrics"
)

func instrumentedRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/write-only", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok")) //nolint:errcheck // test handler
	})
	return r
}

func TestPrometheusMetrics(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		route  string
		status int
	}{
		{name: "static route", path: "/status", route: "/status", status: http.StatusOK},
		{name: "pattern label", path: "/items/42", route: "/items/{id}", status: http.StatusTeapot},
		{name: "implicit 200", path: "/write-only", route: "/write-only", status: http.StatusOK},
		{name: "unmatched", path: "/nope", route: unmatchedRoute, status: http.StatusNotFound},
	}

	router := instrumentedRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := metrics.HTTPRequests.WithLabelValues(http.MethodGet, tt.route, strconv.Itoa(tt.status))
			before := testutil.ToFloat64(c)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if got := testutil.ToFloat64(c) - before; got != 1 {
				t.Errorf("request counter delta = %v, want 1", got)
			}
		})
	}
}

func TestPrometheusMetrics_WithoutChi(t *testing.T) {
	c := metrics.HTTPRequests.WithLabelValues(http.MethodPost, unmatchedRoute, "201")
	before := testutil.ToFloat64(c)

	handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/raw", nil))

	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Errorf("request counter delta = %v, want 1", got)
	}
}

func TestMetricsResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &metricsResponseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusBadGateway)
	rw.WriteHeader(http.StatusOK)

	if rw.statusCode != http.StatusBadGateway {
		t.Errorf("statusCode = %d, want first written code", rw.statusCode)
	}
	if rw.Unwrap() != rec {
		t.Error("Unwrap() did not return the underlying writer")
	}
}
