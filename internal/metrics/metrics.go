// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for recommendation job runs:
// - Input loading (rows parsed, load duration)
// - Scoring throughput and latency per user
// - Result sink writes, retries and circuit breaker state
// - Data-quality counters (unmapped matrix columns)
// - Requests to the metrics and status server

var (
	// Load Metrics
	LoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "itemrec_load_duration_seconds",
			Help:    "Duration of input file loading in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"file"},
	)

	LoadRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itemrec_load_rows_total",
			Help: "Total number of input rows parsed",
		},
		[]string{"file"},
	)

	UnmappedEntities = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itemrec_unmapped_entities_total",
			Help: "Matrix columns excluded because they have no index mapping entry",
		},
		[]string{"kind"}, // "user", "item"
	)

	// Job Metrics
	JobPhase = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "itemrec_job_phase",
			Help: "Current job phase (0=loaded, 1=scoring, 2=done)",
		},
	)

	JobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "itemrec_job_duration_seconds",
			Help:    "Duration of the scoring phase of a job run",
			Buckets: []float64{1, 5, 10, 30, 60, 300, 900, 1800, 3600, 7200},
		},
	)

	JobLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "itemrec_job_last_success_timestamp",
			Help: "Unix timestamp of the last job run without lost results",
		},
	)

	UsersProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itemrec_users_total",
			Help: "Total number of users processed by outcome",
		},
		[]string{"outcome"}, // "written", "score_failed", "write_failed", "dispatch_failed"
	)

	ScoreDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "itemrec_score_duration_seconds",
			Help:    "Time to score all candidates of one user",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	CandidatesScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "itemrec_candidates_scored_total",
			Help: "Total number of user-item pairs scored",
		},
	)

	ResultQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "itemrec_result_queue_depth",
			Help: "Results waiting to be written to the sink",
		},
	)

	// Sink Metrics
	SinkWriteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "itemrec_sink_write_duration_seconds",
			Help:    "Duration of a single result write including retries",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"backend"},
	)

	SinkWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itemrec_sink_writes_total",
			Help: "Total number of sink write attempts by result",
		},
		[]string{"backend", "result"}, // result: "success", "retry", "failure", "permanent"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures seen by the circuit breaker",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// HTTP Metrics (observability server)
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itemrec_http_requests_total",
			Help: "Requests served by the metrics and status server",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "itemrec_http_request_duration_seconds",
			Help:    "Request latency of the metrics and status server",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordLoad records the loading of one input file.
func RecordLoad(file string, rows int, duration time.Duration) {
	LoadDuration.WithLabelValues(file).Observe(duration.Seconds())
	LoadRows.WithLabelValues(file).Add(float64(rows))
}

// RecordUnmapped records matrix columns excluded for lack of an index entry.
func RecordUnmapped(kind string, count int) {
	if count <= 0 {
		return
	}
	UnmappedEntities.WithLabelValues(kind).Add(float64(count))
}

// RecordScore records the scoring of one user.
func RecordScore(duration time.Duration, candidates int) {
	ScoreDuration.Observe(duration.Seconds())
	CandidatesScored.Add(float64(candidates))
}

// RecordUserOutcome records the final outcome of one user's task.
func RecordUserOutcome(outcome string) {
	UsersProcessed.WithLabelValues(outcome).Inc()
}

// RecordSinkWrite records one logical result write and its final status.
func RecordSinkWrite(backend string, duration time.Duration, err error) {
	SinkWriteDuration.WithLabelValues(backend).Observe(duration.Seconds())
	if err != nil {
		SinkWrites.WithLabelValues(backend, "failure").Inc()
		return
	}
	SinkWrites.WithLabelValues(backend, "success").Inc()
}

// RecordSinkRetry records a retried sink write attempt.
func RecordSinkRetry(backend string) {
	SinkWrites.WithLabelValues(backend, "retry").Inc()
}

// RecordSinkPermanentFailure records a write that was not retried.
func RecordSinkPermanentFailure(backend string) {
	SinkWrites.WithLabelValues(backend, "permanent").Inc()
}

// RecordJobComplete records the end of a scoring phase.
func RecordJobComplete(duration time.Duration, lost int) {
	JobDuration.Observe(duration.Seconds())
	if lost == 0 {
		JobLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordHTTPRequest records one request to the observability server.
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
