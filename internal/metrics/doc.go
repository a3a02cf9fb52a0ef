// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

/*
Package metrics provides Prometheus metrics for the recommendation job.

All collectors are registered on the default registry via promauto and
exposed at /metrics when the metrics server is enabled:

	curl http://localhost:9105/metrics

# Available Metrics

Load Metrics:
  - itemrec_load_duration_seconds: Time to parse one input file (histogram)
    Labels: file
  - itemrec_load_rows_total: Rows parsed (counter)
    Labels: file
  - itemrec_unmapped_entities_total: Matrix columns without an index entry (counter)
    Labels: kind (user, item)

Job Metrics:
  - itemrec_job_phase: 0=loaded, 1=scoring, 2=done (gauge)
  - itemrec_job_duration_seconds: Scoring phase duration (histogram)
  - itemrec_job_last_success_timestamp: Unix time of the last run without lost results (gauge)
  - itemrec_users_total: Users by outcome (counter)
    Labels: outcome (written, score_failed, write_failed, dispatch_failed)
  - itemrec_score_duration_seconds: Per-user scoring time (histogram)
  - itemrec_candidates_scored_total: Candidate items scored (counter)
  - itemrec_result_queue_depth: Results waiting for a writer (gauge)

Sink Metrics:
  - itemrec_sink_write_duration_seconds: One logical write including retries (histogram)
    Labels: backend
  - itemrec_sink_writes_total: Write outcomes (counter)
    Labels: backend, result (success, retry, failure, permanent)

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
    Labels: name
  - circuit_breaker_consecutive_failures: Current failure streak (gauge)
    Labels: name
  - circuit_breaker_requests_total: Requests by result (counter)
    Labels: name, result (success, failure, rejected)
  - circuit_breaker_state_transitions_total: State changes (counter)
    Labels: name, from_state, to_state

HTTP Metrics:
  - itemrec_http_requests_total: Requests to /metrics, /healthz and /status (counter)
    Labels: method, route, status
  - itemrec_http_request_duration_seconds: Request latency (histogram)
    Labels: method, route

# Example Queries

Lost results in the last run:

	sum(itemrec_users_total{outcome=~"score_failed|write_failed|dispatch_failed"})

Write retry ratio:

	rate(itemrec_sink_writes_total{result="retry"}[5m])
	  / rate(itemrec_sink_writes_total{result="success"}[5m])
*/
package metrics
