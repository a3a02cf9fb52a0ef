// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

/*
Package sink persists per-user recommendation results.

Backends:

  - DuckDB: rows in itemrec_scores / offline_eval_itemrec_scores
  - Badger: embedded key-value store, JSON values
  - Redis: string keys with optional TTL, JSON values
  - Mongo: one document per result identity, upserted
  - Publisher: Watermill messages (NATS, or any message.Publisher)
  - Memory: in-process, for dry runs and tests

Key-value backends use the layout

	<table>:<contextid>:<algoid>:<modelset>:<uid>

Every backend is idempotent per result identity, so a retried write
replaces rather than duplicates.

Open wraps the selected backend in Resilient, which applies an optional
rate limit, a gobreaker circuit breaker and bounded exponential backoff.
Errors wrapped with Permanent are returned immediately.

	s, err := sink.Open(ctx, &cfg.Sink, sink.TargetFor(cfg.Job.EvaluationMode()), logger)
	if err != nil {
		return err
	}
	defer s.Close()
*/
package sink
