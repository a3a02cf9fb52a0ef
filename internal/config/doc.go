// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

/*
Package config provides configuration loading for the itemrec job.

Configuration is layered with Koanf v2: struct defaults, then an optional
YAML file (CONFIG_PATH, config.yaml, /etc/itemrec/config.yaml), then
environment variables. The merged result is validated with
go-playground/validator struct tags plus cross-field checks.

# Environment Variables

Job:
  - INPUT_DIR: directory holding the input files (required)
  - APP_ID, ALGO_ID: context and algorithm ids (required, > 0)
  - EVAL_ID: switches to offline-evaluation mode when set
  - MODEL_SET, UNSEEN_ONLY: boolean flags
  - NUM_RECOMMENDATIONS: list length N (default: 10)
  - WORKERS, QUEUE_SIZE, TASK_TIMEOUT: concurrency limits
  - ELIGIBILITY_EXPR: optional CEL item predicate

Input files (relative to INPUT_DIR):
  - USER_INDEX_FILE (usersIndex.tsv), ITEM_INDEX_FILE (itemsIndex.tsv)
  - RATINGS_FILE (ratings.mm)
  - USER_FEATURES_FILE (userFeatures.mm), ITEM_FEATURES_FILE (itemFeatures.mm)

Sink:
  - SINK_BACKEND: duckdb, badger, redis, mongo, nats or memory (default: duckdb)
  - SINK_WRITERS, SINK_RETRY_ATTEMPTS, SINK_RETRY_DELAY, SINK_RETRY_MAX_DELAY
  - SINK_WRITE_TIMEOUT, SINK_RATE_LIMIT, SINK_RATE_BURST
  - SINK_BREAKER_FAILURES, SINK_BREAKER_TIMEOUT
  - DUCKDB_PATH, BADGER_PATH, REDIS_ADDR, MONGO_URI, MONGO_DATABASE, NATS_URL

Observability:
  - METRICS_ENABLED, METRICS_LISTEN
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Example

	cfg, err := config.Load()
	if err != nil {
	    return err
	}
	if cfg.Job.EvaluationMode() {
	    // results go to the offline-evaluation target
	}
*/
package config
