// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

/*
Package main is the entry point for the itemrec batch job.

itemrec turns the latent-factor matrices of a collaborative-filtering
model into a top-N recommendation list per user and persists the lists
through a configurable result sink.

# Application Architecture

The job runs under Suture v4 process supervision:

	RootSupervisor ("itemrec")
	├── JobSupervisor ("job-layer")
	│   └── Recommendation job (terminates the tree when done)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (/metrics, /healthz, /status; optional)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Dataset: index, ratings and feature matrix files, read concurrently
 4. Eligibility: optional CEL expression over the item catalog
 5. Result sink: DuckDB, BadgerDB, Redis, MongoDB, NATS or memory,
    wrapped with rate limiting, retries and a circuit breaker
 6. Supervisor Tree: job service plus the observability server

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	INPUT_DIR=/data/model        # directory holding the five input files
	APP_ID=1                     # context id for production runs
	ALGO_ID=1
	EVAL_ID=0                    # non-zero switches to offline evaluation
	UNSEEN_ONLY=false
	NUM_RECOMMENDATIONS=10
	SINK_BACKEND=duckdb          # duckdb, badger, redis, mongo, nats, memory
	METRICS_ENABLED=true
	METRICS_LISTEN=:9105
	LOG_LEVEL=info
	LOG_FORMAT=json

A config file may be passed with -config or CONFIG_PATH.

# Exit Status

The process exits 0 when every working user's result was written, and 1
when configuration or input loading fails, the sink cannot be opened,
the run is interrupted, or any result was lost.

# Signal Handling

SIGINT and SIGTERM cancel the run. Scoring stops dispatching new users,
writers drain what is queued, and the supervisor tree shuts down the
HTTP server before the sink is closed.
*/
package main
