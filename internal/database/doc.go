// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

// Package database stores recommendation lists in DuckDB.
//
// Two tables with identical layout exist: itemrec_scores for regular runs
// and offline_eval_itemrec_scores for offline-evaluation runs. Writes are
// idempotent per (contextid, algoid, modelset, uid).
package database
