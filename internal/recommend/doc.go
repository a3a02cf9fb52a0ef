// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

// Package recommend turns trained latent-factor matrices into per-user
// top-N item recommendations.
//
// # Architecture
//
// The pipeline is built from four pieces, leaves first:
//
//   - TopK: bounded min-heap retaining the N highest-scoring items
//   - FilterPipeline: eligible catalog plus optional unseen exclusion
//   - Scorer: brute-force inner-product scoring of one user's candidates
//   - Orchestrator: bounded worker pool over all users, write queue, report
//
// A Dataset is loaded once (see package dataset), validated, and shared
// read-only by every scoring task, so no locking is needed around it.
//
// # Ordering
//
// Results are sorted by descending score. Equal scores are ordered by
// ascending item index, so identical input always produces identical
// output regardless of worker scheduling.
//
// # Usage
//
//	ds, err := dataset.Load(ctx, files, unseenOnly, logger)
//	orch, err := recommend.NewOrchestrator(ds, sink, cfg, recommend.AllowAll, logger)
//	report, err := orch.Run(ctx)
//	if errors.Is(err, recommend.ErrResultsLost) {
//	    // report.Failures lists the users that were not persisted
//	}
//
// # Failure Isolation
//
// Each user is an independent task. A scoring error, timeout or panic
// is recorded against that user only. Sink write failures are recorded
// the same way after the sink's own retries. Run returns ErrResultsLost
// when at least one result was not written.
package recommend
