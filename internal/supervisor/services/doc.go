// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

// Package services provides suture.Service wrappers for itemrec components.
//
// JobService runs the scoring job exactly once and then returns
// suture.ErrTerminateSupervisorTree so the whole process winds down.
// HTTPServerService runs the metrics and status server until shutdown.
//
//	job := services.NewJobService("scoring-job", func(ctx context.Context) error {
//	    _, err := orch.Run(ctx)
//	    return err
//	}, logger)
//	tree.AddJobService(job)
//	tree.AddAPIService(services.NewHTTPServerService(server, 5*time.Second))
//
//	if err := tree.Serve(ctx); err != nil { ... }
//	return job.Err()
package services
