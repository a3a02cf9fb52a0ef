// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

/*
Package supervisor runs itemrec under a suture v4 supervisor tree.

	RootSupervisor ("itemrec")
	├── JobSupervisor ("job-layer")
	│   └── JobService (one scoring run)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (/metrics, /healthz, /status)

The job service returns suture.ErrTerminateSupervisorTree when the run
ends, which stops the api layer too. Serve reports that termination as
nil; the job's own result is read from the JobService.

Supervisor events (restarts, backoff, stop timeouts) are logged through
sutureslog over the zerolog slog adapter:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddJobService(job)
	tree.AddAPIService(httpSvc)

	if err := tree.Serve(ctx); err != nil {
	    return err
	}

# Configuration

TreeConfig mirrors suture.Spec:

	FailureThreshold: 5      // failures before backoff
	FailureDecay:     30     // seconds for failures to decay
	FailureBackoff:   15s
	ShutdownTimeout:  10s    // per service

Services that miss the shutdown timeout are listed by UnstoppedServiceReport.
*/
package supervisor
