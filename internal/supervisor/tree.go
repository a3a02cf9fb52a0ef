// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig holds supervisor tree configuration.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	// Default: 5
	FailureThreshold float64

	// FailureDecay is the rate at which failures decay in seconds.
	// Default: 30
	FailureDecay float64

	// FailureBackoff is the duration to wait when threshold is exceeded.
	// Default: 15s
	FailureBackoff time.Duration

	// ShutdownTimeout is the maximum time to wait for a service to stop.
	// Default: 10s
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns suture's own defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// SupervisorTree runs the job next to its observability endpoints.
//
//	itemrec
//	├── job-layer  (scoring run; terminates the tree when done)
//	└── api-layer  (metrics, health and status HTTP server)
//
// The api layer restarts independently, so a crashed HTTP server never
// interrupts scoring.
type SupervisorTree struct {
	root   *suture.Supervisor
	job    *suture.Supervisor
	api    *suture.Supervisor
	logger *slog.Logger
	config TreeConfig
}

// NewSupervisorTree creates a new supervisor tree with the given configuration.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	defaults := DefaultTreeConfig()
	if config.FailureThreshold == 0 {
		config.FailureThreshold = defaults.FailureThreshold
	}
	if config.FailureDecay == 0 {
		config.FailureDecay = defaults.FailureDecay
	}
	if config.FailureBackoff == 0 {
		config.FailureBackoff = defaults.FailureBackoff
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = defaults.ShutdownTimeout
	}

	// MustHook has a pointer receiver.
	eventHook := (&sutureslog.Handler{Logger: logger}).MustHook()

	childSpec := suture.Spec{
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}
	rootSpec := childSpec
	rootSpec.EventHook = eventHook

	root := suture.New("itemrec", rootSpec)
	job := suture.New("job-layer", childSpec)
	api := suture.New("api-layer", childSpec)

	root.Add(job)
	root.Add(api)

	return &SupervisorTree{
		root:   root,
		job:    job,
		api:    api,
		logger: logger,
		config: config,
	}, nil
}

// Root returns the root supervisor.
func (t *SupervisorTree) Root() *suture.Supervisor {
	return t.root
}

// AddJobService adds a service to the job layer.
func (t *SupervisorTree) AddJobService(svc suture.Service) suture.ServiceToken {
	return t.job.Add(svc)
}

// AddAPIService adds a service to the api layer.
func (t *SupervisorTree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// Serve runs the tree until ctx is canceled or a job service terminates it.
// Termination by a finished job is reported as nil.
func (t *SupervisorTree) Serve(ctx context.Context) error {
	return normalize(t.root.Serve(ctx))
}

// ServeBackground runs the tree in a goroutine. The channel receives the
// Serve result once.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	out := make(chan error, 1)
	go func() {
		out <- t.Serve(ctx)
		close(out)
	}()
	return out
}

// UnstoppedServiceReport lists services that missed the shutdown timeout.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}

func normalize(err error) error {
	if errors.Is(err, suture.ErrTerminateSupervisorTree) {
		return nil
	}
	return err
}
