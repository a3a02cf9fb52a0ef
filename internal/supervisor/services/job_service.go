// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// ErrJobAborted is recorded when the job's Serve is re-entered after a
// crash. Jobs never run twice.
var ErrJobAborted = errors.New("job aborted before completion")

// JobFunc runs the batch job once.
type JobFunc func(ctx context.Context) error

// JobService runs a one-shot batch job under supervision and terminates
// the supervisor tree when the job returns.
type JobService struct {
	run    JobFunc
	logger zerolog.Logger
	name   string

	mu      sync.Mutex
	started bool
	err     error
	done    chan struct{}
}

// NewJobService creates a new job service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewJobService(name string, run JobFunc, logger zerolog.Logger) *JobService {
	return &JobService{
		run:    run,
		logger: logger.With().Str("service", name).Logger(),
		name:   name,
		done:   make(chan struct{}),
	}
}

// Serve implements suture.Service.
func (s *JobService) Serve(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		// Suture restarted us after a panic in run.
		s.mu.Unlock()
		s.finish(ErrJobAborted)
		return suture.ErrTerminateSupervisorTree
	}
	s.started = true
	s.mu.Unlock()

	s.logger.Info().Msg("job starting")
	err := s.run(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("job failed")
	} else {
		s.logger.Info().Msg("job finished")
	}

	s.finish(err)
	return suture.ErrTerminateSupervisorTree
}

func (s *JobService) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.done:
		return
	default:
	}
	s.err = err
	close(s.done)
}

// Done is closed once the job has returned.
func (s *JobService) Done() <-chan struct{} {
	return s.done
}

// Err returns the job result. Before the job finishes it reports that
// the job did not complete.
func (s *JobService) Err() error {
	select {
	case <-s.done:
	default:
		return fmt.Errorf("%s: %w", s.name, ErrJobAborted)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// String implements fmt.Stringer for suture logging.
func (s *JobService) String() string {
	return s.name
}
