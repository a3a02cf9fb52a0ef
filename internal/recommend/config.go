// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package recommend

import (
	"fmt"
	"runtime"
	"time"
)

// JobConfig contains the settings of one recommendation job run.
type JobConfig struct {
	// AppID is the nominal context id written on every result.
	AppID int `json:"app_id"`

	// AlgoID identifies the algorithm that produced the latent factors.
	AlgoID int `json:"algo_id"`

	// EvalID switches the run into offline-evaluation mode when non-zero.
	// It replaces AppID as the effective context id.
	EvalID int `json:"eval_id,omitempty"`

	// ModelSet is propagated onto every result.
	ModelSet bool `json:"model_set"`

	// UnseenOnly excludes items the user has already rated.
	UnseenOnly bool `json:"unseen_only"`

	// NumRecommendations is N, the maximum list length per user.
	// Default: 10.
	NumRecommendations int `json:"num_recommendations"`

	// Workers caps the number of concurrent scoring tasks.
	// If <= 0, defaults to runtime.NumCPU().
	Workers int `json:"workers"`

	// Writers is the number of goroutines draining results into the sink.
	// Default: 1, which serializes writes.
	Writers int `json:"writers"`

	// QueueSize is the capacity of the result queue between scoring and writing.
	// If <= 0, defaults to 4 * Workers.
	QueueSize int `json:"queue_size"`

	// TaskTimeout bounds the scoring time of a single user. Zero disables it.
	TaskTimeout time.Duration `json:"task_timeout"`
}

// DefaultJobConfig returns a JobConfig with default limits and no ids set.
func DefaultJobConfig() JobConfig {
	return JobConfig{
		NumRecommendations: 10,
		Workers:            runtime.NumCPU(),
		Writers:            1,
	}
}

// EvaluationMode reports whether results go to the offline-evaluation target.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (c JobConfig) EvaluationMode() bool {
	return c.EvalID != 0
}

// ContextID returns the effective context id written on every result.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (c JobConfig) ContextID() int {
	if c.EvaluationMode() {
		return c.EvalID
	}
	return c.AppID
}

// Validate checks the configuration for invalid values.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (c JobConfig) Validate() error {
	if c.NumRecommendations < 0 {
		return fmt.Errorf("num_recommendations must be >= 0, got %d", c.NumRecommendations)
	}
	if c.EvalID < 0 {
		return fmt.Errorf("eval_id must be >= 0, got %d", c.EvalID)
	}
	if c.Writers < 0 {
		return fmt.Errorf("writers must be >= 0, got %d", c.Writers)
	}
	if c.TaskTimeout < 0 {
		return fmt.Errorf("task_timeout must be >= 0, got %v", c.TaskTimeout)
	}
	return nil
}

// withDefaults fills zero-valued limits.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (c JobConfig) withDefaults() JobConfig {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Writers <= 0 {
		c.Writers = 1
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 4 * c.Workers
	}
	return c
}
