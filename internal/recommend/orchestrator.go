// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package recommend

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/itemrec/internal/logging"
	"github.com/tomtom215/itemrec/internal/metrics"
)

// ResultWriter persists one user's recommendation list.
// Implementations must be safe for concurrent use when more than one
// writer goroutine is configured.
type ResultWriter interface {
	Write(ctx context.Context, result *Result) error
}

// Phase is the lifecycle state of a job run.
type Phase int32

const (
	// PhaseLoaded means the dataset is validated and no task has started.
	PhaseLoaded Phase = iota
	// PhaseScoring means per-user tasks are running.
	PhaseScoring
	// PhaseDone means every task finished and all writers drained.
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseLoaded:
		return "loaded"
	case PhaseScoring:
		return "scoring"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("phase(%d)", int32(p))
	}
}

// Stage names where a user's result was lost.
type Stage string

const (
	StageScore    Stage = "score"
	StageWrite    Stage = "write"
	StageDispatch Stage = "dispatch"
)

// Failure records one user whose result was not persisted.
type Failure struct {
	UserIndex int    `json:"uindex"`
	UserID    string `json:"uid"`
	Stage     Stage  `json:"stage"`
	Err       error  `json:"-"`
}

// Report summarizes a finished job run.
type Report struct {
	RunID    string        `json:"run_id"`
	Users    int           `json:"users"`
	Scored   int           `json:"scored"`
	Written  int           `json:"written"`
	Duration time.Duration `json:"duration"`

	UnmappedUsers  int `json:"unmapped_users"`
	UnmappedItems  int `json:"unmapped_items"`
	MissingColumns int `json:"missing_item_columns"`
	Ineligible     int `json:"ineligible_items"`
	CatalogSize    int `json:"catalog_size"`

	Failures []Failure `json:"failures,omitempty"`
}

// Lost returns the number of users whose result was not written.
func (r *Report) Lost() int {
	return len(r.Failures)
}

// Progress is a point-in-time view of a run, safe to read while scoring.
type Progress struct {
	Phase   string `json:"phase"`
	Users   int    `json:"users"`
	Scored  int64  `json:"scored"`
	Written int64  `json:"written"`
	Failed  int64  `json:"failed"`
}

// pending is a computed result waiting in the write queue.
type pending struct {
	userIndex int
	result    *Result
}

// Orchestrator runs the scoring pipeline for every working user of a
// dataset and hands each result to a ResultWriter.
//
// Scoring runs on a bounded worker pool. Results are queued to a fixed
// number of writer goroutines so a slow sink applies back-pressure
// without blocking more than QueueSize finished tasks. A failing user
// never aborts its siblings; failures are collected into the Report.
type Orchestrator struct {
	ds     *Dataset
	writer ResultWriter
	cfg    JobConfig
	scorer Scorer
	filter *FilterPipeline
	logger zerolog.Logger

	users         []int
	unmappedUsers int

	phase   atomic.Int32
	ran     atomic.Bool
	scored  atomic.Int64
	written atomic.Int64
	failed  atomic.Int64

	mu       sync.Mutex
	failures []Failure
}

// NewOrchestrator validates ds and cfg and builds the eligible catalog.
// The returned Orchestrator is in PhaseLoaded.
//
//nolint:gocritic // zerolog.Logger is passed by value per zerolog convention
func NewOrchestrator(ds *Dataset, writer ResultWriter, cfg JobConfig, eligibility Eligibility, logger zerolog.Logger) (*Orchestrator, error) {
	if ds == nil {
		return nil, fmt.Errorf("dataset is required")
	}
	if writer == nil {
		return nil, fmt.Errorf("result writer is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job config: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	filter, err := NewFilterPipeline(ds, eligibility, cfg.UnseenOnly)
	if err != nil {
		return nil, fmt.Errorf("build item catalog: %w", err)
	}

	o := &Orchestrator{
		ds:     ds,
		writer: writer,
		cfg:    cfg.withDefaults(),
		filter: filter,
		logger: logger.With().Str("component", "orchestrator").Logger(),
	}

	columns := ds.UserFactors.Columns()
	o.users = make([]int, 0, min(columns, len(ds.Users)))
	for idx := 1; idx <= columns; idx++ {
		if _, ok := ds.Users[idx]; !ok {
			o.unmappedUsers++
			continue
		}
		o.users = append(o.users, idx)
	}

	metrics.RecordUnmapped("user", o.unmappedUsers)
	metrics.RecordUnmapped("item", filter.UnmappedItems())

	if o.unmappedUsers > 0 || filter.UnmappedItems() > 0 {
		o.logger.Warn().
			Int("unmapped_users", o.unmappedUsers).
			Int("unmapped_items", filter.UnmappedItems()).
			Msg("Matrix columns without index mapping excluded")
	}
	if filter.MissingColumns() > 0 {
		o.logger.Warn().
			Int("missing_item_columns", filter.MissingColumns()).
			Msg("Index entries without matrix column excluded")
	}

	o.setPhase(PhaseLoaded)
	return o, nil
}

// Users returns the working user indices in ascending order.
func (o *Orchestrator) Users() []int {
	out := make([]int, len(o.users))
	copy(out, o.users)
	return out
}

// Phase returns the current lifecycle phase.
func (o *Orchestrator) Phase() Phase {
	return Phase(o.phase.Load())
}

// Progress returns live counters for status reporting.
func (o *Orchestrator) Progress() Progress {
	return Progress{
		Phase:   o.Phase().String(),
		Users:   len(o.users),
		Scored:  o.scored.Load(),
		Written: o.written.Load(),
		Failed:  o.failed.Load(),
	}
}

// Run scores every working user and writes the results.
//
// Run may be called once. The returned Report is always non-nil after
// the scoring phase started. When any user's result was lost the error
// wraps ErrResultsLost.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	if !o.ran.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRun
	}

	runID := logging.RunIDFromContext(ctx)
	if runID == "" {
		runID = logging.NewRunID()
	}
	logger := o.logger.With().Str("run_id", runID).Logger()
	start := time.Now()

	logger.Info().
		Int("users", len(o.users)).
		Int("catalog", o.filter.CatalogSize()).
		Int("n", o.cfg.NumRecommendations).
		Int("workers", o.cfg.Workers).
		Int("writers", o.cfg.Writers).
		Bool("unseen_only", o.cfg.UnseenOnly).
		Bool("evaluation", o.cfg.EvaluationMode()).
		Msg("Scoring started")

	o.setPhase(PhaseScoring)

	queue := make(chan pending, o.cfg.QueueSize)

	var writers sync.WaitGroup
	for range o.cfg.Writers {
		writers.Add(1)
		go func() {
			defer writers.Done()
			o.drain(ctx, queue)
		}()
	}

	var g errgroup.Group
	g.SetLimit(o.cfg.Workers)

	for i, idx := range o.users {
		if err := ctx.Err(); err != nil {
			for _, rest := range o.users[i:] {
				o.recordFailure(rest, StageDispatch, fmt.Errorf("not dispatched: %w", err))
			}
			break
		}
		g.Go(func() error {
			o.runTask(ctx, idx, queue)
			return nil
		})
	}

	// Tasks never return errors.
	_ = g.Wait()
	close(queue)
	writers.Wait()

	o.setPhase(PhaseDone)

	report := o.report(runID, time.Since(start))
	metrics.RecordJobComplete(report.Duration, report.Lost())

	event := logger.Info()
	if report.Lost() > 0 {
		event = logger.Warn()
	}
	event.
		Int("users", report.Users).
		Int("written", report.Written).
		Int("lost", report.Lost()).
		Dur("duration", report.Duration).
		Msg("Scoring finished")

	if report.Lost() > 0 {
		return report, fmt.Errorf("%w: %d of %d users", ErrResultsLost, report.Lost(), report.Users)
	}
	return report, nil
}

// runTask scores one user and enqueues the result.
func (o *Orchestrator) runTask(ctx context.Context, userIndex int, queue chan<- pending) {
	defer func() {
		if r := recover(); r != nil {
			o.recordFailure(userIndex, StageScore, fmt.Errorf("panic during scoring: %v", r))
		}
	}()

	taskCtx := ctx
	if o.cfg.TaskTimeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(ctx, o.cfg.TaskTimeout)
		defer cancel()
	}

	start := time.Now()
	candidates := 0
	seq := o.filter.Candidates(userIndex)
	counted := func(yield func(int) bool) {
		for idx := range seq {
			candidates++
			if !yield(idx) {
				return
			}
		}
	}

	scored, err := o.scorer.Score(taskCtx, o.ds.UserFactors.Column(userIndex), o.ds.ItemFactors, counted, o.cfg.NumRecommendations)
	if err != nil {
		o.recordFailure(userIndex, StageScore, err)
		return
	}
	metrics.RecordScore(time.Since(start), candidates)
	o.scored.Add(1)

	p := pending{userIndex: userIndex, result: o.buildResult(userIndex, scored)}

	select {
	case queue <- p:
		metrics.ResultQueueDepth.Inc()
	case <-ctx.Done():
		o.recordFailure(userIndex, StageDispatch, fmt.Errorf("write queue: %w", ctx.Err()))
	}
}

// drain writes queued results until the queue is closed.
func (o *Orchestrator) drain(ctx context.Context, queue <-chan pending) {
	for p := range queue {
		metrics.ResultQueueDepth.Dec()
		if err := o.write(ctx, p.result); err != nil {
			o.recordFailure(p.userIndex, StageWrite, err)
			continue
		}
		o.written.Add(1)
		metrics.RecordUserOutcome("written")
	}
}

// write hands one result to the writer, turning a panic into an error.
func (o *Orchestrator) write(ctx context.Context, result *Result) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during write: %v", r)
		}
	}()
	return o.writer.Write(ctx, result)
}

// buildResult maps scored item indices to catalog entries.
func (o *Orchestrator) buildResult(userIndex int, scored []ScoredItem) *Result {
	items := make([]RecommendedItem, 0, len(scored))
	for _, s := range scored {
		item := o.ds.Items[s.Index]
		items = append(items, RecommendedItem{
			ItemID: item.ID,
			Score:  s.Score,
			Tags:   item.Tags,
		})
	}

	return &Result{
		UserID:    o.ds.Users[userIndex],
		Items:     items,
		ContextID: o.cfg.ContextID(),
		AlgoID:    o.cfg.AlgoID,
		ModelSet:  o.cfg.ModelSet,
	}
}

func (o *Orchestrator) recordFailure(userIndex int, stage Stage, err error) {
	f := Failure{
		UserIndex: userIndex,
		UserID:    o.ds.Users[userIndex],
		Stage:     stage,
		Err:       err,
	}

	o.mu.Lock()
	o.failures = append(o.failures, f)
	o.mu.Unlock()

	o.failed.Add(1)
	metrics.RecordUserOutcome(string(stage) + "_failed")

	o.logger.Warn().
		Err(err).
		Int("uindex", userIndex).
		Str("uid", f.UserID).
		Str("stage", string(stage)).
		Msg("User result lost")
}

func (o *Orchestrator) report(runID string, duration time.Duration) *Report {
	o.mu.Lock()
	failures := make([]Failure, len(o.failures))
	copy(failures, o.failures)
	o.mu.Unlock()

	sort.Slice(failures, func(i, j int) bool {
		return failures[i].UserIndex < failures[j].UserIndex
	})

	return &Report{
		RunID:          runID,
		Users:          len(o.users),
		Scored:         int(o.scored.Load()),
		Written:        int(o.written.Load()),
		Duration:       duration,
		UnmappedUsers:  o.unmappedUsers,
		UnmappedItems:  o.filter.UnmappedItems(),
		MissingColumns: o.filter.MissingColumns(),
		Ineligible:     o.filter.Ineligible(),
		CatalogSize:    o.filter.CatalogSize(),
		Failures:       failures,
	}
}

func (o *Orchestrator) setPhase(p Phase) {
	o.phase.Store(int32(p))
	metrics.JobPhase.Set(float64(p))
}
