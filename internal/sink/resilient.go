// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package sink

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/itemrec/internal/metrics"
	"github.com/tomtom215/itemrec/internal/recommend"
)

// RetryPolicy configures exponential backoff between write attempts.
type RetryPolicy struct {
	// Attempts is the number of retries after the first attempt.
	Attempts int

	InitialDelay time.Duration
	MaxDelay     time.Duration

	// Multiplier grows the delay per retry. Default: 2
	Multiplier float64

	// Jitter randomizes each delay by +/- this fraction. Default: 0.1
	Jitter float64
}

// Backoff returns the delay before retry number retry (0-based).
func (p RetryPolicy) Backoff(retry int) time.Duration {
	mult := p.Multiplier
	if mult <= 0 {
		mult = 2
	}
	backoff := float64(p.InitialDelay) * math.Pow(mult, float64(retry))

	if p.MaxDelay > 0 && backoff > float64(p.MaxDelay) {
		backoff = float64(p.MaxDelay)
	}

	jitter := p.Jitter
	if jitter < 0 {
		jitter = 0
	}
	backoff += backoff * jitter * (rand.Float64()*2 - 1)

	return time.Duration(backoff)
}

// ResilientConfig configures Resilient.
type ResilientConfig struct {
	Retry RetryPolicy

	// WriteTimeout bounds one attempt. Zero disables the bound.
	WriteTimeout time.Duration

	// RateLimit caps attempts per second. Zero disables limiting.
	RateLimit float64
	RateBurst int

	// BreakerFailures consecutive failures open the circuit for BreakerTimeout.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// Resilient wraps a ResultSink with rate limiting, a circuit breaker and
// bounded retries. Permanent errors are returned without retrying.
type Resilient struct {
	next    ResultSink
	cfg     ResilientConfig
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[interface{}]
	logger  zerolog.Logger
	sleep   func(context.Context, time.Duration) error
}

// NewResilient wraps next.
//
//nolint:gocritic // zerolog.Logger is passed by value per zerolog convention
func NewResilient(next ResultSink, cfg ResilientConfig, logger zerolog.Logger) *Resilient {
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}

	r := &Resilient{
		next:   next,
		cfg:    cfg,
		logger: logger.With().Str("component", "sink").Str("backend", next.Name()).Logger(),
		sleep:  sleepContext,
	}

	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	r.cb = r.newBreaker("sink-" + next.Name())
	return r
}

func (r *Resilient) newBreaker(name string) *gobreaker.CircuitBreaker[interface{}] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     r.cfg.BreakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(float64(counts.ConsecutiveFailures))
			return counts.ConsecutiveFailures >= r.cfg.BreakerFailures
		},

		// Permanent and cancellation errors say nothing about backend health.
		IsSuccessful: func(err error) bool {
			return err == nil || IsPermanent(err) || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			r.logger.Warn().Str("from", fromStr).Str("to", toStr).Msg("circuit breaker state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})
}

// Name implements ResultSink.
func (r *Resilient) Name() string { return r.next.Name() }

// Unwrap returns the wrapped sink.
func (r *Resilient) Unwrap() ResultSink { return r.next }

// State returns the circuit breaker state as closed, half-open or open.
func (r *Resilient) State() string { return stateToString(r.cb.State()) }

// Write implements ResultSink.
func (r *Resilient) Write(ctx context.Context, res *recommend.Result) error {
	start := time.Now()
	backend := r.next.Name()

	var err error
	for attempt := 0; ; attempt++ {
		if r.limiter != nil {
			if werr := r.limiter.Wait(ctx); werr != nil {
				err = fmt.Errorf("rate limit wait: %w", werr)
				break
			}
		}

		err = r.execute(ctx, res)
		if err == nil {
			metrics.RecordSinkWrite(backend, time.Since(start), nil)
			return nil
		}

		if IsPermanent(err) {
			metrics.RecordSinkPermanentFailure(backend)
			break
		}
		if ctx.Err() != nil || attempt >= r.cfg.Retry.Attempts {
			break
		}

		delay := r.cfg.Retry.Backoff(attempt)
		metrics.RecordSinkRetry(backend)
		r.logger.Debug().Err(err).Str("uid", res.UserID).Int("attempt", attempt+1).
			Dur("backoff", delay).Msg("retrying result write")

		if serr := r.sleep(ctx, delay); serr != nil {
			break
		}
	}

	metrics.RecordSinkWrite(backend, time.Since(start), err)
	return fmt.Errorf("write result for %s: %w", res.UserID, err)
}

func (r *Resilient) execute(ctx context.Context, res *recommend.Result) error {
	name := "sink-" + r.next.Name()

	_, err := r.cb.Execute(func() (interface{}, error) {
		wctx := ctx
		if r.cfg.WriteTimeout > 0 {
			var cancel context.CancelFunc
			wctx, cancel = context.WithTimeout(ctx, r.cfg.WriteTimeout)
			defer cancel()
		}
		return nil, r.next.Write(wctx, res)
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(name, "rejected").Inc()
	case err != nil:
		metrics.CircuitBreakerRequests.WithLabelValues(name, "failure").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(name, "success").Inc()
	}
	return err
}

// Close implements ResultSink.
func (r *Resilient) Close() error {
	return r.next.Close()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// stateToFloat converts circuit breaker state to float for Prometheus gauge
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
