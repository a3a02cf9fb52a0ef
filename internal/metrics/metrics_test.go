// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordLoad(t *testing.T) {
	before := testutil.ToFloat64(LoadRows.WithLabelValues("users.tsv"))

	RecordLoad("users.tsv", 42, 15*time.Millisecond)
	RecordLoad("users.tsv", 8, time.Millisecond)

	if got := testutil.ToFloat64(LoadRows.WithLabelValues("users.tsv")) - before; got != 50 {
		t.Errorf("load rows delta = %v, want 50", got)
	}
}

func TestRecordUnmapped(t *testing.T) {
	tests := []struct {
		name  string
		kind  string
		count int
		want  float64
	}{
		{"users counted", "user", 3, 3},
		{"zero ignored", "item", 0, 0},
		{"negative ignored", "item", -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := UnmappedEntities.WithLabelValues(tt.kind)
			before := testutil.ToFloat64(c)
			RecordUnmapped(tt.kind, tt.count)
			if got := testutil.ToFloat64(c) - before; got != tt.want {
				t.Errorf("delta = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecordScore(t *testing.T) {
	before := testutil.ToFloat64(CandidatesScored)
	RecordScore(2*time.Millisecond, 1000)
	if got := testutil.ToFloat64(CandidatesScored) - before; got != 1000 {
		t.Errorf("candidates delta = %v, want 1000", got)
	}
}

func TestRecordSinkWrite(t *testing.T) {
	const backend = "test-backend"
	counter := func(result string) float64 {
		return testutil.ToFloat64(SinkWrites.WithLabelValues(backend, result))
	}

	success, failure := counter("success"), counter("failure")
	retry, permanent := counter("retry"), counter("permanent")

	RecordSinkWrite(backend, time.Millisecond, nil)
	RecordSinkWrite(backend, time.Millisecond, errors.New("refused"))
	RecordSinkRetry(backend)
	RecordSinkRetry(backend)
	RecordSinkPermanentFailure(backend)

	if counter("success")-success != 1 {
		t.Error("success not recorded")
	}
	if counter("failure")-failure != 1 {
		t.Error("failure not recorded")
	}
	if counter("retry")-retry != 2 {
		t.Error("retries not recorded")
	}
	if counter("permanent")-permanent != 1 {
		t.Error("permanent failure not recorded")
	}
}

func TestRecordJobComplete(t *testing.T) {
	JobLastSuccess.Set(0)

	RecordJobComplete(time.Second, 3)
	if testutil.ToFloat64(JobLastSuccess) != 0 {
		t.Error("last success updated despite lost results")
	}

	RecordJobComplete(time.Second, 0)
	if testutil.ToFloat64(JobLastSuccess) == 0 {
		t.Error("last success not updated")
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	c := HTTPRequests.WithLabelValues("GET", "/status", "200")
	before := testutil.ToFloat64(c)

	RecordHTTPRequest("GET", "/status", "200", 5*time.Millisecond)

	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Errorf("request delta = %v, want 1", got)
	}
}

func TestRecordUserOutcome_Concurrent(t *testing.T) {
	c := UsersProcessed.WithLabelValues("written")
	before := testutil.ToFloat64(c)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordUserOutcome("written")
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(c) - before; got != 50 {
		t.Errorf("outcome delta = %v, want 50", got)
	}
}

func TestMetricsRegistered(t *testing.T) {
	collectors := []prometheus.Collector{
		LoadDuration, LoadRows, UnmappedEntities,
		JobPhase, JobDuration, JobLastSuccess,
		UsersProcessed, ScoreDuration, CandidatesScored, ResultQueueDepth,
		SinkWriteDuration, SinkWrites,
		CircuitBreakerState, CircuitBreakerConsecutiveFailures,
		CircuitBreakerRequests, CircuitBreakerTransitions,
		HTTPRequests, HTTPRequestDuration,
	}

	for _, c := range collectors {
		// promauto registered every collector on the default registry,
		// so registering again must report AlreadyRegisteredError.
		err := prometheus.Register(c)
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			t.Errorf("collector not registered by default: %v", err)
		}
	}
}
