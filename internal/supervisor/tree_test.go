// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// blockingService runs until canceled.
type blockingService struct {
	name   string
	starts atomic.Int32
}

func (s *blockingService) Serve(ctx context.Context) error {
	s.starts.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func (s *blockingService) String() string { return s.name }

// finishingService returns after delay and terminates the tree.
type finishingService struct {
	delay time.Duration
}

func (s *finishingService) Serve(ctx context.Context) error {
	select {
	case <-time.After(s.delay):
		return suture.ErrTerminateSupervisorTree
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{})
	if err != nil {
		t.Fatalf("NewSupervisorTree() error = %v", err)
	}
	if tree.Root() == nil {
		t.Fatal("Root() is nil")
	}

	want := DefaultTreeConfig()
	if tree.config != want {
		t.Errorf("config = %+v, want %+v", tree.config, want)
	}
}

func TestSupervisorTree_JobTerminatesTree(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})

	api := &blockingService{name: "api"}
	tree.AddAPIService(api)
	tree.AddJobService(&finishingService{delay: 50 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	select {
	case err := <-tree.ServeBackground(ctx):
		if err != nil {
			t.Errorf("Serve() error = %v, want nil after job termination", err)
		}
	case <-ctx.Done():
		t.Fatal("tree did not stop after the job finished")
	}

	if api.starts.Load() < 1 {
		t.Error("api service never started")
	}
}

func TestSupervisorTree_ContextCancel(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	tree.AddJobService(&blockingService{name: "job"})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("tree did not shut down in time")
	}
}

func TestNormalize(t *testing.T) {
	if normalize(suture.ErrTerminateSupervisorTree) != nil {
		t.Error("terminate should normalize to nil")
	}
	boom := errors.New("boom")
	if !errors.Is(normalize(boom), boom) {
		t.Error("other errors should pass through")
	}
}
