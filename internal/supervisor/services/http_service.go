// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HTTPServer is the lifecycle subset of *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService adapts a blocking ListenAndServe to suture's
// context-driven Serve. On cancellation the server gets shutdownTimeout
// to drain scrapes in flight.
//
//	server := &http.Server{Addr: cfg.Metrics.Listen, Handler: router}
//	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Metrics.ShutdownTimeout))
type HTTPServerService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
}

// NewHTTPServerService wraps server. Non-positive timeouts default to 5s.
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 5 * time.Second
	}
	return &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
	}
}

// Serve implements suture.Service. A listener failure is returned so
// suture restarts the server; cancellation returns ctx.Err().
func (h *HTTPServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		err := h.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

// String implements fmt.Stringer for suture logging.
func (h *HTTPServerService) String() string {
	return "http-server"
}
