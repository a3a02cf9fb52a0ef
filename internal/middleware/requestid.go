// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/tomtom215/itemrec/internal/logging"
)

type contextKey string

// RequestIDKey is the context key holding the request id.
const RequestIDKey contextKey = "request_id"

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen bounds ids accepted from upstream proxies.
const maxRequestIDLen = 128

// RequestID reuses an upstream X-Request-ID or generates one, echoes it in
// the response and stores it in the request context together with a
// request-scoped logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		logger := logging.LoggerFromContext(ctx).With().Str("request_id", requestID).Logger()
		ctx = logging.ContextWithLogger(ctx, logger)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
