// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package database

import (
	"errors"
	"io"

	"github.com/tomtom215/itemrec/internal/logging"
)

// ErrUnknownTable is returned for a score table name outside the schema.
var ErrUnknownTable = errors.New("unknown score table")

// closeWithLog closes a resource and logs any error.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error.
// Use this in error paths where Close() errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
