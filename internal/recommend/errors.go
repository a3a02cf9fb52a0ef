// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch is matched by DimensionMismatchError via errors.Is.
	ErrDimensionMismatch = errors.New("feature dimension mismatch")

	// ErrResultsLost is returned by Orchestrator.Run when at least one user's
	// result could not be computed or persisted.
	ErrResultsLost = errors.New("recommendation results lost")

	// ErrAlreadyRun is returned when Run is called more than once.
	ErrAlreadyRun = errors.New("orchestrator already run")
)

// DimensionMismatchError reports user and item matrices with different F.
type DimensionMismatchError struct {
	UserFactors int
	ItemFactors int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("feature dimension mismatch: user matrix has %d factors, item matrix has %d",
		e.UserFactors, e.ItemFactors)
}

// Is lets errors.Is match ErrDimensionMismatch.
func (e *DimensionMismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}
