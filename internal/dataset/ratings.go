// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package dataset

import (
	"context"
	"io"
	"strings"

	"github.com/tomtom215/itemrec/internal/recommend"
)

// ReadSeen parses a MatrixMarket coordinate ratings file into a SeenSet.
//
// Comment and blank lines are ignored, the first remaining line is the
// size header and is ignored, and every following line is
// "uindex iindex [rating]". The rating value is discarded.
func ReadSeen(ctx context.Context, r io.Reader, name string) (recommend.SeenSet, error) {
	seen := recommend.SeenSet{}
	header := false

	err := scanLines(ctx, r, name, func(lineNo int, line string) error {
		if isComment(line) {
			return nil
		}
		if !header {
			header = true
			return nil
		}

		fields := strings.Fields(line)
		if len(fields) < 2 || len(fields) > 3 {
			return malformed(name, lineNo, line, "expected \"uindex iindex rating\", got %d fields", len(fields))
		}

		user, err := parseIndex(fields[0])
		if err != nil {
			return malformed(name, lineNo, line, "invalid user index: %v", err)
		}
		item, err := parseIndex(fields[1])
		if err != nil {
			return malformed(name, lineNo, line, "invalid item index: %v", err)
		}

		seen.Add(user, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seen, nil
}
