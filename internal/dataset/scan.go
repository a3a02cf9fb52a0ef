// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package dataset

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const (
	// maxLineBytes bounds a single input line. Dense matrix rows stay far below it.
	maxLineBytes = 4 * 1024 * 1024

	// ctxCheckLines is how many lines are read between cancellation checks.
	ctxCheckLines = 8192
)

// scanLines calls fn for every line of r with the 1-based line number.
// Trailing carriage returns are stripped.
func scanLines(ctx context.Context, r io.Reader, name string, fn func(lineNo int, line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%ctxCheckLines == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("read %s: %w", name, err)
			}
		}
		if err := fn(lineNo, strings.TrimRight(scanner.Text(), "\r")); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s after line %d: %w", name, lineNo, err)
	}
	return nil
}

// isComment reports whether a MatrixMarket-style line is a comment or blank.
func isComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "%")
}
