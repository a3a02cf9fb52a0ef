// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package dataset

import (
	"errors"
	"fmt"
)

// ErrMalformedInput is matched by every parse failure of an input file.
var ErrMalformedInput = errors.New("malformed input")

// MalformedLineError reports a line that could not be parsed.
type MalformedLineError struct {
	File    string
	Line    int
	Content string
	Reason  string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %q", e.File, e.Line, e.Reason, e.Content)
}

// Is lets errors.Is match ErrMalformedInput.
func (e *MalformedLineError) Is(target error) bool {
	return target == ErrMalformedInput
}

func malformed(file string, line int, content, reason string, args ...any) error {
	if len(args) > 0 {
		reason = fmt.Sprintf(reason, args...)
	}
	return &MalformedLineError{File: file, Line: line, Content: content, Reason: reason}
}
