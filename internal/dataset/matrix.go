// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package dataset

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tomtom215/itemrec/internal/recommend"
)

// MatrixFormat is the MatrixMarket storage layout.
type MatrixFormat string

const (
	// FormatArray stores every value in column-major order.
	FormatArray MatrixFormat = "array"
	// FormatCoordinate stores "row col value" triplets.
	FormatCoordinate MatrixFormat = "coordinate"
)

const mmBanner = "%%matrixmarket"

// MaxMatrixCells caps rows*cols and the declared entry count of a single
// matrix. A size line beyond it is rejected before anything is allocated.
var MaxMatrixCells = 1 << 28

// ReadMatrix parses a real, general MatrixMarket matrix of F rows and C
// columns into a FeatureMatrix.
//
// The banner line is optional. Without it the layout is inferred from the
// size line: two fields ("rows cols") mean array, three ("rows cols nnz")
// mean coordinate. Entries missing from a coordinate file are zero.
func ReadMatrix(ctx context.Context, r io.Reader, name string) (*recommend.FeatureMatrix, error) {
	p := &matrixParser{name: name}
	if err := scanLines(ctx, r, name, p.line); err != nil {
		return nil, err
	}
	if err := p.finish(); err != nil {
		return nil, err
	}
	return p.m, nil
}

type matrixParser struct {
	name   string
	format MatrixFormat

	m        *recommend.FeatureMatrix
	rows     int
	cols     int
	expected int
	read     int
}

func (p *matrixParser) line(lineNo int, line string) error {
	trimmed := strings.TrimSpace(line)

	if p.m == nil && lineNo == 1 && strings.HasPrefix(strings.ToLower(trimmed), mmBanner) {
		return p.banner(lineNo, line)
	}
	if isComment(trimmed) {
		return nil
	}
	if p.m == nil {
		return p.size(lineNo, line)
	}

	if p.format == FormatArray {
		return p.arrayValues(lineNo, line)
	}
	return p.coordinateEntry(lineNo, line)
}

func (p *matrixParser) banner(lineNo int, line string) error {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) != 5 || fields[1] != "matrix" {
		return malformed(p.name, lineNo, line, "invalid MatrixMarket banner")
	}

	switch MatrixFormat(fields[2]) {
	case FormatArray, FormatCoordinate:
		p.format = MatrixFormat(fields[2])
	default:
		return malformed(p.name, lineNo, line, "unsupported layout %q", fields[2])
	}

	switch fields[3] {
	case "real", "double", "integer":
	default:
		return malformed(p.name, lineNo, line, "unsupported field type %q", fields[3])
	}
	if fields[4] != "general" {
		return malformed(p.name, lineNo, line, "unsupported symmetry %q", fields[4])
	}
	return nil
}

func (p *matrixParser) size(lineNo int, line string) error {
	fields := strings.Fields(line)

	format := p.format
	if format == "" {
		switch len(fields) {
		case 2:
			format = FormatArray
		case 3:
			format = FormatCoordinate
		default:
			return malformed(p.name, lineNo, line, "size line must have 2 or 3 fields, got %d", len(fields))
		}
	}

	want := 2
	if format == FormatCoordinate {
		want = 3
	}
	if len(fields) != want {
		return malformed(p.name, lineNo, line, "%s size line must have %d fields, got %d", format, want, len(fields))
	}

	dims := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 {
			return malformed(p.name, lineNo, line, "invalid dimension %q", f)
		}
		dims[i] = v
	}

	p.format = format
	p.rows, p.cols = dims[0], dims[1]
	if p.cols != 0 && p.rows > math.MaxInt/p.cols {
		return malformed(p.name, lineNo, line, "%dx%d matrix overflows", p.rows, p.cols)
	}
	if p.rows*p.cols > MaxMatrixCells {
		return malformed(p.name, lineNo, line, "%dx%d matrix exceeds %d cells", p.rows, p.cols, MaxMatrixCells)
	}
	if format == FormatArray {
		p.expected = p.rows * p.cols
	} else {
		p.expected = dims[2]
		if p.expected > MaxMatrixCells {
			return malformed(p.name, lineNo, line, "%d entries exceed %d cells", p.expected, MaxMatrixCells)
		}
		if p.expected > p.rows*p.cols {
			return malformed(p.name, lineNo, line, "%d entries exceed %dx%d matrix", p.expected, p.rows, p.cols)
		}
	}
	p.m = recommend.NewFeatureMatrix(p.rows, p.cols)
	return nil
}

// arrayValues accepts one or more values per line in column-major order.
func (p *matrixParser) arrayValues(lineNo int, line string) error {
	for _, f := range strings.Fields(line) {
		if p.read >= p.expected {
			return malformed(p.name, lineNo, line, "more than %d values", p.expected)
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return malformed(p.name, lineNo, line, "invalid value %q", f)
		}
		row := p.read%p.rows + 1
		col := p.read/p.rows + 1
		if err := p.m.Set(row, col, v); err != nil {
			return malformed(p.name, lineNo, line, "%v", err)
		}
		p.read++
	}
	return nil
}

func (p *matrixParser) coordinateEntry(lineNo int, line string) error {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return malformed(p.name, lineNo, line, "expected \"row col value\", got %d fields", len(fields))
	}
	if p.read >= p.expected {
		return malformed(p.name, lineNo, line, "more than %d entries", p.expected)
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return malformed(p.name, lineNo, line, "invalid row %q", fields[0])
	}
	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return malformed(p.name, lineNo, line, "invalid column %q", fields[1])
	}
	v, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return malformed(p.name, lineNo, line, "invalid value %q", fields[2])
	}
	if err := p.m.Set(row, col, v); err != nil {
		return malformed(p.name, lineNo, line, "%v", err)
	}
	p.read++
	return nil
}

func (p *matrixParser) finish() error {
	if p.m == nil {
		return fmt.Errorf("%s: %w: missing size line", p.name, ErrMalformedInput)
	}
	if p.read != p.expected {
		return fmt.Errorf("%s: %w: expected %d %s values, got %d",
			p.name, ErrMalformedInput, p.expected, p.format, p.read)
	}
	return nil
}
