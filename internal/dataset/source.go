// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/itemrec/internal/metrics"
	"github.com/tomtom215/itemrec/internal/recommend"
)

// Default input file names inside the input directory.
const (
	DefaultUserIndexFile    = "usersIndex.tsv"
	DefaultItemIndexFile    = "itemsIndex.tsv"
	DefaultRatingsFile      = "ratings.mm"
	DefaultUserFeaturesFile = "userFeatures.mm"
	DefaultItemFeaturesFile = "itemFeatures.mm"
)

// Files locates the input files of one job run.
// Relative names are resolved against Dir.
type Files struct {
	Dir          string
	UserIndex    string
	ItemIndex    string
	Ratings      string
	UserFeatures string
	ItemFeatures string
}

// DefaultFiles returns the standard file layout under dir.
func DefaultFiles(dir string) Files {
	return Files{
		Dir:          dir,
		UserIndex:    DefaultUserIndexFile,
		ItemIndex:    DefaultItemIndexFile,
		Ratings:      DefaultRatingsFile,
		UserFeatures: DefaultUserFeaturesFile,
		ItemFeatures: DefaultItemFeaturesFile,
	}
}

// Path resolves a file name against Dir.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (f Files) Path(name string) string {
	if filepath.IsAbs(name) || f.Dir == "" {
		return name
	}
	return filepath.Join(f.Dir, name)
}

// Load reads every input file and validates the result. The ratings file
// is read only when unseenOnly is set. Files are read concurrently; the
// first failure cancels the rest and is returned.
//
//nolint:gocritic // zerolog.Logger is passed by value per zerolog convention
func Load(ctx context.Context, files Files, unseenOnly bool, logger zerolog.Logger) (*recommend.Dataset, error) {
	logger = logger.With().Str("component", "dataset").Logger()
	start := time.Now()

	ds := &recommend.Dataset{Seen: recommend.SeenSet{}}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return readFile(gctx, files.Path(files.UserIndex), logger, func(ctx context.Context, f *os.File, name string) (int, error) {
			users, err := ReadUserIndex(ctx, f, name)
			ds.Users = users
			return len(users), err
		})
	})
	g.Go(func() error {
		return readFile(gctx, files.Path(files.ItemIndex), logger, func(ctx context.Context, f *os.File, name string) (int, error) {
			items, err := ReadItemIndex(ctx, f, name)
			ds.Items = items
			return len(items), err
		})
	})
	g.Go(func() error {
		return readFile(gctx, files.Path(files.UserFeatures), logger, func(ctx context.Context, f *os.File, name string) (int, error) {
			m, err := ReadMatrix(ctx, f, name)
			ds.UserFactors = m
			return columns(m), err
		})
	})
	g.Go(func() error {
		return readFile(gctx, files.Path(files.ItemFeatures), logger, func(ctx context.Context, f *os.File, name string) (int, error) {
			m, err := ReadMatrix(ctx, f, name)
			ds.ItemFactors = m
			return columns(m), err
		})
	})
	if unseenOnly {
		g.Go(func() error {
			return readFile(gctx, files.Path(files.Ratings), logger, func(ctx context.Context, f *os.File, name string) (int, error) {
				seen, err := ReadSeen(ctx, f, name)
				ds.Seen = seen
				return len(seen), err
			})
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Int("users", len(ds.Users)).
		Int("items", len(ds.Items)).
		Int("factors", ds.UserFactors.Factors()).
		Int("user_columns", ds.UserFactors.Columns()).
		Int("item_columns", ds.ItemFactors.Columns()).
		Int("users_with_history", len(ds.Seen)).
		Dur("duration", time.Since(start)).
		Msg("Dataset loaded")

	return ds, nil
}

// readFile opens path, runs parse on it and records load metrics.
// parse returns the number of parsed entities for logging.
//
//nolint:gocritic // zerolog.Logger is passed by value per zerolog convention
func readFile(ctx context.Context, path string, logger zerolog.Logger, parse func(context.Context, *os.File, string) (int, error)) error {
	start := time.Now()
	name := filepath.Base(path)

	f, err := os.Open(path) //nolint:gosec // path comes from job configuration
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	n, err := parse(ctx, f, name)
	if err != nil {
		return err
	}

	metrics.RecordLoad(name, n, time.Since(start))
	logger.Debug().
		Str("file", path).
		Int("entries", n).
		Dur("duration", time.Since(start)).
		Msg("Input file read")
	return nil
}

func columns(m *recommend.FeatureMatrix) int {
	if m == nil {
		return 0
	}
	return m.Columns()
}
