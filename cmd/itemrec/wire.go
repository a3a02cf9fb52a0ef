// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/itemrec/internal/config"
	"github.com/tomtom215/itemrec/internal/dataset"
	"github.com/tomtom215/itemrec/internal/recommend"
	"github.com/tomtom215/itemrec/internal/recommend/eligibility"
)

// jobConfig converts the loaded configuration into the scoring settings.
// workers replaces a zero Job.Workers.
func jobConfig(cfg *config.Config, workers int) recommend.JobConfig {
	job := recommend.DefaultJobConfig()
	job.AppID = cfg.Job.AppID
	job.AlgoID = cfg.Job.AlgoID
	job.EvalID = cfg.Job.EvalID
	job.ModelSet = cfg.Job.ModelSet
	job.UnseenOnly = cfg.Job.UnseenOnly
	job.NumRecommendations = cfg.Job.NumRecommendations
	job.QueueSize = cfg.Job.QueueSize
	job.TaskTimeout = cfg.Job.TaskTimeout
	job.Writers = cfg.Sink.Writers

	job.Workers = cfg.Job.Workers
	if job.Workers <= 0 {
		job.Workers = workers
	}
	return job
}

// inputFiles resolves the configured input file names against the input directory.
func inputFiles(cfg *config.Config) dataset.Files {
	return dataset.Files{
		Dir:          cfg.Job.InputDir,
		UserIndex:    cfg.Files.UserIndex,
		ItemIndex:    cfg.Files.ItemIndex,
		Ratings:      cfg.Files.Ratings,
		UserFeatures: cfg.Files.UserFeatures,
		ItemFeatures: cfg.Files.ItemFeatures,
	}
}

// loadInputs compiles the eligibility expression, then reads the dataset.
// An invalid expression fails before any input file is opened.
//
//nolint:gocritic // zerolog.Logger is passed by value per zerolog convention
func loadInputs(ctx context.Context, cfg *config.Config, unseenOnly bool, logger zerolog.Logger) (*recommend.Dataset, recommend.Eligibility, error) {
	eligible, err := eligibility.Compile(cfg.Job.Eligibility)
	if err != nil {
		return nil, nil, err
	}

	ds, err := dataset.Load(ctx, inputFiles(cfg), unseenOnly, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("load dataset: %w", err)
	}
	return ds, eligible, nil
}
