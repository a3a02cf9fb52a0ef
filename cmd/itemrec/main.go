// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/itemrec/internal/config"
	"github.com/tomtom215/itemrec/internal/logging"
	"github.com/tomtom215/itemrec/internal/recommend"
	"github.com/tomtom215/itemrec/internal/sink"
	"github.com/tomtom215/itemrec/internal/supervisor"
	"github.com/tomtom215/itemrec/internal/supervisor/services"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

//nolint:gocyclo // Sequential setup steps, each with its own failure exit
func run(args []string) int {
	fs := flag.NewFlagSet("itemrec", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file (overrides "+config.ConfigPathEnvVar+")")
	logLevel := fs.String("log-level", "", "override the configured log level")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	// Load configuration first to get logging settings
	cfg, err := loadConfig(*configPath)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load configuration")
		return exitFailure
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	if *logLevel != "" {
		logging.SetLevelString(*logLevel)
	}
	logging.Info().Str("level", logging.GetLevel().String()).Str("config", *configPath).Msg("Logging initialized")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := logging.NewRunID()
	ctx = logging.ContextWithRunID(ctx, runID)
	logger := *logging.Ctx(ctx)

	host := probeHost(ctx, logger)
	job := jobConfig(cfg, host.LogicalCPUs)
	if err := job.Validate(); err != nil {
		logger.Error().Err(err).Msg("Invalid job configuration")
		return exitFailure
	}
	target := sink.TargetFor(job.EvaluationMode())

	logger.Info().
		Str("input_dir", cfg.Job.InputDir).
		Int("context_id", job.ContextID()).
		Int("algo_id", job.AlgoID).
		Bool("evaluation", job.EvaluationMode()).
		Str("target", target.String()).
		Str("sink", cfg.Sink.Backend).
		Int("workers", job.Workers).
		Uint64("available_memory", host.AvailableMemory).
		Msg("Configuration loaded")

	ds, eligible, err := loadInputs(ctx, cfg, job.UnseenOnly, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to prepare inputs")
		return exitFailure
	}

	out, err := sink.Open(ctx, &cfg.Sink, target, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open result sink")
		return exitFailure
	}
	defer func() {
		if err := out.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing result sink")
		}
	}()

	orch, err := recommend.NewOrchestrator(ds, out, job, eligible, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to prepare scoring run")
		return exitFailure
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create supervisor tree")
		return exitFailure
	}

	var report *recommend.Report
	jobSvc := services.NewJobService("recommend-job", func(ctx context.Context) error {
		var runErr error
		report, runErr = orch.Run(ctx)
		return runErr
	}, logger)
	tree.AddJobService(jobSvc)

	if cfg.Metrics.Enabled {
		server := &http.Server{
			Addr:              cfg.Metrics.Listen,
			Handler:           newRouter(runID, target.String(), orch, out),
			ReadHeaderTimeout: 10 * time.Second,
		}
		tree.AddAPIService(services.NewHTTPServerService(server, cfg.Metrics.ShutdownTimeout))
		logger.Info().Str("listen", cfg.Metrics.Listen).Msg("Observability endpoints enabled")
	}

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("Supervisor tree stopped with error")
	}

	select {
	case <-jobSvc.Done():
	default:
		logger.Error().Msg("Scoring job did not finish before shutdown")
		return exitFailure
	}

	return exitCode(logger, report, jobSvc.Err())
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// exitCode logs the run summary and maps it onto the process exit status.
//
//nolint:gocritic // zerolog.Logger is passed by value per zerolog convention
func exitCode(logger zerolog.Logger, report *recommend.Report, err error) int {
	if report != nil {
		event := logger.Info()
		if report.Lost() > 0 {
			event = logger.Warn()
		}
		event.
			Str("run_id", report.RunID).
			Int("users", report.Users).
			Int("written", report.Written).
			Int("lost", report.Lost()).
			Int("unmapped_users", report.UnmappedUsers).
			Int("unmapped_items", report.UnmappedItems).
			Int("ineligible_items", report.Ineligible).
			Int("catalog_size", report.CatalogSize).
			Dur("duration", report.Duration).
			Msg("Run summary")

		for _, f := range report.Failures {
			logger.Debug().Err(f.Err).Str("uid", f.UserID).Str("stage", string(f.Stage)).Msg("Result lost")
		}
	}

	if err != nil {
		logger.Error().Err(err).Msg("Recommendation job failed")
		return exitFailure
	}
	if report == nil || report.Lost() > 0 {
		return exitFailure
	}
	return exitOK
}
