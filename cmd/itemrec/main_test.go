// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/itemrec/internal/config"
	"github.com/tomtom215/itemrec/internal/dataset"
	"github.com/tomtom215/itemrec/internal/recommend"
	"github.com/tomtom215/itemrec/internal/sink"
)

func testConfig() *config.Config {
	return &config.Config{
		Job: config.JobConfig{
			InputDir:           "/data/model",
			AppID:              3,
			AlgoID:             7,
			ModelSet:           true,
			UnseenOnly:         true,
			NumRecommendations: 5,
			QueueSize:          16,
			TaskTimeout:        time.Second,
		},
		Files: config.FilesConfig{
			UserIndex:    "usersIndex.tsv",
			ItemIndex:    "itemsIndex.tsv",
			Ratings:      "/abs/ratings.mm",
			UserFeatures: "userFeatures.mm",
			ItemFeatures: "itemFeatures.mm",
		},
		Sink: config.SinkConfig{Backend: config.BackendMemory, Writers: 2},
	}
}

func TestJobConfig(t *testing.T) {
	tests := []struct {
		name        string
		workers     int
		hostWorkers int
		evalID      int
		wantWorkers int
		wantContext int
	}{
		{name: "host default", workers: 0, hostWorkers: 12, wantWorkers: 12, wantContext: 3},
		{name: "explicit workers", workers: 4, hostWorkers: 12, wantWorkers: 4, wantContext: 3},
		{name: "evaluation", workers: 2, hostWorkers: 12, evalID: 9, wantWorkers: 2, wantContext: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Job.Workers = tt.workers
			cfg.Job.EvalID = tt.evalID

			job := jobConfig(cfg, tt.hostWorkers)
			if job.Workers != tt.wantWorkers {
				t.Errorf("Workers = %d, want %d", job.Workers, tt.wantWorkers)
			}
			if job.ContextID() != tt.wantContext {
				t.Errorf("ContextID() = %d, want %d", job.ContextID(), tt.wantContext)
			}
			if job.EvaluationMode() != (tt.evalID != 0) {
				t.Errorf("EvaluationMode() = %v", job.EvaluationMode())
			}
			if job.AlgoID != 7 || !job.ModelSet || !job.UnseenOnly {
				t.Errorf("ids/flags not copied: %+v", job)
			}
			if job.NumRecommendations != 5 || job.Writers != 2 || job.QueueSize != 16 || job.TaskTimeout != time.Second {
				t.Errorf("limits not copied: %+v", job)
			}
			if err := job.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestInputFiles(t *testing.T) {
	files := inputFiles(testConfig())

	if got := files.Path(files.UserIndex); got != filepath.Join("/data/model", "usersIndex.tsv") {
		t.Errorf("user index path = %q", got)
	}
	if got := files.Path(files.Ratings); got != "/abs/ratings.mm" {
		t.Errorf("absolute ratings path = %q", got)
	}
	if files.ItemFeatures != "itemFeatures.mm" {
		t.Errorf("ItemFeatures = %q", files.ItemFeatures)
	}
}

func TestExitCode(t *testing.T) {
	lost := &recommend.Report{
		Users:    2,
		Written:  1,
		Failures: []recommend.Failure{{UserID: "u2", Stage: recommend.StageWrite, Err: errors.New("down")}},
	}

	tests := []struct {
		name   string
		report *recommend.Report
		err    error
		want   int
	}{
		{name: "all written", report: &recommend.Report{Users: 2, Written: 2}, want: exitOK},
		{name: "empty run", report: &recommend.Report{}, want: exitOK},
		{name: "results lost", report: lost, err: recommend.ErrResultsLost, want: exitFailure},
		{name: "lost without error", report: lost, want: exitFailure},
		{name: "no report", want: exitFailure},
		{name: "job error", err: context.Canceled, want: exitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(zerolog.Nop(), tt.report, tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLoadInputs_Order(t *testing.T) {
	tests := []struct {
		name        string
		expr        string
		wantCompile bool
	}{
		{"invalid expression", "item.id ==", true},
		{"valid expression", `item.id != ""`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Job.InputDir = filepath.Join(t.TempDir(), "missing")
			cfg.Job.Eligibility = tt.expr

			_, _, err := loadInputs(context.Background(), cfg, true, zerolog.Nop())
			if err == nil {
				t.Fatal("loadInputs() error = nil")
			}
			if got := strings.Contains(err.Error(), "compile eligibility expression"); got != tt.wantCompile {
				t.Errorf("error = %v, compile failure = %v, want %v", err, got, tt.wantCompile)
			}
			if errors.Is(err, fs.ErrNotExist) == tt.wantCompile {
				t.Errorf("error = %v, dataset read = %v, want %v", err, !tt.wantCompile, !tt.wantCompile)
			}
		})
	}
}

func TestRun_BadFlag(t *testing.T) {
	if got := run([]string{"-no-such-flag"}); got != exitUsage {
		t.Errorf("run() = %d, want %d", got, exitUsage)
	}
}

func TestRun_MissingConfigFile(t *testing.T) {
	if got := run([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}); got != exitFailure {
		t.Errorf("run() = %d, want %d", got, exitFailure)
	}
}

func TestRun_LogLevelFlag(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	t.Setenv(config.ConfigPathEnvVar, "")
	t.Setenv("INPUT_DIR", filepath.Join(t.TempDir(), "missing"))
	t.Setenv("APP_ID", "3")
	t.Setenv("ALGO_ID", "7")
	t.Setenv("SINK_BACKEND", config.BackendMemory)
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "debug")

	if got := run([]string{"-log-level", "error"}); got != exitFailure {
		t.Fatalf("run() = %d, want %d", got, exitFailure)
	}
	if got := zerolog.GlobalLevel(); got != zerolog.ErrorLevel {
		t.Errorf("level = %s, want error", got)
	}
}

func TestRun_EndToEnd(t *testing.T) {
	input := t.TempDir()
	files := map[string]string{
		dataset.DefaultUserIndexFile:    "1\tu1\n",
		dataset.DefaultItemIndexFile:    "1\ti1\tbook\n2\ti2\tfilm\n3\ti3\n",
		dataset.DefaultRatingsFile:      "%%MatrixMarket matrix coordinate real general\n1 3 1\n1 3 4\n",
		dataset.DefaultUserFeaturesFile: "1 1\n2.0\n",
		dataset.DefaultItemFeaturesFile: "1 3\n3.0\n1.0\n5.0\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(input, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	store := filepath.Join(t.TempDir(), "results")

	t.Setenv(config.ConfigPathEnvVar, "")
	t.Setenv("INPUT_DIR", input)
	t.Setenv("APP_ID", "3")
	t.Setenv("ALGO_ID", "7")
	t.Setenv("NUM_RECOMMENDATIONS", "2")
	t.Setenv("SINK_BACKEND", config.BackendBadger)
	t.Setenv("BADGER_PATH", store)
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")

	if got := run(nil); got != exitOK {
		t.Fatalf("run() = %d, want %d", got, exitOK)
	}

	db, err := sink.NewBadger(&config.BadgerConfig{Path: store}, sink.TargetPrimary)
	if err != nil {
		t.Fatalf("reopen results: %v", err)
	}
	defer db.Close()

	rec, err := db.Get(sink.KeyPrefix(sink.TargetPrimary) + "3:7:false:u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if want := []string{"i3", "i1"}; !reflect.DeepEqual(rec.ItemIDs, want) {
		t.Errorf("ItemIDs = %v, want %v", rec.ItemIDs, want)
	}
	if want := []float64{10, 6}; !reflect.DeepEqual(rec.Scores, want) {
		t.Errorf("Scores = %v, want %v", rec.Scores, want)
	}
}
