// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// setRequiredEnv sets the minimum environment for a valid configuration.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("INPUT_DIR", "/data/input")
	t.Setenv("APP_ID", "3")
	t.Setenv("ALGO_ID", "7")
}

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Job.NumRecommendations != 10 {
		t.Errorf("Job.NumRecommendations = %d, want 10", cfg.Job.NumRecommendations)
	}
	if cfg.Job.EvaluationMode() {
		t.Error("evaluation mode should be off by default")
	}
	if cfg.Files.UserIndex != "usersIndex.tsv" || cfg.Files.ItemFeatures != "itemFeatures.mm" {
		t.Errorf("unexpected file defaults: %+v", cfg.Files)
	}
	if cfg.Sink.Backend != BackendDuckDB {
		t.Errorf("Sink.Backend = %q, want duckdb", cfg.Sink.Backend)
	}
	if cfg.Sink.Writers != 1 {
		t.Errorf("Sink.Writers = %d, want 1", cfg.Sink.Writers)
	}
	if cfg.Sink.RetryAttempts != 5 {
		t.Errorf("Sink.RetryAttempts = %d, want 5", cfg.Sink.RetryAttempts)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("EVAL_ID", "42")
	t.Setenv("UNSEEN_ONLY", "true")
	t.Setenv("NUM_RECOMMENDATIONS", "25")
	t.Setenv("TASK_TIMEOUT", "2s")
	t.Setenv("SINK_BACKEND", "REDIS")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Job.InputDir != "/data/input" || cfg.Job.AppID != 3 || cfg.Job.AlgoID != 7 {
		t.Errorf("Job = %+v", cfg.Job)
	}
	if cfg.Job.EvalID != 42 || !cfg.Job.EvaluationMode() {
		t.Errorf("EvalID = %d, want 42", cfg.Job.EvalID)
	}
	if !cfg.Job.UnseenOnly || cfg.Job.NumRecommendations != 25 {
		t.Errorf("UnseenOnly/N = %v/%d", cfg.Job.UnseenOnly, cfg.Job.NumRecommendations)
	}
	if cfg.Job.TaskTimeout != 2*time.Second {
		t.Errorf("TaskTimeout = %v, want 2s", cfg.Job.TaskTimeout)
	}
	if cfg.Sink.Backend != BackendRedis || cfg.Sink.Redis.Addr != "redis:6379" {
		t.Errorf("Sink = %+v", cfg.Sink)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
job:
  input_dir: /from/file
  app_id: 1
  algo_id: 2
  num_recommendations: 5
  eligibility: '"books" in item.tags'
sink:
  backend: badger
  badger:
    in_memory: true
metrics:
  enabled: true
  listen: ":9999"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("NUM_RECOMMENDATIONS", "7")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Job.InputDir != "/from/file" {
		t.Errorf("InputDir = %q", cfg.Job.InputDir)
	}
	if cfg.Job.NumRecommendations != 7 {
		t.Errorf("NumRecommendations = %d, want env override 7", cfg.Job.NumRecommendations)
	}
	if cfg.Job.Eligibility != `"books" in item.tags` {
		t.Errorf("Eligibility = %q", cfg.Job.Eligibility)
	}
	if cfg.Sink.Backend != BackendBadger || !cfg.Sink.Badger.InMemory {
		t.Errorf("Sink = %+v", cfg.Sink)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Listen != ":9999" {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	// Untouched defaults survive the file layer.
	if cfg.Files.Ratings != "ratings.mm" {
		t.Errorf("Files.Ratings = %q", cfg.Files.Ratings)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("job: {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	if got := findConfigFile(); got != path {
		t.Errorf("findConfigFile() = %q, want %q", got, path)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"INPUT_DIR", "job.input_dir"},
		{"EVAL_ID", "job.eval_id"},
		{"ELIGIBILITY_EXPR", "job.eligibility"},
		{"USER_FEATURES_FILE", "files.user_features"},
		{"SINK_RETRY_MAX_DELAY", "sink.retry_max_delay"},
		{"MONGO_URI", "sink.mongo.uri"},
		{"NATS_JETSTREAM", "sink.nats.jetstream"},
		{"METRICS_LISTEN", "metrics.listen"},
		{"LOG_FORMAT", "logging.format"},
		{"HOME", ""},
		{"PATH", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Job.InputDir = "/in"
		cfg.Job.AppID = 1
		cfg.Job.AlgoID = 1
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing input dir", func(c *Config) { c.Job.InputDir = "" }, "job.input_dir is required"},
		{"missing app id", func(c *Config) { c.Job.AppID = 0 }, "job.app_id must be greater than 0"},
		{"negative n", func(c *Config) { c.Job.NumRecommendations = -1 }, "job.num_recommendations"},
		{"unknown backend", func(c *Config) { c.Sink.Backend = "kafka" }, "sink.backend must be one of"},
		{"zero writers", func(c *Config) { c.Sink.Writers = 0 }, "sink.writers"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"max delay below delay", func(c *Config) {
			c.Sink.RetryDelay = time.Second
			c.Sink.RetryMaxDelay = time.Millisecond
		}, "SINK_RETRY_MAX_DELAY"},
		{"badger without path", func(c *Config) {
			c.Sink.Backend = BackendBadger
			c.Sink.Badger.Path = ""
		}, "BADGER_PATH"},
		{"badger in memory", func(c *Config) {
			c.Sink.Backend = BackendBadger
			c.Sink.Badger.Path = ""
			c.Sink.Badger.InMemory = true
		}, ""},
		{"redis without addr", func(c *Config) {
			c.Sink.Backend = BackendRedis
			c.Sink.Redis.Addr = ""
		}, "REDIS_ADDR"},
		{"mongo bad scheme", func(c *Config) {
			c.Sink.Backend = BackendMongo
			c.Sink.Mongo.URI = "http://mongo"
		}, "MONGO_URI"},
		{"mongo without database", func(c *Config) {
			c.Sink.Backend = BackendMongo
			c.Sink.Mongo.Database = ""
		}, "MONGO_DATABASE"},
		{"nats without url", func(c *Config) {
			c.Sink.Backend = BackendNATS
			c.Sink.NATS.URL = ""
		}, "NATS_URL"},
		{"metrics without listen", func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.Listen = ""
		}, "METRICS_LISTEN"},
		{"in-memory duckdb", func(c *Config) { c.Sink.DuckDB.Path = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
