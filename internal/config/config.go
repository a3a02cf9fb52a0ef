// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package config

import "time"

// Config holds the configuration of one recommendation job run.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in defaults for all optional settings
//  2. Config File: optional YAML file (config.yaml)
//  3. Environment Variables: override any setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	files := dataset.DefaultFiles(cfg.Job.InputDir)
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Job     JobConfig     `koanf:"job"`
	Files   FilesConfig   `koanf:"files"`
	Sink    SinkConfig    `koanf:"sink"`
	Metrics MetricsConfig `koanf:"metrics"`
	Logging LoggingConfig `koanf:"logging"`
}

// JobConfig holds the scoring settings.
type JobConfig struct {
	InputDir string `koanf:"input_dir" validate:"required"`

	AppID  int `koanf:"app_id" validate:"gt=0"`
	AlgoID int `koanf:"algo_id" validate:"gt=0"`

	// EvalID switches the run into offline-evaluation mode when non-zero.
	EvalID int `koanf:"eval_id" validate:"gte=0"`

	ModelSet   bool `koanf:"model_set"`
	UnseenOnly bool `koanf:"unseen_only"`

	NumRecommendations int `koanf:"num_recommendations" validate:"gte=0"`

	// Workers caps concurrent scoring tasks (0 = CPU count)
	Workers int `koanf:"workers" validate:"gte=0"`

	// QueueSize is the result queue capacity (0 = 4 * workers)
	QueueSize int `koanf:"queue_size" validate:"gte=0"`

	// TaskTimeout bounds scoring of one user (0 = unbounded)
	TaskTimeout time.Duration `koanf:"task_timeout" validate:"gte=0"`

	// Eligibility is an optional CEL expression restricting the item catalog
	Eligibility string `koanf:"eligibility"`
}

// EvaluationMode reports whether the run writes to the offline-evaluation target.
func (j *JobConfig) EvaluationMode() bool {
	return j.EvalID != 0
}

// FilesConfig holds input file names, relative to Job.InputDir.
type FilesConfig struct {
	UserIndex    string `koanf:"user_index" validate:"required"`
	ItemIndex    string `koanf:"item_index" validate:"required"`
	Ratings      string `koanf:"ratings" validate:"required"`
	UserFeatures string `koanf:"user_features" validate:"required"`
	ItemFeatures string `koanf:"item_features" validate:"required"`
}

// Sink backends.
const (
	BackendDuckDB = "duckdb"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNATS   = "nats"
	BackendMemory = "memory"
)

// SinkConfig holds result persistence settings.
type SinkConfig struct {
	Backend string `koanf:"backend" validate:"oneof=duckdb badger redis mongo nats memory"`

	// Writers is the number of concurrent writer goroutines
	Writers int `koanf:"writers" validate:"gte=1"`

	// Retry policy for failed writes
	RetryAttempts int           `koanf:"retry_attempts" validate:"gte=0"`
	RetryDelay    time.Duration `koanf:"retry_delay" validate:"gte=0"`
	RetryMaxDelay time.Duration `koanf:"retry_max_delay" validate:"gte=0"`

	// WriteTimeout bounds a single write attempt (0 = unbounded)
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gte=0"`

	// RateLimit caps writes per second (0 = unlimited)
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`
	RateBurst int     `koanf:"rate_burst" validate:"gte=0"`

	// Circuit breaker
	BreakerFailures int           `koanf:"breaker_failures" validate:"gte=1"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout" validate:"gt=0"`

	DuckDB DuckDBConfig `koanf:"duckdb"`
	Badger BadgerConfig `koanf:"badger"`
	Redis  RedisConfig  `koanf:"redis"`
	Mongo  MongoConfig  `koanf:"mongo"`
	NATS   NATSConfig   `koanf:"nats"`
}

// DuckDBConfig holds DuckDB sink settings.
type DuckDBConfig struct {
	Path      string `koanf:"path"` // empty = in-memory
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads" validate:"gte=0"` // 0 = runtime.NumCPU()
}

// BadgerConfig holds BadgerDB sink settings.
type BadgerConfig struct {
	Path       string `koanf:"path"`
	InMemory   bool   `koanf:"in_memory"`
	SyncWrites bool   `koanf:"sync_writes"`
}

// RedisConfig holds Redis sink settings.
type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db" validate:"gte=0"`
	TTL      time.Duration `koanf:"ttl" validate:"gte=0"` // 0 = no expiry
}

// MongoConfig holds MongoDB sink settings.
type MongoConfig struct {
	URI            string        `koanf:"uri"`
	Database       string        `koanf:"database"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"gte=0"`
}

// NATSConfig holds NATS publisher settings.
type NATSConfig struct {
	URL            string        `koanf:"url"`
	JetStream      bool          `koanf:"jetstream"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"gte=0"`
	MaxReconnects  int           `koanf:"max_reconnects"`
}

// MetricsConfig holds the metrics and status HTTP server settings.
type MetricsConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Listen          string        `koanf:"listen"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}
