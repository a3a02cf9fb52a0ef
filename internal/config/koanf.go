// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/itemrec/config.yaml",
	"/etc/itemrec/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Job: JobConfig{
			InputDir:           "",
			NumRecommendations: 10,
			Workers:            0, // 0 = CPU count
			QueueSize:          0, // 0 = 4 * workers
			TaskTimeout:        0,
		},
		Files: FilesConfig{
			UserIndex:    "usersIndex.tsv",
			ItemIndex:    "itemsIndex.tsv",
			Ratings:      "ratings.mm",
			UserFeatures: "userFeatures.mm",
			ItemFeatures: "itemFeatures.mm",
		},
		Sink: SinkConfig{
			Backend:         BackendDuckDB,
			Writers:         1,
			RetryAttempts:   5,
			RetryDelay:      200 * time.Millisecond,
			RetryMaxDelay:   10 * time.Second,
			WriteTimeout:    30 * time.Second,
			RateLimit:       0, // Unlimited
			RateBurst:       0,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
			DuckDB: DuckDBConfig{
				Path:      "/data/itemrec.duckdb",
				MaxMemory: "2GB",
				Threads:   0,
			},
			Badger: BadgerConfig{
				Path: "/data/itemrec-badger",
			},
			Redis: RedisConfig{
				Addr: "127.0.0.1:6379",
			},
			Mongo: MongoConfig{
				URI:            "mongodb://127.0.0.1:27017",
				Database:       "itemrec",
				ConnectTimeout: 10 * time.Second,
			},
			NATS: NATSConfig{
				URL:            "nats://127.0.0.1:4222",
				JetStream:      true,
				ConnectTimeout: 10 * time.Second,
				MaxReconnects:  10,
			},
		},
		Metrics: MetricsConfig{
			Enabled:         false,
			Listen:          ":9105",
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration from defaults, an optional YAML file and the
// environment, in increasing priority, and validates the result.
func Load() (*Config, error) {
	return load(findConfigFile())
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// INPUT_DIR -> job.input_dir, SINK_REDIS_ADDR -> sink.redis.addr
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// normalize canonicalizes case-insensitive enum values.
func (c *Config) normalize() {
	c.Sink.Backend = strings.ToLower(strings.TrimSpace(c.Sink.Backend))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Job.Eligibility = strings.TrimSpace(c.Job.Eligibility)
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Job
	"input_dir":           "job.input_dir",
	"app_id":              "job.app_id",
	"algo_id":             "job.algo_id",
	"eval_id":             "job.eval_id",
	"model_set":           "job.model_set",
	"unseen_only":         "job.unseen_only",
	"num_recommendations": "job.num_recommendations",
	"workers":             "job.workers",
	"queue_size":          "job.queue_size",
	"task_timeout":        "job.task_timeout",
	"eligibility_expr":    "job.eligibility",

	// Input files
	"user_index_file":    "files.user_index",
	"item_index_file":    "files.item_index",
	"ratings_file":       "files.ratings",
	"user_features_file": "files.user_features",
	"item_features_file": "files.item_features",

	// Sink
	"sink_backend":          "sink.backend",
	"sink_writers":          "sink.writers",
	"sink_retry_attempts":   "sink.retry_attempts",
	"sink_retry_delay":      "sink.retry_delay",
	"sink_retry_max_delay":  "sink.retry_max_delay",
	"sink_write_timeout":    "sink.write_timeout",
	"sink_rate_limit":       "sink.rate_limit",
	"sink_rate_burst":       "sink.rate_burst",
	"sink_breaker_failures": "sink.breaker_failures",
	"sink_breaker_timeout":  "sink.breaker_timeout",

	"duckdb_path":       "sink.duckdb.path",
	"duckdb_max_memory": "sink.duckdb.max_memory",
	"duckdb_threads":    "sink.duckdb.threads",

	"badger_path":        "sink.badger.path",
	"badger_in_memory":   "sink.badger.in_memory",
	"badger_sync_writes": "sink.badger.sync_writes",

	"redis_addr":     "sink.redis.addr",
	"redis_password": "sink.redis.password",
	"redis_db":       "sink.redis.db",
	"redis_ttl":      "sink.redis.ttl",

	"mongo_uri":             "sink.mongo.uri",
	"mongo_database":        "sink.mongo.database",
	"mongo_connect_timeout": "sink.mongo.connect_timeout",

	"nats_url":             "sink.nats.url",
	"nats_jetstream":       "sink.nats.jetstream",
	"nats_connect_timeout": "sink.nats.connect_timeout",
	"nats_max_reconnects":  "sink.nats.max_reconnects",

	// Metrics
	"metrics_enabled":          "metrics.enabled",
	"metrics_listen":           "metrics.listen",
	"metrics_shutdown_timeout": "metrics.shutdown_timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - INPUT_DIR -> job.input_dir
//   - EVAL_ID -> job.eval_id
//   - SINK_BACKEND -> sink.backend
//   - REDIS_ADDR -> sink.redis.addr
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped variables are skipped so unrelated environment does not
	// pollute the configuration.
	return ""
}
