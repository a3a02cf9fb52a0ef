// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/itemrec/internal/config"
	"github.com/tomtom215/itemrec/internal/logging"
)

// DB wraps the DuckDB connection holding recommendation score tables.
type DB struct {
	conn *sql.DB
	cfg  *config.DuckDBConfig
}

// New opens the database and creates the score tables.
// An empty cfg.Path opens an in-memory database.
func New(cfg *config.DuckDBConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Ensure parent directory exists for database file
	// Use 0750 permissions (owner: rwx, group: rx, other: none) per gosec G301
	if cfg.Path != "" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	connStr := fmt.Sprintf("%s?threads=%d&autoinstall_known_extensions=false&autoload_known_extensions=false", cfg.Path, numThreads)
	if cfg.MaxMemory != "" {
		connStr += "&max_memory=" + cfg.MaxMemory
	}
	if cfg.Path != "" {
		connStr += "&access_mode=read_write"
	}

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, cfg: cfg}

	if cfg.Path == "" {
		// Each connection to an in-memory database is a separate database.
		conn.SetMaxOpenConns(1)
	}

	if err := db.createTables(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logging.Debug().Str("path", cfg.Path).Int("threads", numThreads).Msg("DuckDB opened")
	return db, nil
}

// Conn returns the underlying SQL database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping checks if the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Checkpoint flushes the WAL into the database file.
func (db *DB) Checkpoint(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("checkpoint failed: %w", err)
	}
	return nil
}

// Close checkpoints file-backed databases and closes the connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}

	if db.cfg.Path != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.Checkpoint(ctx); err != nil {
			logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
		}
		cancel()
	}

	return db.conn.Close()
}
