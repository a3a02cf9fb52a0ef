// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Default images for sink backend containers.
const (
	DefaultRedisImage = "redis:7-alpine"
	DefaultMongoImage = "mongo:7"
	DefaultNATSImage  = "nats:2.10-alpine"
)

// SkipIfNoDocker skips the test if Docker is not available.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	if !IsDockerAvailable() {
		t.Skip("Skipping test: Docker not available")
	}
}

// IsDockerAvailable checks if Docker daemon is running and accessible.
func IsDockerAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "docker", "info")
	return cmd.Run() == nil
}

// Backend is a started container exposing one service port.
type Backend struct {
	testcontainers.Container
	// Endpoint is host:port of the mapped service port.
	Endpoint string
}

type backendConfig struct {
	image        string
	startTimeout time.Duration
}

// Option customizes a backend container.
type Option func(*backendConfig)

// WithImage overrides the container image.
func WithImage(image string) Option {
	return func(c *backendConfig) {
		c.image = image
	}
}

// WithStartTimeout overrides the startup wait.
func WithStartTimeout(timeout time.Duration) Option {
	return func(c *backendConfig) {
		c.startTimeout = timeout
	}
}

// StartRedis starts a Redis server.
func StartRedis(ctx context.Context, opts ...Option) (*Backend, error) {
	return start(ctx, "redis", DefaultRedisImage, "6379/tcp", nil,
		wait.ForLog("Ready to accept connections"), opts)
}

// StartMongo starts a single-node MongoDB server.
func StartMongo(ctx context.Context, opts ...Option) (*Backend, error) {
	return start(ctx, "mongo", DefaultMongoImage, "27017/tcp", nil,
		wait.ForLog("Waiting for connections"), opts)
}

// StartNATS starts a NATS server with JetStream enabled.
func StartNATS(ctx context.Context, opts ...Option) (*Backend, error) {
	return start(ctx, "nats", DefaultNATSImage, "4222/tcp", []string{"-js"},
		wait.ForLog("Server is ready"), opts)
}

func start(ctx context.Context, name, image, port string, cmd []string, waitFor wait.Strategy, opts []Option) (*Backend, error) {
	cfg := &backendConfig{image: image, startTimeout: 60 * time.Second}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{port},
		Cmd:          cmd,
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(port),
			waitFor,
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s container: %w", name, err)
	}

	endpoint, err := container.PortEndpoint(ctx, port, "")
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get %s endpoint: %w", name, err)
	}

	return &Backend{Container: container, Endpoint: endpoint}, nil
}

// CleanupContainer is a helper for deferred container cleanup that logs errors.
func CleanupContainer(t *testing.T, ctx context.Context, container testcontainers.Container) {
	t.Helper()

	if container != nil {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	}
}
