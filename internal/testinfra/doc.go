// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

// Package testinfra starts sink backend containers for integration tests.
//
// All helpers are behind the integration build tag:
//
//	go test -tags integration ./internal/sink/...
//
// Usage:
//
//	func TestRedisSink(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    redis, err := testinfra.StartRedis(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, redis)
//
//	    s, err := sink.NewRedis(ctx, &config.RedisConfig{Addr: redis.Endpoint}, sink.TargetPrimary)
//	    ...
//	}
package testinfra
