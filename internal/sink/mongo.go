// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomtom215/itemrec/internal/config"
	"github.com/tomtom215/itemrec/internal/recommend"
)

// Mongo upserts one document per (contextid, algoid, modelset, uid).
type Mongo struct {
	client *mongo.Client
	col    *mongo.Collection
}

// NewMongo connects to the deployment described by cfg.
func NewMongo(ctx context.Context, cfg *config.MongoConfig, target Target) (*Mongo, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	connCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	col := client.Database(cfg.Database).Collection(target.Table())
	if _, err := col.Indexes().CreateOne(connCtx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "contextid", Value: 1},
			{Key: "algoid", Value: 1},
			{Key: "modelset", Value: 1},
			{Key: "uid", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create mongo index: %w", err)
	}

	return &Mongo{client: client, col: col}, nil
}

// Name implements ResultSink.
func (s *Mongo) Name() string { return "mongo" }

// Write implements ResultSink.
func (s *Mongo) Write(ctx context.Context, r *recommend.Result) error {
	rec := NewRecord(r, time.Now())
	filter := bson.M{
		"contextid": rec.ContextID,
		"algoid":    rec.AlgoID,
		"modelset":  rec.ModelSet,
		"uid":       rec.UserID,
	}

	_, err := s.col.ReplaceOne(ctx, filter, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", r.UserID, err)
	}
	return nil
}

// Find returns the stored record for a result's identity.
func (s *Mongo) Find(ctx context.Context, contextID, algoID int, modelSet bool, uid string) (*Record, error) {
	var rec Record
	err := s.col.FindOne(ctx, bson.M{
		"contextid": contextID,
		"algoid":    algoID,
		"modelset":  modelSet,
		"uid":       uid,
	}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", uid, err)
	}
	return &rec, nil
}

// Close implements ResultSink.
func (s *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
