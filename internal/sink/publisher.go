// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package sink

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/itemrec/internal/config"
	"github.com/tomtom215/itemrec/internal/recommend"
)

// Publisher emits each result as a Watermill message on the target's topic.
type Publisher struct {
	publisher message.Publisher
	topic     string

	mu     sync.RWMutex
	closed bool
}

// NewPublisher wraps any Watermill publisher. Close closes pub.
func NewPublisher(pub message.Publisher, target Target) *Publisher {
	return &Publisher{publisher: pub, topic: target.Topic()}
}

// NewNATSPublisher connects a Watermill NATS publisher described by cfg.
func NewNATSPublisher(cfg *config.NATSConfig, target Target, logger watermill.LoggerAdapter) (*Publisher, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	natsOpts := []natsgo.Option{
		natsgo.Timeout(timeout),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
	}

	wmConfig := wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      !cfg.JetStream,
			AutoProvision: cfg.JetStream,
			TrackMsgId:    cfg.JetStream, // dedupe retried writes by message id
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}

	pub, err := wmNats.NewPublisher(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}
	return NewPublisher(pub, target), nil
}

// Name implements ResultSink.
func (p *Publisher) Name() string { return "nats" }

// Topic returns the topic results are published on.
func (p *Publisher) Topic() string { return p.topic }

// Write implements ResultSink.
func (p *Publisher) Write(ctx context.Context, r *recommend.Result) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	data, err := json.Marshal(NewRecord(r, time.Now()))
	if err != nil {
		return Permanent(fmt.Errorf("marshal record: %w", err))
	}

	msg := message.NewMessage(MessageID(r), data)
	msg.SetContext(ctx)
	msg.Metadata.Set("uid", r.UserID)
	msg.Metadata.Set("contextid", strconv.Itoa(r.ContextID))
	msg.Metadata.Set("algoid", strconv.Itoa(r.AlgoID))
	msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", r.UserID, err)
	}
	return nil
}

// Close implements ResultSink.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}

var messageNamespace = uuid.MustParse("5b0f9d4e-8a52-4f0e-9a5c-3e1f3f0a7c21")

// MessageID derives a stable message id from the result identity so a
// retried publish is deduplicated by JetStream.
func MessageID(r *recommend.Result) string {
	return uuid.NewSHA1(messageNamespace, []byte(Key("", r))).String()
}
