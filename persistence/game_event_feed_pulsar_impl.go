// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package persistence

import (
	"context"

	"github.com/apache/pulsar-client-go/pulsar"

	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/config"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

type gameEventFeedPulsar struct {
	client   pulsar.Client
	producer pulsar.Producer
	logger   log.Logger
}

// NewGameEventFeed builds the feed for the given config. A nil config means
// the feed is disabled and a no-op implementation is returned.
func NewGameEventFeed(cfg *config.EventFeedConfig, logger log.Logger) (GameEventFeed, error) {
	if cfg == nil {
		return NewNoopGameEventFeed(), nil
	}
	return NewPulsarGameEventFeed(*cfg, logger)
}

// NewPulsarGameEventFeed connects to the broker and creates the producer
// eagerly, so a misconfigured feed fails the server start instead of the
// first publish.
func NewPulsarGameEventFeed(cfg config.EventFeedConfig, logger log.Logger) (GameEventFeed, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL:               cfg.PulsarURL,
		ConnectionTimeout: cfg.ConnectionTimeout,
		OperationTimeout:  cfg.OperationTimeout,
	})
	if err != nil {
		return nil, err
	}
	producer, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic: cfg.Topic,
	})
	if err != nil {
		client.Close()
		return nil, err
	}
	return &gameEventFeedPulsar{
		client:   client,
		producer: producer,
		logger:   logger,
	}, nil
}

func (p *gameEventFeedPulsar) Publish(ctx context.Context, message data_models.GameEventMessage) error {
	payload, err := message.ToBytes()
	if err != nil {
		return err
	}
	// keyed by game id so per-game ordering survives topic partitioning
	_, err = p.producer.Send(ctx, &pulsar.ProducerMessage{
		Key:     message.GameId,
		Payload: payload,
	})
	return err
}

func (p *gameEventFeedPulsar) Close() {
	p.producer.Close()
	p.client.Close()
}
