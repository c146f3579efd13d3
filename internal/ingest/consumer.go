// Vitrina - Catalog Recommendations for E-Commerce
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package ingest

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/vitrina/internal/metrics"
	"github.com/tomtom215/vitrina/internal/models"
)

// Recorder persists interactions. Implemented by the MongoDB store and by
// the in-memory store used in tests.
type Recorder interface {
	Append(ctx context.Context, in models.Interaction) error
}

// Consumer reads interaction events from a subscriber and records them.
type Consumer struct {
	subscriber message.Subscriber
	recorder   Recorder
	topic      string
	logger     zerolog.Logger
}

// NewConsumer wires a subscriber to a recorder for the given topic.
func NewConsumer(subscriber message.Subscriber, recorder Recorder, topic string, logger zerolog.Logger) (*Consumer, error) {
	if subscriber == nil {
		return nil, fmt.Errorf("ingest: subscriber must not be nil")
	}
	if recorder == nil {
		return nil, fmt.Errorf("ingest: recorder must not be nil")
	}
	if topic == "" {
		return nil, fmt.Errorf("ingest: topic must not be empty")
	}
	return &Consumer{
		subscriber: subscriber,
		recorder:   recorder,
		topic:      topic,
		logger:     logger.With().Str("component", "ingest").Str("topic", topic).Logger(),
	}, nil
}

// Run processes events until the context is canceled or the subscriber's
// channel closes. It returns ctx.Err() on cancellation.
func (c *Consumer) Run(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		return fmt.Errorf("ingest: subscribe to %s: %w", c.topic, err)
	}
	c.logger.Info().Msg("consuming interaction events")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			c.process(ctx, msg)
		}
	}
}

// process handles one message. Undecodable or invalid events are acked and
// dropped; only recorder failures nack for redelivery.
func (c *Consumer) process(ctx context.Context, msg *message.Message) {
	logger := c.logger.With().Str("message_uuid", msg.UUID).Logger()

	event, err := UnmarshalEvent(msg.Payload)
	if err != nil {
		metrics.IngestEvents.WithLabelValues(metrics.IngestMalformed).Inc()
		logger.Warn().Err(err).Msg("dropping malformed event")
		msg.Ack()
		return
	}

	if err := event.Validate(); err != nil {
		metrics.IngestEvents.WithLabelValues(metrics.IngestInvalid).Inc()
		logger.Warn().Err(err).Str("event_id", event.EventID).Msg("dropping invalid event")
		msg.Ack()
		return
	}

	interaction, err := event.Interaction()
	if err != nil {
		// Validate already constrains the type, so this only fires if the
		// two constraint sets drift apart.
		metrics.IngestEvents.WithLabelValues(metrics.IngestInvalid).Inc()
		logger.Warn().Err(err).Str("event_id", event.EventID).Msg("dropping event with unusable type")
		msg.Ack()
		return
	}

	if err := c.recorder.Append(ctx, interaction); err != nil {
		metrics.IngestEvents.WithLabelValues(metrics.IngestFailed).Inc()
		logger.Error().Err(err).Str("event_id", event.EventID).Msg("recording interaction failed")
		msg.Nack()
		return
	}

	metrics.IngestEvents.WithLabelValues(metrics.IngestOK).Inc()
	logger.Debug().
		Str("event_id", event.EventID).
		Str("user", interaction.UserID).
		Str("product", interaction.ProductID).
		Str("type", interaction.Type.String()).
		Msg("interaction recorded")
	msg.Ack()
}
