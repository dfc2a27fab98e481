// Package kafka publishes committed domain events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"kirana/internal/core/domain/model/kernel"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Producer is the part of *kafka.Writer the publisher needs.
type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewWriter builds a writer that waits for all in-sync replicas.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 5 * time.Second,
	}
}

// EventPublisher implements ports.EventPublisher. Messages are keyed by
// aggregate id so every event of one order lands on the same partition in
// the order it was recorded.
type EventPublisher struct {
	producer Producer
	logger   *slog.Logger
}

func NewEventPublisher(producer Producer, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{
		producer: producer,
		logger:   logger.With("component", "event-publisher"),
	}
}

type eventPayload struct {
	Name          string         `json:"name"`
	AggregateType string         `json:"aggregate_type"`
	AggregateID   string         `json:"aggregate_id"`
	OccurredAt    time.Time      `json:"occurred_at"`
	Data          map[string]any `json:"data,omitempty"`
}

func (p *EventPublisher) Publish(ctx context.Context, events ...kernel.Event) error {
	if len(events) == 0 {
		return nil
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(eventPayload(e))
		if err != nil {
			return fmt.Errorf("encode %s: %w", e.Name, err)
		}

		headers := []kafka.Header{
			{Key: "event_type", Value: []byte(e.Name)},
			{Key: "aggregate_type", Value: []byte(e.AggregateType)},
		}
		for k, v := range carrier {
			headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
		}

		msgs = append(msgs, kafka.Message{
			Key:     []byte(e.AggregateID),
			Value:   value,
			Headers: headers,
			Time:    e.OccurredAt,
		})
	}

	if err := p.producer.WriteMessages(ctx, msgs...); err != nil {
		return err
	}
	p.logger.DebugContext(ctx, "events published", slog.Int("count", len(msgs)))
	return nil
}

// NoopPublisher drops events. It is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ...kernel.Event) error { return nil }
