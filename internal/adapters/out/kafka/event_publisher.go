// Package kafka relays committed order events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"fooddelivery/internal/core/ports"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// DefaultProducer names this service in the envelope.
const DefaultProducer = "food-delivery-api"

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventPublisher implements ports.EventPublisher on top of a kafka-go writer.
type EventPublisher struct {
	w        messageWriter
	producer string
	logger   *slog.Logger
}

var _ ports.EventPublisher = (*EventPublisher)(nil)

// NewEventPublisher writes to topic on the given brokers. Messages are keyed by
// order id and hashed onto partitions.
func NewEventPublisher(brokers []string, topic string, logger *slog.Logger) *EventPublisher {
	return newEventPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}, logger)
}

func newEventPublisher(w messageWriter, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{
		w:        w,
		producer: DefaultProducer,
		logger:   logger.With("component", "kafka_event_publisher"),
	}
}

// Publish writes all events in one batch.
func (p *EventPublisher) Publish(ctx context.Context, events ...ports.OrderEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		msg, err := p.message(e)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := p.w.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d order events: %w", len(msgs), err)
	}
	p.logger.DebugContext(ctx, "Order events written", "count", len(msgs))
	return nil
}

// Close flushes pending writes and closes the writer.
func (p *EventPublisher) Close() error {
	return p.w.Close()
}

func (p *EventPublisher) message(e ports.OrderEvent) (kafka.Message, error) {
	payload, err := json.Marshal(payloadOf(e))
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode payload: %w", err)
	}

	orderID := e.OrderID.String()
	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     string(e.Type),
		EventVersion:  EventVersion,
		OccurredAt:    e.OccurredAt.UTC(),
		Producer:      p.producer,
		CorrelationID: orderID,
		Payload:       payload,
	}
	value, err := json.Marshal(env)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode envelope: %w", err)
	}

	return kafka.Message{
		Key:   PartitionKey(orderID),
		Value: value,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.Type)},
		},
	}, nil
}
