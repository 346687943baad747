// Package events combines the configured order event sinks.
package events

import (
	"context"
	"errors"
	"log/slog"

	"fooddelivery/internal/core/ports"
)

// Fanout publishes every batch to all sinks. One failing sink does not keep the
// others from receiving the batch.
type Fanout struct {
	sinks []ports.EventPublisher
}

var _ ports.EventPublisher = (*Fanout)(nil)

func NewFanout(sinks ...ports.EventPublisher) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Publish(ctx context.Context, events ...ports.OrderEvent) error {
	var problems []error
	for _, s := range f.sinks {
		if err := s.Publish(ctx, events...); err != nil {
			problems = append(problems, err)
		}
	}
	return errors.Join(problems...)
}

// LogPublisher writes events to the structured log. It is the sink used when no
// broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

var _ ports.EventPublisher = (*LogPublisher)(nil)

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "order_events")}
}

func (p *LogPublisher) Publish(ctx context.Context, events ...ports.OrderEvent) error {
	for _, e := range events {
		attrs := []any{
			"event", string(e.Type),
			"order_id", e.OrderID.String(),
			"status", e.Status,
			"pay_status", e.PayStatus,
		}
		if e.CourierID != nil {
			attrs = append(attrs, "courier_id", e.CourierID.String())
		}
		p.logger.InfoContext(ctx, "Order event", attrs...)
	}
	return nil
}
