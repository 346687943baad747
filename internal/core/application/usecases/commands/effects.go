package commands

import (
	"context"
	"log/slog"
	"time"

	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/metrics"
)

// Effects fans out what a committed unit of work produced: order events, live
// tracking updates and business counters. Nothing is sent before the commit, so a
// rolled back command leaves no trace outside the store.
//
// Every dependency is optional. A nil publisher simply drops what it would have sent.
type Effects struct {
	events   ports.EventPublisher
	tracking ports.TrackingPublisher
	metrics  *metrics.Registry
	logger   *slog.Logger
}

// NewEffects creates the post-commit fan-out shared by the command handlers.
func NewEffects(
	events ports.EventPublisher,
	tracking ports.TrackingPublisher,
	registry *metrics.Registry,
	logger *slog.Logger,
) *Effects {
	if logger == nil {
		logger = slog.Default()
	}
	return &Effects{
		events:   events,
		tracking: tracking,
		metrics:  registry,
		logger:   logger.With("component", "command-effects"),
	}
}

// outbox collects the effects of one command while its unit of work is open.
type outbox struct {
	events   []ports.OrderEvent
	updates  []delivery.TrackingUpdate
	counters []metrics.Counter
}

func (ob *outbox) event(t ports.OrderEventType, o *order.Order, now time.Time) {
	ob.events = append(ob.events, newOrderEvent(t, o, now))
}

func (ob *outbox) update(u delivery.TrackingUpdate) {
	ob.updates = append(ob.updates, u)
}

func (ob *outbox) count(c ...metrics.Counter) {
	ob.counters = append(ob.counters, c...)
}

func (e *Effects) flush(ctx context.Context, ob *outbox) {
	if e == nil || ob == nil {
		return
	}

	for _, c := range ob.counters {
		e.metrics.Inc(c)
	}

	if e.tracking != nil {
		for _, u := range ob.updates {
			e.tracking.Publish(ctx, u)
			e.metrics.Inc(metrics.TrackingUpdatesEmitted)
		}
	}

	if e.events != nil && len(ob.events) > 0 {
		if err := e.events.Publish(ctx, ob.events...); err != nil {
			e.logger.Warn("failed to publish order events", "count", len(ob.events), "error", err)
		}
	}
}

// startTracking starts the tracking timer of an order and counts it when this call
// created it.
func (e *Effects) startTracking(scheduler ports.TrackingScheduler, orderID kernel.UUID) error {
	started, err := scheduler.Start(orderID)
	if err != nil {
		return err
	}
	if started && e != nil {
		e.metrics.Inc(metrics.DeliveriesStarted)
	}
	return nil
}

func newOrderEvent(t ports.OrderEventType, o *order.Order, now time.Time) ports.OrderEvent {
	return ports.OrderEvent{
		Type:       t,
		OrderID:    o.ID(),
		UserID:     o.UserID(),
		Status:     o.Status().String(),
		PayStatus:  o.PayStatus().String(),
		Total:      o.Total().StringFixed(2),
		OccurredAt: now,
	}
}
