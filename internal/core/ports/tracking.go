package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/kernel"
)

// TrackingPublisher broadcasts live tracking updates to everyone watching an order.
// Publish never blocks on slow subscribers.
type TrackingPublisher interface {
	Publish(ctx context.Context, update delivery.TrackingUpdate)
}

// TrackingSubscriber opens a fresh, forward-only stream of updates for one order.
// Updates published before the call are never replayed. The stream is closed when
// ctx is done.
type TrackingSubscriber interface {
	Subscribe(ctx context.Context, orderID kernel.UUID) (<-chan delivery.TrackingUpdate, error)
}

// TrackingScheduler owns the per-order simulation timers.
//
// At most one timer runs per order. Start reports whether a timer was created by
// this call; Stop reports whether it cancelled one, so concurrent stops cancel a
// timer exactly once.
type TrackingScheduler interface {
	Start(orderID kernel.UUID) (bool, error)
	Stop(orderID kernel.UUID) bool
	IsRunning(orderID kernel.UUID) bool
}
