package ports

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
)

// OrderEventType names a business fact about an order.
type OrderEventType string

const (
	OrderCreated         OrderEventType = "order.created"
	OrderStatusChanged   OrderEventType = "order.status_changed"
	PaymentStatusChanged OrderEventType = "order.payment_status_changed"
	CourierAssigned      OrderEventType = "order.courier_assigned"
	DeliveryStarted      OrderEventType = "order.delivery_started"
	DeliveryCompleted    OrderEventType = "order.delivery_completed"
	GroupOrderCheckedOut OrderEventType = "group_order.checked_out"
)

// OrderEvent is published after the unit of work that produced it commits.
type OrderEvent struct {
	Type       OrderEventType
	OrderID    kernel.UUID
	UserID     kernel.UUID
	Status     string
	PayStatus  string
	CourierID  *kernel.UUID
	Total      string
	OccurredAt time.Time
}

// EventPublisher delivers order events to downstream systems (event log, customer
// notifications). Failures are reported but never undo the committed change.
type EventPublisher interface {
	Publish(ctx context.Context, events ...OrderEvent) error
}

// IdempotencyStore remembers which order an Idempotency-Key produced.
type IdempotencyStore interface {
	// Reserve claims key for orderID. When the key is already claimed it returns the
	// order id stored under it and reserved=false.
	Reserve(ctx context.Context, key string, orderID kernel.UUID) (existing kernel.UUID, reserved bool, err error)

	// Release drops a claim whose order was never created.
	Release(ctx context.Context, key string) error
}
