package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate together with its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate. Items are immutable and
	// are not rewritten.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier. Inside a unit of work
	// the row stays locked until commit or rollback.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// List returns every order, newest first.
	List(ctx context.Context) ([]*order.Order, error)

	// ListConfirmedWithoutDelivery returns up to limit CONFIRMED orders that have no
	// delivery yet, oldest first. The dispatch retry job works through them.
	ListConfirmedWithoutDelivery(ctx context.Context, limit int) ([]*order.Order, error)
}
