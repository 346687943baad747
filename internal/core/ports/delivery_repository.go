package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/kernel"
)

// DeliveryRepository stores deliveries, at most one per order.
type DeliveryRepository interface {
	// Add persists a new delivery. Adding a second delivery for the same order fails
	// with errs.ErrConflict.
	Add(ctx context.Context, d *delivery.Delivery) error

	Update(ctx context.Context, d *delivery.Delivery) error

	// GetByOrder returns the delivery of an order or an ObjectNotFoundError.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error)

	// CountActiveByCourier returns, per courier, the number of deliveries that are
	// neither DELIVERED nor FAILED. Couriers without active deliveries are absent.
	CountActiveByCourier(ctx context.Context) (map[kernel.UUID]int, error)
}

// CourierLocationRepository keeps the single last known position of every courier.
type CourierLocationRepository interface {
	// Save overwrites the courier's location.
	Save(ctx context.Context, loc delivery.CourierLocation) error

	// Get returns the courier's location or an ObjectNotFoundError when none was recorded.
	Get(ctx context.Context, courierID kernel.UUID) (delivery.CourierLocation, error)
}
