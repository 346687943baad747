package ports

import (
	"context"
)

// UnitOfWorkFactory hands every command and query its own UnitOfWork.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
//
// Every repository it hands out works inside the transaction started by Begin.
// Changes become visible to other units of work only after Commit; Rollback (or
// simply never committing) discards them. Rollback after Commit is a no-op, so
// handlers can always defer it.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	// Commit publishes the staged changes. It fails when Begin was not called.
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	Users() UserRepository
	Restaurants() RestaurantRepository
	MenuItems() MenuItemRepository
	Orders() OrderRepository
	Payments() PaymentRepository
	Deliveries() DeliveryRepository
	CourierLocations() CourierLocationRepository
	Coupons() CouponRepository
	GroupOrders() GroupOrderRepository
}
