package memory

import (
	"context"
	"errors"

	"fooddelivery/internal/core/ports"
)

// ErrNoActiveTransaction is returned by Commit without a matching Begin.
var ErrNoActiveTransaction = errors.New("memory: no active transaction")

// UnitOfWorkFactory creates units of work over one Store.
type UnitOfWorkFactory struct {
	store *Store
}

// NewUnitOfWorkFactory creates a factory for units of work over store.
func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

// Create returns a fresh unit of work. It is not safe for concurrent use; every
// request or job run creates its own.
func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork implements ports.UnitOfWork. Repository calls made outside of
// Begin/Commit run as their own single-operation transaction.
type UnitOfWork struct {
	store *Store
	tx    *tx
}

// Begin takes the store lock and opens a transaction. Calling Begin again on an open
// unit of work is a no-op.
func (u *UnitOfWork) Begin(_ context.Context) error {
	if u.tx != nil {
		return nil
	}
	u.store.mu.Lock()
	u.tx = u.store.begin()
	return nil
}

// Commit publishes the staged writes and releases the store lock.
func (u *UnitOfWork) Commit(_ context.Context) error {
	if u.tx == nil {
		return ErrNoActiveTransaction
	}
	u.tx.commit()
	u.tx = nil
	u.store.mu.Unlock()
	return nil
}

// Rollback drops the staged writes and releases the store lock. It is a no-op when
// no transaction is open.
func (u *UnitOfWork) Rollback(_ context.Context) error {
	if u.tx == nil {
		return nil
	}
	u.tx = nil
	u.store.mu.Unlock()
	return nil
}

func (u *UnitOfWork) do(fn func(t *tx) error) error {
	if u.tx != nil {
		return fn(u.tx)
	}

	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	t := u.store.begin()
	if err := fn(t); err != nil {
		return err
	}
	t.commit()
	return nil
}

func (u *UnitOfWork) Users() ports.UserRepository {
	return &userRepository{uow: u}
}

func (u *UnitOfWork) Restaurants() ports.RestaurantRepository {
	return &restaurantRepository{uow: u}
}

func (u *UnitOfWork) MenuItems() ports.MenuItemRepository {
	return &menuItemRepository{uow: u}
}

func (u *UnitOfWork) Orders() ports.OrderRepository {
	return &orderRepository{uow: u}
}

func (u *UnitOfWork) Payments() ports.PaymentRepository {
	return &paymentRepository{uow: u}
}

func (u *UnitOfWork) Deliveries() ports.DeliveryRepository {
	return &deliveryRepository{uow: u}
}

func (u *UnitOfWork) CourierLocations() ports.CourierLocationRepository {
	return &courierLocationRepository{uow: u}
}

func (u *UnitOfWork) Coupons() ports.CouponRepository {
	return &couponRepository{uow: u}
}

func (u *UnitOfWork) GroupOrders() ports.GroupOrderRepository {
	return &groupOrderRepository{uow: u}
}
