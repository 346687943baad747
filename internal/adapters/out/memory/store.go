// Package memory is the in-process entity store. It keeps every table in maps and
// implements the ports.UnitOfWork contract on top of them.
//
// A unit of work holds the store-wide lock from Begin until Commit or Rollback and
// stages its writes, so units of work are serialised and a rolled back unit leaves
// no trace. Handlers keep units of work short and never hold one across a tracking
// tick interval.
package memory

import (
	"sync"

	"fooddelivery/internal/core/domain/model/catalog"
	"fooddelivery/internal/core/domain/model/coupon"
	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/grouporder"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/core/domain/model/user"
)

// Store owns the tables.
type Store struct {
	mu sync.Mutex

	users            *table[*user.User]
	restaurants      *table[*catalog.Restaurant]
	menuItems        *table[*catalog.MenuItem]
	orders           *table[*order.Order]
	payments         *table[*payment.Payment]
	deliveries       *table[*delivery.Delivery]
	courierLocations *table[delivery.CourierLocation]
	coupons          *table[*coupon.Coupon]
	groupOrders      *table[*grouporder.GroupOrder]
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:            newTable(func(u *user.User) *user.User { return u }),
		restaurants:      newTable(func(r *catalog.Restaurant) *catalog.Restaurant { return r }),
		menuItems:        newTable((*catalog.MenuItem).Clone),
		orders:           newTable((*order.Order).Clone),
		payments:         newTable((*payment.Payment).Clone),
		deliveries:       newTable((*delivery.Delivery).Clone),
		courierLocations: newTable(func(l delivery.CourierLocation) delivery.CourierLocation { return l }),
		coupons:          newTable((*coupon.Coupon).Clone),
		groupOrders:      newTable((*grouporder.GroupOrder).Clone),
	}
}

// tx is the set of staged writes of one unit of work.
type tx struct {
	users            *staged[*user.User]
	restaurants      *staged[*catalog.Restaurant]
	menuItems        *staged[*catalog.MenuItem]
	orders           *staged[*order.Order]
	payments         *staged[*payment.Payment]
	deliveries       *staged[*delivery.Delivery]
	courierLocations *staged[delivery.CourierLocation]
	coupons          *staged[*coupon.Coupon]
	groupOrders      *staged[*grouporder.GroupOrder]
}

func (s *Store) begin() *tx {
	return &tx{
		users:            stage(s.users),
		restaurants:      stage(s.restaurants),
		menuItems:        stage(s.menuItems),
		orders:           stage(s.orders),
		payments:         stage(s.payments),
		deliveries:       stage(s.deliveries),
		courierLocations: stage(s.courierLocations),
		coupons:          stage(s.coupons),
		groupOrders:      stage(s.groupOrders),
	}
}

func (t *tx) commit() {
	t.users.commit()
	t.restaurants.commit()
	t.menuItems.commit()
	t.orders.commit()
	t.payments.commit()
	t.deliveries.commit()
	t.courierLocations.commit()
	t.coupons.commit()
	t.groupOrders.commit()
}
