package memory

import (
	"cmp"
	"context"
	"slices"

	"fooddelivery/internal/core/domain/model/catalog"
	"fooddelivery/internal/core/domain/model/coupon"
	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/grouporder"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/core/domain/model/user"
	"fooddelivery/internal/pkg/errs"
)

type userRepository struct{ uow *UnitOfWork }

func (r *userRepository) Add(_ context.Context, u *user.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	return r.uow.do(func(t *tx) error {
		if t.users.has(u.ID().String()) {
			return errs.NewConflictError("user", u.ID().String()+" already exists")
		}
		t.users.put(u.ID().String(), u)
		return nil
	})
}

func (r *userRepository) Get(_ context.Context, id kernel.UUID) (*user.User, error) {
	var found *user.User
	err := r.uow.do(func(t *tx) error {
		u, ok := t.users.get(id.String())
		if !ok {
			return errs.NewObjectNotFoundError("user", id.String())
		}
		found = u
		return nil
	})
	return found, err
}

func (r *userRepository) List(_ context.Context) ([]*user.User, error) {
	var out []*user.User
	err := r.uow.do(func(t *tx) error {
		out = t.users.all()
		return nil
	})
	return out, err
}

func (r *userRepository) ListByRole(_ context.Context, role user.Role) ([]*user.User, error) {
	var out []*user.User
	err := r.uow.do(func(t *tx) error {
		for _, u := range t.users.all() {
			if u.HasRole(role) {
				out = append(out, u)
			}
		}
		return nil
	})
	return out, err
}

type restaurantRepository struct{ uow *UnitOfWork }

func (r *restaurantRepository) Add(_ context.Context, rest *catalog.Restaurant) error {
	if err := rest.Validate(); err != nil {
		return err
	}
	return r.uow.do(func(t *tx) error {
		if t.restaurants.has(rest.ID().String()) {
			return errs.NewConflictError("restaurant", rest.ID().String()+" already exists")
		}
		t.restaurants.put(rest.ID().String(), rest)
		return nil
	})
}

func (r *restaurantRepository) Get(_ context.Context, id kernel.UUID) (*catalog.Restaurant, error) {
	var found *catalog.Restaurant
	err := r.uow.do(func(t *tx) error {
		rest, ok := t.restaurants.get(id.String())
		if !ok {
			return errs.NewObjectNotFoundError("restaurant", id.String())
		}
		found = rest
		return nil
	})
	return found, err
}

func (r *restaurantRepository) List(_ context.Context) ([]*catalog.Restaurant, error) {
	var out []*catalog.Restaurant
	err := r.uow.do(func(t *tx) error {
		out = t.restaurants.all()
		return nil
	})
	slices.SortStableFunc(out, func(a, b *catalog.Restaurant) int { return cmp.Compare(a.Name(), b.Name()) })
	return out, err
}

type menuItemRepository struct{ uow *UnitOfWork }

func (r *menuItemRepository) Add(_ context.Context, m *catalog.MenuItem) error {
	if err := m.Validate(); err != nil {
		return err
	}
	return r.uow.do(func(t *tx) error {
		if t.menuItems.has(m.ID().String()) {
			return errs.NewConflictError("menuItem", m.ID().String()+" already exists")
		}
		t.menuItems.put(m.ID().String(), m)
		return nil
	})
}

func (r *menuItemRepository) Update(_ context.Context, m *catalog.MenuItem) error {
	if err := m.Validate(); err != nil {
		return err
	}
	return r.uow.do(func(t *tx) error {
		if !t.menuItems.has(m.ID().String()) {
			return errs.NewObjectNotFoundError("menuItem", m.ID().String())
		}
		t.menuItems.put(m.ID().String(), m)
		return nil
	})
}

func (r *menuItemRepository) Get(_ context.Context, id kernel.UUID) (*catalog.MenuItem, error) {
	var found *catalog.MenuItem
	err := r.uow.do(func(t *tx) error {
		m, ok := t.menuItems.get(id.String())
		if !ok {
			return errs.NewObjectNotFoundError("menuItem", id.String())
		}
		found = m
		return nil
	})
	return found, err
}

func (r *menuItemRepository) ListByRestaurant(_ context.Context, restaurantID kernel.UUID) ([]*catalog.MenuItem, error) {
	var out []*catalog.MenuItem
	err := r.uow.do(func(t *tx) error {
		for _, m := range t.menuItems.all() {
			if m.BelongsTo(restaurantID) {
				out = append(out, m)
			}
		}
		return nil
	})
	slices.SortStableFunc(out, func(a, b *catalog.MenuItem) int { return cmp.Compare(a.Name(), b.Name()) })
	return out, err
}

type orderRepository struct{ uow *UnitOfWork }

func (r *orderRepository) Add(_ context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	return r.uow.do(func(t *tx) error {
		if t.orders.has(o.ID().String()) {
			return errs.NewConflictError("order", o.ID().String()+" already exists")
		}
		t.orders.put(o.ID().String(), o)
		return nil
	})
}

func (r *orderRepository) Update(_ context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	return r.uow.do(func(t *tx) error {
		if !t.orders.has(o.ID().String()) {
			return errs.NewObjectNotFoundError("order", o.ID().String())
		}
		t.orders.put(o.ID().String(), o)
		return nil
	})
}

func (r *orderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	var found *order.Order
	err := r.uow.do(func(t *tx) error {
		o, ok := t.orders.get(id.String())
		if !ok {
			return errs.NewObjectNotFoundError("order", id.String())
		}
		found = o
		return nil
	})
	return found, err
}

func (r *orderRepository) List(_ context.Context) ([]*order.Order, error) {
	var out []*order.Order
	err := r.uow.do(func(t *tx) error {
		out = t.orders.all()
		return nil
	})
	slices.SortStableFunc(out, func(a, b *order.Order) int {
		return b.CreatedAt().Compare(a.CreatedAt())
	})
	return out, err
}

func (r *orderRepository) ListConfirmedWithoutDelivery(_ context.Context, limit int) ([]*order.Order, error) {
	var out []*order.Order
	err := r.uow.do(func(t *tx) error {
		for _, o := range t.orders.all() {
			if o.Status() == order.Confirmed && !t.deliveries.has(o.ID().String()) {
				out = append(out, o)
			}
		}
		return nil
	})
	slices.SortStableFunc(out, func(a, b *order.Order) int {
		return a.CreatedAt().Compare(b.CreatedAt())
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

// paymentRepository keys payments by order, the relation is one to one.
type paymentRepository struct{ uow *UnitOfWork }

func (r *paymentRepository) Add(_ context.Context, p *payment.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return r.uow.do(func(t *tx) error {
		if t.payments.has(p.OrderID().String()) {
			return errs.NewConflictError("payment", "order "+p.OrderID().String()+" already has a payment")
		}
		t.payments.put(p.OrderID().String(), p)
		return nil
	})
}

func (r *paymentRepository) Update(_ context.Context, p *payment.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return r.uow.do(func(t *tx) error {
		if !t.payments.has(p.OrderID().String()) {
			return errs.NewObjectNotFoundError("payment", p.OrderID().String())
		}
		t.payments.put(p.OrderID().String(), p)
		return nil
	})
}

func (r *paymentRepository) GetByOrder(_ context.Context, orderID kernel.UUID) (*payment.Payment, error) {
	var found *payment.Payment
	err := r.uow.do(func(t *tx) error {
		p, ok := t.payments.get(orderID.String())
		if !ok {
			return errs.NewObjectNotFoundError("payment", orderID.String())
		}
		found = p
		return nil
	})
	return found, err
}

// deliveryRepository keys deliveries by order, the relation is one to one.
type deliveryRepository struct{ uow *UnitOfWork }

func (r *deliveryRepository) Add(_ context.Context, d *delivery.Delivery) error {
	if err := d.Validate(); err != nil {
		return err
	}
	return r.uow.do(func(t *tx) error {
		if t.deliveries.has(d.OrderID().String()) {
			return errs.NewConflictError("delivery", "order "+d.OrderID().String()+" already has a delivery")
		}
		t.deliveries.put(d.OrderID().String(), d)
		return nil
	})
}

func (r *deliveryRepository) Update(_ context.Context, d *delivery.Delivery) error {
	if err := d.Validate(); err != nil {
		return err
	}
	return r.uow.do(func(t *tx) error {
		if !t.deliveries.has(d.OrderID().String()) {
			return errs.NewObjectNotFoundError("delivery", d.OrderID().String())
		}
		t.deliveries.put(d.OrderID().String(), d)
		return nil
	})
}

func (r *deliveryRepository) GetByOrder(_ context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	var found *delivery.Delivery
	err := r.uow.do(func(t *tx) error {
		d, ok := t.deliveries.get(orderID.String())
		if !ok {
			return errs.NewObjectNotFoundError("delivery", orderID.String())
		}
		found = d
		return nil
	})
	return found, err
}

func (r *deliveryRepository) CountActiveByCourier(_ context.Context) (map[kernel.UUID]int, error) {
	counts := make(map[kernel.UUID]int)
	err := r.uow.do(func(t *tx) error {
		for _, d := range t.deliveries.all() {
			if d.IsActive() {
				counts[d.CourierID()]++
			}
		}
		return nil
	})
	return counts, err
}

type courierLocationRepository struct{ uow *UnitOfWork }

func (r *courierLocationRepository) Save(_ context.Context, loc delivery.CourierLocation) error {
	if err := loc.CourierID().Validate(); err != nil {
		return err
	}
	return r.uow.do(func(t *tx) error {
		t.courierLocations.put(loc.CourierID().String(), loc)
		return nil
	})
}

func (r *courierLocationRepository) Get(_ context.Context, courierID kernel.UUID) (delivery.CourierLocation, error) {
	var found delivery.CourierLocation
	err := r.uow.do(func(t *tx) error {
		loc, ok := t.courierLocations.get(courierID.String())
		if !ok {
			return errs.NewObjectNotFoundError("courierLocation", courierID.String())
		}
		found = loc
		return nil
	})
	return found, err
}

// couponRepository keys coupons by their normalised code.
type couponRepository struct{ uow *UnitOfWork }

func (r *couponRepository) Add(_ context.Context, c *coupon.Coupon) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return r.uow.do(func(t *tx) error {
		if t.coupons.has(c.Code()) {
			return errs.NewConflictError("coupon", "code "+c.Code()+" already exists")
		}
		t.coupons.put(c.Code(), c)
		return nil
	})
}

func (r *couponRepository) Update(_ context.Context, c *coupon.Coupon) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return r.uow.do(func(t *tx) error {
		if !t.coupons.has(c.Code()) {
			return errs.NewObjectNotFoundError("coupon", c.Code())
		}
		t.coupons.put(c.Code(), c)
		return nil
	})
}

func (r *couponRepository) GetByCode(_ context.Context, code string) (*coupon.Coupon, error) {
	key := coupon.NormalizeCode(code)
	var found *coupon.Coupon
	err := r.uow.do(func(t *tx) error {
		c, ok := t.coupons.get(key)
		if !ok {
			return errs.NewObjectNotFoundError("coupon", key)
		}
		found = c
		return nil
	})
	return found, err
}

func (r *couponRepository) List(_ context.Context) ([]*coupon.Coupon, error) {
	var out []*coupon.Coupon
	err := r.uow.do(func(t *tx) error {
		out = t.coupons.all()
		return nil
	})
	return out, err
}

type groupOrderRepository struct{ uow *UnitOfWork }

func (r *groupOrderRepository) Add(_ context.Context, g *grouporder.GroupOrder) error {
	if err := g.Validate(); err != nil {
		return err
	}
	return r.uow.do(func(t *tx) error {
		if t.groupOrders.has(g.ID().String()) {
			return errs.NewConflictError("groupOrder", g.ID().String()+" already exists")
		}
		t.groupOrders.put(g.ID().String(), g)
		return nil
	})
}

func (r *groupOrderRepository) Update(_ context.Context, g *grouporder.GroupOrder) error {
	if err := g.Validate(); err != nil {
		return err
	}
	return r.uow.do(func(t *tx) error {
		if !t.groupOrders.has(g.ID().String()) {
			return errs.NewObjectNotFoundError("groupOrder", g.ID().String())
		}
		t.groupOrders.put(g.ID().String(), g)
		return nil
	})
}

func (r *groupOrderRepository) Get(_ context.Context, id kernel.UUID) (*grouporder.GroupOrder, error) {
	var found *grouporder.GroupOrder
	err := r.uow.do(func(t *tx) error {
		g, ok := t.groupOrders.get(id.String())
		if !ok {
			return errs.NewObjectNotFoundError("groupOrder", id.String())
		}
		found = g
		return nil
	})
	return found, err
}

func (r *groupOrderRepository) List(_ context.Context) ([]*grouporder.GroupOrder, error) {
	var out []*grouporder.GroupOrder
	err := r.uow.do(func(t *tx) error {
		out = t.groupOrders.all()
		return nil
	})
	slices.SortStableFunc(out, func(a, b *grouporder.GroupOrder) int {
		return b.CreatedAt().Compare(a.CreatedAt())
	})
	return out, err
}
