package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/catalog"
	"fooddelivery/internal/core/domain/model/coupon"
	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/core/domain/model/user"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/metrics"
)

const (
	// DefaultTrackingEtaMinutes is reported when tracking starts for an order without an ETA.
	DefaultTrackingEtaMinutes = 10

	pickupEtaOffset  = 5 * time.Minute
	dropoffEtaOffset = 20 * time.Minute
)

func now() time.Time {
	return time.Now().UTC()
}

// placement is everything needed to turn a cart into an order.
type placement struct {
	userID       kernel.UUID
	restaurantID kernel.UUID
	lines        []OrderLine
	channel      payment.Channel
	couponCode   string
	groupOrderID *kernel.UUID
	orderID      kernel.UUID
}

// placeOrder creates an order, its payment and the stock reservation inside uow.
// Nothing is persisted unless the caller commits, so a failing line leaves every
// stock counter untouched.
func placeOrder(ctx context.Context, uow ports.UnitOfWork, p placement, at time.Time, ob *outbox) (*order.Order, error) {
	customer, err := uow.Users().Get(ctx, p.userID)
	if err != nil {
		return nil, err
	}
	if err = ensureCustomer(customer, "userId"); err != nil {
		return nil, err
	}
	dropoff, ok := customer.DefaultLocation()
	if !ok {
		return nil, errs.NewValueIsRequiredErrorWithCause("dropoff",
			fmt.Errorf("customer %s has no delivery address", customer.ID()))
	}

	restaurant, err := uow.Restaurants().Get(ctx, p.restaurantID)
	if err != nil {
		return nil, err
	}
	if err = restaurant.EnsureOpen(); err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(p.lines))
	for i, line := range p.lines {
		item, reserveErr := reserveLine(ctx, uow, restaurant, line)
		if reserveErr != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, reserveErr)
		}
		items = append(items, item)
	}

	o, err := order.NewOrder(p.orderID, customer.ID(), restaurant.ID(), dropoff, items, p.groupOrderID, at)
	if err != nil {
		return nil, err
	}

	if p.couponCode != "" {
		if err = redeemCoupon(ctx, uow, o, p.couponCode, at); err != nil {
			return nil, err
		}
		ob.count(metrics.CouponsRedeemed)
	}

	pay, err := payment.NewPayment(kernel.NewUUID(), o.ID(), p.channel, o.Total())
	if err != nil {
		return nil, err
	}
	if err = uow.Orders().Add(ctx, o); err != nil {
		return nil, err
	}
	if err = uow.Payments().Add(ctx, pay); err != nil {
		return nil, err
	}

	ob.event(ports.OrderCreated, o, at)
	ob.count(metrics.OrdersCreated)
	return o, nil
}

func reserveLine(ctx context.Context, uow ports.UnitOfWork, restaurant *catalog.Restaurant, line OrderLine) (*order.Item, error) {
	menuItem, err := uow.MenuItems().Get(ctx, line.MenuItemID)
	if err != nil {
		return nil, err
	}
	if !menuItem.BelongsTo(restaurant.ID()) {
		return nil, errs.NewValueIsInvalidErrorWithCause("menuItemID",
			fmt.Errorf("%s is not on the menu of %s", menuItem.Name(), restaurant.Name()))
	}
	if err = menuItem.Reserve(line.Qty); err != nil {
		return nil, err
	}
	if err = uow.MenuItems().Update(ctx, menuItem); err != nil {
		return nil, err
	}
	return order.NewItem(kernel.NewUUID(), menuItem.ID(), line.Qty, menuItem.Price(), line.Options)
}

func redeemCoupon(ctx context.Context, uow ports.UnitOfWork, o *order.Order, code string, at time.Time) error {
	c, err := uow.Coupons().GetByCode(ctx, code)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return errs.NewValueIsInvalidErrorWithCause("couponCode", errors.New(coupon.ReasonNotFound))
	}
	if err != nil {
		return err
	}

	result := c.Evaluate(at, o.RestaurantID(), o.Total())
	if !result.Valid {
		return errs.NewValueIsInvalidErrorWithCause("couponCode", errors.New(result.Reason))
	}
	if err = o.ApplyDiscount(c.Code(), result.Discount, at); err != nil {
		return err
	}
	if err = c.Redeem(); err != nil {
		return err
	}
	return uow.Coupons().Update(ctx, c)
}

// restoreStock gives every item of a cancelled or refunded order back to the menu.
func restoreStock(ctx context.Context, uow ports.UnitOfWork, o *order.Order) error {
	for _, item := range o.Items() {
		menuItem, err := uow.MenuItems().Get(ctx, item.MenuItemID())
		if err != nil {
			return err
		}
		if err = menuItem.Release(item.Qty()); err != nil {
			return err
		}
		if err = uow.MenuItems().Update(ctx, menuItem); err != nil {
			return err
		}
	}
	return nil
}

// ensureDelivery assigns a courier to o unless it already has a delivery. It
// reports whether a delivery was created. A CREATED order is confirmed on the way;
// the caller persists o.
func ensureDelivery(
	ctx context.Context,
	uow ports.UnitOfWork,
	dispatcher services.CourierDispatcher,
	o *order.Order,
	at time.Time,
	ob *outbox,
) (*delivery.Delivery, bool, error) {
	existing, err := uow.Deliveries().GetByOrder(ctx, o.ID())
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, false, err
	}

	restaurant, err := uow.Restaurants().Get(ctx, o.RestaurantID())
	if err != nil {
		return nil, false, err
	}

	candidates, err := courierCandidates(ctx, uow)
	if err != nil {
		return nil, false, err
	}

	choice, err := dispatcher.Dispatch(services.Leg{
		Restaurant: restaurant.Location(),
		Dropoff:    o.Dropoff(),
		City:       restaurant.City(),
	}, candidates)
	if err != nil {
		return nil, false, err
	}

	d, err := delivery.NewDelivery(kernel.NewUUID(), o.ID(), choice.Courier.ID(), at.Add(pickupEtaOffset), at.Add(dropoffEtaOffset))
	if err != nil {
		return nil, false, err
	}
	if err = uow.Deliveries().Add(ctx, d); err != nil {
		return nil, false, err
	}

	loc, err := delivery.NewCourierLocation(choice.Courier.ID(), choice.Location, at)
	if err != nil {
		return nil, false, err
	}
	if err = uow.CourierLocations().Save(ctx, loc); err != nil {
		return nil, false, err
	}

	if o.Status() == order.Created {
		if err = o.TransitionTo(order.Confirmed, at); err != nil {
			return nil, false, err
		}
	}

	courierID := choice.Courier.ID()
	ev := newOrderEvent(ports.CourierAssigned, o, at)
	ev.CourierID = &courierID
	ob.events = append(ob.events, ev)
	ob.count(metrics.DispatchAssignments)
	return d, true, nil
}

func courierCandidates(ctx context.Context, uow ports.UnitOfWork) ([]services.Candidate, error) {
	couriers, err := uow.Users().ListByRole(ctx, user.RoleCourier)
	if err != nil {
		return nil, err
	}
	load, err := uow.Deliveries().CountActiveByCourier(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]services.Candidate, 0, len(couriers))
	for _, c := range couriers {
		candidate := services.Candidate{Courier: c, ActiveDeliveries: load[c.ID()]}

		loc, locErr := uow.CourierLocations().Get(ctx, c.ID())
		switch {
		case locErr == nil:
			point := loc.Point()
			candidate.LastLocation = &point
		case !errors.Is(locErr, errs.ErrObjectNotFound):
			return nil, locErr
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

// beginTracking puts the delivery and the order into DELIVERING, plans the route when
// needed and queues the opening tracking update. The caller persists both aggregates
// and starts the timer after the commit.
func beginTracking(
	ctx context.Context,
	uow ports.UnitOfWork,
	planner services.RoutePlanner,
	o *order.Order,
	d *delivery.Delivery,
	at time.Time,
	ob *outbox,
) error {
	if err := d.Start(at); err != nil {
		return err
	}
	if err := o.MarkDelivering(at); err != nil {
		return err
	}

	if !d.HasRoute() {
		restaurant, err := uow.Restaurants().Get(ctx, o.RestaurantID())
		if err != nil {
			return err
		}
		route, err := planner.Plan(restaurant.Location(), o.Dropoff())
		if err != nil {
			return err
		}
		if err = d.PlanRoute(route); err != nil {
			return err
		}
	}

	loc, err := uow.CourierLocations().Get(ctx, d.CourierID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		loc, err = delivery.NewCourierLocation(d.CourierID(), delivery.DefaultCourierLocation, at)
		if err == nil {
			err = uow.CourierLocations().Save(ctx, loc)
		}
	}
	if err != nil {
		return err
	}

	eta := DefaultTrackingEtaMinutes
	if current := o.EtaMinutes(); current != nil {
		eta = *current
	}
	ob.update(delivery.NewTrackingUpdate(d, loc, max(eta, 1), at))

	courierID := d.CourierID()
	ev := newOrderEvent(ports.DeliveryStarted, o, at)
	ev.CourierID = &courierID
	ob.events = append(ob.events, ev)
	return nil
}

// stopDelivery fails the in-flight delivery of a cancelled or failed order. It
// reports whether a delivery was stopped.
func stopDelivery(ctx context.Context, uow ports.UnitOfWork, o *order.Order) (bool, error) {
	d, err := uow.Deliveries().GetByOrder(ctx, o.ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !d.Fail() {
		return false, nil
	}
	return true, uow.Deliveries().Update(ctx, d)
}
