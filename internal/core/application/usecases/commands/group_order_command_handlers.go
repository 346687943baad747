package commands

import (
	"context"
	"fmt"

	"fooddelivery/internal/core/domain/model/grouporder"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/user"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/metrics"
)

// GroupOrderCommandHandler serves the three group order operations: opening a
// shared cart, adding participant lines and checking out.
type GroupOrderCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	effects    *Effects
}

func NewGroupOrderCommandHandler(uowFactory ports.UnitOfWorkFactory, effects *Effects) GroupOrderCommandHandler {
	return GroupOrderCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
	}
}

// Create opens a group order and returns its id. The host must be a customer and
// the restaurant must be open.
func (h GroupOrderCommandHandler) Create(ctx context.Context, cmd CreateGroupOrderCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	host, err := uow.Users().Get(ctx, cmd.HostUserID())
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = ensureCustomer(host, "hostUserId"); err != nil {
		return kernel.UUID{}, err
	}
	restaurant, err := uow.Restaurants().Get(ctx, cmd.RestaurantID())
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = restaurant.EnsureOpen(); err != nil {
		return kernel.UUID{}, err
	}

	g, err := grouporder.NewGroupOrder(kernel.NewUUID(), restaurant.ID(), host.ID(), cmd.ExpiresAt(), now())
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = uow.GroupOrders().Add(ctx, g); err != nil {
		return kernel.UUID{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	h.effects.flush(ctx, &outbox{counters: []metrics.Counter{metrics.GroupOrdersCreated}})
	return g.ID(), nil
}

// AddItems adds lines for a participant. Every menu item must belong to the
// restaurant of the group. Stock is reserved at checkout, not here.
func (h GroupOrderCommandHandler) AddItems(ctx context.Context, cmd AddGroupOrderItemsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	g, err := uow.GroupOrders().Get(ctx, cmd.GroupOrderID())
	if err != nil {
		return err
	}
	participant, err := uow.Users().Get(ctx, cmd.UserID())
	if err != nil {
		return err
	}
	if err = ensureCustomer(participant, "userId"); err != nil {
		return err
	}

	lines := make([]grouporder.Line, 0, len(cmd.Lines()))
	for i, line := range cmd.Lines() {
		menuItem, getErr := uow.MenuItems().Get(ctx, line.MenuItemID)
		if getErr != nil {
			return fmt.Errorf("items[%d]: %w", i, getErr)
		}
		if !menuItem.BelongsTo(g.RestaurantID()) {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d].menuItemId", i),
				fmt.Errorf("%s is not on the menu of the group order restaurant", menuItem.Name()))
		}
		lines = append(lines, grouporder.Line{MenuItemID: line.MenuItemID, Qty: line.Qty, Options: line.Options})
	}

	if err = g.AddLines(participant.ID(), lines, now()); err != nil {
		return err
	}
	if err = uow.GroupOrders().Update(ctx, g); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// Checkout places one order for the host with the lines of every participant and
// closes the group. It returns the id of the new order. An empty group is a
// validation error.
func (h GroupOrderCommandHandler) Checkout(ctx context.Context, cmd CheckoutGroupOrderCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	at := now()
	ob := &outbox{}

	g, err := uow.GroupOrders().Get(ctx, cmd.GroupOrderID())
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = g.CheckOut(at); err != nil {
		return kernel.UUID{}, err
	}

	all := g.AllLines()
	lines := make([]OrderLine, 0, len(all))
	for _, l := range all {
		lines = append(lines, OrderLine{MenuItemID: l.MenuItemID, Qty: l.Qty, Options: l.Options})
	}

	groupID := g.ID()
	o, err := placeOrder(ctx, uow, placement{
		orderID:      kernel.NewUUID(),
		userID:       g.HostUserID(),
		restaurantID: g.RestaurantID(),
		lines:        lines,
		channel:      cmd.Channel(),
		couponCode:   cmd.CouponCode(),
		groupOrderID: &groupID,
	}, at, ob)
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = uow.GroupOrders().Update(ctx, g); err != nil {
		return kernel.UUID{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	ob.event(ports.GroupOrderCheckedOut, o, at)
	ob.count(metrics.GroupOrdersCheckedOut)
	h.effects.flush(ctx, ob)
	return o.ID(), nil
}

func ensureCustomer(u *user.User, param string) error {
	if !u.HasRole(user.RoleCustomer) {
		return errs.NewValueIsInvalidErrorWithCause(param,
			fmt.Errorf("user %s is a %s, not a customer", u.ID(), u.Role()))
	}
	return nil
}
