package commands

import (
	"errors"
	"fmt"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// OrderLine is one requested menu item of a cart.
type OrderLine struct {
	MenuItemID kernel.UUID
	Qty        int
	Options    map[string]any
}

// CreateOrderCommand places an order for a customer.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(aliceID, dimSumID, []OrderLine{
//	    {MenuItemID: dumplingsID, Qty: 2},
//	    {MenuItemID: bunID, Qty: 1},
//	}, payment.CreditCard, "")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	orderID, err := handler.Handle(ctx, cmd.WithIdempotencyKey(r.Header.Get("Idempotency-Key")))
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	userID         kernel.UUID
	restaurantID   kernel.UUID
	lines          []OrderLine
	channel        payment.Channel
	couponCode     string
	groupOrderID   *kernel.UUID
	idempotencyKey string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the cart. Catalog checks (menu membership, stock)
// happen in the handler.
func NewCreateOrderCommand(
	userID, restaurantID kernel.UUID,
	lines []OrderLine,
	channel payment.Channel,
	couponCode string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		couponCode: strings.TrimSpace(couponCode),
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setIDs(userID, restaurantID),
		cmd.setLines(lines),
		channel.Validate(),
	); err != nil {
		return CreateOrderCommand{}, err
	}
	cmd.channel = channel

	return cmd, nil
}

// WithIdempotencyKey returns a copy of the command that replays the first order
// created with key. An empty key disables replay.
func (c CreateOrderCommand) WithIdempotencyKey(key string) CreateOrderCommand {
	c.idempotencyKey = strings.TrimSpace(key)
	return c
}

// WithGroupOrder links the order to the group order it was checked out from.
func (c CreateOrderCommand) WithGroupOrder(id kernel.UUID) CreateOrderCommand {
	c.groupOrderID = &id
	return c
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) UserID() kernel.UUID {
	return c.userID
}

func (c CreateOrderCommand) RestaurantID() kernel.UUID {
	return c.restaurantID
}

func (c CreateOrderCommand) Lines() []OrderLine {
	out := make([]OrderLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c CreateOrderCommand) Channel() payment.Channel {
	return c.channel
}

func (c CreateOrderCommand) CouponCode() string {
	return c.couponCode
}

func (c CreateOrderCommand) GroupOrderID() *kernel.UUID {
	if c.groupOrderID == nil {
		return nil
	}
	id := *c.groupOrderID
	return &id
}

func (c CreateOrderCommand) IdempotencyKey() string {
	return c.idempotencyKey
}

func (c *CreateOrderCommand) setIDs(userID, restaurantID kernel.UUID) error {
	var problems []error
	if err := userID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("userID", err))
	}
	if err := restaurantID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("restaurantID", err))
	}
	if len(problems) > 0 {
		return errors.Join(problems...)
	}

	c.userID = userID
	c.restaurantID = restaurantID
	return nil
}

func (c *CreateOrderCommand) setLines(lines []OrderLine) error {
	if err := validateLines(lines); err != nil {
		return err
	}

	c.lines = make([]OrderLine, len(lines))
	copy(c.lines, lines)
	return nil
}

func validateLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	var problems []error
	for i, line := range lines {
		if err := line.MenuItemID.Validate(); err != nil {
			problems = append(problems, errs.NewValueIsRequiredErrorWithCause(fmt.Sprintf("items[%d].menuItemId", i), err))
		}
		if line.Qty <= 0 {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("items[%d].qty", i), fmt.Errorf("%d is not greater than 0", line.Qty)))
		}
	}
	return errors.Join(problems...)
}
