package commands

import (
	"errors"
	"strings"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var (
	ErrCreateGroupOrderCommandIsNotConstructed = errors.New(
		"CreateGroupOrderCommand must be created via NewCreateGroupOrderCommand constructor",
	)
	ErrAddGroupOrderItemsCommandIsNotConstructed = errors.New(
		"AddGroupOrderItemsCommand must be created via NewAddGroupOrderItemsCommand constructor",
	)
	ErrCheckoutGroupOrderCommandIsNotConstructed = errors.New(
		"CheckoutGroupOrderCommand must be created via NewCheckoutGroupOrderCommand constructor",
	)
)

// CreateGroupOrderCommand opens a shared cart hosted by a customer.
type CreateGroupOrderCommand struct { //nolint:recvcheck //using for validation
	hostUserID   kernel.UUID
	restaurantID kernel.UUID
	expiresAt    *time.Time

	guard guard.ConstructorGuard
}

func NewCreateGroupOrderCommand(hostUserID, restaurantID kernel.UUID, expiresAt *time.Time) (CreateGroupOrderCommand, error) {
	if err := errors.Join(
		requiredID("hostUserId", hostUserID),
		requiredID("restaurantId", restaurantID),
	); err != nil {
		return CreateGroupOrderCommand{}, err
	}

	cmd := CreateGroupOrderCommand{
		hostUserID:   hostUserID,
		restaurantID: restaurantID,
		guard:        guard.NewConstructorGuard(),
	}
	if expiresAt != nil {
		exp := *expiresAt
		cmd.expiresAt = &exp
	}
	return cmd, nil
}

func (c CreateGroupOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateGroupOrderCommandIsNotConstructed)
}

func (c CreateGroupOrderCommand) HostUserID() kernel.UUID {
	return c.hostUserID
}

func (c CreateGroupOrderCommand) RestaurantID() kernel.UUID {
	return c.restaurantID
}

func (c CreateGroupOrderCommand) ExpiresAt() *time.Time {
	if c.expiresAt == nil {
		return nil
	}
	exp := *c.expiresAt
	return &exp
}

// AddGroupOrderItemsCommand adds a participant's lines to an open group order.
type AddGroupOrderItemsCommand struct { //nolint:recvcheck //using for validation
	groupOrderID kernel.UUID
	userID       kernel.UUID
	lines        []OrderLine

	guard guard.ConstructorGuard
}

func NewAddGroupOrderItemsCommand(groupOrderID, userID kernel.UUID, lines []OrderLine) (AddGroupOrderItemsCommand, error) {
	if err := errors.Join(
		requiredID("groupOrderId", groupOrderID),
		requiredID("userId", userID),
		validateLines(lines),
	); err != nil {
		return AddGroupOrderItemsCommand{}, err
	}

	copied := make([]OrderLine, len(lines))
	copy(copied, lines)
	return AddGroupOrderItemsCommand{
		groupOrderID: groupOrderID,
		userID:       userID,
		lines:        copied,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c AddGroupOrderItemsCommand) Validate() error {
	return c.guard.Validate(ErrAddGroupOrderItemsCommandIsNotConstructed)
}

func (c AddGroupOrderItemsCommand) GroupOrderID() kernel.UUID {
	return c.groupOrderID
}

func (c AddGroupOrderItemsCommand) UserID() kernel.UUID {
	return c.userID
}

func (c AddGroupOrderItemsCommand) Lines() []OrderLine {
	out := make([]OrderLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// CheckoutGroupOrderCommand turns a group order into a single order for its host.
type CheckoutGroupOrderCommand struct { //nolint:recvcheck //using for validation
	groupOrderID kernel.UUID
	channel      payment.Channel
	couponCode   string

	guard guard.ConstructorGuard
}

func NewCheckoutGroupOrderCommand(groupOrderID kernel.UUID, channel payment.Channel, couponCode string) (CheckoutGroupOrderCommand, error) {
	if err := errors.Join(requiredID("groupOrderId", groupOrderID), channel.Validate()); err != nil {
		return CheckoutGroupOrderCommand{}, err
	}

	return CheckoutGroupOrderCommand{
		groupOrderID: groupOrderID,
		channel:      channel,
		couponCode:   strings.TrimSpace(couponCode),
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c CheckoutGroupOrderCommand) Validate() error {
	return c.guard.Validate(ErrCheckoutGroupOrderCommandIsNotConstructed)
}

func (c CheckoutGroupOrderCommand) GroupOrderID() kernel.UUID {
	return c.groupOrderID
}

func (c CheckoutGroupOrderCommand) Channel() payment.Channel {
	return c.channel
}

func (c CheckoutGroupOrderCommand) CouponCode() string {
	return c.couponCode
}

func requiredID(name string, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(name, err)
	}
	return nil
}
