package commands

import (
	"context"

	"fooddelivery/internal/core/domain/model/coupon"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
)

// CreateCouponCommandHandler stores a new coupon. A coupon restricted to a
// restaurant requires that restaurant to exist, and codes are unique.
type CreateCouponCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewCreateCouponCommandHandler(uowFactory ports.UnitOfWorkFactory) CreateCouponCommandHandler {
	return CreateCouponCommandHandler{uowFactory: uowFactory}
}

// Handle returns the id of the stored coupon.
func (h CreateCouponCommandHandler) Handle(ctx context.Context, cmd CreateCouponCommand) (kernel.UUID, error) {
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

	terms := cmd.Terms()
	if terms.RestaurantID != nil {
		if _, err := uow.Restaurants().Get(ctx, *terms.RestaurantID); err != nil {
			return kernel.UUID{}, err
		}
	}

	c, err := coupon.NewCoupon(kernel.NewUUID(), cmd.Code(), cmd.Type(), cmd.Value(), terms, now())
	if err != nil {
		return kernel.UUID{}, err
	}
	if !cmd.Active() {
		c.Deactivate()
	}

	if err = uow.Coupons().Add(ctx, c); err != nil {
		return kernel.UUID{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}
	return c.ID(), nil
}
