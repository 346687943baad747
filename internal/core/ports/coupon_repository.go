package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/coupon"
	"fooddelivery/internal/core/domain/model/grouporder"
	"fooddelivery/internal/core/domain/model/kernel"
)

// CouponRepository stores promotion codes.
type CouponRepository interface {
	// Add persists a new coupon. A duplicate code fails with errs.ErrConflict.
	Add(ctx context.Context, c *coupon.Coupon) error
	Update(ctx context.Context, c *coupon.Coupon) error
	// GetByCode looks a coupon up case-insensitively.
	GetByCode(ctx context.Context, code string) (*coupon.Coupon, error)
	// List returns every coupon ordered by code.
	List(ctx context.Context) ([]*coupon.Coupon, error)
}

// GroupOrderRepository stores shared carts.
type GroupOrderRepository interface {
	Add(ctx context.Context, g *grouporder.GroupOrder) error
	Update(ctx context.Context, g *grouporder.GroupOrder) error
	Get(ctx context.Context, id kernel.UUID) (*grouporder.GroupOrder, error)
	// List returns every group order, newest first.
	List(ctx context.Context) ([]*grouporder.GroupOrder, error)
}
