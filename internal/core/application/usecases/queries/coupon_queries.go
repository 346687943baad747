package queries

import (
	"context"
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/coupon"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetCouponQueryIsNotConstructed = errors.New("GetCouponQuery must be created via NewGetCouponQuery constructor")

// GetCouponQuery looks a coupon up by code, ignoring case.
type GetCouponQuery struct { //nolint:recvcheck //using for validation
	code string

	guard guard.ConstructorGuard
}

func NewGetCouponQuery(code string) (GetCouponQuery, error) {
	normalized := coupon.NormalizeCode(code)
	if normalized == "" {
		return GetCouponQuery{}, errs.NewValueIsRequiredError("code")
	}
	return GetCouponQuery{code: normalized, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCouponQuery) Validate() error {
	return q.guard.Validate(ErrGetCouponQueryIsNotConstructed)
}

// CouponView is a promotion code with its terms and usage.
type CouponView struct {
	ID             kernel.UUID     `json:"id"`
	Code           string          `json:"code"`
	Type           coupon.Type     `json:"type"`
	Value          decimal.Decimal `json:"value"`
	RestaurantID   *kernel.UUID    `json:"restaurantId,omitempty"`
	MinOrderAmount decimal.Decimal `json:"minOrderAmount"`
	ValidFrom      *time.Time      `json:"validFrom,omitempty"`
	ValidTo        *time.Time      `json:"validTo,omitempty"`
	UsageLimit     int             `json:"usageLimit,omitempty"`
	UsedCount      int             `json:"usedCount"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func couponView(c *coupon.Coupon) CouponView {
	terms := c.Terms()
	return CouponView{
		ID:             c.ID(),
		Code:           c.Code(),
		Type:           c.Type(),
		Value:          c.Value(),
		RestaurantID:   terms.RestaurantID,
		MinOrderAmount: terms.MinOrderAmount,
		ValidFrom:      terms.ValidFrom,
		ValidTo:        terms.ValidTo,
		UsageLimit:     terms.UsageLimit,
		UsedCount:      c.UsedCount(),
		Active:         c.Active(),
		CreatedAt:      c.CreatedAt(),
	}
}

// CouponQueryHandler serves the coupon catalogue.
type CouponQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewCouponQueryHandler(uowFactory ports.UnitOfWorkFactory) CouponQueryHandler {
	return CouponQueryHandler{uowFactory: uowFactory}
}

// List returns every coupon ordered by code, inactive ones included.
func (h CouponQueryHandler) List(ctx context.Context) ([]CouponView, error) {
	views := make([]CouponView, 0)
	err := read(ctx, h.uowFactory, func(uow ports.UnitOfWork) error {
		coupons, err := uow.Coupons().List(ctx)
		if err != nil {
			return err
		}
		for _, c := range coupons {
			views = append(views, couponView(c))
		}
		return nil
	})
	return views, err
}

func (h CouponQueryHandler) Get(ctx context.Context, query GetCouponQuery) (CouponView, error) {
	if err := query.Validate(); err != nil {
		return CouponView{}, err
	}

	var view CouponView
	err := read(ctx, h.uowFactory, func(uow ports.UnitOfWork) error {
		c, err := uow.Coupons().GetByCode(ctx, query.code)
		if err != nil {
			return err
		}
		view = couponView(c)
		return nil
	})
	return view, err
}
