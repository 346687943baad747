package queries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/coupon"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrValidateCouponQueryIsNotConstructed = errors.New(
	"ValidateCouponQuery must be created via NewValidateCouponQuery constructor",
)

// ValidateCouponQuery checks a coupon code against a cart without redeeming it.
type ValidateCouponQuery struct { //nolint:recvcheck //using for validation
	code         string
	restaurantID kernel.UUID
	total        decimal.Decimal

	guard guard.ConstructorGuard
}

func NewValidateCouponQuery(code string, restaurantID kernel.UUID, total decimal.Decimal) (ValidateCouponQuery, error) {
	var problems []error
	normalized := coupon.NormalizeCode(code)
	if normalized == "" {
		problems = append(problems, errs.NewValueIsRequiredError("code"))
	}
	if err := restaurantID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("restaurantId", err))
	}
	if total.IsNegative() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("total", fmt.Errorf("%s is negative", total)))
	}
	if err := errors.Join(problems...); err != nil {
		return ValidateCouponQuery{}, err
	}

	return ValidateCouponQuery{
		code:         normalized,
		restaurantID: restaurantID,
		total:        total,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (q ValidateCouponQuery) Validate() error {
	return q.guard.Validate(ErrValidateCouponQueryIsNotConstructed)
}

// CouponValidation is the outcome of ValidateCouponQuery.
type CouponValidation struct {
	Code       string          `json:"code"`
	Valid      bool            `json:"valid"`
	Reason     string          `json:"reason,omitempty"`
	Discount   decimal.Decimal `json:"discount"`
	FinalTotal decimal.Decimal `json:"finalTotal"`
}

type ValidateCouponQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	clock      func() time.Time
}

func NewValidateCouponQueryHandler(uowFactory ports.UnitOfWorkFactory) ValidateCouponQueryHandler {
	return ValidateCouponQueryHandler{uowFactory: uowFactory, clock: time.Now}
}

// Handle never fails for an unusable coupon; the reason is reported in the result.
func (h ValidateCouponQueryHandler) Handle(ctx context.Context, query ValidateCouponQuery) (CouponValidation, error) {
	if err := query.Validate(); err != nil {
		return CouponValidation{}, err
	}

	var result coupon.Result
	err := read(ctx, h.uowFactory, func(uow ports.UnitOfWork) error {
		c, found, err := optional(uow.Coupons().GetByCode(ctx, query.code))
		if err != nil {
			return err
		}
		if !found {
			result = coupon.Rejected(query.total, coupon.ReasonNotFound)
			return nil
		}
		result = c.Evaluate(h.clock().UTC(), query.restaurantID, query.total)
		return nil
	})
	if err != nil {
		return CouponValidation{}, err
	}

	return CouponValidation{
		Code:       query.code,
		Valid:      result.Valid,
		Reason:     result.Reason,
		Discount:   result.Discount,
		FinalTotal: result.FinalTotal,
	}, nil
}
