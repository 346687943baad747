package commands

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"fooddelivery/internal/core/domain/model/coupon"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const (
	minCouponCodeLength = 3
	maxCouponCodeLength = 64
)

var ErrCreateCouponCommandIsNotConstructed = errors.New(
	"CreateCouponCommand must be created via NewCreateCouponCommand constructor",
)

// CouponDraft carries the raw fields of a new coupon. Nil pointers leave the
// matching restriction unset, and a nil Active creates an active coupon.
type CouponDraft struct {
	Code           string
	Type           string
	Value          decimal.Decimal
	RestaurantID   *kernel.UUID
	MinOrderAmount *decimal.Decimal
	ValidFrom      *time.Time
	ValidTo        *time.Time
	UsageLimit     *int
	Active         *bool
}

// CreateCouponCommand registers a promotion code.
type CreateCouponCommand struct { //nolint:recvcheck //using for validation
	code   string
	kind   coupon.Type
	value  decimal.Decimal
	terms  coupon.Terms
	active bool

	guard guard.ConstructorGuard
}

func NewCreateCouponCommand(draft CouponDraft) (CreateCouponCommand, error) {
	code := coupon.NormalizeCode(draft.Code)
	var problems []error
	if n := utf8.RuneCountInString(code); n < minCouponCodeLength || n > maxCouponCodeLength {
		problems = append(problems, errs.NewValueIsOutOfRangeErrorWithCause("code", n, minCouponCodeLength, maxCouponCodeLength,
			fmt.Errorf("code must be %d to %d characters long", minCouponCodeLength, maxCouponCodeLength)))
	}
	kind, err := coupon.ParseType(draft.Type)
	if err != nil {
		problems = append(problems, err)
	}
	if !draft.Value.IsPositive() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("value", fmt.Errorf("%s is not greater than 0", draft.Value)))
	}
	if draft.UsageLimit != nil && *draft.UsageLimit <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("usageLimit", fmt.Errorf("%d is not greater than 0", *draft.UsageLimit)))
	}
	if draft.MinOrderAmount != nil && draft.MinOrderAmount.IsNegative() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("minOrderAmount", fmt.Errorf("%s is negative", *draft.MinOrderAmount)))
	}
	if draft.RestaurantID != nil {
		problems = append(problems, requiredID("restaurantId", *draft.RestaurantID))
	}
	if err = errors.Join(problems...); err != nil {
		return CreateCouponCommand{}, err
	}

	terms := coupon.Terms{
		ValidFrom:      cloneTime(draft.ValidFrom),
		ValidTo:        cloneTime(draft.ValidTo),
		MinOrderAmount: decimal.Zero,
	}
	if draft.RestaurantID != nil {
		id := *draft.RestaurantID
		terms.RestaurantID = &id
	}
	if draft.MinOrderAmount != nil {
		terms.MinOrderAmount = *draft.MinOrderAmount
	}
	if draft.UsageLimit != nil {
		terms.UsageLimit = *draft.UsageLimit
	}

	active := true
	if draft.Active != nil {
		active = *draft.Active
	}

	return CreateCouponCommand{
		code:   code,
		kind:   kind,
		value:  draft.Value,
		terms:  terms,
		active: active,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func (c CreateCouponCommand) Validate() error {
	return c.guard.Validate(ErrCreateCouponCommandIsNotConstructed)
}

func (c CreateCouponCommand) Code() string {
	return c.code
}

func (c CreateCouponCommand) Type() coupon.Type {
	return c.kind
}

func (c CreateCouponCommand) Value() decimal.Decimal {
	return c.value
}

func (c CreateCouponCommand) Terms() coupon.Terms {
	return c.terms
}

func (c CreateCouponCommand) Active() bool {
	return c.active
}
