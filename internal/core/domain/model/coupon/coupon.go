package coupon

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// Reasons reported by Evaluate for unusable coupons.
const (
	ReasonNotFound           = "Coupon not found"
	ReasonInactive           = "Coupon inactive"
	ReasonNotYetValid        = "Coupon not yet valid"
	ReasonExpired            = "Coupon expired"
	ReasonUsageLimitReached  = "Usage limit reached"
	ReasonWrongRestaurant    = "Coupon not valid for restaurant"
	ReasonBelowMinimumAmount = "Order below minimum amount"
)

// ErrCouponIsNotConstructed is returned when a zero-value Coupon is used.
var ErrCouponIsNotConstructed = errs.NewValueIsRequiredError("Coupon must be created via NewCoupon constructor")

// Type tells how Value is turned into a discount.
type Type string

const (
	// Percent discounts Value percent of the cart total, rounded to cents.
	Percent Type = "PERCENT"
	// Amount discounts a fixed Value.
	Amount Type = "AMOUNT"
)

// ParseType converts a case-insensitive type name into a Type.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	if t != Percent && t != Amount {
		return "", errs.NewValueIsInvalidErrorWithCause("type", fmt.Errorf("%q is not a valid coupon type", s))
	}
	return t, nil
}

// Terms are the optional restrictions of a coupon. Zero values mean "unrestricted".
type Terms struct {
	ValidFrom      *time.Time
	ValidTo        *time.Time
	UsageLimit     int
	RestaurantID   *kernel.UUID
	MinOrderAmount decimal.Decimal
}

// Result is the outcome of evaluating a coupon against a cart.
type Result struct {
	Valid      bool
	Discount   decimal.Decimal
	FinalTotal decimal.Decimal
	Reason     string
}

// Rejected builds the result for an unusable coupon.
func Rejected(total decimal.Decimal, reason string) Result {
	return Result{Valid: false, Discount: decimal.Zero, FinalTotal: total, Reason: reason}
}

// Coupon is a promotion code.
type Coupon struct {
	id        kernel.UUID
	code      string
	kind      Type
	value     decimal.Decimal
	terms     Terms
	usedCount int
	active    bool
	createdAt time.Time
	guard     guard.ConstructorGuard
}

// NewCoupon validates its arguments and builds an active, unused Coupon.
// The code is stored upper-cased; lookups are case-insensitive.
func NewCoupon(id kernel.UUID, code string, kind Type, value decimal.Decimal, terms Terms, now time.Time) (*Coupon, error) {
	return RestoreCoupon(id, code, kind, value, terms, 0, true, now)
}

// RestoreCoupon rebuilds a Coupon from storage, including its usage counter and active flag.
func RestoreCoupon(
	id kernel.UUID,
	code string,
	kind Type,
	value decimal.Decimal,
	terms Terms,
	usedCount int,
	active bool,
	createdAt time.Time,
) (*Coupon, error) {
	c := &Coupon{
		active:    active,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setCode(code),
		c.setValue(kind, value),
		c.setTerms(terms),
		c.setUsedCount(usedCount),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// NormalizeCode returns the canonical form used to look coupons up.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate returns ErrCouponIsNotConstructed for nil and zero values.
func (c *Coupon) Validate() error {
	if c == nil {
		return ErrCouponIsNotConstructed
	}
	return c.guard.Validate(ErrCouponIsNotConstructed)
}

func (c *Coupon) ID() kernel.UUID { return c.id }
func (c *Coupon) Code() string { return c.code }
func (c *Coupon) Type() Type { return c.kind }
func (c *Coupon) Value() decimal.Decimal { return c.value }
func (c *Coupon) UsedCount() int { return c.usedCount }
func (c *Coupon) Active() bool { return c.active }
func (c *Coupon) CreatedAt() time.Time { return c.createdAt }

// Terms returns a copy of the coupon restrictions.
func (c *Coupon) Terms() Terms {
	return c.terms
}

// Evaluate checks the coupon against a cart of the given restaurant and total.
// Rules are applied in order and the first failing one is reported.
func (c *Coupon) Evaluate(now time.Time, restaurantID kernel.UUID, total decimal.Decimal) Result {
	switch {
	case !c.active:
		return Rejected(total, ReasonInactive)
	case c.terms.ValidFrom != nil && now.Before(*c.terms.ValidFrom):
		return Rejected(total, ReasonNotYetValid)
	case c.terms.ValidTo != nil && now.After(*c.terms.ValidTo):
		return Rejected(total, ReasonExpired)
	case c.terms.UsageLimit > 0 && c.usedCount >= c.terms.UsageLimit:
		return Rejected(total, ReasonUsageLimitReached)
	case c.terms.RestaurantID != nil && !c.terms.RestaurantID.IsEqual(restaurantID):
		return Rejected(total, ReasonWrongRestaurant)
	case c.terms.MinOrderAmount.IsPositive() && total.LessThan(c.terms.MinOrderAmount):
		return Rejected(total, ReasonBelowMinimumAmount)
	}

	var discount decimal.Decimal
	if c.kind == Percent {
		discount = total.Mul(c.value).Div(decimal.NewFromInt(100)).Round(2)
	} else {
		discount = c.value
	}

	return Result{
		Valid:      true,
		Discount:   discount,
		FinalTotal: decimal.Max(total.Sub(discount), decimal.Zero),
	}
}

// Redeem records one use of the coupon.
func (c *Coupon) Redeem() error {
	if c.terms.UsageLimit > 0 && c.usedCount >= c.terms.UsageLimit {
		return errs.NewConflictError("coupon", ReasonUsageLimitReached)
	}
	c.usedCount++
	return nil
}

// Deactivate stops the coupon from validating.
func (c *Coupon) Deactivate() {
	c.active = false
}

// Clone returns an independent copy.
func (c *Coupon) Clone() *Coupon {
	cp := *c
	return &cp
}

func (c *Coupon) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Coupon) setCode(code string) error {
	code = NormalizeCode(code)
	if code == "" {
		return errs.NewValueIsRequiredError("code")
	}
	c.code = code
	return nil
}

func (c *Coupon) setValue(kind Type, value decimal.Decimal) error {
	if kind != Percent && kind != Amount {
		return errs.NewValueIsInvalidErrorWithCause("type", fmt.Errorf("%q is not a valid coupon type", string(kind)))
	}
	if !value.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("value", fmt.Errorf("%s is not greater than 0", value))
	}
	if kind == Percent && value.GreaterThan(decimal.NewFromInt(100)) {
		return errs.NewValueIsOutOfRangeError("value", value, 0, 100)
	}
	c.kind = kind
	c.value = value
	return nil
}

func (c *Coupon) setTerms(terms Terms) error {
	var problems []error
	if terms.ValidFrom != nil && terms.ValidTo != nil && terms.ValidTo.Before(*terms.ValidFrom) {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("validTo", errors.New("validTo is before validFrom")))
	}
	if terms.UsageLimit < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("usageLimit", fmt.Errorf("%d is negative", terms.UsageLimit)))
	}
	if terms.MinOrderAmount.IsNegative() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("minOrderAmount", fmt.Errorf("%s is negative", terms.MinOrderAmount)))
	}
	if terms.RestaurantID != nil {
		if err := terms.RestaurantID.Validate(); err != nil {
			problems = append(problems, err)
		}
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}

	c.terms = terms
	return nil
}

func (c *Coupon) setUsedCount(n int) error {
	if n < 0 {
		return errs.NewValueIsInvalidErrorWithCause("usedCount", fmt.Errorf("%d is negative", n))
	}
	c.usedCount = n
	return nil
}
