package coupon_test

import (
	"testing"
	"time"

	"fooddelivery/internal/core/domain/model/coupon"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustCoupon(t *testing.T, code string, kind coupon.Type, value string, terms coupon.Terms) *coupon.Coupon {
	t.Helper()
	c, err := coupon.NewCoupon(kernel.NewUUID(), code, kind, dec(value), terms, now)
	require.NoError(t, err)
	return c
}

func TestCoupon_Evaluate(t *testing.T) {
	restaurant := kernel.NewUUID()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	other := kernel.NewUUID()

	tests := []struct {
		name         string
		coupon       func(t *testing.T) *coupon.Coupon
		total        string
		wantValid    bool
		wantReason   string
		wantDiscount string
		wantFinal    string
	}{
		{
			name: "percent_rounds_to_cents",
			coupon: func(t *testing.T) *coupon.Coupon {
				return mustCoupon(t, "welcome10", coupon.Percent, "10", coupon.Terms{UsageLimit: 1000})
			},
			total: "129.05", wantValid: true, wantDiscount: "12.91", wantFinal: "116.14",
		},
		{
			name: "amount_above_minimum",
			coupon: func(t *testing.T) *coupon.Coupon {
				return mustCoupon(t, "SAVE20", coupon.Amount, "20", coupon.Terms{MinOrderAmount: dec("60")})
			},
			total: "129", wantValid: true, wantDiscount: "20", wantFinal: "109",
		},
		{
			name: "amount_below_minimum",
			coupon: func(t *testing.T) *coupon.Coupon {
				return mustCoupon(t, "SAVE20", coupon.Amount, "20", coupon.Terms{MinOrderAmount: dec("60")})
			},
			total: "50", wantReason: coupon.ReasonBelowMinimumAmount, wantDiscount: "0", wantFinal: "50",
		},
		{
			name: "amount_larger_than_total_clamps_to_zero",
			coupon: func(t *testing.T) *coupon.Coupon {
				return mustCoupon(t, "BIG", coupon.Amount, "500", coupon.Terms{})
			},
			total: "42", wantValid: true, wantDiscount: "500", wantFinal: "0",
		},
		{
			name: "inactive",
			coupon: func(t *testing.T) *coupon.Coupon {
				c := mustCoupon(t, "OFF", coupon.Amount, "5", coupon.Terms{})
				c.Deactivate()
				return c
			},
			total: "10", wantReason: coupon.ReasonInactive, wantDiscount: "0", wantFinal: "10",
		},
		{
			name: "not_yet_valid",
			coupon: func(t *testing.T) *coupon.Coupon {
				return mustCoupon(t, "SOON", coupon.Amount, "5", coupon.Terms{ValidFrom: &future})
			},
			total: "10", wantReason: coupon.ReasonNotYetValid, wantDiscount: "0", wantFinal: "10",
		},
		{
			name: "expired",
			coupon: func(t *testing.T) *coupon.Coupon {
				return mustCoupon(t, "OLD", coupon.Amount, "5", coupon.Terms{ValidTo: &past})
			},
			total: "10", wantReason: coupon.ReasonExpired, wantDiscount: "0", wantFinal: "10",
		},
		{
			name: "usage_limit_reached",
			coupon: func(t *testing.T) *coupon.Coupon {
				c := mustCoupon(t, "ONCE", coupon.Amount, "5", coupon.Terms{UsageLimit: 1})
				require.NoError(t, c.Redeem())
				return c
			},
			total: "10", wantReason: coupon.ReasonUsageLimitReached, wantDiscount: "0", wantFinal: "10",
		},
		{
			name: "other_restaurant",
			coupon: func(t *testing.T) *coupon.Coupon {
				return mustCoupon(t, "LOCAL", coupon.Amount, "5", coupon.Terms{RestaurantID: &other})
			},
			total: "10", wantReason: coupon.ReasonWrongRestaurant, wantDiscount: "0", wantFinal: "10",
		},
		{
			name: "inactive_wins_over_expired",
			coupon: func(t *testing.T) *coupon.Coupon {
				c := mustCoupon(t, "X", coupon.Amount, "5", coupon.Terms{ValidTo: &past})
				c.Deactivate()
				return c
			},
			total: "10", wantReason: coupon.ReasonInactive, wantDiscount: "0", wantFinal: "10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.coupon(t)

			res := c.Evaluate(now, restaurant, dec(tt.total))

			assert.Equal(t, tt.wantValid, res.Valid)
			assert.Equal(t, tt.wantReason, res.Reason)
			assert.True(t, dec(tt.wantDiscount).Equal(res.Discount), "discount %s", res.Discount)
			assert.True(t, dec(tt.wantFinal).Equal(res.FinalTotal), "final total %s", res.FinalTotal)
		})
	}
}

func TestCoupon_Redeem(t *testing.T) {
	t.Run("given_limit_when_redeemed_past_it_then_conflict", func(t *testing.T) {
		c := mustCoupon(t, "TWICE", coupon.Amount, "1", coupon.Terms{UsageLimit: 2})

		require.NoError(t, c.Redeem())
		require.NoError(t, c.Redeem())
		err := c.Redeem()

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, 2, c.UsedCount())
	})

	t.Run("given_clone_when_redeemed_then_original_is_unchanged", func(t *testing.T) {
		c := mustCoupon(t, "CLONE", coupon.Amount, "1", coupon.Terms{})

		cp := c.Clone()
		require.NoError(t, cp.Redeem())

		assert.Equal(t, 0, c.UsedCount())
		assert.Equal(t, 1, cp.UsedCount())
	})
}

func TestNewCoupon_Validation(t *testing.T) {
	from := now
	to := now.Add(-time.Minute)

	c, err := coupon.NewCoupon(kernel.UUID{}, " ", coupon.Type("BOGO"), dec("0"),
		coupon.Terms{ValidFrom: &from, ValidTo: &to, UsageLimit: -1, MinOrderAmount: dec("-5")}, now)

	require.Error(t, err)
	assert.Nil(t, c)
	assert.True(t, errs.IsValidation(err))
	assert.Contains(t, err.Error(), "UUID must be created")
	assert.Contains(t, err.Error(), "code")
	assert.Contains(t, err.Error(), "not a valid coupon type")
	assert.Contains(t, err.Error(), "validTo is before validFrom")
	assert.Contains(t, err.Error(), "usageLimit")
	assert.Contains(t, err.Error(), "minOrderAmount")

	t.Run("percent_above_hundred", func(t *testing.T) {
		_, err := coupon.NewCoupon(kernel.NewUUID(), "X", coupon.Percent, dec("150"), coupon.Terms{}, now)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("code_is_normalised", func(t *testing.T) {
		c := mustCoupon(t, " save20 ", coupon.Amount, "20", coupon.Terms{})

		assert.Equal(t, "SAVE20", c.Code())
		assert.Equal(t, "SAVE20", coupon.NormalizeCode("Save20"))
	})
}

func TestParseType(t *testing.T) {
	ty, err := coupon.ParseType("percent")
	require.NoError(t, err)
	assert.Equal(t, coupon.Percent, ty)

	_, err = coupon.ParseType("free")
	require.Error(t, err)
}
