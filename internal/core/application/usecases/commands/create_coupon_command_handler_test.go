package commands_test

import (
	"context"
	"testing"
	"time"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/coupon"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/seed"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateCouponCommand(t *testing.T) {
	t.Run("defaults_to_an_active_unrestricted_coupon", func(t *testing.T) {
		cmd, err := commands.NewCreateCouponCommand(commands.CouponDraft{
			Code: " lunch15 ", Type: "percent", Value: decimal.NewFromInt(15),
		})

		require.NoError(t, err)
		assert.Equal(t, "LUNCH15", cmd.Code())
		assert.Equal(t, coupon.Percent, cmd.Type())
		assert.True(t, cmd.Active())
		assert.Nil(t, cmd.Terms().RestaurantID)
		assert.Zero(t, cmd.Terms().UsageLimit)
		assert.True(t, cmd.Terms().MinOrderAmount.IsZero())
		assert.NoError(t, cmd.Validate())
	})

	tests := map[string]struct {
		draft commands.CouponDraft
		param string
	}{
		"code_too_short": {
			draft: commands.CouponDraft{Code: "AB", Type: "AMOUNT", Value: decimal.NewFromInt(5)},
			param: "code",
		},
		"unknown_type": {
			draft: commands.CouponDraft{Code: "FREEBIE", Type: "BOGO", Value: decimal.NewFromInt(5)},
			param: "type",
		},
		"zero_value": {
			draft: commands.CouponDraft{Code: "NOTHING", Type: "AMOUNT", Value: decimal.Zero},
			param: "value",
		},
		"zero_usage_limit": {
			draft: commands.CouponDraft{Code: "ONCE", Type: "AMOUNT", Value: decimal.NewFromInt(5), UsageLimit: new(int)},
			param: "usageLimit",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := commands.NewCreateCouponCommand(tt.draft)

			require.Error(t, err)
			assert.True(t, errs.IsValidation(err))
			assert.Contains(t, err.Error(), tt.param)
		})
	}

	t.Run("zero_value_is_not_constructed", func(t *testing.T) {
		var cmd commands.CreateCouponCommand

		assert.ErrorIs(t, cmd.Validate(), commands.ErrCreateCouponCommandIsNotConstructed)
	})
}

func TestCreateCouponCommandHandler(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, h *harness, draft commands.CouponDraft) (kernel.UUID, error) {
		t.Helper()
		cmd, err := commands.NewCreateCouponCommand(draft)
		require.NoError(t, err)
		return h.coupon.Handle(ctx, cmd)
	}

	t.Run("stores_a_restricted_coupon", func(t *testing.T) {
		// given
		h := newHarness(t)
		restaurantID := seed.NoodleHouseID
		minimum := decimal.NewFromInt(80)
		limit := 50
		inactive := false
		validTo := time.Now().Add(48 * time.Hour)

		// when
		id, err := create(t, h, commands.CouponDraft{
			Code:           "noodle5",
			Type:           "AMOUNT",
			Value:          decimal.NewFromInt(5),
			RestaurantID:   &restaurantID,
			MinOrderAmount: &minimum,
			ValidTo:        &validTo,
			UsageLimit:     &limit,
			Active:         &inactive,
		})

		// then
		require.NoError(t, err)
		stored, err := h.uow.Create().Coupons().GetByCode(ctx, "NOODLE5")
		require.NoError(t, err)
		assert.Equal(t, id, stored.ID())
		assert.False(t, stored.Active())
		assert.Equal(t, 50, stored.Terms().UsageLimit)
		require.NotNil(t, stored.Terms().RestaurantID)
		assert.Equal(t, seed.NoodleHouseID, *stored.Terms().RestaurantID)
		assert.True(t, minimum.Equal(stored.Terms().MinOrderAmount))
	})

	t.Run("duplicate_code_is_a_conflict", func(t *testing.T) {
		// given
		h := newHarness(t)

		// when
		_, err := create(t, h, commands.CouponDraft{Code: "welcome10", Type: "PERCENT", Value: decimal.NewFromInt(5)})

		// then
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("unknown_restaurant_is_not_found", func(t *testing.T) {
		// given
		h := newHarness(t)
		missing := kernel.NewUUID()

		// when
		_, err := create(t, h, commands.CouponDraft{
			Code: "GHOST", Type: "AMOUNT", Value: decimal.NewFromInt(5), RestaurantID: &missing,
		})

		// then
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		_, err = h.uow.Create().Coupons().GetByCode(ctx, "GHOST")
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("percent_above_one_hundred_is_out_of_range", func(t *testing.T) {
		// given
		h := newHarness(t)

		// when
		_, err := create(t, h, commands.CouponDraft{Code: "TOOMUCH", Type: "PERCENT", Value: decimal.NewFromInt(120)})

		// then
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}
