package seed_test

import (
	"context"
	"testing"
	"time"

	"fooddelivery/internal/adapters/out/memory"
	"fooddelivery/internal/core/domain/model/user"
	"fooddelivery/internal/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("loads_the_demo_data_set", func(t *testing.T) {
		// given
		factory := memory.NewUnitOfWorkFactory(memory.NewStore())

		// when
		loaded, err := seed.Load(ctx, factory, now)

		// then
		require.NoError(t, err)
		assert.True(t, loaded)

		uow := factory.Create()
		couriers, err := uow.Users().ListByRole(ctx, user.RoleCourier)
		require.NoError(t, err)
		assert.Len(t, couriers, 3)

		restaurants, err := uow.Restaurants().List(ctx)
		require.NoError(t, err)
		assert.Len(t, restaurants, 2)

		dimSum, err := uow.MenuItems().ListByRestaurant(ctx, seed.DimSumExpressID)
		require.NoError(t, err)
		assert.Len(t, dimSum, 4)

		coupons, err := uow.Coupons().List(ctx)
		require.NoError(t, err)
		assert.Len(t, coupons, 2)

		bob, err := uow.CourierLocations().Get(ctx, seed.BobID)
		require.NoError(t, err)
		assert.Equal(t, seed.BobLastSeen, bob.Point())
	})

	t.Run("second_load_is_skipped", func(t *testing.T) {
		// given
		factory := memory.NewUnitOfWorkFactory(memory.NewStore())
		_, err := seed.Load(ctx, factory, now)
		require.NoError(t, err)

		// when
		loaded, err := seed.Load(ctx, factory, now)

		// then
		require.NoError(t, err)
		assert.False(t, loaded)
		couriers, err := factory.Create().Users().ListByRole(ctx, user.RoleCourier)
		require.NoError(t, err)
		assert.Len(t, couriers, 3)
	})
}
