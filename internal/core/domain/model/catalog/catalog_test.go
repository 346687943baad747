package catalog_test

import (
	"testing"

	"fooddelivery/internal/core/domain/model/catalog"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMenuItem(t *testing.T, stock int) *catalog.MenuItem {
	t.Helper()
	m, err := catalog.NewMenuItem(kernel.NewUUID(), kernel.NewUUID(), "Shrimp Dumplings",
		decimal.RequireFromString("48.5"), map[string]any{"size": "large"}, stock)
	require.NoError(t, err)
	return m
}

func TestNewRestaurant(t *testing.T) {
	t.Run("given_valid_input_when_created_then_fields_are_kept", func(t *testing.T) {
		r, err := catalog.NewRestaurant(kernel.NewUUID(), "Dim Sum Express", kernel.MustGeoPoint(22.282, 114.158),
			4.6, "09:00-22:00", true, "hkg")

		require.NoError(t, err)
		require.NoError(t, r.Validate())
		assert.Equal(t, "HKG", r.City())
		assert.Equal(t, 4.6, r.Rating())
		require.NoError(t, r.EnsureOpen())
	})

	t.Run("given_closed_restaurant_when_ensure_open_then_validation_error", func(t *testing.T) {
		r, err := catalog.NewRestaurant(kernel.NewUUID(), "Night Owl", kernel.MustGeoPoint(22.3, 114.16),
			3, "", false, "")
		require.NoError(t, err)

		err = r.EnsureOpen()

		require.Error(t, err)
		assert.True(t, errs.IsValidation(err))
		assert.Contains(t, err.Error(), "is closed")
	})

	t.Run("given_invalid_input_when_created_then_all_problems_are_joined", func(t *testing.T) {
		r, err := catalog.NewRestaurant(kernel.UUID{}, "", kernel.GeoPoint{}, 7, "", true, "")

		require.Error(t, err)
		assert.Nil(t, r)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "name")
		assert.Contains(t, err.Error(), "geo point must be created")
		assert.Contains(t, err.Error(), "is rating")
	})
}

func TestNewMenuItem(t *testing.T) {
	t.Run("given_negative_price_and_stock_when_created_then_error", func(t *testing.T) {
		m, err := catalog.NewMenuItem(kernel.NewUUID(), kernel.NewUUID(), "Bun", decimal.NewFromInt(-1), nil, -3)

		require.Error(t, err)
		assert.Nil(t, m)
		assert.Contains(t, err.Error(), "-1 is negative")
		assert.Contains(t, err.Error(), "-3 is negative")
	})

	t.Run("given_options_when_caller_mutates_source_then_item_is_unchanged", func(t *testing.T) {
		opts := map[string]any{"spice": "mild"}
		m, err := catalog.NewMenuItem(kernel.NewUUID(), kernel.NewUUID(), "Noodles", decimal.NewFromInt(56), opts, 1)
		require.NoError(t, err)

		opts["spice"] = "hot"

		assert.Equal(t, "mild", m.Options()["spice"])
	})
}

func TestMenuItem_Stock(t *testing.T) {
	t.Run("given_enough_stock_when_reserved_then_stock_decreases", func(t *testing.T) {
		m := newMenuItem(t, 10)

		require.NoError(t, m.Reserve(4))

		assert.Equal(t, 6, m.Stock())
	})

	t.Run("given_insufficient_stock_when_reserved_then_error_and_stock_unchanged", func(t *testing.T) {
		m := newMenuItem(t, 2)

		err := m.Reserve(3)

		require.Error(t, err)
		assert.True(t, errs.IsValidation(err))
		assert.Contains(t, err.Error(), "insufficient stock")
		assert.Equal(t, 2, m.Stock())
	})

	t.Run("given_reserved_stock_when_released_then_restored", func(t *testing.T) {
		m := newMenuItem(t, 5)
		require.NoError(t, m.Reserve(5))

		require.NoError(t, m.Release(5))

		assert.Equal(t, 5, m.Stock())
	})

	t.Run("given_non_positive_qty_when_reserved_then_error", func(t *testing.T) {
		m := newMenuItem(t, 5)

		require.Error(t, m.Reserve(0))
		require.Error(t, m.Release(-1))
		assert.Equal(t, 5, m.Stock())
	})

	t.Run("given_negative_delta_beyond_stock_when_adjusted_then_rejected", func(t *testing.T) {
		m := newMenuItem(t, 1)

		require.ErrorIs(t, m.AdjustStock(-2), errs.ErrValueIsInvalid)
		require.NoError(t, m.AdjustStock(-1))
		assert.Equal(t, 0, m.Stock())
	})
}

func TestMenuItem_Clone(t *testing.T) {
	m := newMenuItem(t, 3)

	c := m.Clone()
	require.NoError(t, c.Reserve(3))

	assert.Equal(t, 3, m.Stock())
	assert.Equal(t, 0, c.Stock())
	assert.True(t, c.ID().IsEqual(m.ID()))
}
