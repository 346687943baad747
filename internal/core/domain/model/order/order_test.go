package order_test

import (
	"testing"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now     = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	dropoff = kernel.MustGeoPoint(22.335, 114.175)
)

func mustItem(t *testing.T, qty int, price string) *order.Item {
	t.Helper()
	it, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), qty, decimal.RequireFromString(price), nil)
	require.NoError(t, err)
	return it
}

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), dropoff,
		[]*order.Item{mustItem(t, 2, "48.5"), mustItem(t, 1, "32.0")}, nil, now)
	require.NoError(t, err)
	return o
}

func walk(t *testing.T, o *order.Order, path ...order.Status) {
	t.Helper()
	for _, s := range path {
		require.NoError(t, o.TransitionTo(s, now))
	}
}

func TestNewOrder(t *testing.T) {
	t.Run("should compute total and start in CREATED with PENDING payment", func(t *testing.T) {
		o := newOrder(t)

		require.NoError(t, o.Validate())
		assert.True(t, decimal.RequireFromString("129.0").Equal(o.Total()), "total %s", o.Total())
		assert.True(t, o.Subtotal().Equal(o.Total()))
		assert.Equal(t, order.Created, o.Status())
		assert.Equal(t, payment.Pending, o.PayStatus())
		assert.Nil(t, o.EtaMinutes())
		assert.Nil(t, o.GroupOrderID())
		assert.Len(t, o.Items(), 2)
		assert.Equal(t, now, o.CreatedAt())
	})

	t.Run("should fail without items", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), dropoff, nil, nil, now)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.True(t, errs.IsValidation(err))
		assert.Contains(t, err.Error(), "at least one item")
	})

	t.Run("should join every validation error", func(t *testing.T) {
		var bad *order.Item

		o, err := order.NewOrder(kernel.UUID{}, kernel.UUID{}, kernel.UUID{}, kernel.GeoPoint{}, []*order.Item{bad}, nil, now)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "userID")
		assert.Contains(t, err.Error(), "restaurantID")
		assert.Contains(t, err.Error(), "dropoff")
		assert.Contains(t, err.Error(), "items[0]")
	})

	t.Run("should keep the group order link", func(t *testing.T) {
		group := kernel.NewUUID()

		o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), dropoff,
			[]*order.Item{mustItem(t, 1, "10")}, &group, now)

		require.NoError(t, err)
		require.NotNil(t, o.GroupOrderID())
		assert.True(t, o.GroupOrderID().IsEqual(group))
	})
}

func TestNewItem(t *testing.T) {
	t.Run("should reject zero quantity", func(t *testing.T) {
		it, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), 0, decimal.NewFromInt(1), nil)

		require.Error(t, err)
		assert.Nil(t, it)
		assert.Contains(t, err.Error(), "0 is not greater than 0")
	})

	t.Run("should compute line total", func(t *testing.T) {
		it := mustItem(t, 3, "12.25")

		assert.True(t, decimal.RequireFromString("36.75").Equal(it.LineTotal()))
	})
}

func TestOrder_ApplyDiscount(t *testing.T) {
	t.Run("should reduce total", func(t *testing.T) {
		o := newOrder(t)

		require.NoError(t, o.ApplyDiscount("SAVE20", decimal.NewFromInt(20), now))

		assert.True(t, decimal.NewFromInt(109).Equal(o.Total()))
		assert.True(t, decimal.NewFromInt(20).Equal(o.DiscountAmount()))
		assert.Equal(t, "SAVE20", o.CouponCode())
	})

	t.Run("should floor total at zero", func(t *testing.T) {
		o := newOrder(t)

		require.NoError(t, o.ApplyDiscount("BIG", decimal.NewFromInt(500), now))

		assert.True(t, o.Total().IsZero())
	})

	t.Run("should refuse a second coupon", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.ApplyDiscount("A", decimal.NewFromInt(1), now))

		err := o.ApplyDiscount("B", decimal.NewFromInt(1), now)

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, "A", o.CouponCode())
	})
}

func TestOrder_TransitionTo(t *testing.T) {
	t.Run("should set ETA horizon when entering DELIVERING and zero when DELIVERED", func(t *testing.T) {
		o := newOrder(t)
		walk(t, o, order.Confirmed, order.Preparing, order.PickedUp, order.Delivering)

		require.NotNil(t, o.EtaMinutes())
		assert.Equal(t, order.DeliveryHorizonMinutes, *o.EtaMinutes())

		walk(t, o, order.Delivered)
		assert.Equal(t, 0, *o.EtaMinutes())
	})

	t.Run("should reject CREATED to PREPARING and leave state unchanged", func(t *testing.T) {
		o := newOrder(t)
		before := o.UpdatedAt()

		err := o.TransitionTo(order.Preparing, now.Add(time.Minute))

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, order.Created, o.Status())
		assert.Equal(t, before, o.UpdatedAt())
	})

	t.Run("should reject every transition out of a terminal status", func(t *testing.T) {
		o := newOrder(t)
		walk(t, o, order.Cancelled)

		for _, s := range order.Statuses() {
			require.ErrorIs(t, o.TransitionTo(s, now), errs.ErrConflict)
		}
		assert.Equal(t, order.Cancelled, o.Status())
	})
}

func TestOrder_MarkDelivering(t *testing.T) {
	t.Run("should accept in-flight orders and keep ETA", func(t *testing.T) {
		o := newOrder(t)
		walk(t, o, order.Confirmed)

		require.NoError(t, o.MarkDelivering(now))

		assert.Equal(t, order.Delivering, o.Status())
		assert.Nil(t, o.EtaMinutes())
		require.NoError(t, o.MarkDelivering(now))
	})

	t.Run("should reject orders that are not in flight", func(t *testing.T) {
		o := newOrder(t)

		require.ErrorIs(t, o.MarkDelivering(now), errs.ErrConflict)
		assert.Equal(t, order.Created, o.Status())
	})
}

func TestOrder_MarkDelivered(t *testing.T) {
	o := newOrder(t)
	walk(t, o, order.Confirmed, order.Preparing, order.PickedUp, order.Delivering)

	require.NoError(t, o.MarkDelivered(now))
	require.NoError(t, o.MarkDelivered(now))

	assert.Equal(t, order.Delivered, o.Status())
}

func TestOrder_UpdateEta(t *testing.T) {
	o := newOrder(t)
	require.ErrorIs(t, o.UpdateEta(5, now), errs.ErrConflict)

	walk(t, o, order.Confirmed, order.Preparing, order.PickedUp, order.Delivering)
	require.NoError(t, o.UpdateEta(8, now))
	assert.Equal(t, 8, *o.EtaMinutes())

	require.Error(t, o.UpdateEta(-1, now))
}

func TestOrder_SetPayStatus(t *testing.T) {
	o := newOrder(t)

	require.NoError(t, o.SetPayStatus(payment.Paid, now))
	assert.Equal(t, payment.Paid, o.PayStatus())

	require.Error(t, o.SetPayStatus(payment.Unknown, now))
	assert.Equal(t, payment.Paid, o.PayStatus())
}

func TestOrder_Clone(t *testing.T) {
	o := newOrder(t)

	c := o.Clone()
	walk(t, c, order.Confirmed)

	assert.Equal(t, order.Created, o.Status())
	assert.Equal(t, order.Confirmed, c.Status())
	assert.True(t, c.IsEqual(o))
}

func TestRestoreOrder(t *testing.T) {
	eta := 8
	items := []*order.Item{mustItem(t, 1, "10")}

	t.Run("should restore all fields", func(t *testing.T) {
		id := kernel.NewUUID()
		o, err := order.RestoreOrder(order.Snapshot{
			ID:             id,
			UserID:         kernel.NewUUID(),
			RestaurantID:   kernel.NewUUID(),
			Status:         order.Delivering,
			PayStatus:      payment.Paid,
			Total:          decimal.NewFromInt(9),
			DiscountAmount: decimal.NewFromInt(1),
			CouponCode:     "ONE",
			EtaMinutes:     &eta,
			Items:          items,
			Dropoff:        dropoff,
			CreatedAt:      now,
			UpdatedAt:      now,
		})

		require.NoError(t, err)
		assert.True(t, o.ID().IsEqual(id))
		assert.Equal(t, order.Delivering, o.Status())
		assert.Equal(t, payment.Paid, o.PayStatus())
		assert.Equal(t, 8, *o.EtaMinutes())
		assert.True(t, decimal.NewFromInt(9).Equal(o.Total()))
	})

	t.Run("should reject invalid status and negative total", func(t *testing.T) {
		o, err := order.RestoreOrder(order.Snapshot{
			ID:           kernel.NewUUID(),
			UserID:       kernel.NewUUID(),
			RestaurantID: kernel.NewUUID(),
			Total:        decimal.NewFromInt(-1),
			Items:        items,
			Dropoff:      dropoff,
		})

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "status is invalid")
		assert.Contains(t, err.Error(), "total")
	})
}

func TestOrder_Validate(t *testing.T) {
	var nilOrder *order.Order
	var zero order.Order

	require.ErrorIs(t, nilOrder.Validate(), order.ErrOrderIsNotConstructed)
	require.ErrorIs(t, zero.Validate(), order.ErrOrderIsNotConstructed)
}
