package commands_test

import (
	"context"
	"testing"
	"time"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/grouporder"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/core/domain/model/user"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/metrics"
	"fooddelivery/internal/seed"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupOrderCommandHandler(t *testing.T) {
	ctx := context.Background()

	open := func(t *testing.T, h *harness) kernel.UUID {
		t.Helper()
		cmd, err := commands.NewCreateGroupOrderCommand(seed.AliceID, seed.DimSumExpressID, nil)
		require.NoError(t, err)
		id, err := h.group.Create(ctx, cmd)
		require.NoError(t, err)
		return id
	}
	add := func(t *testing.T, h *harness, groupID, userID kernel.UUID, lines ...commands.OrderLine) error {
		t.Helper()
		cmd, err := commands.NewAddGroupOrderItemsCommand(groupID, userID, lines)
		require.NoError(t, err)
		return h.group.AddItems(ctx, cmd)
	}
	checkout := func(t *testing.T, h *harness, groupID kernel.UUID) (kernel.UUID, error) {
		t.Helper()
		cmd, err := commands.NewCheckoutGroupOrderCommand(groupID, payment.WeChatPay, "WELCOME10")
		require.NoError(t, err)
		return h.group.Checkout(ctx, cmd)
	}

	t.Run("checkout_places_one_order_for_the_host", func(t *testing.T) {
		// given
		h := newHarness(t)
		friendID := kernel.NewUUID()
		friend, err := user.NewUser(friendID, user.RoleCustomer, "Erin", "", "", "HKG", nil)
		require.NoError(t, err)
		h.addUser(t, friend)

		groupID := open(t, h)
		require.NoError(t, add(t, h, groupID, seed.AliceID, commands.OrderLine{MenuItemID: seed.ShrimpDumplingsID, Qty: 2}))
		require.NoError(t, add(t, h, groupID, friendID, commands.OrderLine{MenuItemID: seed.BBQPorkBunID, Qty: 1}))

		// when
		orderID, err := checkout(t, h, groupID)

		// then
		require.NoError(t, err)
		o := h.getOrder(t, orderID)
		assert.Equal(t, seed.AliceID, o.UserID())
		require.NotNil(t, o.GroupOrderID())
		assert.Equal(t, groupID, *o.GroupOrderID())
		assert.Len(t, o.Items(), 2)
		assert.True(t, decimal.RequireFromString("116.1").Equal(o.Total()), o.Total().String())
		assert.Equal(t, 98, h.stock(t, seed.ShrimpDumplingsID))

		g, err := h.uow.Create().GroupOrders().Get(ctx, groupID)
		require.NoError(t, err)
		assert.Equal(t, grouporder.CheckedOut, g.Status())
		assert.Equal(t, int64(1), h.metrics.Get(metrics.GroupOrdersCreated))
		assert.Equal(t, int64(1), h.metrics.Get(metrics.GroupOrdersCheckedOut))
	})

	t.Run("empty_group_cannot_check_out", func(t *testing.T) {
		h := newHarness(t)
		groupID := open(t, h)

		_, err := checkout(t, h, groupID)

		require.Error(t, err)
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("closed_group_rejects_items", func(t *testing.T) {
		h := newHarness(t)
		groupID := open(t, h)
		require.NoError(t, add(t, h, groupID, seed.AliceID, commands.OrderLine{MenuItemID: seed.SiuMaiID, Qty: 1}))
		_, err := checkout(t, h, groupID)
		require.NoError(t, err)

		err = add(t, h, groupID, seed.AliceID, commands.OrderLine{MenuItemID: seed.SiuMaiID, Qty: 1})

		assert.True(t, errs.IsValidation(err))
	})

	t.Run("rejects_items_of_another_restaurant", func(t *testing.T) {
		h := newHarness(t)
		groupID := open(t, h)

		err := add(t, h, groupID, seed.AliceID, commands.OrderLine{MenuItemID: seed.WontonNoodlesID, Qty: 1})

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("failed_checkout_keeps_group_open", func(t *testing.T) {
		// given
		h := newHarness(t)
		groupID := open(t, h)
		require.NoError(t, add(t, h, groupID, seed.AliceID, commands.OrderLine{MenuItemID: seed.SiuMaiID, Qty: 500}))

		// when
		_, err := checkout(t, h, groupID)

		// then
		require.Error(t, err)
		g, getErr := h.uow.Create().GroupOrders().Get(ctx, groupID)
		require.NoError(t, getErr)
		assert.Equal(t, grouporder.Open, g.Status())
	})

	t.Run("expired_group_rejects_items", func(t *testing.T) {
		h := newHarness(t)
		past := time.Now().Add(-time.Minute)
		cmd, err := commands.NewCreateGroupOrderCommand(seed.AliceID, seed.DimSumExpressID, &past)
		require.NoError(t, err)
		groupID, err := h.group.Create(ctx, cmd)
		require.NoError(t, err)

		err = add(t, h, groupID, seed.AliceID, commands.OrderLine{MenuItemID: seed.SiuMaiID, Qty: 1})

		assert.True(t, errs.IsValidation(err))
	})

	t.Run("host_must_be_a_customer", func(t *testing.T) {
		h := newHarness(t)
		cmd, err := commands.NewCreateGroupOrderCommand(seed.BobID, seed.DimSumExpressID, nil)
		require.NoError(t, err)

		_, err = h.group.Create(ctx, cmd)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
