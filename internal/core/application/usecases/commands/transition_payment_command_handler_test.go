package commands_test

import (
	"context"
	"testing"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/metrics"
	"fooddelivery/internal/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSimulatePaymentCommand(t *testing.T) {
	id := kernel.NewUUID()

	paid, err := commands.NewSimulatePaymentCommand(id, true)
	require.NoError(t, err)
	failed, err := commands.NewSimulatePaymentCommand(id, false)
	require.NoError(t, err)

	assert.Equal(t, payment.Paid, paid.Next())
	assert.Equal(t, payment.Failed, failed.Next())
	assert.Equal(t, id, paid.OrderID())
}

func TestTransitionPaymentCommandHandler_Handle(t *testing.T) {
	t.Run("paid_confirms_and_dispatches", func(t *testing.T) {
		// given
		h := newHarness(t)
		id := h.placeDimSum(t, "")

		// when
		err := h.pay(t, id, payment.Paid)

		// then
		require.NoError(t, err)
		o := h.getOrder(t, id)
		assert.Equal(t, order.Confirmed, o.Status())
		assert.Equal(t, payment.Paid, o.PayStatus())

		p := h.getPayment(t, id)
		assert.Equal(t, payment.Paid, p.Status())
		assert.Equal(t, "TXN-123456", p.TxnID())
		assert.NotNil(t, p.ProcessedAt())

		d := h.getDelivery(t, id)
		assert.Equal(t, delivery.Assigned, d.Status())
		assert.Equal(t, seed.BobID, d.CourierID())
		require.NotNil(t, d.PickupEta())
		require.NotNil(t, d.DropoffEta())
		assert.Equal(t, 15*60.0, d.DropoffEta().Sub(*d.PickupEta()).Seconds())

		assert.Equal(t, int64(1), h.metrics.Get(metrics.PaymentsPaid))
		assert.Equal(t, int64(1), h.metrics.Get(metrics.DispatchAssignments))
		assert.Equal(t, []ports.OrderEventType{
			ports.OrderCreated, ports.PaymentStatusChanged, ports.OrderStatusChanged, ports.CourierAssigned,
		}, h.events.types())
	})

	t.Run("repeating_status_is_a_no_op", func(t *testing.T) {
		h := newHarness(t)
		id := h.placeDimSum(t, "")
		require.NoError(t, h.pay(t, id, payment.Paid))

		err := h.pay(t, id, payment.Paid)

		require.NoError(t, err)
		assert.Equal(t, int64(1), h.metrics.Get(metrics.PaymentsPaid))
	})

	t.Run("failed_payment_is_terminal", func(t *testing.T) {
		// given
		h := newHarness(t)
		id := h.placeDimSum(t, "")
		require.NoError(t, h.pay(t, id, payment.Failed))

		// when
		err := h.pay(t, id, payment.Paid)

		// then
		assert.ErrorIs(t, err, errs.ErrConflict)
		o := h.getOrder(t, id)
		assert.Equal(t, order.Created, o.Status())
		assert.Equal(t, payment.Failed, o.PayStatus())
		assert.Equal(t, int64(1), h.metrics.Get(metrics.PaymentsFailed))
	})

	t.Run("refund_requires_paid", func(t *testing.T) {
		h := newHarness(t)
		id := h.placeDimSum(t, "")

		err := h.pay(t, id, payment.Refunded)

		assert.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, payment.Pending, h.getPayment(t, id).Status())
	})

	t.Run("paid_without_couriers_defers_dispatch", func(t *testing.T) {
		// given
		h := newBareHarness(t)
		id := h.placeBare(t)

		// when
		err := h.pay(t, id, payment.Paid)

		// then
		require.NoError(t, err)
		assert.Equal(t, order.Confirmed, h.getOrder(t, id).Status())
		_, getErr := h.uow.Create().Deliveries().GetByOrder(context.Background(), id)
		assert.ErrorIs(t, getErr, errs.ErrObjectNotFound)
	})

	t.Run("unknown_order", func(t *testing.T) {
		h := newHarness(t)

		err := h.pay(t, kernel.NewUUID(), payment.Paid)

		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestDispatchPendingOrdersCommandHandler_Handle(t *testing.T) {
	ctx := context.Background()
	cmd, err := commands.NewDispatchPendingOrdersCommand(commands.DefaultDispatchBatchSize)
	require.NoError(t, err)

	t.Run("nothing_pending", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.dispatch.Handle(ctx, cmd)

		assert.ErrorIs(t, err, commands.ErrNoPendingOrders)
	})

	t.Run("assigns_once_a_courier_shows_up", func(t *testing.T) {
		// given
		h := newBareHarness(t)
		id := h.placeBare(t)
		require.NoError(t, h.pay(t, id, payment.Paid))

		_, err := h.dispatch.Handle(ctx, cmd)
		require.Error(t, err)

		h.addUser(t, courier(t, seed.CarolID, "Carol", seed.CarolHome))

		// when
		assigned, err := h.dispatch.Handle(ctx, cmd)

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, assigned)
		assert.Equal(t, seed.CarolID, h.getDelivery(t, id).CourierID())
		assert.Equal(t, order.Confirmed, h.getOrder(t, id).Status())

		_, err = h.dispatch.Handle(ctx, cmd)
		assert.ErrorIs(t, err, commands.ErrNoPendingOrders)
	})

	t.Run("invalid_limit", func(t *testing.T) {
		_, err := commands.NewDispatchPendingOrdersCommand(0)

		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}
