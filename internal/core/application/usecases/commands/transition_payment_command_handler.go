package commands

import (
	"context"
	"errors"
	"log/slog"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/metrics"
)

// TransitionPaymentCommandHandler moves the payment of an order and mirrors the
// result on the order. A payment that becomes PAID while the order is CREATED
// confirms the order and dispatches a courier.
//
// When no courier is available the payment still succeeds; the order stays
// CONFIRMED without a delivery and the dispatch retry job picks it up later.
// Repeating the current status is a no-op.
type TransitionPaymentCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	dispatcher services.CourierDispatcher
	newTxnID   payment.TxnIDGenerator
	effects    *Effects
	logger     *slog.Logger
}

func NewTransitionPaymentCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	newTxnID payment.TxnIDGenerator,
	effects *Effects,
	logger *slog.Logger,
) TransitionPaymentCommandHandler {
	if newTxnID == nil {
		newTxnID = payment.RandomTxnID
	}
	if logger == nil {
		logger = slog.Default()
	}
	return TransitionPaymentCommandHandler{
		uowFactory: uowFactory,
		dispatcher: services.NewCourierDispatcher(),
		newTxnID:   newTxnID,
		effects:    effects,
		logger:     logger.With("component", "transition-payment"),
	}
}

func (h TransitionPaymentCommandHandler) Handle(ctx context.Context, cmd TransitionPaymentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	at := now()
	ob := &outbox{}

	o, err := uow.Orders().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	pay, err := uow.Payments().GetByOrder(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	changed, err := pay.UpdateStatus(cmd.Next(), at, h.newTxnID)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err = uow.Payments().Update(ctx, pay); err != nil {
		return err
	}
	if err = o.SetPayStatus(pay.Status(), at); err != nil {
		return err
	}
	ob.event(ports.PaymentStatusChanged, o, at)

	switch pay.Status() { //nolint:exhaustive // only settlement outcomes are counted
	case payment.Paid:
		ob.count(metrics.PaymentsPaid)
	case payment.Failed:
		ob.count(metrics.PaymentsFailed)
	}

	if pay.Status() == payment.Paid && o.Status() == order.Created {
		if err = o.TransitionTo(order.Confirmed, at); err != nil {
			return err
		}
		ob.event(ports.OrderStatusChanged, o, at)

		_, _, err = ensureDelivery(ctx, uow, h.dispatcher, o, at, ob)
		switch {
		case errors.Is(err, services.ErrCourierNotFound):
			h.logger.Warn("no courier available, dispatch deferred", "orderId", o.ID().String(), "error", err)
		case err != nil:
			return err
		}
	}

	if err = uow.Orders().Update(ctx, o); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.effects.flush(ctx, ob)
	return nil
}
