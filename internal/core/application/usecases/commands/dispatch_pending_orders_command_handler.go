package commands

import (
	"context"
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
)

// ErrNoPendingOrders is returned when every confirmed order already has a courier.
var ErrNoPendingOrders = errors.New("no confirmed orders without a courier")

// DispatchPendingOrdersCommandHandler retries dispatch for confirmed orders without a
// delivery. Every order is dispatched in its own unit of work, so one failure does
// not hold back the others.
//
// Example:
//
//	handler := NewDispatchPendingOrdersCommandHandler(uowFactory, effects)
//	cmd, _ := NewDispatchPendingOrdersCommand(DefaultDispatchBatchSize)
//	assigned, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrNoPendingOrders):
//	    // nothing to do
//	case errors.Is(err, services.ErrCourierNotFound):
//	    // still no courier at all
//	}
type DispatchPendingOrdersCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	dispatcher services.CourierDispatcher
	effects    *Effects
}

func NewDispatchPendingOrdersCommandHandler(uowFactory ports.UnitOfWorkFactory, effects *Effects) DispatchPendingOrdersCommandHandler {
	return DispatchPendingOrdersCommandHandler{
		uowFactory: uowFactory,
		dispatcher: services.NewCourierDispatcher(),
		effects:    effects,
	}
}

// Handle returns the number of orders that got a courier. It stops at the first
// failure and returns it together with the count so far.
func (h DispatchPendingOrdersCommandHandler) Handle(ctx context.Context, cmd DispatchPendingOrdersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	pending, err := h.uowFactory.Create().Orders().ListConfirmedWithoutDelivery(ctx, cmd.Limit())
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, ErrNoPendingOrders
	}

	assigned := 0
	for _, o := range pending {
		created, dispatchErr := h.dispatch(ctx, o.ID())
		if dispatchErr != nil {
			return assigned, dispatchErr
		}
		if created {
			assigned++
		}
	}
	return assigned, nil
}

func (h DispatchPendingOrdersCommandHandler) dispatch(ctx context.Context, orderID kernel.UUID) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	at := now()
	ob := &outbox{}

	o, err := uow.Orders().Get(ctx, orderID)
	if err != nil {
		return false, err
	}
	if o.Status() != order.Confirmed {
		return false, nil
	}

	_, created, err := ensureDelivery(ctx, uow, h.dispatcher, o, at, ob)
	if err != nil {
		return false, err
	}
	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	h.effects.flush(ctx, ob)
	return created, nil
}
