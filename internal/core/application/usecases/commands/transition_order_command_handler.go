package commands

import (
	"context"
	"errors"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// TransitionOrderCommandHandler drives the order state machine and its side effects:
//
//   - DELIVERING: the ETA becomes the fixed horizon, a courier is assigned if needed
//     and tracking starts
//   - DELIVERED: tracking stops and the delivery is completed
//   - CANCELLED or REFUNDED: every item goes back to stock
//   - CANCELLED or FAILED: tracking stops and an unfinished delivery fails
//
// An edge outside the transition table returns a ConflictError and changes nothing.
type TransitionOrderCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	scheduler  ports.TrackingScheduler
	dispatcher services.CourierDispatcher
	planner    services.RoutePlanner
	effects    *Effects
}

func NewTransitionOrderCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	scheduler ports.TrackingScheduler,
	planner services.RoutePlanner,
	effects *Effects,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		scheduler:  scheduler,
		dispatcher: services.NewCourierDispatcher(),
		planner:    planner,
		effects:    effects,
	}
}

func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) error {
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
	if err = o.TransitionTo(cmd.Next(), at); err != nil {
		return err
	}
	ob.event(ports.OrderStatusChanged, o, at)

	var startTimer, stopTimer bool
	switch next := o.Status(); next { //nolint:exhaustive // remaining statuses have no side effects
	case order.Delivering:
		d, _, deliveryErr := ensureDelivery(ctx, uow, h.dispatcher, o, at, ob)
		if deliveryErr != nil {
			return deliveryErr
		}
		if err = beginTracking(ctx, uow, h.planner, o, d, at, ob); err != nil {
			return err
		}
		if err = uow.Deliveries().Update(ctx, d); err != nil {
			return err
		}
		startTimer = true

	case order.Delivered:
		d, getErr := uow.Deliveries().GetByOrder(ctx, o.ID())
		switch {
		case getErr == nil:
			completed, completeErr := d.Complete(at)
			if completeErr != nil {
				return completeErr
			}
			if completed {
				if err = uow.Deliveries().Update(ctx, d); err != nil {
					return err
				}
				ob.event(ports.DeliveryCompleted, o, at)
			}
		case !errors.Is(getErr, errs.ErrObjectNotFound):
			return getErr
		}
		stopTimer = true

	case order.Cancelled, order.Failed:
		if _, err = stopDelivery(ctx, uow, o); err != nil {
			return err
		}
		stopTimer = true
	}

	if o.Status().RestoresStock() {
		if err = restoreStock(ctx, uow, o); err != nil {
			return err
		}
	}

	if err = uow.Orders().Update(ctx, o); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if stopTimer {
		h.scheduler.Stop(o.ID())
	}
	h.effects.flush(ctx, ob)
	if startTimer {
		return h.effects.startTracking(h.scheduler, o.ID())
	}
	return nil
}

