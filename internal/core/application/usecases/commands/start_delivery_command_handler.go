package commands

import (
	"context"

	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
)

// StartDeliveryCommandHandler starts tracking. It is idempotent: every call puts the
// delivery and the order into DELIVERING and emits the current position, but only the
// first call creates the tracking timer.
//
// Returns an ObjectNotFoundError when the order has no delivery yet.
type StartDeliveryCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	scheduler  ports.TrackingScheduler
	planner    services.RoutePlanner
	effects    *Effects
}

func NewStartDeliveryCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	scheduler ports.TrackingScheduler,
	planner services.RoutePlanner,
	effects *Effects,
) StartDeliveryCommandHandler {
	return StartDeliveryCommandHandler{
		uowFactory: uowFactory,
		scheduler:  scheduler,
		planner:    planner,
		effects:    effects,
	}
}

func (h StartDeliveryCommandHandler) Handle(ctx context.Context, cmd StartDeliveryCommand) error {
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

	d, err := uow.Deliveries().GetByOrder(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	o, err := uow.Orders().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = beginTracking(ctx, uow, h.planner, o, d, at, ob); err != nil {
		return err
	}
	if err = uow.Deliveries().Update(ctx, d); err != nil {
		return err
	}
	if err = uow.Orders().Update(ctx, o); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.effects.flush(ctx, ob)
	return h.effects.startTracking(h.scheduler, o.ID())
}
