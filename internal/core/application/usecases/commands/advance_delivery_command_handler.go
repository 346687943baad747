package commands

import (
	"context"

	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
)

// AdvanceDeliveryCommandHandler moves the simulated courier one waypoint forward.
//
// Each tick overwrites the courier location, refreshes the order ETA
// (remaining waypoints × services.MinutesPerStep) and emits a tracking update. The
// tick after the last waypoint completes the delivery, marks the order DELIVERED and
// emits a final update with ETA 0.
//
// Handle reports finished=true once there is nothing left to simulate: the delivery
// was completed by this tick or is no longer DELIVERING (finished, failed or never
// started). The scheduler stops the timer on finished.
type AdvanceDeliveryCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	effects    *Effects
}

func NewAdvanceDeliveryCommandHandler(uowFactory ports.UnitOfWorkFactory, effects *Effects) AdvanceDeliveryCommandHandler {
	return AdvanceDeliveryCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
	}
}

func (h AdvanceDeliveryCommandHandler) Handle(ctx context.Context, cmd AdvanceDeliveryCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	at := now()
	ob := &outbox{}

	d, err := uow.Deliveries().GetByOrder(ctx, cmd.OrderID())
	if err != nil {
		return false, err
	}
	if d.Status() != delivery.Delivering || !d.HasRoute() {
		return true, nil
	}
	o, err := uow.Orders().Get(ctx, cmd.OrderID())
	if err != nil {
		return false, err
	}
	if o.Status() != order.Delivering {
		return true, nil
	}

	step, err := d.Advance()
	if err != nil {
		return false, err
	}

	var loc delivery.CourierLocation
	if step.Done {
		if _, err = d.Complete(at); err != nil {
			return false, err
		}
		if err = o.MarkDelivered(at); err != nil {
			return false, err
		}
		route := d.Route()
		loc, err = delivery.NewCourierLocation(d.CourierID(), route[len(route)-1], at)
		if err != nil {
			return false, err
		}
		ob.update(delivery.NewTrackingUpdate(d, loc, 0, at))
		ob.event(ports.OrderStatusChanged, o, at)
		ob.event(ports.DeliveryCompleted, o, at)
	} else {
		eta := services.EtaForRemaining(step.Remaining)
		if err = o.UpdateEta(eta, at); err != nil {
			return false, err
		}
		loc, err = delivery.NewCourierLocation(d.CourierID(), step.Point, at)
		if err != nil {
			return false, err
		}
		ob.update(delivery.NewTrackingUpdate(d, loc, eta, at))
	}

	if err = uow.CourierLocations().Save(ctx, loc); err != nil {
		return false, err
	}
	if err = uow.Deliveries().Update(ctx, d); err != nil {
		return false, err
	}
	if err = uow.Orders().Update(ctx, o); err != nil {
		return false, err
	}
	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	h.effects.flush(ctx, ob)
	return step.Done, nil
}
