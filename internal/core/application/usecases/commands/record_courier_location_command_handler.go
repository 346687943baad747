package commands

import (
	"context"
	"fmt"

	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/user"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// RecordCourierLocationCommandHandler overwrites the last known location of a courier.
// The next dispatch scores the courier from there.
type RecordCourierLocationCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewRecordCourierLocationCommandHandler(uowFactory ports.UnitOfWorkFactory) RecordCourierLocationCommandHandler {
	return RecordCourierLocationCommandHandler{uowFactory: uowFactory}
}

func (h RecordCourierLocationCommandHandler) Handle(ctx context.Context, cmd RecordCourierLocationCommand) error {
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

	courier, err := uow.Users().Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}
	if !courier.HasRole(user.RoleCourier) {
		return errs.NewValueIsInvalidErrorWithCause("courierId",
			fmt.Errorf("user %s is a %s, not a courier", courier.ID(), courier.Role()))
	}

	loc, err := delivery.NewCourierLocation(courier.ID(), cmd.Point(), now())
	if err != nil {
		return err
	}
	if err = uow.CourierLocations().Save(ctx, loc); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
