package queries

import (
	"context"
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrGetDeliveryQueryIsNotConstructed = errors.New("GetDeliveryQuery must be created via NewGetDeliveryQuery constructor")

// GetDeliveryQuery fetches the delivery of an order with the courier position.
type GetDeliveryQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetDeliveryQuery(orderID kernel.UUID) (GetDeliveryQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetDeliveryQuery{}, errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	return GetDeliveryQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDeliveryQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryQueryIsNotConstructed)
}

type GetDeliveryQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetDeliveryQueryHandler(uowFactory ports.UnitOfWorkFactory) GetDeliveryQueryHandler {
	return GetDeliveryQueryHandler{uowFactory: uowFactory}
}

// Handle returns an ObjectNotFoundError while no courier is assigned.
func (h GetDeliveryQueryHandler) Handle(ctx context.Context, query GetDeliveryQuery) (DeliveryView, error) {
	if err := query.Validate(); err != nil {
		return DeliveryView{}, err
	}

	var view DeliveryView
	err := read(ctx, h.uowFactory, func(uow ports.UnitOfWork) error {
		d, err := uow.Deliveries().GetByOrder(ctx, query.orderID)
		if err != nil {
			return err
		}
		detailed, err := detailedDeliveryView(ctx, uow, d)
		if err != nil {
			return err
		}
		view = *detailed
		return nil
	})
	return view, err
}
