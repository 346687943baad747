package queries

import (
	"context"

	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
)

type GetOrderQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetOrderQueryHandler(uowFactory ports.UnitOfWorkFactory) GetOrderQueryHandler {
	return GetOrderQueryHandler{uowFactory: uowFactory}
}

// Handle returns the order read model or an ObjectNotFoundError.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	var view OrderView
	err := read(ctx, h.uowFactory, func(uow ports.UnitOfWork) error {
		o, err := uow.Orders().Get(ctx, query.OrderID())
		if err != nil {
			return err
		}
		view, err = detailedOrderView(ctx, uow, o)
		return err
	})
	return view, err
}

func detailedOrderView(ctx context.Context, uow ports.UnitOfWork, o *order.Order) (OrderView, error) {
	names, err := menuNames(ctx, uow, o.RestaurantID())
	if err != nil {
		return OrderView{}, err
	}
	view := orderView(o, names)

	restaurant, found, err := optional(uow.Restaurants().Get(ctx, o.RestaurantID()))
	if err != nil {
		return OrderView{}, err
	}
	if found {
		view.RestaurantName = restaurant.Name()
	}

	p, found, err := optional(uow.Payments().GetByOrder(ctx, o.ID()))
	if err != nil {
		return OrderView{}, err
	}
	if found {
		view.Payment = paymentView(p)
	}

	d, found, err := optional(uow.Deliveries().GetByOrder(ctx, o.ID()))
	if err != nil {
		return OrderView{}, err
	}
	if found {
		view.Delivery, err = detailedDeliveryView(ctx, uow, d)
		if err != nil {
			return OrderView{}, err
		}
	}
	return view, nil
}

func menuNames(ctx context.Context, uow ports.UnitOfWork, restaurantID kernel.UUID) (map[kernel.UUID]string, error) {
	items, err := uow.MenuItems().ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	names := make(map[kernel.UUID]string, len(items))
	for _, m := range items {
		names[m.ID()] = m.Name()
	}
	return names, nil
}

func detailedDeliveryView(ctx context.Context, uow ports.UnitOfWork, d *delivery.Delivery) (*DeliveryView, error) {
	view := deliveryView(d)

	courier, found, err := optional(uow.Users().Get(ctx, d.CourierID()))
	if err != nil {
		return nil, err
	}
	if found {
		view.CourierName = courier.Name()
	}

	loc, found, err := optional(uow.CourierLocations().Get(ctx, d.CourierID()))
	if err != nil {
		return nil, err
	}
	if found {
		view.Location = &CourierLocationView{Point: pointOf(loc.Point()), RecordedAt: loc.RecordedAt()}
	}
	return view, nil
}
