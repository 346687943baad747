package queries

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
)

type ListOrdersQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewListOrdersQueryHandler(uowFactory ports.UnitOfWorkFactory) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{uowFactory: uowFactory}
}

// Handle returns the matching orders without payment and delivery details.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	views := make([]OrderView, 0)
	err := read(ctx, h.uowFactory, func(uow ports.UnitOfWork) error {
		orders, err := uow.Orders().List(ctx)
		if err != nil {
			return err
		}

		names := make(map[kernel.UUID]map[kernel.UUID]string)
		for _, o := range orders {
			if len(views) == query.limit {
				break
			}
			if !query.matches(o) {
				continue
			}
			menu, ok := names[o.RestaurantID()]
			if !ok {
				if menu, err = menuNames(ctx, uow, o.RestaurantID()); err != nil {
					return err
				}
				names[o.RestaurantID()] = menu
			}
			views = append(views, orderView(o, menu))
		}
		return nil
	})
	return views, err
}
