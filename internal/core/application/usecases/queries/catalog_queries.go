package queries

import (
	"context"
	"errors"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var (
	ErrListRestaurantsQueryIsNotConstructed = errors.New(
		"ListRestaurantsQuery must be created via NewListRestaurantsQuery constructor",
	)
	ErrGetMenuQueryIsNotConstructed       = errors.New("GetMenuQuery must be created via NewGetMenuQuery constructor")
	ErrGetRestaurantQueryIsNotConstructed = errors.New(
		"GetRestaurantQuery must be created via NewGetRestaurantQuery constructor",
	)
)

// ListRestaurantsQuery lists restaurants by name, optionally in one city.
type ListRestaurantsQuery struct { //nolint:recvcheck //using for validation
	city string

	guard guard.ConstructorGuard
}

func NewListRestaurantsQuery(city string) ListRestaurantsQuery {
	return ListRestaurantsQuery{city: strings.ToUpper(strings.TrimSpace(city)), guard: guard.NewConstructorGuard()}
}

func (q ListRestaurantsQuery) Validate() error {
	return q.guard.Validate(ErrListRestaurantsQueryIsNotConstructed)
}

// GetMenuQuery fetches a restaurant with its menu.
type GetMenuQuery struct { //nolint:recvcheck //using for validation
	restaurantID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetMenuQuery(restaurantID kernel.UUID) (GetMenuQuery, error) {
	if err := restaurantID.Validate(); err != nil {
		return GetMenuQuery{}, errs.NewValueIsRequiredErrorWithCause("restaurantId", err)
	}
	return GetMenuQuery{restaurantID: restaurantID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetMenuQuery) Validate() error {
	return q.guard.Validate(ErrGetMenuQueryIsNotConstructed)
}

// GetRestaurantQuery fetches a restaurant profile with its menu embedded.
type GetRestaurantQuery struct { //nolint:recvcheck //using for validation
	restaurantID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetRestaurantQuery(restaurantID kernel.UUID) (GetRestaurantQuery, error) {
	if err := restaurantID.Validate(); err != nil {
		return GetRestaurantQuery{}, errs.NewValueIsRequiredErrorWithCause("restaurantId", err)
	}
	return GetRestaurantQuery{restaurantID: restaurantID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetRestaurantQuery) Validate() error {
	return q.guard.Validate(ErrGetRestaurantQueryIsNotConstructed)
}

// RestaurantDetailView is a restaurant profile with its menu.
type RestaurantDetailView struct {
	RestaurantView
	Menu []MenuItemView `json:"menu"`
}

// MenuView is a restaurant together with its dishes.
type MenuView struct {
	Restaurant RestaurantView `json:"restaurant"`
	Items      []MenuItemView `json:"items"`
}

// CatalogQueryHandler serves the catalog reads.
type CatalogQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewCatalogQueryHandler(uowFactory ports.UnitOfWorkFactory) CatalogQueryHandler {
	return CatalogQueryHandler{uowFactory: uowFactory}
}

func (h CatalogQueryHandler) ListRestaurants(ctx context.Context, query ListRestaurantsQuery) ([]RestaurantView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	views := make([]RestaurantView, 0)
	err := read(ctx, h.uowFactory, func(uow ports.UnitOfWork) error {
		restaurants, err := uow.Restaurants().List(ctx)
		if err != nil {
			return err
		}
		for _, r := range restaurants {
			if query.city != "" && r.City() != query.city {
				continue
			}
			views = append(views, restaurantView(r))
		}
		return nil
	})
	return views, err
}

func (h CatalogQueryHandler) GetMenu(ctx context.Context, query GetMenuQuery) (MenuView, error) {
	if err := query.Validate(); err != nil {
		return MenuView{}, err
	}

	var view MenuView
	err := read(ctx, h.uowFactory, func(uow ports.UnitOfWork) error {
		var err error
		view.Restaurant, view.Items, err = loadMenu(ctx, uow, query.restaurantID)
		return err
	})
	return view, err
}

func (h CatalogQueryHandler) GetRestaurant(ctx context.Context, query GetRestaurantQuery) (RestaurantDetailView, error) {
	if err := query.Validate(); err != nil {
		return RestaurantDetailView{}, err
	}

	var view RestaurantDetailView
	err := read(ctx, h.uowFactory, func(uow ports.UnitOfWork) error {
		var err error
		view.RestaurantView, view.Menu, err = loadMenu(ctx, uow, query.restaurantID)
		return err
	})
	return view, err
}

func loadMenu(ctx context.Context, uow ports.UnitOfWork, restaurantID kernel.UUID) (RestaurantView, []MenuItemView, error) {
	r, err := uow.Restaurants().Get(ctx, restaurantID)
	if err != nil {
		return RestaurantView{}, nil, err
	}
	items, err := uow.MenuItems().ListByRestaurant(ctx, r.ID())
	if err != nil {
		return RestaurantView{}, nil, err
	}

	views := make([]MenuItemView, 0, len(items))
	for _, m := range items {
		views = append(views, menuItemView(m))
	}
	return restaurantView(r), views, nil
}
