package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/catalog"
	"fooddelivery/internal/core/domain/model/kernel"
)

// RestaurantRepository stores restaurants.
type RestaurantRepository interface {
	Add(ctx context.Context, r *catalog.Restaurant) error
	Get(ctx context.Context, id kernel.UUID) (*catalog.Restaurant, error)
	// List returns every restaurant ordered by name.
	List(ctx context.Context) ([]*catalog.Restaurant, error)
}

// MenuItemRepository stores menu items and their stock counters.
type MenuItemRepository interface {
	Add(ctx context.Context, m *catalog.MenuItem) error
	// Update persists a changed menu item, typically its stock.
	Update(ctx context.Context, m *catalog.MenuItem) error
	// Get returns a menu item. Inside a unit of work the row stays locked until
	// commit or rollback, which makes read-modify-write of the stock atomic.
	Get(ctx context.Context, id kernel.UUID) (*catalog.MenuItem, error)
	// ListByRestaurant returns the menu of a restaurant ordered by name.
	ListByRestaurant(ctx context.Context, restaurantID kernel.UUID) ([]*catalog.MenuItem, error)
}
