package catalogrepo

import (
	"context"

	"fooddelivery/internal/adapters/out/postgres/pgtypes"
	"fooddelivery/internal/core/domain/model/catalog"
	"fooddelivery/internal/core/domain/model/kernel"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRestaurantRepository implements ports.RestaurantRepository using GORM.
type GormRestaurantRepository struct {
	db *gorm.DB
}

// NewGormRestaurantRepository creates a new GORM restaurant repository.
func NewGormRestaurantRepository(db *gorm.DB) *GormRestaurantRepository {
	return &GormRestaurantRepository{db: db}
}

// Add saves a new restaurant.
func (r *GormRestaurantRepository) Add(ctx context.Context, rest *catalog.Restaurant) error {
	if err := rest.Validate(); err != nil {
		return err
	}
	dto := restaurantFromDomain(rest)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgtypes.MapDuplicate(err, "restaurant", rest.ID().String())
	}
	return nil
}

// Get retrieves a restaurant by ID.
func (r *GormRestaurantRepository) Get(ctx context.Context, id kernel.UUID) (*catalog.Restaurant, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	var dto RestaurantDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgtypes.MapNotFound(err, "restaurant", id.String())
	}
	return restaurantToDomain(dto)
}

// List returns every restaurant ordered by name.
func (r *GormRestaurantRepository) List(ctx context.Context) ([]*catalog.Restaurant, error) {
	var dtos []RestaurantDTO
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&dtos).Error; err != nil {
		return nil, err
	}
	out := make([]*catalog.Restaurant, 0, len(dtos))
	for _, dto := range dtos {
		rest, err := restaurantToDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, rest)
	}
	return out, nil
}

// GormMenuItemRepository implements ports.MenuItemRepository using GORM.
type GormMenuItemRepository struct {
	db *gorm.DB
}

// NewGormMenuItemRepository creates a new GORM menu item repository.
func NewGormMenuItemRepository(db *gorm.DB) *GormMenuItemRepository {
	return &GormMenuItemRepository{db: db}
}

// Add saves a new menu item.
func (r *GormMenuItemRepository) Add(ctx context.Context, m *catalog.MenuItem) error {
	if err := m.Validate(); err != nil {
		return err
	}
	dto := menuItemFromDomain(m)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgtypes.MapDuplicate(err, "menuItem", m.ID().String())
	}
	return nil
}

// Update saves a changed menu item.
func (r *GormMenuItemRepository) Update(ctx context.Context, m *catalog.MenuItem) error {
	if err := m.Validate(); err != nil {
		return err
	}
	dto := menuItemFromDomain(m)
	result := r.db.WithContext(ctx).Model(&MenuItemDTO{}).Where("id = ?", dto.ID).
		Select("name", "price", "options", "stock").
		Updates(&dto)
	return pgtypes.RequireRow(result, "menuItem", m.ID().String())
}

// Get retrieves a menu item and locks its row, so concurrent reservations of the
// same dish queue up behind each other.
func (r *GormMenuItemRepository) Get(ctx context.Context, id kernel.UUID) (*catalog.MenuItem, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	var dto MenuItemDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		return nil, pgtypes.MapNotFound(err, "menuItem", id.String())
	}
	return menuItemToDomain(dto)
}

// ListByRestaurant returns the menu of a restaurant ordered by name.
func (r *GormMenuItemRepository) ListByRestaurant(ctx context.Context, restaurantID kernel.UUID) ([]*catalog.MenuItem, error) {
	var dtos []MenuItemDTO
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID.Bytes()).
		Order("name ASC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	out := make([]*catalog.MenuItem, 0, len(dtos))
	for _, dto := range dtos {
		m, err := menuItemToDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
