// Package catalogrepo persists restaurants and their menus with GORM.
package catalogrepo

import (
	"fooddelivery/internal/adapters/out/postgres/pgtypes"
	"fooddelivery/internal/core/domain/model/catalog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RestaurantDTO represents the database structure for restaurants.
type RestaurantDTO struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Name      string           `gorm:"type:varchar(255);not null;index"`
	Location  pgtypes.PointDTO `gorm:"embedded;embeddedPrefix:location_"`
	Rating    float64          `gorm:"type:double precision;not null"`
	OpenHours string           `gorm:"type:varchar(64)"`
	IsOpen    bool             `gorm:"not null"`
	City      string           `gorm:"type:varchar(64);index"`
}

// TableName specifies the database table name for restaurants.
func (RestaurantDTO) TableName() string {
	return "restaurants"
}

// MenuItemDTO represents the database structure for menu items and their stock.
type MenuItemDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RestaurantID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name         string          `gorm:"type:varchar(255);not null"`
	Price        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Options      map[string]any  `gorm:"type:jsonb;serializer:json"`
	Stock        int             `gorm:"type:int;not null;check:stock >= 0"`
}

// TableName specifies the database table name for menu items.
func (MenuItemDTO) TableName() string {
	return "menu_items"
}

func restaurantFromDomain(r *catalog.Restaurant) RestaurantDTO {
	return RestaurantDTO{
		ID:        r.ID().Bytes(),
		Name:      r.Name(),
		Location:  pgtypes.FromPoint(r.Location()),
		Rating:    r.Rating(),
		OpenHours: r.OpenHours(),
		IsOpen:    r.IsOpen(),
		City:      r.City(),
	}
}

func restaurantToDomain(dto RestaurantDTO) (*catalog.Restaurant, error) {
	id, err := pgtypes.ToUUID(dto.ID)
	if err != nil {
		return nil, err
	}
	location, err := dto.Location.ToDomain()
	if err != nil {
		return nil, err
	}
	return catalog.NewRestaurant(id, dto.Name, location, dto.Rating, dto.OpenHours, dto.IsOpen, dto.City)
}

func menuItemFromDomain(m *catalog.MenuItem) MenuItemDTO {
	return MenuItemDTO{
		ID:           m.ID().Bytes(),
		RestaurantID: m.RestaurantID().Bytes(),
		Name:         m.Name(),
		Price:        m.Price(),
		Options:      m.Options(),
		Stock:        m.Stock(),
	}
}

func menuItemToDomain(dto MenuItemDTO) (*catalog.MenuItem, error) {
	id, err := pgtypes.ToUUID(dto.ID)
	if err != nil {
		return nil, err
	}
	restaurantID, err := pgtypes.ToUUID(dto.RestaurantID)
	if err != nil {
		return nil, err
	}
	return catalog.NewMenuItem(id, restaurantID, dto.Name, dto.Price, dto.Options, dto.Stock)
}
