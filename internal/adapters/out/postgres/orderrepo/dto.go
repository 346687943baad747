// Package orderrepo persists order aggregates and their items with GORM.
package orderrepo

import (
	"time"

	"fooddelivery/internal/adapters/out/postgres/pgtypes"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Statuses are stored by name so the table reads the same as the API.
type OrderDTO struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID        `gorm:"type:uuid;not null;index"`
	RestaurantID   uuid.UUID        `gorm:"type:uuid;not null"`
	GroupOrderID   *uuid.UUID       `gorm:"type:uuid;index"`
	Status         string           `gorm:"type:varchar(32);not null;index"`
	PayStatus      string           `gorm:"type:varchar(32);not null"`
	Total          decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	DiscountAmount decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	CouponCode     string           `gorm:"type:varchar(64)"`
	EtaMinutes     *int             `gorm:"type:int"`
	Dropoff        pgtypes.PointDTO `gorm:"embedded;embeddedPrefix:dropoff_"`
	Items          []ItemDTO        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time        `gorm:"not null;index"`
	UpdatedAt      time.Time        `gorm:"not null"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is one line of an order. Position keeps the checkout order of the lines.
type ItemDTO struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position   int             `gorm:"type:int;not null"`
	MenuItemID uuid.UUID       `gorm:"type:uuid;not null"`
	Qty        int             `gorm:"type:int;not null"`
	Price      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Options    map[string]any  `gorm:"type:jsonb;serializer:json"`
}

// TableName specifies the database table name for order items.
func (ItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	orderID := o.ID().Bytes()
	items := make([]ItemDTO, 0, len(o.Items()))
	for i, it := range o.Items() {
		items = append(items, ItemDTO{
			ID:         it.ID().Bytes(),
			OrderID:    orderID,
			Position:   i,
			MenuItemID: it.MenuItemID().Bytes(),
			Qty:        it.Qty(),
			Price:      it.Price(),
			Options:    it.Options(),
		})
	}

	return OrderDTO{
		ID:             orderID,
		UserID:         o.UserID().Bytes(),
		RestaurantID:   o.RestaurantID().Bytes(),
		GroupOrderID:   pgtypes.FromUUIDPtr(o.GroupOrderID()),
		Status:         o.Status().String(),
		PayStatus:      o.PayStatus().String(),
		Total:          o.Total(),
		DiscountAmount: o.DiscountAmount(),
		CouponCode:     o.CouponCode(),
		EtaMinutes:     o.EtaMinutes(),
		Dropoff:        pgtypes.FromPoint(o.Dropoff()),
		Items:          items,
		CreatedAt:      o.CreatedAt(),
		UpdatedAt:      o.UpdatedAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := pgtypes.ToUUID(dto.ID)
	if err != nil {
		return nil, err
	}
	userID, err := pgtypes.ToUUID(dto.UserID)
	if err != nil {
		return nil, err
	}
	restaurantID, err := pgtypes.ToUUID(dto.RestaurantID)
	if err != nil {
		return nil, err
	}
	groupOrderID, err := pgtypes.ToUUIDPtr(dto.GroupOrderID)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	payStatus, err := payment.ParseStatus(dto.PayStatus)
	if err != nil {
		return nil, err
	}
	dropoff, err := dto.Dropoff.ToDomain()
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, itemDto := range dto.Items {
		item, itemErr := itemToDomain(itemDto)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.Snapshot{
		ID:             id,
		UserID:         userID,
		RestaurantID:   restaurantID,
		GroupOrderID:   groupOrderID,
		Status:         status,
		PayStatus:      payStatus,
		Total:          dto.Total,
		DiscountAmount: dto.DiscountAmount,
		CouponCode:     dto.CouponCode,
		EtaMinutes:     dto.EtaMinutes,
		Items:          items,
		Dropoff:        dropoff,
		CreatedAt:      dto.CreatedAt,
		UpdatedAt:      dto.UpdatedAt,
	})
}

func itemToDomain(dto ItemDTO) (*order.Item, error) {
	id, err := pgtypes.ToUUID(dto.ID)
	if err != nil {
		return nil, err
	}
	menuItemID, err := pgtypes.ToUUID(dto.MenuItemID)
	if err != nil {
		return nil, err
	}
	return order.NewItem(id, menuItemID, dto.Qty, dto.Price, dto.Options)
}
