// Package couponrepo persists promotion codes with GORM.
package couponrepo

import (
	"time"

	"fooddelivery/internal/adapters/out/postgres/pgtypes"
	"fooddelivery/internal/core/domain/model/coupon"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CouponDTO represents the database structure for coupons. Code holds the
// normalized, upper-cased form and is unique.
type CouponDTO struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code           string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	Type           string          `gorm:"type:varchar(16);not null"`
	Value          decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ValidFrom      *time.Time
	ValidTo        *time.Time
	UsageLimit     int             `gorm:"type:int;not null"`
	UsedCount      int             `gorm:"type:int;not null"`
	RestaurantID   *uuid.UUID      `gorm:"type:uuid"`
	MinOrderAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Active         bool            `gorm:"not null"`
	CreatedAt      time.Time       `gorm:"not null"`
}

// TableName specifies the database table name for coupons.
func (CouponDTO) TableName() string {
	return "coupons"
}

func fromDomain(c *coupon.Coupon) CouponDTO {
	terms := c.Terms()
	return CouponDTO{
		ID:             c.ID().Bytes(),
		Code:           c.Code(),
		Type:           string(c.Type()),
		Value:          c.Value(),
		ValidFrom:      terms.ValidFrom,
		ValidTo:        terms.ValidTo,
		UsageLimit:     terms.UsageLimit,
		UsedCount:      c.UsedCount(),
		RestaurantID:   pgtypes.FromUUIDPtr(terms.RestaurantID),
		MinOrderAmount: terms.MinOrderAmount,
		Active:         c.Active(),
		CreatedAt:      c.CreatedAt(),
	}
}

func toDomain(dto CouponDTO) (*coupon.Coupon, error) {
	id, err := pgtypes.ToUUID(dto.ID)
	if err != nil {
		return nil, err
	}
	kind, err := coupon.ParseType(dto.Type)
	if err != nil {
		return nil, err
	}
	restaurantID, err := pgtypes.ToUUIDPtr(dto.RestaurantID)
	if err != nil {
		return nil, err
	}
	terms := coupon.Terms{
		ValidFrom:      dto.ValidFrom,
		ValidTo:        dto.ValidTo,
		UsageLimit:     dto.UsageLimit,
		RestaurantID:   restaurantID,
		MinOrderAmount: dto.MinOrderAmount,
	}
	return coupon.RestoreCoupon(id, dto.Code, kind, dto.Value, terms, dto.UsedCount, dto.Active, dto.CreatedAt)
}
