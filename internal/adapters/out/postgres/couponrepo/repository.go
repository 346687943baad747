package couponrepo

import (
	"context"

	"fooddelivery/internal/adapters/out/postgres/pgtypes"
	"fooddelivery/internal/core/domain/model/coupon"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCouponRepository implements ports.CouponRepository using GORM.
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GORM coupon repository.
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// Add saves a new coupon. A duplicate code is a conflict.
func (r *GormCouponRepository) Add(ctx context.Context, c *coupon.Coupon) error {
	if err := c.Validate(); err != nil {
		return err
	}
	dto := fromDomain(c)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgtypes.MapDuplicate(err, "coupon", c.Code())
	}
	return nil
}

// Update saves the usage counter and active flag of a coupon.
func (r *GormCouponRepository) Update(ctx context.Context, c *coupon.Coupon) error {
	if err := c.Validate(); err != nil {
		return err
	}
	dto := fromDomain(c)
	result := r.db.WithContext(ctx).Model(&CouponDTO{}).Where("id = ?", dto.ID).
		Select("used_count", "active").
		Updates(&dto)
	return pgtypes.RequireRow(result, "coupon", c.Code())
}

// GetByCode looks a coupon up case-insensitively and locks its row, so two
// checkouts cannot both take the last use.
func (r *GormCouponRepository) GetByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	normalized := coupon.NormalizeCode(code)
	var dto CouponDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "code = ?", normalized).Error
	if err != nil {
		return nil, pgtypes.MapNotFound(err, "coupon", normalized)
	}
	return toDomain(dto)
}

// List returns every coupon ordered by code.
func (r *GormCouponRepository) List(ctx context.Context) ([]*coupon.Coupon, error) {
	var dtos []CouponDTO
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&dtos).Error; err != nil {
		return nil, err
	}
	out := make([]*coupon.Coupon, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
