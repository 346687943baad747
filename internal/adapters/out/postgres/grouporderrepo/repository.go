package grouporderrepo

import (
	"context"

	"fooddelivery/internal/adapters/out/postgres/pgtypes"
	"fooddelivery/internal/core/domain/model/grouporder"
	"fooddelivery/internal/core/domain/model/kernel"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGroupOrderRepository implements ports.GroupOrderRepository using GORM.
type GormGroupOrderRepository struct {
	db *gorm.DB
}

// NewGormGroupOrderRepository creates a new GORM group order repository.
func NewGormGroupOrderRepository(db *gorm.DB) *GormGroupOrderRepository {
	return &GormGroupOrderRepository{db: db}
}

// Add saves a new group order.
func (r *GormGroupOrderRepository) Add(ctx context.Context, g *grouporder.GroupOrder) error {
	if err := g.Validate(); err != nil {
		return err
	}
	dto := fromDomain(g)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgtypes.MapDuplicate(err, "groupOrder", g.ID().String())
	}
	return nil
}

// Update saves the participants and status of a group order.
func (r *GormGroupOrderRepository) Update(ctx context.Context, g *grouporder.GroupOrder) error {
	if err := g.Validate(); err != nil {
		return err
	}
	dto := fromDomain(g)
	result := r.db.WithContext(ctx).Model(&GroupOrderDTO{}).Where("id = ?", dto.ID).
		Select("status", "participants", "updated_at").
		Updates(&dto)
	return pgtypes.RequireRow(result, "groupOrder", g.ID().String())
}

// Get retrieves a group order and locks its row, so participants adding lines
// concurrently do not overwrite each other.
func (r *GormGroupOrderRepository) Get(ctx context.Context, id kernel.UUID) (*grouporder.GroupOrder, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	var dto GroupOrderDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		return nil, pgtypes.MapNotFound(err, "groupOrder", id.String())
	}
	return toDomain(dto)
}

// List returns every group order, newest first.
func (r *GormGroupOrderRepository) List(ctx context.Context) ([]*grouporder.GroupOrder, error) {
	var dtos []GroupOrderDTO
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&dtos).Error; err != nil {
		return nil, err
	}
	out := make([]*grouporder.GroupOrder, 0, len(dtos))
	for _, dto := range dtos {
		g, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}
