package deliveryrepo

import (
	"context"

	"fooddelivery/internal/adapters/out/postgres/pgtypes"
	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDeliveryRepository implements ports.DeliveryRepository using GORM.
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GORM delivery repository.
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// Add saves a new delivery. The unique index on order_id turns a second delivery
// for the same order into a conflict.
func (r *GormDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	if err := d.Validate(); err != nil {
		return err
	}
	dto := fromDomain(d)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgtypes.MapDuplicate(err, "delivery", "delivery for order "+d.OrderID().String())
	}
	return nil
}

// Update saves the progress of a delivery.
func (r *GormDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	if err := d.Validate(); err != nil {
		return err
	}
	dto := fromDomain(d)
	result := r.db.WithContext(ctx).Model(&DeliveryDTO{}).Where("id = ?", dto.ID).
		Select("pickup_eta", "dropoff_eta", "status", "route_polyline", "progress", "started_at", "completed_at").
		Updates(&dto)
	return pgtypes.RequireRow(result, "delivery", d.ID().String())
}

// GetByOrder retrieves the delivery of an order.
func (r *GormDeliveryRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	var dto DeliveryDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		return nil, pgtypes.MapNotFound(err, "delivery", orderID.String())
	}
	return toDomain(dto)
}

// CountActiveByCourier counts the deliveries per courier that are neither
// DELIVERED nor FAILED.
func (r *GormDeliveryRepository) CountActiveByCourier(ctx context.Context) (map[kernel.UUID]int, error) {
	var rows []struct {
		CourierID uuid.UUID
		Active    int
	}
	if err := r.db.WithContext(ctx).Model(&DeliveryDTO{}).
		Select("courier_id, COUNT(*) AS active").
		Where("status NOT IN ?", []string{delivery.Delivered.String(), delivery.Failed.String()}).
		Group("courier_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[kernel.UUID]int, len(rows))
	for _, row := range rows {
		id, err := pgtypes.ToUUID(row.CourierID)
		if err != nil {
			return nil, err
		}
		counts[id] = row.Active
	}
	return counts, nil
}

// GormCourierLocationRepository implements ports.CourierLocationRepository using GORM.
type GormCourierLocationRepository struct {
	db *gorm.DB
}

// NewGormCourierLocationRepository creates a new GORM courier location repository.
func NewGormCourierLocationRepository(db *gorm.DB) *GormCourierLocationRepository {
	return &GormCourierLocationRepository{db: db}
}

// Save upserts the courier's last known position.
func (r *GormCourierLocationRepository) Save(ctx context.Context, loc delivery.CourierLocation) error {
	if err := loc.CourierID().Validate(); err != nil {
		return err
	}
	dto := locationFromDomain(loc)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "courier_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"lat", "lng", "recorded_at"}),
		}).
		Create(&dto).Error
}

// Get retrieves the courier's last known position.
func (r *GormCourierLocationRepository) Get(ctx context.Context, courierID kernel.UUID) (delivery.CourierLocation, error) {
	if err := courierID.Validate(); err != nil {
		return delivery.CourierLocation{}, err
	}
	var dto CourierLocationDTO
	if err := r.db.WithContext(ctx).First(&dto, "courier_id = ?", courierID.Bytes()).Error; err != nil {
		return delivery.CourierLocation{}, pgtypes.MapNotFound(err, "courierLocation", courierID.String())
	}
	return locationToDomain(dto)
}
