// Package deliveryrepo persists deliveries and courier locations with GORM.
package deliveryrepo

import (
	"time"

	"fooddelivery/internal/adapters/out/postgres/pgtypes"
	"fooddelivery/internal/core/domain/model/delivery"

	"github.com/google/uuid"
)

// DeliveryDTO represents the database structure for deliveries. The route is kept
// in its polyline text form.
type DeliveryDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CourierID     uuid.UUID `gorm:"type:uuid;not null;index"`
	PickupEta     *time.Time
	DropoffEta    *time.Time
	Status        string `gorm:"type:varchar(32);not null;index"`
	RoutePolyline string `gorm:"type:text"`
	Progress      int    `gorm:"type:int;not null"`
	StartedAt     *time.Time
	CompletedAt   *time.Time
}

// TableName specifies the database table name for deliveries.
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// CourierLocationDTO is the single last known position of a courier.
type CourierLocationDTO struct {
	CourierID  uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Point      pgtypes.PointDTO `gorm:"embedded"`
	RecordedAt time.Time        `gorm:"not null"`
}

// TableName specifies the database table name for courier locations.
func (CourierLocationDTO) TableName() string {
	return "courier_locations"
}

func fromDomain(d *delivery.Delivery) DeliveryDTO {
	return DeliveryDTO{
		ID:            d.ID().Bytes(),
		OrderID:       d.OrderID().Bytes(),
		CourierID:     d.CourierID().Bytes(),
		PickupEta:     d.PickupEta(),
		DropoffEta:    d.DropoffEta(),
		Status:        d.Status().String(),
		RoutePolyline: d.RoutePolyline(),
		Progress:      d.Progress(),
		StartedAt:     d.StartedAt(),
		CompletedAt:   d.CompletedAt(),
	}
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := pgtypes.ToUUID(dto.ID)
	if err != nil {
		return nil, err
	}
	orderID, err := pgtypes.ToUUID(dto.OrderID)
	if err != nil {
		return nil, err
	}
	courierID, err := pgtypes.ToUUID(dto.CourierID)
	if err != nil {
		return nil, err
	}
	status, err := delivery.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	route, err := delivery.DecodePolyline(dto.RoutePolyline)
	if err != nil {
		return nil, err
	}
	return delivery.RestoreDelivery(delivery.Snapshot{
		ID:          id,
		OrderID:     orderID,
		CourierID:   courierID,
		PickupEta:   dto.PickupEta,
		DropoffEta:  dto.DropoffEta,
		Status:      status,
		Route:       route,
		Progress:    dto.Progress,
		StartedAt:   dto.StartedAt,
		CompletedAt: dto.CompletedAt,
	})
}

func locationFromDomain(l delivery.CourierLocation) CourierLocationDTO {
	return CourierLocationDTO{
		CourierID:  l.CourierID().Bytes(),
		Point:      pgtypes.FromPoint(l.Point()),
		RecordedAt: l.RecordedAt(),
	}
}

func locationToDomain(dto CourierLocationDTO) (delivery.CourierLocation, error) {
	courierID, err := pgtypes.ToUUID(dto.CourierID)
	if err != nil {
		return delivery.CourierLocation{}, err
	}
	point, err := dto.Point.ToDomain()
	if err != nil {
		return delivery.CourierLocation{}, err
	}
	return delivery.NewCourierLocation(courierID, point, dto.RecordedAt)
}
