package delivery

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
)

// TrackingUpdate is a live position and ETA notice for one order. It is never stored.
type TrackingUpdate struct {
	OrderID    kernel.UUID
	CourierID  kernel.UUID
	Lat        float64
	Lng        float64
	Status     Status
	EtaMinutes int
	UpdatedAt  time.Time
}

// NewTrackingUpdate builds an update from the delivery and the courier's current location.
func NewTrackingUpdate(d *Delivery, loc CourierLocation, etaMinutes int, now time.Time) TrackingUpdate {
	return TrackingUpdate{
		OrderID:    d.OrderID(),
		CourierID:  d.CourierID(),
		Lat:        loc.Point().Lat(),
		Lng:        loc.Point().Lng(),
		Status:     d.Status(),
		EtaMinutes: max(etaMinutes, 0),
		UpdatedAt:  now,
	}
}
