package delivery

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
)

// DefaultCourierLocation is used when neither a reported position nor a home address
// is known for a courier.
var DefaultCourierLocation = kernel.MustGeoPoint(22.3, 114.16)

// CourierLocation is the last known position of a courier. There is exactly one per
// courier and every report overwrites it.
type CourierLocation struct {
	courierID  kernel.UUID
	point      kernel.GeoPoint
	recordedAt time.Time
}

// NewCourierLocation validates and builds a CourierLocation.
func NewCourierLocation(courierID kernel.UUID, point kernel.GeoPoint, recordedAt time.Time) (CourierLocation, error) {
	var courierErr error
	if err := courierID.Validate(); err != nil {
		courierErr = errs.NewValueIsRequiredErrorWithCause("courierID", err)
	}
	if err := errors.Join(courierErr, point.Validate()); err != nil {
		return CourierLocation{}, err
	}
	return CourierLocation{courierID: courierID, point: point, recordedAt: recordedAt}, nil
}

func (l CourierLocation) CourierID() kernel.UUID {
	return l.courierID
}

func (l CourierLocation) Point() kernel.GeoPoint {
	return l.point
}

func (l CourierLocation) RecordedAt() time.Time {
	return l.recordedAt
}
