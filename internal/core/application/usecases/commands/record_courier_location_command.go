package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrRecordCourierLocationCommandIsNotConstructed = errors.New(
	"RecordCourierLocationCommand must be created via NewRecordCourierLocationCommand constructor",
)

// RecordCourierLocationCommand is a manual position report of a courier.
type RecordCourierLocationCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	point     kernel.GeoPoint

	guard guard.ConstructorGuard
}

func NewRecordCourierLocationCommand(courierID kernel.UUID, lat, lng float64) (RecordCourierLocationCommand, error) {
	point, pointErr := kernel.NewGeoPoint(lat, lng)
	if err := errors.Join(courierID.Validate(), pointErr); err != nil {
		return RecordCourierLocationCommand{}, err
	}

	return RecordCourierLocationCommand{
		courierID: courierID,
		point:     point,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RecordCourierLocationCommand) Validate() error {
	return c.guard.Validate(ErrRecordCourierLocationCommandIsNotConstructed)
}

func (c RecordCourierLocationCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c RecordCourierLocationCommand) Point() kernel.GeoPoint {
	return c.point
}
