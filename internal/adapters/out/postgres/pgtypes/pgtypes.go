// Package pgtypes holds the column types and error mapping shared by the GORM
// repositories.
package pgtypes

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PointDTO is an embedded latitude/longitude pair.
type PointDTO struct {
	Lat float64 `gorm:"type:double precision;not null"`
	Lng float64 `gorm:"type:double precision;not null"`
}

// FromPoint converts a domain point into its columns.
func FromPoint(p kernel.GeoPoint) PointDTO {
	return PointDTO{Lat: p.Lat(), Lng: p.Lng()}
}

// ToDomain converts the columns back into a validated point.
func (p PointDTO) ToDomain() (kernel.GeoPoint, error) {
	return kernel.NewGeoPoint(p.Lat, p.Lng)
}

// FromUUIDPtr converts an optional identifier into a nullable column value.
func FromUUIDPtr(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

// ToUUID converts a column value into a domain identifier.
func ToUUID(id uuid.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}

// ToUUIDPtr converts a nullable column value into an optional identifier.
func ToUUIDPtr(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil //nolint:nilnil // absent reference
	}
	parsed, err := ToUUID(*id)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// MapNotFound turns gorm.ErrRecordNotFound into an ObjectNotFoundError and passes
// every other error through.
func MapNotFound(err error, paramName string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError(paramName, id)
	}
	return err
}

// MapDuplicate turns a unique key violation into a ConflictError. It relies on the
// connection being opened with gorm.Config{TranslateError: true}.
func MapDuplicate(err error, paramName, key string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewConflictErrorWithCause(paramName, key+" already exists", err)
	}
	return err
}

// RequireRow reports an ObjectNotFoundError when an update touched no row.
func RequireRow(result *gorm.DB, paramName string, id any) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError(paramName, id)
	}
	return nil
}
