package catalog

import (
	"errors"
	"fmt"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

// ErrRestaurantIsNotConstructed is returned when a zero-value Restaurant is used.
var ErrRestaurantIsNotConstructed = errs.NewValueIsRequiredError("Restaurant must be created via NewRestaurant constructor")

// Restaurant is a venue that accepts orders.
type Restaurant struct {
	id        kernel.UUID
	name      string
	location  kernel.GeoPoint
	rating    float64
	openHours string
	isOpen    bool
	city      string
	guard     guard.ConstructorGuard
}

// NewRestaurant validates its arguments and builds a Restaurant.
// Rating must be within [0..5]; city is stored upper-cased.
func NewRestaurant(
	id kernel.UUID,
	name string,
	location kernel.GeoPoint,
	rating float64,
	openHours string,
	isOpen bool,
	city string,
) (*Restaurant, error) {
	r := &Restaurant{
		openHours: strings.TrimSpace(openHours),
		isOpen:    isOpen,
		city:      strings.ToUpper(strings.TrimSpace(city)),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setName(name),
		r.setLocation(location),
		r.setRating(rating),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate returns ErrRestaurantIsNotConstructed for nil and zero values.
func (r *Restaurant) Validate() error {
	if r == nil {
		return ErrRestaurantIsNotConstructed
	}
	return r.guard.Validate(ErrRestaurantIsNotConstructed)
}

func (r *Restaurant) ID() kernel.UUID { return r.id }
func (r *Restaurant) Name() string { return r.name }
func (r *Restaurant) Location() kernel.GeoPoint { return r.location }
func (r *Restaurant) Rating() float64 { return r.rating }
func (r *Restaurant) OpenHours() string { return r.openHours }
func (r *Restaurant) IsOpen() bool { return r.isOpen }
func (r *Restaurant) City() string { return r.city }

// EnsureOpen returns a validation error when the restaurant does not accept orders.
func (r *Restaurant) EnsureOpen() error {
	if !r.isOpen {
		return errs.NewValueIsInvalidErrorWithCause("restaurant", fmt.Errorf("restaurant %s is closed", r.id))
	}
	return nil
}

func (r *Restaurant) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Restaurant) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	r.name = name
	return nil
}

func (r *Restaurant) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	r.location = location
	return nil
}

func (r *Restaurant) setRating(rating float64) error {
	if rating < 0 || rating > 5 {
		return errs.NewValueIsOutOfRangeError("rating", rating, 0, 5)
	}
	r.rating = rating
	return nil
}
