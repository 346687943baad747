package delivery

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

// ErrDeliveryIsNotConstructed is returned when a zero-value Delivery is used.
var ErrDeliveryIsNotConstructed = errs.NewValueIsRequiredError("Delivery must be created via NewDelivery constructor")

// Step is the outcome of advancing a delivery along its route.
type Step struct {
	// Point is the waypoint the courier reached. Unset when Done.
	Point kernel.GeoPoint
	// Remaining is the number of waypoints left after Point.
	Remaining int
	// Done is true once the route is exhausted.
	Done bool
}

// Delivery is the courier leg of one order.
//
// Invariants:
//   - exactly one Delivery exists per order and it is never recreated
//   - completedAt is set only when the status is DELIVERED
//   - a terminal delivery never changes again
type Delivery struct {
	id          kernel.UUID
	orderID     kernel.UUID
	courierID   kernel.UUID
	pickupEta   *time.Time
	dropoffEta  *time.Time
	status      Status
	route       []kernel.GeoPoint
	progress    int
	startedAt   *time.Time
	completedAt *time.Time
	guard       guard.ConstructorGuard
}

// NewDelivery creates an ASSIGNED delivery with provisional pickup and drop-off estimates.
func NewDelivery(id, orderID, courierID kernel.UUID, pickupEta, dropoffEta time.Time) (*Delivery, error) {
	return RestoreDelivery(Snapshot{
		ID:         id,
		OrderID:    orderID,
		CourierID:  courierID,
		PickupEta:  &pickupEta,
		DropoffEta: &dropoffEta,
		Status:     Assigned,
	})
}

// Snapshot carries every persisted field of a Delivery.
type Snapshot struct {
	ID          kernel.UUID
	OrderID     kernel.UUID
	CourierID   kernel.UUID
	PickupEta   *time.Time
	DropoffEta  *time.Time
	Status      Status
	Route       []kernel.GeoPoint
	Progress    int
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// RestoreDelivery rebuilds a Delivery from storage.
func RestoreDelivery(s Snapshot) (*Delivery, error) {
	d := &Delivery{
		pickupEta:   copyTime(s.PickupEta),
		dropoffEta:  copyTime(s.DropoffEta),
		startedAt:   copyTime(s.StartedAt),
		completedAt: copyTime(s.CompletedAt),
		guard:       guard.NewConstructorGuard(),
	}

	var idErrs []error
	if err := s.ID.Validate(); err != nil {
		idErrs = append(idErrs, err)
	}
	if err := s.OrderID.Validate(); err != nil {
		idErrs = append(idErrs, errs.NewValueIsRequiredErrorWithCause("orderID", err))
	}
	if err := s.CourierID.Validate(); err != nil {
		idErrs = append(idErrs, errs.NewValueIsRequiredErrorWithCause("courierID", err))
	}
	var progressErr error
	if s.Progress < 0 || s.Progress > len(s.Route) {
		progressErr = errs.NewValueIsOutOfRangeError("progress", s.Progress, 0, len(s.Route))
	}
	var completedErr error
	if s.CompletedAt != nil && s.Status != Delivered {
		completedErr = errs.NewValueIsInvalidErrorWithCause("completedAt",
			fmt.Errorf("set on a %s delivery", s.Status))
	}

	if err := errors.Join(
		errors.Join(idErrs...),
		s.Status.Validate(),
		progressErr,
		completedErr,
	); err != nil {
		return nil, err
	}

	d.id = s.ID
	d.orderID = s.OrderID
	d.courierID = s.CourierID
	d.status = s.Status
	d.route = slices.Clone(s.Route)
	d.progress = s.Progress
	return d, nil
}

// Validate returns ErrDeliveryIsNotConstructed for nil and zero values.
func (d *Delivery) Validate() error {
	if d == nil {
		return ErrDeliveryIsNotConstructed
	}
	return d.guard.Validate(ErrDeliveryIsNotConstructed)
}

func (d *Delivery) ID() kernel.UUID {
	return d.id
}

func (d *Delivery) OrderID() kernel.UUID {
	return d.orderID
}

func (d *Delivery) CourierID() kernel.UUID {
	return d.courierID
}

func (d *Delivery) PickupEta() *time.Time {
	return copyTime(d.pickupEta)
}

func (d *Delivery) DropoffEta() *time.Time {
	return copyTime(d.dropoffEta)
}

func (d *Delivery) Status() Status {
	return d.status
}

func (d *Delivery) StartedAt() *time.Time {
	return copyTime(d.startedAt)
}

func (d *Delivery) CompletedAt() *time.Time {
	return copyTime(d.completedAt)
}

// Route returns the planned waypoints, empty until tracking starts.
func (d *Delivery) Route() []kernel.GeoPoint {
	return slices.Clone(d.route)
}

// Progress returns the index of the last waypoint reached.
func (d *Delivery) Progress() int {
	return d.progress
}

// HasRoute reports whether a route has been planned.
func (d *Delivery) HasRoute() bool {
	return len(d.route) > 0
}

// IsActive reports whether the delivery still occupies its courier.
func (d *Delivery) IsActive() bool {
	return d.status.IsActive()
}

// Start puts the delivery into DELIVERING and stamps startedAt on the first call.
// Starting a delivery that is already DELIVERING is a no-op.
func (d *Delivery) Start(now time.Time) error {
	if d.status.IsTerminal() {
		return errs.NewConflictError("delivery", fmt.Sprintf("delivery is already %s", d.status))
	}
	d.status = Delivering
	if d.startedAt == nil {
		started := now
		d.startedAt = &started
	}
	return nil
}

// PlanRoute stores the waypoints the simulated courier will follow. The first
// waypoint is the starting point and is never emitted by Advance. A route that is
// already planned is kept, so a restarted simulation resumes where it stopped.
func (d *Delivery) PlanRoute(route []kernel.GeoPoint) error {
	if d.HasRoute() {
		return nil
	}
	if len(route) < 2 {
		return errs.NewValueIsInvalidErrorWithCause("route", fmt.Errorf("%d waypoints, need at least 2", len(route)))
	}
	for i, p := range route {
		if err := p.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("route[%d]", i), err)
		}
	}
	d.route = slices.Clone(route)
	d.progress = 0
	return nil
}

// Advance moves the courier one waypoint forward.
//
// Returns:
//   - Step with the reached waypoint and the number still ahead
//   - Step{Done: true} once the last waypoint has been passed
//   - ConflictError if the delivery is not DELIVERING or has no route
func (d *Delivery) Advance() (Step, error) {
	if d.status != Delivering {
		return Step{}, errs.NewConflictError("delivery", fmt.Sprintf("cannot advance a %s delivery", d.status))
	}
	if !d.HasRoute() {
		return Step{}, errs.NewConflictError("delivery", "no route planned")
	}

	if d.progress < len(d.route) {
		d.progress++
	}
	if d.progress >= len(d.route) {
		return Step{Done: true}, nil
	}
	return Step{
		Point:     d.route[d.progress],
		Remaining: len(d.route) - d.progress,
	}, nil
}

// Complete marks the delivery DELIVERED. It reports false when it already was.
// A FAILED delivery cannot be completed.
func (d *Delivery) Complete(now time.Time) (bool, error) {
	switch d.status { //nolint:exhaustive // only terminal statuses need special handling
	case Delivered:
		return false, nil
	case Failed:
		return false, errs.NewConflictError("delivery", "delivery has failed")
	}
	d.status = Delivered
	completed := now
	d.completedAt = &completed
	if d.startedAt == nil {
		d.startedAt = &completed
	}
	return true, nil
}

// Fail marks an unfinished delivery FAILED. It reports false when the delivery was
// already terminal and left untouched.
func (d *Delivery) Fail() bool {
	if d.status.IsTerminal() {
		return false
	}
	d.status = Failed
	return true
}

// RoutePolyline encodes the planned route as "lat,lng;lat,lng;...".
func (d *Delivery) RoutePolyline() string {
	return EncodePolyline(d.route)
}

// Clone returns an independent copy.
func (d *Delivery) Clone() *Delivery {
	c := *d
	c.pickupEta = copyTime(d.pickupEta)
	c.dropoffEta = copyTime(d.dropoffEta)
	c.startedAt = copyTime(d.startedAt)
	c.completedAt = copyTime(d.completedAt)
	c.route = slices.Clone(d.route)
	return &c
}

// EncodePolyline renders waypoints as "lat,lng;lat,lng;..." with six decimals.
func EncodePolyline(route []kernel.GeoPoint) string {
	parts := make([]string, len(route))
	for i, p := range route {
		parts[i] = strconv.FormatFloat(p.Lat(), 'f', 6, 64) + "," + strconv.FormatFloat(p.Lng(), 'f', 6, 64)
	}
	return strings.Join(parts, ";")
}

// DecodePolyline parses the output of EncodePolyline. An empty string is an empty route.
func DecodePolyline(s string) ([]kernel.GeoPoint, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ";")
	route := make([]kernel.GeoPoint, 0, len(parts))
	for i, part := range parts {
		latStr, lngStr, ok := strings.Cut(part, ",")
		if !ok {
			return nil, errs.NewValueIsInvalidErrorWithCause("routePolyline", fmt.Errorf("waypoint %d: missing comma", i))
		}
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
		lng, lngErr := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
		if err := errors.Join(latErr, lngErr); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("routePolyline", fmt.Errorf("waypoint %d: %w", i, err))
		}
		p, err := kernel.NewGeoPoint(lat, lng)
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("routePolyline", fmt.Errorf("waypoint %d: %w", i, err))
		}
		route = append(route, p)
	}
	return route, nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
