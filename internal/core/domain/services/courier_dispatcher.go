package services

import (
	"cmp"
	"errors"
	"math"
	"slices"

	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/user"
	"fooddelivery/internal/pkg/errs"
)

// LoadPenaltyMinutes is added to a courier's score for every active delivery.
const LoadPenaltyMinutes = 5

// ErrCourierNotFound is returned when there is no courier to dispatch.
var ErrCourierNotFound = errs.NewObjectNotFoundError("courier", "any available courier")

// Candidate is a courier considered for dispatch.
type Candidate struct {
	Courier *user.User
	// LastLocation is the last reported position, nil if the courier never reported one.
	LastLocation *kernel.GeoPoint
	// ActiveDeliveries counts deliveries of the courier that are not DELIVERED or FAILED.
	ActiveDeliveries int
}

// Leg describes the trip of an order: pick-up at the restaurant, drop-off at the customer.
type Leg struct {
	Restaurant kernel.GeoPoint
	Dropoff    kernel.GeoPoint
	City       string
}

// Choice is the winning candidate and the figures it won with.
type Choice struct {
	Courier  *user.User
	Location kernel.GeoPoint
	Score    int
}

// CourierDispatcher is a domain service that selects the courier for an order.
//
// Score of a candidate:
//
//	TravelMinutes(courier -> restaurant) + TravelMinutes(restaurant -> drop-off)
//	  + LoadPenaltyMinutes × active deliveries
//
// The lowest score wins. Candidates are examined in ascending courier id order, and on
// a tie the first one examined is kept, so the same input always yields the same
// courier whatever order the caller passed them in.
//
// Example usage:
//
//	dispatcher := services.NewCourierDispatcher()
//	choice, err := dispatcher.Dispatch(services.Leg{Restaurant: r.Location(), Dropoff: o.Dropoff(), City: r.City()}, candidates)
//	if errors.Is(err, services.ErrCourierNotFound) {
//	    // nobody can take the order right now
//	}
type CourierDispatcher struct{}

// NewCourierDispatcher creates a new CourierDispatcher instance.
func NewCourierDispatcher() CourierDispatcher {
	return CourierDispatcher{}
}

// Dispatch scores every candidate and returns the best one.
//
// Returns:
//   - Choice: the selected courier, the location it was scored from and its score
//   - error: ErrCourierNotFound when candidates is empty, or a validation error for
//     a malformed leg or candidate
func (d CourierDispatcher) Dispatch(leg Leg, candidates []Candidate) (Choice, error) {
	if err := errors.Join(leg.Restaurant.Validate(), leg.Dropoff.Validate()); err != nil {
		return Choice{}, err
	}

	ordered := slices.Clone(candidates)
	for _, c := range ordered {
		if err := c.Courier.Validate(); err != nil {
			return Choice{}, err
		}
		if !c.Courier.HasRole(user.RoleCourier) {
			return Choice{}, errs.NewValueIsInvalidErrorWithCause("candidate",
				errors.New("user "+c.Courier.ID().String()+" is not a courier"))
		}
	}
	slices.SortStableFunc(ordered, func(a, b Candidate) int {
		return cmp.Compare(a.Courier.ID().String(), b.Courier.ID().String())
	})

	dropoffLeg, err := TravelMinutes(leg.Restaurant, leg.Dropoff, leg.City)
	if err != nil {
		return Choice{}, err
	}

	var (
		best      Choice
		bestScore = math.MaxInt
	)
	for _, c := range ordered {
		loc := CourierPosition(c.Courier, c.LastLocation)
		pickupLeg, err := TravelMinutes(loc, leg.Restaurant, leg.City)
		if err != nil {
			return Choice{}, err
		}

		score := pickupLeg + dropoffLeg + LoadPenaltyMinutes*c.ActiveDeliveries
		if score < bestScore {
			bestScore = score
			best = Choice{Courier: c.Courier, Location: loc, Score: score}
		}
	}

	if best.Courier == nil {
		return Choice{}, ErrCourierNotFound
	}
	return best, nil
}

// CourierPosition resolves where a courier is: the last reported location, else the
// courier's home address, else delivery.DefaultCourierLocation.
func CourierPosition(courier *user.User, last *kernel.GeoPoint) kernel.GeoPoint {
	if last != nil && last.Validate() == nil {
		return *last
	}
	if home, ok := courier.DefaultLocation(); ok {
		return home
	}
	return delivery.DefaultCourierLocation
}
