package delivery

import (
	"fmt"
	"strings"

	"fooddelivery/internal/pkg/errs"
)

// Status is the progress of a delivery.
//
// The simulator moves ASSIGNED straight to DELIVERING; the intermediate statuses
// exist for couriers that report their progress step by step.
type Status int

const (
	Unknown Status = iota
	Assigned
	EnRoutePickup
	AtRestaurant
	PickedUp
	Delivering
	Delivered
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:       "UNKNOWN",
		Assigned:      "ASSIGNED",
		EnRoutePickup: "EN_ROUTE_PICKUP",
		AtRestaurant:  "AT_RESTAURANT",
		PickedUp:      "PICKED_UP",
		Delivering:    "DELIVERING",
		Delivered:     "DELIVERED",
		Failed:        "FAILED",
	}
}

// ParseStatus converts a case-insensitive status name into a Status.
func ParseStatus(s string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range getStatusStrings() {
		if status != Unknown && str == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("deliveryStatus", fmt.Errorf("%q is not a valid delivery status", s))
}

func (s Status) Validate() error {
	if s <= Unknown || s > Failed {
		return errs.NewValueIsInvalidErrorWithCause("deliveryStatus", fmt.Errorf("%d is not a valid delivery status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the delivery is finished, successfully or not.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Failed
}

// IsActive reports whether the delivery still occupies its courier.
func (s Status) IsActive() bool {
	return s.Validate() == nil && !s.IsTerminal()
}

// MarshalText renders the status by name in JSON payloads.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
