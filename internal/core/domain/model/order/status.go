package order

import (
	"fmt"
	"slices"
	"strings"

	"fooddelivery/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// Allowed transitions (source -> targets):
//
//	CREATED    -> CONFIRMED, CANCELLED
//	CONFIRMED  -> PREPARING, CANCELLED
//	PREPARING  -> PICKED_UP, CANCELLED
//	PICKED_UP  -> DELIVERING, CANCELLED
//	DELIVERING -> DELIVERED, FAILED, CANCELLED
//	DELIVERED  -> COMPLETED, REFUNDED
//
// COMPLETED, CANCELLED, REFUNDED and FAILED are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota
	Created
	Confirmed
	Preparing
	PickedUp
	Delivering
	Delivered
	Completed
	Cancelled
	Refunded
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		Created:    "CREATED",
		Confirmed:  "CONFIRMED",
		Preparing:  "PREPARING",
		PickedUp:   "PICKED_UP",
		Delivering: "DELIVERING",
		Delivered:  "DELIVERED",
		Completed:  "COMPLETED",
		Cancelled:  "CANCELLED",
		Refunded:   "REFUNDED",
		Failed:     "FAILED",
	}
}

// getTransitions returns the allowed successors of every non-terminal status.
func getTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal statuses have no successors
	return map[Status][]Status{
		Created:    {Confirmed, Cancelled},
		Confirmed:  {Preparing, Cancelled},
		Preparing:  {PickedUp, Cancelled},
		PickedUp:   {Delivering, Cancelled},
		Delivering: {Delivered, Failed, Cancelled},
		Delivered:  {Completed, Refunded},
	}
}

// Statuses lists every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{Created, Confirmed, Preparing, PickedUp, Delivering, Delivered, Completed, Cancelled, Refunded, Failed}
}

// ParseStatus converts a case-insensitive status name such as "picked_up" into a Status.
func ParseStatus(s string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for _, status := range Statuses() {
		if status.String() == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the known statuses.
func (s Status) Validate() error {
	if s <= Unknown || s > Failed {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, e.g. "PICKED_UP".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s.Validate() == nil && len(getTransitions()[s]) == 0
}

// IsInFlight reports whether a courier may be moving for an order in status s.
// Tracking can only be started from these statuses.
func (s Status) IsInFlight() bool {
	return s == Confirmed || s == Preparing || s == PickedUp || s == Delivering
}

// RestoresStock reports whether entering s hands the reserved items back to the menu.
func (s Status) RestoresStock() bool {
	return s == Cancelled || s == Refunded
}

// CanTransitionTo reports whether next is a direct successor of s.
func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(getTransitions()[s], next)
}

// TransitionTo returns next when s -> next is an edge of the transition table.
//
// Returns:
//   - (next, nil) on a valid transition
//   - (Unknown, ValueIsInvalidError) when next is not a known status
//   - (Unknown, ConflictError) when the edge does not exist
//
// Example:
//
//	next, err := order.Created.TransitionTo(order.Preparing)
//	// err is a ConflictError: PREPARING is not reachable from CREATED
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(next) {
		return Unknown, errs.NewConflictError("order", fmt.Sprintf("invalid transition %s -> %s", s, next))
	}
	return next, nil
}

// MarshalText renders the status by name in JSON payloads.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
