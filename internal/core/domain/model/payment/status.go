package payment

import (
	"fmt"
	"slices"
	"strings"

	"fooddelivery/internal/pkg/errs"
)

// Status is the settlement state of a payment.
//
// State transitions:
//
//	PENDING ──┬──> PAID ──> REFUNDED
//	          └──> FAILED
//
// FAILED and REFUNDED are terminal.
type Status int

const (
	Unknown Status = iota
	Pending
	Paid
	Failed
	Refunded
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:  "UNKNOWN",
		Pending:  "PENDING",
		Paid:     "PAID",
		Failed:   "FAILED",
		Refunded: "REFUNDED",
	}
}

func getTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending: {Paid, Failed},
		Paid:    {Refunded},
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
	return Unknown, errs.NewValueIsInvalidErrorWithCause("payStatus", fmt.Errorf("%q is not a valid payment status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > Refunded {
		return errs.NewValueIsInvalidErrorWithCause("payStatus", fmt.Errorf("%d is not a valid payment status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == Failed || s == Refunded
}

// CanTransitionTo reports whether next is a direct successor of s.
func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(getTransitions()[s], next)
}

// TransitionTo returns next when the edge s -> next exists and a ConflictError otherwise.
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return Unknown, err
	}
	if s.IsTerminal() {
		return Unknown, errs.NewConflictError("payment", fmt.Sprintf("payment is finalised as %s", s))
	}
	if !s.CanTransitionTo(next) {
		return Unknown, errs.NewConflictError("payment", fmt.Sprintf("invalid payment state transition %s -> %s", s, next))
	}
	return next, nil
}

// MarshalText renders the status by name in JSON payloads.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
