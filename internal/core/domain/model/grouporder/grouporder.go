// Package grouporder lets several customers fill one cart that the host checks out
// as a single order.
package grouporder

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

// ErrGroupOrderIsNotConstructed is returned when a zero-value GroupOrder is used.
var ErrGroupOrderIsNotConstructed = errs.NewValueIsRequiredError("GroupOrder must be created via NewGroupOrder constructor")

// Status of a group order.
type Status string

const (
	Open       Status = "OPEN"
	CheckedOut Status = "CHECKED_OUT"
	Cancelled  Status = "CANCELLED"
)

func (s Status) Validate() error {
	switch s {
	case Open, CheckedOut, Cancelled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid group order status", string(s)))
	}
}

// Line is an item a participant wants.
type Line struct {
	MenuItemID kernel.UUID
	Qty        int
	Options    map[string]any
}

// Participant is a customer and the lines they added.
type Participant struct {
	UserID kernel.UUID
	Lines  []Line
}

// GroupOrder is a shared cart for one restaurant.
type GroupOrder struct {
	id           kernel.UUID
	restaurantID kernel.UUID
	hostUserID   kernel.UUID
	status       Status
	participants []Participant
	expiresAt    *time.Time
	createdAt    time.Time
	updatedAt    time.Time
	guard        guard.ConstructorGuard
}

// NewGroupOrder opens an empty group order.
func NewGroupOrder(id, restaurantID, hostUserID kernel.UUID, expiresAt *time.Time, now time.Time) (*GroupOrder, error) {
	return RestoreGroupOrder(id, restaurantID, hostUserID, Open, nil, expiresAt, now, now)
}

// RestoreGroupOrder rebuilds a GroupOrder from storage.
func RestoreGroupOrder(
	id, restaurantID, hostUserID kernel.UUID,
	status Status,
	participants []Participant,
	expiresAt *time.Time,
	createdAt, updatedAt time.Time,
) (*GroupOrder, error) {
	var problems []error
	if err := id.Validate(); err != nil {
		problems = append(problems, err)
	}
	if err := restaurantID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("restaurantID", err))
	}
	if err := hostUserID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("hostUserID", err))
	}
	problems = append(problems, status.Validate())
	for _, p := range participants {
		problems = append(problems, validateLines(p.Lines))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	g := &GroupOrder{
		id:           id,
		restaurantID: restaurantID,
		hostUserID:   hostUserID,
		status:       status,
		participants: cloneParticipants(participants),
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		guard:        guard.NewConstructorGuard(),
	}
	if expiresAt != nil {
		e := *expiresAt
		g.expiresAt = &e
	}
	return g, nil
}

// Validate returns ErrGroupOrderIsNotConstructed for nil and zero values.
func (g *GroupOrder) Validate() error {
	if g == nil {
		return ErrGroupOrderIsNotConstructed
	}
	return g.guard.Validate(ErrGroupOrderIsNotConstructed)
}

func (g *GroupOrder) ID() kernel.UUID { return g.id }
func (g *GroupOrder) RestaurantID() kernel.UUID { return g.restaurantID }
func (g *GroupOrder) HostUserID() kernel.UUID { return g.hostUserID }
func (g *GroupOrder) Status() Status { return g.status }
func (g *GroupOrder) CreatedAt() time.Time { return g.createdAt }
func (g *GroupOrder) UpdatedAt() time.Time { return g.updatedAt }

func (g *GroupOrder) ExpiresAt() *time.Time {
	if g.expiresAt == nil {
		return nil
	}
	e := *g.expiresAt
	return &e
}

func (g *GroupOrder) Participants() []Participant {
	return cloneParticipants(g.participants)
}

// AddLines appends lines for the user, creating the participant on first use.
// Checking that the menu items belong to the restaurant is the caller's job, as the
// aggregate has no access to the catalog.
func (g *GroupOrder) AddLines(userID kernel.UUID, lines []Line, now time.Time) error {
	if err := g.ensureOpen(now); err != nil {
		return err
	}
	if err := userID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("userID", err)
	}
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	if err := validateLines(lines); err != nil {
		return err
	}

	added := cloneLines(lines)
	idx := slices.IndexFunc(g.participants, func(p Participant) bool { return p.UserID.IsEqual(userID) })
	if idx >= 0 {
		g.participants[idx].Lines = append(g.participants[idx].Lines, added...)
	} else {
		g.participants = append(g.participants, Participant{UserID: userID, Lines: added})
	}
	g.updatedAt = now
	return nil
}

// AllLines returns the lines of every participant in joining order.
func (g *GroupOrder) AllLines() []Line {
	var out []Line
	for _, p := range g.participants {
		out = append(out, cloneLines(p.Lines)...)
	}
	return out
}

// CheckOut closes the group. It fails for an empty or already closed group.
func (g *GroupOrder) CheckOut(now time.Time) error {
	if g.status != Open {
		return errs.NewValueIsInvalidErrorWithCause("groupOrder", fmt.Errorf("group order is %s", g.status))
	}
	if len(g.participants) == 0 {
		return errs.NewValueIsInvalidErrorWithCause("groupOrder", errors.New("group order has no participants"))
	}
	g.status = CheckedOut
	g.updatedAt = now
	return nil
}

// Cancel closes an open group without ordering.
func (g *GroupOrder) Cancel(now time.Time) error {
	if g.status != Open {
		return errs.NewConflictError("groupOrder", fmt.Sprintf("group order is %s", g.status))
	}
	g.status = Cancelled
	g.updatedAt = now
	return nil
}

// Clone returns an independent copy.
func (g *GroupOrder) Clone() *GroupOrder {
	c := *g
	c.participants = cloneParticipants(g.participants)
	c.expiresAt = g.ExpiresAt()
	return &c
}

func (g *GroupOrder) ensureOpen(now time.Time) error {
	if g.status != Open {
		return errs.NewValueIsInvalidErrorWithCause("groupOrder", errors.New("group order is not open"))
	}
	if g.expiresAt != nil && now.After(*g.expiresAt) {
		return errs.NewValueIsInvalidErrorWithCause("groupOrder", errors.New("group order has expired"))
	}
	return nil
}

func validateLines(lines []Line) error {
	var problems []error
	for i, l := range lines {
		if err := l.MenuItemID.Validate(); err != nil {
			problems = append(problems, errs.NewValueIsRequiredErrorWithCause(fmt.Sprintf("items[%d].menuItemId", i), err))
		}
		if l.Qty <= 0 {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("items[%d].qty", i), fmt.Errorf("%d is not greater than 0", l.Qty)))
		}
	}
	return errors.Join(problems...)
}

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = Line{MenuItemID: l.MenuItemID, Qty: l.Qty, Options: maps.Clone(l.Options)}
	}
	return out
}

func cloneParticipants(ps []Participant) []Participant {
	out := make([]Participant, len(ps))
	for i, p := range ps {
		out[i] = Participant{UserID: p.UserID, Lines: cloneLines(p.Lines)}
	}
	return out
}
