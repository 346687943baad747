package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DeliveryHorizonMinutes is the ETA an order gets when it enters DELIVERING.
const DeliveryHorizonMinutes = 20

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errs.NewValueIsRequiredError("Order must be created via NewOrder constructor")
)

// Order is the aggregate root that manages an order from checkout to completion.
//
// Order follows these invariants:
//   - Must have valid identifiers for itself, the customer and the restaurant
//   - Must carry at least one item
//   - total is never negative and equals Σ price×qty − discount, floored at zero
//   - Status changes follow the transition table of Status
//
// The struct uses private fields; all mutations go through methods that keep
// updatedAt current.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	userID       kernel.UUID
	restaurantID kernel.UUID

	// groupOrderID links orders produced by a group checkout
	groupOrderID *kernel.UUID

	status    Status
	payStatus payment.Status

	total          decimal.Decimal
	discountAmount decimal.Decimal
	couponCode     string

	// etaMinutes is nil until the order is on its way
	etaMinutes *int

	items   []*Item
	dropoff kernel.GeoPoint

	createdAt time.Time
	updatedAt time.Time

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates an order in status CREATED with a PENDING payment mirror and no ETA.
//
// Parameters:
//   - id: unique identifier for the order
//   - userID: the ordering customer
//   - restaurantID: the restaurant preparing the food
//   - dropoff: where the courier hands over the order
//   - items: non-empty cart; every item must be valid
//   - groupOrderID: optional group order the cart came from
//   - now: creation time
//
// Example:
//
//	dumplings, _ := order.NewItem(kernel.NewUUID(), dumplingsID, 2, decimal.RequireFromString("48.5"), nil)
//	bun, _ := order.NewItem(kernel.NewUUID(), bunID, 1, decimal.RequireFromString("32.0"), nil)
//	o, err := order.NewOrder(kernel.NewUUID(), aliceID, dimSumID, home, []*order.Item{dumplings, bun}, nil, time.Now())
//	// o.Total() == 129.0
func NewOrder(
	id, userID, restaurantID kernel.UUID,
	dropoff kernel.GeoPoint,
	items []*Item,
	groupOrderID *kernel.UUID,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:         Created,
		payStatus:      payment.Pending,
		discountAmount: decimal.Zero,
		createdAt:      now,
		updatedAt:      now,
		isConstructed:  true,
	}

	if err := errors.Join(
		o.setIDs(id, userID, restaurantID, groupOrderID),
		o.setDropoff(dropoff),
		o.setItems(items),
	); err != nil {
		return nil, err
	}
	o.total = o.Subtotal()

	return o, nil
}

// Snapshot carries every persisted field of an Order. It is used by storage
// adapters to rebuild the aggregate.
type Snapshot struct {
	ID             kernel.UUID
	UserID         kernel.UUID
	RestaurantID   kernel.UUID
	GroupOrderID   *kernel.UUID
	Status         Status
	PayStatus      payment.Status
	Total          decimal.Decimal
	DiscountAmount decimal.Decimal
	CouponCode     string
	EtaMinutes     *int
	Items          []*Item
	Dropoff        kernel.GeoPoint
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RestoreOrder reconstructs an Order from persistent storage.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		couponCode:    s.CouponCode,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
		isConstructed: true,
	}

	var amountErr error
	if s.Total.IsNegative() || s.DiscountAmount.IsNegative() {
		amountErr = errs.NewValueIsInvalidErrorWithCause("total", fmt.Errorf("total %s, discount %s", s.Total, s.DiscountAmount))
	}
	var etaErr error
	if s.EtaMinutes != nil && *s.EtaMinutes < 0 {
		etaErr = errs.NewValueIsInvalidErrorWithCause("etaMinutes", fmt.Errorf("%d is negative", *s.EtaMinutes))
	}

	if err := errors.Join(
		o.setIDs(s.ID, s.UserID, s.RestaurantID, s.GroupOrderID),
		o.setDropoff(s.Dropoff),
		o.setItems(s.Items),
		s.Status.Validate(),
		s.PayStatus.Validate(),
		amountErr,
		etaErr,
	); err != nil {
		return nil, err
	}
	o.status = s.Status
	o.payStatus = s.PayStatus
	o.total = s.Total
	o.discountAmount = s.DiscountAmount
	o.etaMinutes = copyInt(s.EtaMinutes)

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// UserID returns the customer who placed the order.
func (o *Order) UserID() kernel.UUID {
	return o.userID
}

// RestaurantID returns the restaurant preparing the order.
func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

// GroupOrderID returns the group order the cart came from, or nil.
func (o *Order) GroupOrderID() *kernel.UUID {
	if o.groupOrderID == nil {
		return nil
	}
	id := *o.groupOrderID
	return &id
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// PayStatus returns the mirrored status of the paired payment.
func (o *Order) PayStatus() payment.Status {
	return o.payStatus
}

// Total returns the amount payable after discount.
func (o *Order) Total() decimal.Decimal {
	return o.total
}

// Subtotal returns Σ price×qty before discount.
func (o *Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range o.items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// DiscountAmount returns the coupon discount recorded on the order.
func (o *Order) DiscountAmount() decimal.Decimal {
	return o.discountAmount
}

// CouponCode returns the applied coupon code, empty when none.
func (o *Order) CouponCode() string {
	return o.couponCode
}

// EtaMinutes returns the minutes until drop-off, or nil before delivery starts.
func (o *Order) EtaMinutes() *int {
	return copyInt(o.etaMinutes)
}

// Items returns the cart lines in the order they were added.
func (o *Order) Items() []*Item {
	out := make([]*Item, len(o.items))
	for i, it := range o.items {
		out[i] = it.clone()
	}
	return out
}

// Dropoff returns the hand-over location.
func (o *Order) Dropoff() kernel.GeoPoint {
	return o.dropoff
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// ApplyDiscount records a coupon discount. It can only be applied once, while the
// order is still CREATED, and never drives the total below zero.
func (o *Order) ApplyDiscount(couponCode string, discount decimal.Decimal, now time.Time) error {
	couponCode = strings.TrimSpace(couponCode)
	if couponCode == "" {
		return errs.NewValueIsRequiredError("couponCode")
	}
	if discount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("discount", fmt.Errorf("%s is negative", discount))
	}
	if o.status != Created {
		return errs.NewConflictError("order", fmt.Sprintf("cannot apply a coupon to a %s order", o.status))
	}
	if o.couponCode != "" {
		return errs.NewConflictError("order", "a coupon is already applied")
	}

	o.couponCode = couponCode
	o.discountAmount = discount
	o.total = decimal.Max(o.Subtotal().Sub(discount), decimal.Zero)
	o.updatedAt = now
	return nil
}

// TransitionTo moves the order along the transition table.
//
// Entering DELIVERING sets the ETA to DeliveryHorizonMinutes and entering DELIVERED
// sets it to zero. Every other side effect (stock, delivery, tracking) belongs to the
// orchestrating command.
//
// Returns a ConflictError and leaves the order untouched when the edge does not exist.
func (o *Order) TransitionTo(next Status, now time.Time) error {
	status, err := o.status.TransitionTo(next)
	if err != nil {
		return err
	}

	o.status = status
	switch status { //nolint:exhaustive // only two statuses touch the ETA
	case Delivering:
		o.setEta(DeliveryHorizonMinutes)
	case Delivered:
		o.setEta(0)
	}
	o.updatedAt = now
	return nil
}

// MarkDelivering puts an in-flight order into DELIVERING when tracking starts.
// Unlike TransitionTo it accepts any in-flight status, because tracking may be
// started before the kitchen reports the pick-up. The ETA is left as is.
func (o *Order) MarkDelivering(now time.Time) error {
	if o.status == Delivering {
		return nil
	}
	if !o.status.IsInFlight() {
		return errs.NewConflictError("order", fmt.Sprintf("cannot start delivery of a %s order", o.status))
	}
	o.status = Delivering
	o.updatedAt = now
	return nil
}

// MarkDelivered completes the delivery leg. It is a no-op for an order that is
// already DELIVERED.
func (o *Order) MarkDelivered(now time.Time) error {
	if o.status == Delivered {
		return nil
	}
	return o.TransitionTo(Delivered, now)
}

// SetPayStatus mirrors the status of the paired payment.
func (o *Order) SetPayStatus(status payment.Status, now time.Time) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if o.payStatus == status {
		return nil
	}
	o.payStatus = status
	o.updatedAt = now
	return nil
}

// UpdateEta records a fresh estimate while the order is DELIVERING.
func (o *Order) UpdateEta(minutes int, now time.Time) error {
	if minutes < 0 {
		return errs.NewValueIsInvalidErrorWithCause("etaMinutes", fmt.Errorf("%d is negative", minutes))
	}
	if o.status != Delivering {
		return errs.NewConflictError("order", fmt.Sprintf("cannot update the ETA of a %s order", o.status))
	}
	o.setEta(minutes)
	o.updatedAt = now
	return nil
}

// Clone returns an independent copy of the aggregate.
func (o *Order) Clone() *Order {
	c := *o
	c.groupOrderID = o.GroupOrderID()
	c.etaMinutes = copyInt(o.etaMinutes)
	c.items = o.Items()
	return &c
}

func (o *Order) setEta(minutes int) {
	o.etaMinutes = &minutes
}

func (o *Order) setIDs(id, userID, restaurantID kernel.UUID, groupOrderID *kernel.UUID) error {
	var problems []error
	if err := id.Validate(); err != nil {
		problems = append(problems, err)
	}
	if err := userID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("userID", err))
	}
	if err := restaurantID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("restaurantID", err))
	}
	if groupOrderID != nil {
		if err := groupOrderID.Validate(); err != nil {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause("groupOrderID", err))
		}
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}

	o.id = id
	o.userID = userID
	o.restaurantID = restaurantID
	if groupOrderID != nil {
		g := *groupOrderID
		o.groupOrderID = &g
	}
	return nil
}

func (o *Order) setDropoff(dropoff kernel.GeoPoint) error {
	if err := dropoff.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("dropoff", err)
	}
	o.dropoff = dropoff
	return nil
}

func (o *Order) setItems(items []*Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("order requires at least one item")
	}

	cloned := make([]*Item, 0, len(items))
	for i, it := range items {
		if err := it.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d]", i), err)
		}
		cloned = append(cloned, it.clone())
	}
	o.items = cloned
	return nil
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
