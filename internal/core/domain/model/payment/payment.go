package payment

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrPaymentIsNotConstructed is returned when a zero-value Payment is used.
var ErrPaymentIsNotConstructed = errs.NewValueIsRequiredError("Payment must be created via NewPayment constructor")

// TxnIDGenerator produces synthetic transaction ids.
type TxnIDGenerator func() string

// RandomTxnID returns ids of the form TXN-NNNNNN.
func RandomTxnID() string {
	return fmt.Sprintf("TXN-%06d", 100000+rand.IntN(900000)) //nolint:gosec // synthetic id, not a secret
}

// Payment is the settlement record of one order.
type Payment struct {
	id          kernel.UUID
	orderID     kernel.UUID
	channel     Channel
	amount      decimal.Decimal
	status      Status
	txnID       string
	processedAt *time.Time
	guard       guard.ConstructorGuard
}

// NewPayment creates a PENDING payment for the order.
func NewPayment(id, orderID kernel.UUID, channel Channel, amount decimal.Decimal) (*Payment, error) {
	return RestorePayment(id, orderID, channel, amount, Pending, "", nil)
}

// RestorePayment rebuilds a Payment from storage.
func RestorePayment(
	id, orderID kernel.UUID,
	channel Channel,
	amount decimal.Decimal,
	status Status,
	txnID string,
	processedAt *time.Time,
) (*Payment, error) {
	p := &Payment{
		txnID:       txnID,
		processedAt: processedAt,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setOrderID(orderID),
		channel.Validate(),
		p.setAmount(amount),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	p.channel = channel
	p.status = status

	return p, nil
}

// Validate returns ErrPaymentIsNotConstructed for nil and zero values.
func (p *Payment) Validate() error {
	if p == nil {
		return ErrPaymentIsNotConstructed
	}
	return p.guard.Validate(ErrPaymentIsNotConstructed)
}

func (p *Payment) ID() kernel.UUID {
	return p.id
}

func (p *Payment) OrderID() kernel.UUID {
	return p.orderID
}

func (p *Payment) Channel() Channel {
	return p.channel
}

func (p *Payment) Amount() decimal.Decimal {
	return p.amount
}

func (p *Payment) Status() Status {
	return p.status
}

// TxnID returns the synthetic transaction id, empty while PENDING.
func (p *Payment) TxnID() string {
	return p.txnID
}

// ProcessedAt returns when the payment first left PENDING.
func (p *Payment) ProcessedAt() *time.Time {
	return p.processedAt
}

// UpdateStatus moves the payment to next.
//
// Requesting the current status is a no-op and reports changed=false. A terminal
// payment rejects every other status with a ConflictError, as does any edge that is
// not in the transition table. The first move away from PENDING stamps the
// transaction id and processing time.
func (p *Payment) UpdateStatus(next Status, now time.Time, newTxnID TxnIDGenerator) (bool, error) {
	if p.status == next {
		return false, nil
	}

	status, err := p.status.TransitionTo(next)
	if err != nil {
		return false, err
	}

	p.status = status
	if p.txnID == "" {
		if newTxnID == nil {
			newTxnID = RandomTxnID
		}
		p.txnID = newTxnID()
		processed := now
		p.processedAt = &processed
	}
	return true, nil
}

// Clone returns an independent copy.
func (p *Payment) Clone() *Payment {
	c := *p
	if p.processedAt != nil {
		t := *p.processedAt
		c.processedAt = &t
	}
	return &c
}

func (p *Payment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Payment) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	p.orderID = id
	return nil
}

func (p *Payment) setAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is negative", amount))
	}
	p.amount = amount
	return nil
}
