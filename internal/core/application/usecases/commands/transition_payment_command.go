package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/pkg/guard"
)

var ErrTransitionPaymentCommandIsNotConstructed = errors.New(
	"TransitionPaymentCommand must be created via NewTransitionPaymentCommand constructor",
)

// TransitionPaymentCommand reports the outcome of the (simulated) payment of an order.
type TransitionPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	next    payment.Status

	guard guard.ConstructorGuard
}

func NewTransitionPaymentCommand(orderID kernel.UUID, next payment.Status) (TransitionPaymentCommand, error) {
	if err := errors.Join(orderID.Validate(), next.Validate()); err != nil {
		return TransitionPaymentCommand{}, err
	}

	return TransitionPaymentCommand{
		orderID: orderID,
		next:    next,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// NewSimulatePaymentCommand settles the payment as PAID on success and FAILED otherwise.
func NewSimulatePaymentCommand(orderID kernel.UUID, success bool) (TransitionPaymentCommand, error) {
	next := payment.Failed
	if success {
		next = payment.Paid
	}
	return NewTransitionPaymentCommand(orderID, next)
}

func (c TransitionPaymentCommand) Validate() error {
	return c.guard.Validate(ErrTransitionPaymentCommandIsNotConstructed)
}

func (c TransitionPaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c TransitionPaymentCommand) Next() payment.Status {
	return c.next
}
