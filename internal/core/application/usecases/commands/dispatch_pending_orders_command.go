package commands

import (
	"errors"

	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

// DefaultDispatchBatchSize bounds the number of orders one dispatch run looks at.
const DefaultDispatchBatchSize = 50

var ErrDispatchPendingOrdersCommandIsNotConstructed = errors.New(
	"DispatchPendingOrdersCommand must be created via NewDispatchPendingOrdersCommand constructor",
)

// DispatchPendingOrdersCommand assigns couriers to confirmed orders that were left
// without one, typically because no courier existed when they were paid.
type DispatchPendingOrdersCommand struct { //nolint:recvcheck //using for validation
	limit int

	guard guard.ConstructorGuard
}

func NewDispatchPendingOrdersCommand(limit int) (DispatchPendingOrdersCommand, error) {
	if limit <= 0 {
		return DispatchPendingOrdersCommand{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	return DispatchPendingOrdersCommand{
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c DispatchPendingOrdersCommand) Validate() error {
	return c.guard.Validate(ErrDispatchPendingOrdersCommandIsNotConstructed)
}

func (c DispatchPendingOrdersCommand) Limit() int {
	return c.limit
}
