package queries

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

// MaxListOrdersLimit caps one page of ListOrders.
const MaxListOrdersLimit = 200

var ErrListOrdersQueryIsNotConstructed = errors.New("ListOrdersQuery must be created via NewListOrdersQuery constructor")

// ListOrdersQuery lists orders newest first, optionally narrowed to one customer
// or one status.
type ListOrdersQuery struct { //nolint:recvcheck //using for validation
	userID *kernel.UUID
	status *order.Status
	limit  int

	guard guard.ConstructorGuard
}

// NewListOrdersQuery builds the query. A zero limit means MaxListOrdersLimit.
func NewListOrdersQuery(userID *kernel.UUID, status *order.Status, limit int) (ListOrdersQuery, error) {
	var problems []error
	if userID != nil {
		if err := userID.Validate(); err != nil {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause("userId", err))
		}
	}
	if status != nil {
		if err := status.Validate(); err != nil {
			problems = append(problems, err)
		}
	}
	if limit < 0 || limit > MaxListOrdersLimit {
		problems = append(problems, errs.NewValueIsOutOfRangeError("limit", limit, 0, MaxListOrdersLimit))
	}
	if err := errors.Join(problems...); err != nil {
		return ListOrdersQuery{}, err
	}

	if limit == 0 {
		limit = MaxListOrdersLimit
	}
	return ListOrdersQuery{userID: userID, status: status, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) matches(o *order.Order) bool {
	if q.userID != nil && !o.UserID().IsEqual(*q.userID) {
		return false
	}
	return q.status == nil || o.Status() == *q.status
}
