package queries

import (
	"context"
	"errors"

	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// read runs fn inside a unit of work that is always rolled back, so every query
// sees one consistent snapshot.
func read(ctx context.Context, uowFactory ports.UnitOfWorkFactory, fn func(uow ports.UnitOfWork) error) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return fn(uow)
}

// optional turns a not-found error into a nil result.
func optional[T any](v T, err error) (T, bool, error) {
	if errors.Is(err, errs.ErrObjectNotFound) {
		var zero T
		return zero, false, nil
	}
	if err != nil {
		var zero T
		return zero, false, err
	}
	return v, true, nil
}
