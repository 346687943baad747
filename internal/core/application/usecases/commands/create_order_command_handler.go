package commands

import (
	"context"
	"errors"
	"log/slog"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// CreateOrderCommandHandler places orders. The whole placement, stock reservation
// and coupon redemption included, runs in one unit of work: either every line is
// reserved or none is.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, idempotency, effects, logger)
//	orderID, err := handler.Handle(ctx, cmd)
//	switch {
//	case errs.IsValidation(err):
//	    // bad cart, closed restaurant, insufficient stock or unusable coupon
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    // unknown customer, restaurant or menu item
//	}
type CreateOrderCommandHandler struct {
	uowFactory  ports.UnitOfWorkFactory
	idempotency ports.IdempotencyStore
	effects     *Effects
	logger      *slog.Logger
}

// NewCreateOrderCommandHandler creates the handler. idempotency may be nil, in which
// case idempotency keys are ignored.
func NewCreateOrderCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	idempotency ports.IdempotencyStore,
	effects *Effects,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return CreateOrderCommandHandler{
		uowFactory:  uowFactory,
		idempotency: idempotency,
		effects:     effects,
		logger:      logger.With("component", "create-order"),
	}
}

// Handle places the order and returns its id. A repeated idempotency key returns the
// id of the order created the first time without placing another one.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	orderID := kernel.NewUUID()
	key := cmd.IdempotencyKey()
	if key != "" && h.idempotency != nil {
		existing, reserved, err := h.idempotency.Reserve(ctx, key, orderID)
		if err != nil {
			return kernel.UUID{}, err
		}
		if !reserved {
			return h.replay(ctx, key, existing)
		}
	}

	created, err := h.place(ctx, cmd, orderID)
	if err != nil && key != "" && h.idempotency != nil {
		if releaseErr := h.idempotency.Release(ctx, key); releaseErr != nil {
			h.logger.WarnContext(ctx, "failed to release idempotency key",
				"key", key, "order_id", orderID.String(), "error", releaseErr)
		}
	}
	return created, err
}

func (h CreateOrderCommandHandler) place(ctx context.Context, cmd CreateOrderCommand, orderID kernel.UUID) (kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ob := &outbox{}
	o, err := placeOrder(ctx, uow, placement{
		orderID:      orderID,
		userID:       cmd.UserID(),
		restaurantID: cmd.RestaurantID(),
		lines:        cmd.Lines(),
		channel:      cmd.Channel(),
		couponCode:   cmd.CouponCode(),
		groupOrderID: cmd.GroupOrderID(),
	}, now(), ob)
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	h.effects.flush(ctx, ob)
	return o.ID(), nil
}

// replay resolves a repeated key. The first request may still be running, in which
// case its order is not visible yet.
func (h CreateOrderCommandHandler) replay(ctx context.Context, key string, orderID kernel.UUID) (kernel.UUID, error) {
	uow := h.uowFactory.Create()
	_, err := uow.Orders().Get(ctx, orderID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return kernel.UUID{}, errs.NewConflictError("idempotencyKey", "request "+key+" is still in progress")
	}
	if err != nil {
		return kernel.UUID{}, err
	}
	return orderID, nil
}
