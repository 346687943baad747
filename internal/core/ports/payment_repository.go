package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/payment"
)

// PaymentRepository stores the one payment every order has.
type PaymentRepository interface {
	Add(ctx context.Context, p *payment.Payment) error
	Update(ctx context.Context, p *payment.Payment) error
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*payment.Payment, error)
}
