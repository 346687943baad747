// Package paymentrepo persists payments with GORM.
package paymentrepo

import (
	"time"

	"fooddelivery/internal/adapters/out/postgres/pgtypes"
	"fooddelivery/internal/core/domain/model/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentDTO represents the database structure for payments. An order has exactly
// one payment, enforced by the unique index on order_id.
type PaymentDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Channel     string          `gorm:"type:varchar(32);not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status      string          `gorm:"type:varchar(16);not null"`
	TxnID       string          `gorm:"type:varchar(64)"`
	ProcessedAt *time.Time
}

// TableName specifies the database table name for payments.
func (PaymentDTO) TableName() string {
	return "payments"
}

func fromDomain(p *payment.Payment) PaymentDTO {
	return PaymentDTO{
		ID:          p.ID().Bytes(),
		OrderID:     p.OrderID().Bytes(),
		Channel:     string(p.Channel()),
		Amount:      p.Amount(),
		Status:      p.Status().String(),
		TxnID:       p.TxnID(),
		ProcessedAt: p.ProcessedAt(),
	}
}

func toDomain(dto PaymentDTO) (*payment.Payment, error) {
	id, err := pgtypes.ToUUID(dto.ID)
	if err != nil {
		return nil, err
	}
	orderID, err := pgtypes.ToUUID(dto.OrderID)
	if err != nil {
		return nil, err
	}
	channel, err := payment.ParseChannel(dto.Channel)
	if err != nil {
		return nil, err
	}
	status, err := payment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	return payment.RestorePayment(id, orderID, channel, dto.Amount, status, dto.TxnID, dto.ProcessedAt)
}
