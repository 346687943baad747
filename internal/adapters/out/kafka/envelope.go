package kafka

import (
	"encoding/json"
	"time"

	"fooddelivery/internal/core/ports"
)

// EventVersion is bumped whenever a payload changes incompatibly.
const EventVersion = 1

// Envelope wraps every order event written to Kafka.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// OrderEventPayload is the payload of every order event.
type OrderEventPayload struct {
	OrderID   string `json:"order_id"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
	PayStatus string `json:"pay_status"`
	CourierID string `json:"courier_id,omitempty"`
	Total     string `json:"total"`
}

func payloadOf(e ports.OrderEvent) OrderEventPayload {
	p := OrderEventPayload{
		OrderID:   e.OrderID.String(),
		UserID:    e.UserID.String(),
		Status:    e.Status,
		PayStatus: e.PayStatus,
		Total:     e.Total,
	}
	if e.CourierID != nil {
		p.CourierID = e.CourierID.String()
	}
	return p
}

// PartitionKey keeps all events of one order in one partition, so they stay ordered.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
