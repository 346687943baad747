// Package rabbitmq fans customer-facing order notifications out through a
// RabbitMQ fanout exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fooddelivery/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

// NotificationsExchange is the fanout exchange every notification consumer binds to.
const NotificationsExchange = "notifications_fanout"

// publishTimeout bounds one publish including the broker confirm.
const publishTimeout = 10 * time.Second

// StatusUpdateMessage is the body of one notification.
type StatusUpdateMessage struct {
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id"`
	Event      string    `json:"event"`
	Status     string    `json:"status"`
	PayStatus  string    `json:"pay_status"`
	CourierID  string    `json:"courier_id,omitempty"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// channel is the part of *amqp.Channel the notifier uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	GetNextPublishSeqNo() uint64
	Close() error
}

// Notifier implements ports.EventPublisher. Only events a customer cares about are
// forwarded; the rest are dropped.
type Notifier struct {
	conn   *amqp.Connection
	ch     channel
	acks   <-chan amqp.Confirmation
	logger *slog.Logger

	mu sync.Mutex
}

var _ ports.EventPublisher = (*Notifier)(nil)

// Dial connects to url, declares the exchange and turns on publisher confirms.
func Dial(url string, logger *slog.Logger) (*Notifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err = ch.ExchangeDeclare(NotificationsExchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", NotificationsExchange, err)
	}

	if err = ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("enable publisher confirms: %w", err)
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	n := newNotifier(ch, acks, logger)
	n.conn = conn
	return n, nil
}

func newNotifier(ch channel, acks <-chan amqp.Confirmation, logger *slog.Logger) *Notifier {
	return &Notifier{
		ch:     ch,
		acks:   acks,
		logger: logger.With("component", "rabbitmq_notifier"),
	}
}

// Publish sends one notification per customer-facing event and waits for the
// broker to confirm each of them.
func (n *Notifier) Publish(ctx context.Context, events ...ports.OrderEvent) error {
	var problems []error
	for _, e := range events {
		text, ok := describe(e)
		if !ok {
			continue
		}
		msg := StatusUpdateMessage{
			OrderID:    e.OrderID.String(),
			UserID:     e.UserID.String(),
			Event:      string(e.Type),
			Status:     e.Status,
			PayStatus:  e.PayStatus,
			Message:    text,
			OccurredAt: e.OccurredAt.UTC(),
		}
		if e.CourierID != nil {
			msg.CourierID = e.CourierID.String()
		}
		if err := n.publish(ctx, msg); err != nil {
			problems = append(problems, err)
		}
	}
	return errors.Join(problems...)
}

// Close closes the channel and the connection.
func (n *Notifier) Close() error {
	var problems []error
	if n.ch != nil {
		problems = append(problems, n.ch.Close())
	}
	if n.conn != nil {
		problems = append(problems, n.conn.Close())
	}
	return errors.Join(problems...)
}

func (n *Notifier) publish(ctx context.Context, msg StatusUpdateMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	tag := n.ch.GetNextPublishSeqNo()
	err = n.ch.PublishWithContext(ctx, NotificationsExchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Transient,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	if n.acks == nil {
		return nil
	}
	if err = n.awaitConfirm(ctx, tag); err != nil {
		return err
	}

	n.logger.DebugContext(ctx, "Notification published", "order_id", msg.OrderID, "event", msg.Event)
	return nil
}

// awaitConfirm waits for the confirmation of the publish with delivery tag tag.
// Confirmations of earlier publishes that timed out are discarded.
func (n *Notifier) awaitConfirm(ctx context.Context, tag uint64) error {
	for {
		select {
		case conf, ok := <-n.acks:
			if !ok {
				return errors.New("confirmation channel closed")
			}
			if conf.DeliveryTag < tag {
				n.logger.DebugContext(ctx, "Discarding stale confirmation", "delivery_tag", conf.DeliveryTag)
				continue
			}
			if !conf.Ack {
				return errors.New("notification NACK from broker")
			}
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func describe(e ports.OrderEvent) (string, bool) {
	switch e.Type {
	case ports.OrderStatusChanged:
		return fmt.Sprintf("Your order is now %s.", e.Status), true
	case ports.PaymentStatusChanged:
		return fmt.Sprintf("Payment for your order is %s.", e.PayStatus), true
	case ports.CourierAssigned:
		return "A courier has been assigned to your order.", true
	case ports.DeliveryStarted:
		return "Your order is on its way.", true
	case ports.DeliveryCompleted:
		return "Your order has been delivered. Enjoy your meal!", true
	case ports.OrderCreated, ports.GroupOrderCheckedOut:
		return "", false
	default:
		return "", false
	}
}
