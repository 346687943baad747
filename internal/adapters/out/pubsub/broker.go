// Package pubsub is the in-process fan-out of live tracking updates. Every order
// is a topic; subscribers only see updates published after they joined.
package pubsub

import (
	"context"
	"log/slog"
	"sync"

	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/metrics"
)

var (
	_ ports.TrackingPublisher  = (*Broker)(nil)
	_ ports.TrackingSubscriber = (*Broker)(nil)
)

// Broker implements the tracking publisher and subscriber ports.
type Broker struct {
	metrics *metrics.Registry
	logger  *slog.Logger

	mu     sync.RWMutex
	topics map[kernel.UUID]map[*subscriber]struct{}
}

func NewBroker(registry *metrics.Registry, logger *slog.Logger) *Broker {
	return &Broker{
		metrics: registry,
		logger:  logger.With("component", "tracking_broker"),
		topics:  make(map[kernel.UUID]map[*subscriber]struct{}),
	}
}

// Publish queues the update for every current subscriber of its order. It never
// waits for a subscriber to read.
func (b *Broker) Publish(_ context.Context, update delivery.TrackingUpdate) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for s := range b.topics[update.OrderID] {
		s.push(update)
	}
}

// Subscribe opens a stream for one order. The channel is closed once ctx is done.
func (b *Broker) Subscribe(ctx context.Context, orderID kernel.UUID) (<-chan delivery.TrackingUpdate, error) {
	if err := orderID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := &subscriber{signal: make(chan struct{}, 1)}
	out := make(chan delivery.TrackingUpdate)

	b.mu.Lock()
	topic, ok := b.topics[orderID]
	if !ok {
		topic = make(map[*subscriber]struct{})
		b.topics[orderID] = topic
	}
	topic[s] = struct{}{}
	b.mu.Unlock()

	b.metrics.Add(metrics.TrackingSubscribers, 1)
	b.logger.DebugContext(ctx, "Tracking subscriber joined", "order_id", orderID.String())

	go func() {
		defer func() {
			b.unsubscribe(orderID, s)
			close(out)
		}()
		s.pump(ctx, out)
	}()

	return out, nil
}

// Subscribers returns the number of open streams of an order.
func (b *Broker) Subscribers(orderID kernel.UUID) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.topics[orderID])
}

func (b *Broker) unsubscribe(orderID kernel.UUID, s *subscriber) {
	b.mu.Lock()
	topic := b.topics[orderID]
	delete(topic, s)
	if len(topic) == 0 {
		delete(b.topics, orderID)
	}
	b.mu.Unlock()

	b.metrics.Add(metrics.TrackingSubscribers, -1)
	b.logger.Debug("Tracking subscriber left", "order_id", orderID.String())
}

// subscriber is an unbounded FIFO mailbox drained by its own goroutine.
type subscriber struct {
	mu     sync.Mutex
	queue  []delivery.TrackingUpdate
	signal chan struct{}
}

func (s *subscriber) push(update delivery.TrackingUpdate) {
	s.mu.Lock()
	s.queue = append(s.queue, update)
	s.mu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *subscriber) take() []delivery.TrackingUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.queue
	s.queue = nil
	return batch
}

func (s *subscriber) pump(ctx context.Context, out chan<- delivery.TrackingUpdate) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.signal:
		}

		for _, update := range s.take() {
			select {
			case out <- update:
			case <-ctx.Done():
				return
			}
		}
	}
}
