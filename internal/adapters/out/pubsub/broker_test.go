package pubsub_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"fooddelivery/internal/adapters/out/pubsub"
	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBroker(registry *metrics.Registry) *pubsub.Broker {
	return pubsub.NewBroker(registry, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func update(orderID kernel.UUID, eta int) delivery.TrackingUpdate {
	return delivery.TrackingUpdate{OrderID: orderID, EtaMinutes: eta, Status: delivery.Delivering, UpdatedAt: time.Now()}
}

func receive(t *testing.T, ch <-chan delivery.TrackingUpdate) delivery.TrackingUpdate {
	t.Helper()
	select {
	case u, ok := <-ch:
		require.True(t, ok, "stream closed")
		return u
	case <-time.After(time.Second):
		require.FailNow(t, "no update received")
	}
	return delivery.TrackingUpdate{}
}

func TestBroker(t *testing.T) {
	t.Run("delivers_in_publish_order", func(t *testing.T) {
		// given
		broker := newBroker(nil)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		orderID := kernel.NewUUID()
		stream, err := broker.Subscribe(ctx, orderID)
		require.NoError(t, err)

		// when nobody reads, publishing still returns immediately
		for _, eta := range []int{8, 6, 4, 2, 0} {
			broker.Publish(ctx, update(orderID, eta))
		}

		// then
		for _, want := range []int{8, 6, 4, 2, 0} {
			assert.Equal(t, want, receive(t, stream).EtaMinutes)
		}
	})

	t.Run("fans_out_to_every_subscriber_of_the_order", func(t *testing.T) {
		broker := newBroker(nil)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		orderID := kernel.NewUUID()
		first, err := broker.Subscribe(ctx, orderID)
		require.NoError(t, err)
		second, err := broker.Subscribe(ctx, orderID)
		require.NoError(t, err)

		broker.Publish(ctx, update(orderID, 4))

		assert.Equal(t, 4, receive(t, first).EtaMinutes)
		assert.Equal(t, 4, receive(t, second).EtaMinutes)
	})

	t.Run("topics_are_isolated", func(t *testing.T) {
		broker := newBroker(nil)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		watched, other := kernel.NewUUID(), kernel.NewUUID()
		stream, err := broker.Subscribe(ctx, watched)
		require.NoError(t, err)

		broker.Publish(ctx, update(other, 9))
		broker.Publish(ctx, update(watched, 3))

		got := receive(t, stream)
		assert.Equal(t, watched, got.OrderID)
		assert.Equal(t, 3, got.EtaMinutes)
	})

	t.Run("no_replay_for_late_subscribers", func(t *testing.T) {
		broker := newBroker(nil)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		orderID := kernel.NewUUID()
		broker.Publish(ctx, update(orderID, 20))

		stream, err := broker.Subscribe(ctx, orderID)
		require.NoError(t, err)
		broker.Publish(ctx, update(orderID, 8))

		assert.Equal(t, 8, receive(t, stream).EtaMinutes)
	})

	t.Run("stream_closes_when_context_ends", func(t *testing.T) {
		// given
		registry := metrics.NewRegistry()
		broker := newBroker(registry)
		ctx, cancel := context.WithCancel(context.Background())
		orderID := kernel.NewUUID()
		stream, err := broker.Subscribe(ctx, orderID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), registry.Get(metrics.TrackingSubscribers))

		// when
		cancel()

		// then
		require.Eventually(t, func() bool {
			select {
			case _, ok := <-stream:
				return !ok
			default:
				return false
			}
		}, time.Second, 10*time.Millisecond)
		assert.Equal(t, 0, broker.Subscribers(orderID))
		assert.Equal(t, int64(0), registry.Get(metrics.TrackingSubscribers))
	})

	t.Run("rejects_zero_order_id", func(t *testing.T) {
		_, err := newBroker(nil).Subscribe(context.Background(), kernel.UUID{})

		assert.Error(t, err)
	})
}
