package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/jobs"
	"fooddelivery/internal/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingAdvancer finishes a delivery after `steps` ticks and fails the first
// `failures` ticks.
type countingAdvancer struct {
	steps    int64
	failures int64
	calls    atomic.Int64
}

func (a *countingAdvancer) Handle(_ context.Context, _ commands.AdvanceDeliveryCommand) (bool, error) {
	n := a.calls.Add(1)
	if n <= a.failures {
		return false, errors.New("store unavailable")
	}
	return n >= a.steps+a.failures, nil
}

func TestTrackingScheduler(t *testing.T) {
	const tick = 20 * time.Millisecond

	t.Run("stops_itself_when_the_delivery_is_finished", func(t *testing.T) {
		// given
		advancer := &countingAdvancer{steps: 3}
		registry := metrics.NewRegistry()
		scheduler := jobs.NewTrackingScheduler(advancer, tick, registry, discardLogger())
		scheduler.Run()
		defer scheduler.Shutdown()
		orderID := kernel.NewUUID()

		// when
		started, err := scheduler.Start(orderID)

		// then
		require.NoError(t, err)
		assert.True(t, started)
		assert.Equal(t, int64(1), registry.Get(metrics.TrackingTimersRunning))
		require.Eventually(t, func() bool { return !scheduler.IsRunning(orderID) }, 2*time.Second, tick)
		assert.GreaterOrEqual(t, advancer.calls.Load(), int64(3))
		assert.Equal(t, int64(0), registry.Get(metrics.TrackingTimersRunning))
	})

	t.Run("failed_tick_is_skipped", func(t *testing.T) {
		advancer := &countingAdvancer{steps: 1, failures: 2}
		scheduler := jobs.NewTrackingScheduler(advancer, tick, nil, discardLogger())
		scheduler.Run()
		defer scheduler.Shutdown()
		orderID := kernel.NewUUID()

		_, err := scheduler.Start(orderID)
		require.NoError(t, err)

		require.Eventually(t, func() bool { return !scheduler.IsRunning(orderID) }, 2*time.Second, tick)
		assert.GreaterOrEqual(t, advancer.calls.Load(), int64(3))
	})

	t.Run("at_most_one_timer_per_order", func(t *testing.T) {
		// given
		scheduler := jobs.NewTrackingScheduler(&countingAdvancer{steps: 1000}, time.Hour, nil, discardLogger())
		orderID := kernel.NewUUID()

		// when
		var (
			wg      sync.WaitGroup
			created atomic.Int64
		)
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, err := scheduler.Start(orderID); err == nil && ok {
					created.Add(1)
				}
			}()
		}
		wg.Wait()

		// then
		assert.Equal(t, int64(1), created.Load())
		assert.Equal(t, 1, scheduler.Running())
	})

	t.Run("stop_happens_exactly_once", func(t *testing.T) {
		scheduler := jobs.NewTrackingScheduler(&countingAdvancer{steps: 1000}, time.Hour, nil, discardLogger())
		orderID := kernel.NewUUID()
		_, err := scheduler.Start(orderID)
		require.NoError(t, err)

		first := scheduler.Stop(orderID)
		second := scheduler.Stop(orderID)

		assert.True(t, first)
		assert.False(t, second)
		assert.False(t, scheduler.IsRunning(orderID))
	})

	t.Run("restart_after_stop_creates_a_new_timer", func(t *testing.T) {
		scheduler := jobs.NewTrackingScheduler(&countingAdvancer{steps: 1000}, time.Hour, nil, discardLogger())
		orderID := kernel.NewUUID()
		_, err := scheduler.Start(orderID)
		require.NoError(t, err)
		scheduler.Stop(orderID)

		started, err := scheduler.Start(orderID)

		require.NoError(t, err)
		assert.True(t, started)
	})

	t.Run("shutdown_cancels_every_timer", func(t *testing.T) {
		registry := metrics.NewRegistry()
		scheduler := jobs.NewTrackingScheduler(&countingAdvancer{steps: 1000}, time.Hour, registry, discardLogger())
		scheduler.Run()
		for range 3 {
			_, err := scheduler.Start(kernel.NewUUID())
			require.NoError(t, err)
		}

		scheduler.Shutdown()

		assert.Equal(t, 0, scheduler.Running())
		assert.Equal(t, int64(0), registry.Get(metrics.TrackingTimersRunning))
	})

	t.Run("rejects_zero_order_id", func(t *testing.T) {
		scheduler := jobs.NewTrackingScheduler(&countingAdvancer{}, tick, nil, discardLogger())

		_, err := scheduler.Start(kernel.UUID{})

		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}
