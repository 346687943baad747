package metrics_test

import (
	"sync"
	"testing"

	"fooddelivery/internal/pkg/metrics"

	"github.com/stretchr/testify/assert"
)

func TestRegistry(t *testing.T) {
	t.Run("counts_concurrent_increments", func(t *testing.T) {
		// given
		r := metrics.NewRegistry()
		var wg sync.WaitGroup

		// when
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				r.Inc(metrics.OrdersCreated)
			}()
		}
		wg.Wait()

		// then
		assert.Equal(t, int64(50), r.Get(metrics.OrdersCreated))
		assert.Equal(t, int64(0), r.Get(metrics.PaymentsPaid))
	})

	t.Run("gauge_goes_down", func(t *testing.T) {
		r := metrics.NewRegistry()

		r.Add(metrics.TrackingSubscribers, 2)
		r.Add(metrics.TrackingSubscribers, -1)

		assert.Equal(t, int64(1), r.Get(metrics.TrackingSubscribers))
	})

	t.Run("snapshot_lists_every_counter", func(t *testing.T) {
		r := metrics.NewRegistry()
		r.Inc(metrics.CouponsRedeemed)

		snap := r.Snapshot()

		assert.Len(t, snap, 11)
		assert.Equal(t, int64(1), snap[metrics.CouponsRedeemed])
	})

	t.Run("nil_registry_is_a_no_op", func(t *testing.T) {
		var r *metrics.Registry

		r.Inc(metrics.OrdersCreated)

		assert.Equal(t, int64(0), r.Get(metrics.OrdersCreated))
		assert.Empty(t, r.Snapshot())
	})

	t.Run("unknown_counter_is_ignored", func(t *testing.T) {
		r := metrics.NewRegistry()

		r.Inc(metrics.Counter("nope"))

		assert.NotContains(t, r.Snapshot(), metrics.Counter("nope"))
	})
}
