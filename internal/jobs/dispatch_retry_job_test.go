package jobs_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDispatcher struct {
	calls atomic.Int64
	limit atomic.Int64
	err   error
}

func (d *fakeDispatcher) Handle(_ context.Context, cmd commands.DispatchPendingOrdersCommand) (int, error) {
	d.calls.Add(1)
	d.limit.Store(int64(cmd.Limit()))
	return 0, d.err
}

func TestDispatchRetryJob(t *testing.T) {
	t.Run("run_dispatches_one_batch", func(t *testing.T) {
		dispatcher := &fakeDispatcher{err: commands.ErrNoPendingOrders}
		job := jobs.NewDispatchRetryJob(dispatcher, "", discardLogger())

		job.Run()

		assert.Equal(t, int64(1), dispatcher.calls.Load())
		assert.Equal(t, int64(commands.DefaultDispatchBatchSize), dispatcher.limit.Load())
	})

	t.Run("runs_on_its_schedule", func(t *testing.T) {
		dispatcher := &fakeDispatcher{}
		job := jobs.NewDispatchRetryJob(dispatcher, "* * * * * *", discardLogger())

		require.NoError(t, job.Start())
		defer job.Stop()

		assert.Eventually(t, func() bool { return dispatcher.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	})

	t.Run("invalid_spec_fails_to_start", func(t *testing.T) {
		job := jobs.NewDispatchRetryJob(&fakeDispatcher{}, "every now and then", discardLogger())

		assert.Error(t, job.Start())
	})
}

func TestJobManager(t *testing.T) {
	t.Run("failed_start_stops_the_tracking_scheduler", func(t *testing.T) {
		scheduler := jobs.NewTrackingScheduler(&countingAdvancer{steps: 1000}, time.Hour, nil, discardLogger())
		manager := jobs.NewJobManager(scheduler, jobs.NewDispatchRetryJob(&fakeDispatcher{}, "bogus", discardLogger()))

		err := manager.StartAll()

		require.Error(t, err)
		assert.Equal(t, 0, scheduler.Running())
	})

	t.Run("starts_and_stops", func(t *testing.T) {
		scheduler := jobs.NewTrackingScheduler(&countingAdvancer{steps: 1000}, time.Hour, nil, discardLogger())
		manager := jobs.NewJobManager(scheduler, jobs.NewDispatchRetryJob(&fakeDispatcher{}, "", discardLogger()))

		require.NoError(t, manager.StartAll())
		manager.StopAll()
	})
}
