package jobs

import (
	"fmt"
)

// JobManager owns the background work of the process: the per-order tracking
// ticks and the dispatch retry schedule.
type JobManager struct {
	trackingScheduler *TrackingScheduler
	dispatchRetryJob  *DispatchRetryJob
}

func NewJobManager(trackingScheduler *TrackingScheduler, dispatchRetryJob *DispatchRetryJob) *JobManager {
	return &JobManager{
		trackingScheduler: trackingScheduler,
		dispatchRetryJob:  dispatchRetryJob,
	}
}

// StartAll begins ticking tracked deliveries and schedules the dispatch retry. If
// the retry cannot be scheduled the tracking scheduler is shut down again.
func (jm *JobManager) StartAll() error {
	jm.trackingScheduler.Run()

	if err := jm.dispatchRetryJob.Start(); err != nil {
		jm.trackingScheduler.Shutdown()
		return fmt.Errorf("start dispatch retry job: %w", err)
	}
	return nil
}

// StopAll stops the retry schedule first so no new deliveries start tracking while
// the tracking scheduler drains.
func (jm *JobManager) StopAll() {
	jm.dispatchRetryJob.Stop()
	jm.trackingScheduler.Shutdown()
}
