// Package jobs provides the background work of the service, built on
// github.com/robfig/cron/v3.
//
// # Available Jobs
//
//  1. TrackingScheduler - one entry per delivering order, advancing the simulated
//     courier by one waypoint per tick (2s by default) until the order is delivered
//  2. DispatchRetryJob - every few seconds assigns couriers to confirmed orders that
//     found none when they were paid
//
// # Usage
//
//	scheduler := jobs.NewTrackingScheduler(advanceHandler, 2*time.Second, registry, logger)
//	retry := jobs.NewDispatchRetryJob(dispatchHandler, jobs.DefaultDispatchRetrySpec, logger)
//	jobManager := jobs.NewJobManager(scheduler, retry)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
//   - The dispatch retry ignores expected business errors (no pending orders, no couriers)
//   - A failed tracking tick is logged and skipped; the next tick tries again
//   - Failed job starts will stop any already running jobs
package jobs
