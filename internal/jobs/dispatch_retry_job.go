package jobs

import (
	"context"
	"errors"
	"log/slog"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/services"

	"github.com/robfig/cron/v3"
)

// DefaultDispatchRetrySpec runs the dispatch retry every five seconds.
const DefaultDispatchRetrySpec = "*/5 * * * * *"

// PendingOrderDispatcher assigns couriers to confirmed orders that have none.
type PendingOrderDispatcher interface {
	Handle(ctx context.Context, cmd commands.DispatchPendingOrdersCommand) (int, error)
}

// DispatchRetryJob periodically retries dispatch for confirmed orders that found no
// courier when they were paid.
type DispatchRetryJob struct {
	handler PendingOrderDispatcher
	spec    string
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewDispatchRetryJob creates the job. spec is a six-field cron expression with
// seconds; an empty spec means DefaultDispatchRetrySpec.
func NewDispatchRetryJob(handler PendingOrderDispatcher, spec string, logger *slog.Logger) *DispatchRetryJob {
	if spec == "" {
		spec = DefaultDispatchRetrySpec
	}
	logger = logger.With("component", "dispatch_retry_job")
	cl := cronLogger{logger: logger}
	return &DispatchRetryJob{
		handler: handler,
		spec:    spec,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
	}
}

// Start registers the job with its schedule and starts the cron runtime.
func (j *DispatchRetryJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Dispatch retry job started", "spec", j.spec)
	return nil
}

// Run performs one retry pass.
func (j *DispatchRetryJob) Run() {
	ctx := context.Background()
	cmd, err := commands.NewDispatchPendingOrdersCommand(commands.DefaultDispatchBatchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Dispatch retry job misconfigured", "error", err)
		return
	}

	assigned, err := j.handler.Handle(ctx, cmd)
	if assigned > 0 {
		j.logger.InfoContext(ctx, "Couriers assigned to pending orders", "assigned", assigned)
	}
	if err != nil {
		// Only log errors that are not expected business scenarios
		if !errors.Is(err, commands.ErrNoPendingOrders) && !errors.Is(err, services.ErrCourierNotFound) {
			j.logger.ErrorContext(ctx, "Dispatch retry job failed", "error", err)
		}
	}
}

// Stop stops the job and waits for a run in progress.
func (j *DispatchRetryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Dispatch retry job stopped")
}
