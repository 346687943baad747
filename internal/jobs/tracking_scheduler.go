package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// DefaultTrackingTick is the interval between two simulated courier moves.
const DefaultTrackingTick = 2 * time.Second

// DeliveryAdvancer moves the delivery of an order one waypoint forward and reports
// whether the delivery is finished.
type DeliveryAdvancer interface {
	Handle(ctx context.Context, cmd commands.AdvanceDeliveryCommand) (bool, error)
}

// interval fires every d after the previous run. cron.Every rounds to whole
// seconds, this one does not.
type interval time.Duration

func (i interval) Next(t time.Time) time.Time {
	return t.Add(time.Duration(i))
}

// TrackingScheduler runs one cron entry per delivering order. Each run advances the
// delivery by one waypoint; the entry removes itself once the delivery is finished.
type TrackingScheduler struct {
	advancer DeliveryAdvancer
	tick     time.Duration
	cron     *cron.Cron
	metrics  *metrics.Registry
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	entries map[kernel.UUID]cron.EntryID
}

var _ ports.TrackingScheduler = (*TrackingScheduler)(nil)

// NewTrackingScheduler creates a scheduler ticking every tick. A non-positive tick
// means DefaultTrackingTick.
func NewTrackingScheduler(
	advancer DeliveryAdvancer,
	tick time.Duration,
	registry *metrics.Registry,
	logger *slog.Logger,
) *TrackingScheduler {
	if tick <= 0 {
		tick = DefaultTrackingTick
	}
	logger = logger.With("component", "tracking_scheduler")
	cl := cronLogger{logger: logger}

	ctx, cancel := context.WithCancel(context.Background())
	return &TrackingScheduler{
		advancer: advancer,
		tick:     tick,
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		metrics: registry,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[kernel.UUID]cron.EntryID),
	}
}

// Run starts the cron runtime. Entries added before Run fire once it is running.
func (s *TrackingScheduler) Run() {
	s.cron.Start()
	s.logger.InfoContext(s.ctx, "Tracking scheduler started", "tick", s.tick.String())
}

// Shutdown removes every entry and waits for runs in progress to finish.
func (s *TrackingScheduler) Shutdown() {
	s.cancel()

	s.mu.Lock()
	for orderID, id := range s.entries {
		s.cron.Remove(id)
		delete(s.entries, orderID)
		s.metrics.Add(metrics.TrackingTimersRunning, -1)
	}
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.InfoContext(context.Background(), "Tracking scheduler stopped")
}

// Start schedules the ticks of an order. It returns false when the order already
// has a running timer.
func (s *TrackingScheduler) Start(orderID kernel.UUID) (bool, error) {
	cmd, err := commands.NewAdvanceDeliveryCommand(orderID)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[orderID]; ok {
		return false, nil
	}

	id := s.cron.Schedule(interval(s.tick), cron.FuncJob(func() {
		s.advance(orderID, cmd)
	}))
	s.entries[orderID] = id
	s.metrics.Add(metrics.TrackingTimersRunning, 1)
	s.logger.DebugContext(s.ctx, "Tracking timer started", "order_id", orderID.String())
	return true, nil
}

// Stop cancels the timer of an order. Only the first call for a running timer
// returns true.
func (s *TrackingScheduler) Stop(orderID kernel.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.entries[orderID]
	if !ok {
		return false
	}
	s.cron.Remove(id)
	delete(s.entries, orderID)
	s.metrics.Add(metrics.TrackingTimersRunning, -1)
	s.logger.DebugContext(s.ctx, "Tracking timer stopped", "order_id", orderID.String())
	return true
}

func (s *TrackingScheduler) IsRunning(orderID kernel.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[orderID]
	return ok
}

// Running returns the number of active timers.
func (s *TrackingScheduler) Running() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

func (s *TrackingScheduler) advance(orderID kernel.UUID, cmd commands.AdvanceDeliveryCommand) {
	if s.ctx.Err() != nil {
		return
	}

	finished, err := s.advancer.Handle(s.ctx, cmd)
	if err != nil {
		s.logger.ErrorContext(s.ctx, "Tracking tick failed", "order_id", orderID.String(), "error", err)
		return
	}
	if finished {
		s.Stop(orderID)
	}
}
