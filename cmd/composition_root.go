package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpadapter "fooddelivery/internal/adapters/in/http"
	"fooddelivery/internal/adapters/out/events"
	"fooddelivery/internal/adapters/out/kafka"
	"fooddelivery/internal/adapters/out/memory"
	"fooddelivery/internal/adapters/out/postgres"
	"fooddelivery/internal/adapters/out/pubsub"
	"fooddelivery/internal/adapters/out/rabbitmq"
	"fooddelivery/internal/adapters/out/redis"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/jobs"
	"fooddelivery/internal/pkg/metrics"
)

// CompositionRoot owns the long-lived dependencies of the process and builds the
// handlers on top of them.
type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger

	uowFactory  ports.UnitOfWorkFactory
	idempotency ports.IdempotencyStore
	events      ports.EventPublisher
	broker      *pubsub.Broker
	registry    *metrics.Registry
	effects     *commands.Effects
	planner     services.RoutePlanner
	scheduler   *jobs.TrackingScheduler

	closers []func() error
}

// NewCompositionRoot connects the configured store and brokers. On error everything
// opened so far is closed again.
func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (_ *CompositionRoot, err error) {
	c := &CompositionRoot{
		cfg:      cfg,
		logger:   logger,
		registry: metrics.NewRegistry(),
	}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	if err = c.openStore(); err != nil {
		return nil, err
	}
	if err = c.openIdempotency(ctx); err != nil {
		return nil, err
	}
	if err = c.openEvents(); err != nil {
		return nil, err
	}

	c.planner, err = services.NewRoutePlanner(services.DefaultRouteWaypoints)
	if err != nil {
		return nil, err
	}
	c.broker = pubsub.NewBroker(c.registry, logger)
	c.effects = commands.NewEffects(c.events, c.broker, c.registry, logger)
	c.scheduler = jobs.NewTrackingScheduler(
		commands.NewAdvanceDeliveryCommandHandler(c.uowFactory, c.effects),
		cfg.TrackingTick,
		c.registry,
		logger,
	)
	return c, nil
}

func (c *CompositionRoot) openStore() error {
	switch c.cfg.StoreDriver {
	case StorePostgres:
		db, err := postgres.Open(c.cfg.PostgresDSN(), c.logger)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		c.closers = append(c.closers, sqlDB.Close)
		if err = postgres.Migrate(db); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
		c.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
	default:
		c.uowFactory = memory.NewUnitOfWorkFactory(memory.NewStore())
	}
	c.logger.Info("Store ready", "driver", c.cfg.StoreDriver)
	return nil
}

func (c *CompositionRoot) openIdempotency(ctx context.Context) error {
	if c.cfg.RedisAddr == "" {
		c.idempotency = memory.NewIdempotencyStore()
		return nil
	}

	rdb := redis.NewClient(c.cfg.RedisAddr)
	c.closers = append(c.closers, rdb.Close)
	store := redis.NewIdempotencyStore(rdb)
	if err := store.Ping(ctx); err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	c.idempotency = store
	return nil
}

func (c *CompositionRoot) openEvents() error {
	sinks := []ports.EventPublisher{events.NewLogPublisher(c.logger)}

	if len(c.cfg.KafkaBrokers) > 0 {
		publisher := kafka.NewEventPublisher(c.cfg.KafkaBrokers, c.cfg.KafkaOrderEventsTopic, c.logger)
		c.closers = append(c.closers, publisher.Close)
		sinks = append(sinks, publisher)
	}
	if c.cfg.RabbitMQURL != "" {
		notifier, err := rabbitmq.Dial(c.cfg.RabbitMQURL, c.logger)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, notifier.Close)
		sinks = append(sinks, notifier)
	}

	c.events = events.NewFanout(sinks...)
	return nil
}

func (c *CompositionRoot) UnitOfWorkFactory() ports.UnitOfWorkFactory {
	return c.uowFactory
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uowFactory, c.idempotency, c.effects, c.logger)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.uowFactory, c.scheduler, c.planner, c.effects)
}

func (c *CompositionRoot) CreateTransitionPaymentCommandHandler() commands.TransitionPaymentCommandHandler {
	return commands.NewTransitionPaymentCommandHandler(c.uowFactory, nil, c.effects, c.logger)
}

func (c *CompositionRoot) CreateStartDeliveryCommandHandler() commands.StartDeliveryCommandHandler {
	return commands.NewStartDeliveryCommandHandler(c.uowFactory, c.scheduler, c.planner, c.effects)
}

func (c *CompositionRoot) CreateDispatchPendingOrdersCommandHandler() commands.DispatchPendingOrdersCommandHandler {
	return commands.NewDispatchPendingOrdersCommandHandler(c.uowFactory, c.effects)
}

// CreateJobManager builds the jobs sharing the tracking scheduler of the handlers.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	retry := jobs.NewDispatchRetryJob(c.CreateDispatchPendingOrdersCommandHandler(), c.cfg.DispatchRetrySpec, c.logger)
	return jobs.NewJobManager(c.scheduler, retry)
}

// CreateHTTPServer wires every use case into the HTTP adapter.
func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	handlers := httpadapter.Handlers{
		CreateOrder:       c.CreateCreateOrderCommandHandler(),
		TransitionOrder:   c.CreateTransitionOrderCommandHandler(),
		TransitionPayment: c.CreateTransitionPaymentCommandHandler(),
		StartDelivery:     c.CreateStartDeliveryCommandHandler(),
		RecordLocation:    commands.NewRecordCourierLocationCommandHandler(c.uowFactory),
		GroupOrders:       commands.NewGroupOrderCommandHandler(c.uowFactory, c.effects),
		GetOrder:          queries.NewGetOrderQueryHandler(c.uowFactory),
		ListOrders:        queries.NewListOrdersQueryHandler(c.uowFactory),
		GetDelivery:       queries.NewGetDeliveryQueryHandler(c.uowFactory),
		Catalog:           queries.NewCatalogQueryHandler(c.uowFactory),
		ValidateCoupon:    queries.NewValidateCouponQueryHandler(c.uowFactory),
		CreateCoupon:      commands.NewCreateCouponCommandHandler(c.uowFactory),
		Users:             queries.NewUserQueryHandler(c.uowFactory),
		Coupons:           queries.NewCouponQueryHandler(c.uowFactory),
		GroupOrderReads:   queries.NewGroupOrderQueryHandler(c.uowFactory),
		Analytics:         queries.NewAnalyticsQueryHandler(c.uowFactory, nil),
	}
	return httpadapter.NewServer(httpadapter.Config{
		AdminToken:     c.cfg.AdminToken,
		RateLimitRPS:   c.cfg.RateLimitRPS,
		RateLimitBurst: c.cfg.RateLimitBurst,
	}, handlers, c.broker, c.registry, c.logger)
}

// Close releases connections in reverse order of opening.
func (c *CompositionRoot) Close() error {
	var problems []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			problems = append(problems, err)
		}
	}
	c.closers = nil
	return errors.Join(problems...)
}
