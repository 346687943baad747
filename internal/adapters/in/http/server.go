package http

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"
)

// AdminTokenHeader carries the shared secret of privileged routes.
const AdminTokenHeader = "X-Admin-Token"

// Config tunes the HTTP surface.
type Config struct {
	// AdminToken guards privileged routes. An empty token rejects every privileged call.
	AdminToken string
	// RateLimitRPS is the per-client request rate on /api. Zero disables limiting.
	RateLimitRPS   float64
	RateLimitBurst int
	// Heartbeat is the interval of keep-alive comments on tracking streams.
	Heartbeat time.Duration
}

// Handlers groups the use cases the server exposes.
type Handlers struct {
	CreateOrder       commands.CreateOrderCommandHandler
	TransitionOrder   commands.TransitionOrderCommandHandler
	TransitionPayment commands.TransitionPaymentCommandHandler
	StartDelivery     commands.StartDeliveryCommandHandler
	RecordLocation    commands.RecordCourierLocationCommandHandler
	GroupOrders       commands.GroupOrderCommandHandler
	CreateCoupon      commands.CreateCouponCommandHandler

	GetOrder        queries.GetOrderQueryHandler
	ListOrders      queries.ListOrdersQueryHandler
	GetDelivery     queries.GetDeliveryQueryHandler
	Catalog         queries.CatalogQueryHandler
	ValidateCoupon  queries.ValidateCouponQueryHandler
	Users           queries.UserQueryHandler
	Coupons         queries.CouponQueryHandler
	GroupOrderReads queries.GroupOrderQueryHandler
	Analytics       queries.AnalyticsQueryHandler
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	cfg      Config
	handlers Handlers
	tracking ports.TrackingSubscriber
	metrics  *metrics.Registry
	logger   *slog.Logger
	clock    func() time.Time
}

// NewServer creates a server. tracking feeds the Server-Sent Events endpoint and registry
// backs /metrics.
func NewServer(
	cfg Config,
	handlers Handlers,
	tracking ports.TrackingSubscriber,
	registry *metrics.Registry,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Heartbeat <= 0 {
		cfg.Heartbeat = 15 * time.Second
	}
	return &Server{
		cfg:      cfg,
		handlers: handlers,
		tracking: tracking,
		metrics:  registry,
		logger:   logger.With("component", "http"),
		clock:    time.Now,
	}
}

// Echo builds the router with every route and middleware registered.
func (s *Server) Echo(ctx context.Context) (*echo.Echo, error) {
	router, err := loadRouter(ctx)
	if err != nil {
		return nil, err
	}
	registerSwaggerDoc()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(s.logger)
	e.Use(middleware.Recover())
	e.Use(s.requestLogger())

	e.GET("/health", s.Health)
	e.GET("/metrics", s.Metrics)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	var groupMiddleware []echo.MiddlewareFunc
	if s.cfg.RateLimitRPS > 0 {
		groupMiddleware = append(groupMiddleware, s.rateLimiter())
	}
	api := e.Group("/api/v1", groupMiddleware...)

	validate := requestValidator(router)
	admin := s.adminOnly()

	api.GET("/orders", s.ListOrders, validate)
	api.POST("/orders", s.CreateOrder, validate)
	api.GET("/orders/:orderId", s.GetOrder, validate)
	api.POST("/orders/:orderId/transition", s.TransitionOrder, admin, validate)
	api.POST("/orders/:orderId/payments", s.TransitionPayment, validate)
	api.POST("/orders/:orderId/delivery/start", s.StartDelivery, admin, validate)
	api.GET("/orders/:orderId/tracking", s.SubscribeTracking, validate)

	api.POST("/deliveries/location", s.RecordCourierLocation, admin, validate)
	api.GET("/deliveries/:orderId", s.GetDelivery, validate)

	api.GET("/restaurants", s.ListRestaurants, validate)
	api.GET("/restaurants/:restaurantId", s.GetRestaurant, validate)
	api.GET("/restaurants/:restaurantId/menu", s.GetMenu, validate)

	api.GET("/coupons", s.ListCoupons, validate)
	api.POST("/coupons", s.CreateCoupon, admin, validate)
	api.POST("/coupons/validate", s.ValidateCoupon, validate)

	api.GET("/users", s.ListUsers, validate)
	api.GET("/users/:userId", s.GetUser, validate)

	api.GET("/group-orders", s.ListGroupOrders, validate)
	api.GET("/group-orders/:groupOrderId", s.GetGroupOrder, validate)
	api.POST("/group-orders", s.CreateGroupOrder, validate)
	api.POST("/group-orders/:groupOrderId/items", s.AddGroupOrderItems, validate)
	api.POST("/group-orders/:groupOrderId/checkout", s.CheckoutGroupOrder, validate)

	api.GET("/analytics/summary", s.AnalyticsSummary, admin, validate)
	api.GET("/analytics/forecast", s.AnalyticsForecast, admin, validate)

	return e, nil
}

// adminOnly rejects requests without the configured admin token.
func (s *Server) adminOnly() echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup: "header:" + AdminTokenHeader,
		Validator: func(key string, _ echo.Context) (bool, error) {
			if s.cfg.AdminToken == "" {
				return false, nil
			}
			return subtle.ConstantTimeCompare([]byte(key), []byte(s.cfg.AdminToken)) == 1, nil
		},
		ErrorHandler: func(_ error, _ echo.Context) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "admin token is missing or invalid")
		},
	})
}

func (s *Server) rateLimiter() echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(s.cfg.RateLimitRPS),
		Burst:     s.cfg.RateLimitBurst,
		ExpiresIn: 3 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{Store: store})
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				s.logger.WarnContext(c.Request().Context(), "request", append(attrs, "error", v.Error)...)
				return nil
			}
			s.logger.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	})
}
