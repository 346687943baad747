package http

import (
	"net/http"
	"time"

	"fooddelivery/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// MetricsResponse is the body of GET /metrics.
type MetricsResponse struct {
	Counters  map[metrics.Counter]int64 `json:"counters"`
	Timestamp time.Time                 `json:"timestamp"`
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Timestamp: s.clock().UTC()})
}

// Metrics handles GET /metrics with a snapshot of the business counters.
func (s *Server) Metrics(c echo.Context) error {
	return c.JSON(http.StatusOK, MetricsResponse{Counters: s.metrics.Snapshot(), Timestamp: s.clock().UTC()})
}
