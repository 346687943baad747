package http

import (
	"net/http"

	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// AnalyticsSummary handles GET /api/v1/analytics/summary.
func (s *Server) AnalyticsSummary(c echo.Context) error {
	summary, err := s.handlers.Analytics.Summary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// AnalyticsForecast handles GET /api/v1/analytics/forecast?minutes=N.
func (s *Server) AnalyticsForecast(c echo.Context) error {
	var minutes *int
	if err := runtime.BindQueryParameter("form", true, false, "minutes", c.QueryParams(), &minutes); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("minutes", err)
	}
	horizon := queries.DefaultForecastMinutes
	if minutes != nil {
		horizon = *minutes
	}

	query, err := queries.NewForecastQuery(horizon)
	if err != nil {
		return err
	}
	forecast, err := s.handlers.Analytics.Forecast(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, forecast)
}
