package http

import (
	"net/http"

	"fooddelivery/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type validateCouponRequest struct {
	Code         string          `json:"code"`
	RestaurantID string          `json:"restaurantId"`
	Total        decimal.Decimal `json:"total"`
}

// ListRestaurants handles GET /api/v1/restaurants.
func (s *Server) ListRestaurants(c echo.Context) error {
	query := queries.NewListRestaurantsQuery(c.QueryParam("city"))
	views, err := s.handlers.Catalog.ListRestaurants(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// GetRestaurant handles GET /api/v1/restaurants/{restaurantId}.
func (s *Server) GetRestaurant(c echo.Context) error {
	restaurantID, err := pathUUID(c, "restaurantId")
	if err != nil {
		return err
	}

	query, err := queries.NewGetRestaurantQuery(restaurantID)
	if err != nil {
		return err
	}
	view, err := s.handlers.Catalog.GetRestaurant(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// GetMenu handles GET /api/v1/restaurants/{restaurantId}/menu.
func (s *Server) GetMenu(c echo.Context) error {
	restaurantID, err := pathUUID(c, "restaurantId")
	if err != nil {
		return err
	}

	query, err := queries.NewGetMenuQuery(restaurantID)
	if err != nil {
		return err
	}
	view, err := s.handlers.Catalog.GetMenu(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// ValidateCoupon handles POST /api/v1/coupons/validate. An unusable coupon is still
// a 200 response carrying the reason.
func (s *Server) ValidateCoupon(c echo.Context) error {
	var req validateCouponRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	restaurantID, err := bodyUUID("restaurantId", req.RestaurantID)
	if err != nil {
		return err
	}

	query, err := queries.NewValidateCouponQuery(req.Code, restaurantID, req.Total)
	if err != nil {
		return err
	}
	result, err := s.handlers.ValidateCoupon.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
