package http

import (
	"net/http"

	"fooddelivery/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// ListUsers handles GET /api/v1/users.
func (s *Server) ListUsers(c echo.Context) error {
	views, err := s.handlers.Users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// GetUser handles GET /api/v1/users/{userId}.
func (s *Server) GetUser(c echo.Context) error {
	userID, err := pathUUID(c, "userId")
	if err != nil {
		return err
	}

	query, err := queries.NewGetUserQuery(userID)
	if err != nil {
		return err
	}
	view, err := s.handlers.Users.Get(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}
