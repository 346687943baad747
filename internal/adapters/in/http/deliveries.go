package http

import (
	"net/http"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// AckResponse confirms an accepted command that has no resource to return.
type AckResponse struct {
	OrderID *kernel.UUID `json:"orderId,omitempty"`
	Message string       `json:"message"`
}

type locationRequest struct {
	CourierID string  `json:"courierId"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
}

// StartDelivery handles POST /api/v1/orders/{orderId}/delivery/start.
func (s *Server) StartDelivery(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}

	cmd, err := commands.NewStartDeliveryCommand(orderID)
	if err != nil {
		return err
	}
	if err = s.handlers.StartDelivery.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AckResponse{OrderID: &orderID, Message: "Delivery tracking started"})
}

// GetDelivery handles GET /api/v1/deliveries/{orderId}.
func (s *Server) GetDelivery(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}

	query, err := queries.NewGetDeliveryQuery(orderID)
	if err != nil {
		return err
	}
	view, err := s.handlers.GetDelivery.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// RecordCourierLocation handles POST /api/v1/deliveries/location.
func (s *Server) RecordCourierLocation(c echo.Context) error {
	var req locationRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	courierID, err := bodyUUID("courierId", req.CourierID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRecordCourierLocationCommand(courierID, req.Lat, req.Lng)
	if err != nil {
		return err
	}
	if err = s.handlers.RecordLocation.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, AckResponse{Message: "Location update accepted"})
}
