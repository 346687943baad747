package http

import (
	"errors"
	"net/http"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// IdempotencyKeyHeader lets clients retry order creation without placing the order twice.
const IdempotencyKeyHeader = "Idempotency-Key"

type createOrderRequest struct {
	UserID         string        `json:"userId"`
	RestaurantID   string        `json:"restaurantId"`
	PaymentChannel string        `json:"paymentChannel"`
	Items          []lineRequest `json:"items"`
	CouponCode     string        `json:"couponCode,omitempty"`
	GroupOrderID   string        `json:"groupOrderId,omitempty"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	cmd, err := req.command()
	if err != nil {
		return err
	}
	cmd = cmd.WithIdempotencyKey(c.Request().Header.Get(IdempotencyKeyHeader))

	orderID, err := s.handlers.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return s.renderOrder(c, http.StatusCreated, orderID)
}

func (r createOrderRequest) command() (commands.CreateOrderCommand, error) {
	userID, userErr := bodyUUID("userId", r.UserID)
	restaurantID, restaurantErr := bodyUUID("restaurantId", r.RestaurantID)
	channel, channelErr := payment.ParseChannel(r.PaymentChannel)
	lines, linesErr := orderLines(r.Items)
	if err := errors.Join(userErr, restaurantErr, channelErr, linesErr); err != nil {
		return commands.CreateOrderCommand{}, err
	}

	cmd, err := commands.NewCreateOrderCommand(userID, restaurantID, lines, channel, r.CouponCode)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}
	if r.GroupOrderID != "" {
		groupID, err := bodyUUID("groupOrderId", r.GroupOrderID)
		if err != nil {
			return commands.CreateOrderCommand{}, err
		}
		cmd = cmd.WithGroupOrder(groupID)
	}
	return cmd, nil
}

// ListOrders handles GET /api/v1/orders.
func (s *Server) ListOrders(c echo.Context) error {
	params, err := bindListOrdersParams(c)
	if err != nil {
		return err
	}
	query, err := queries.NewListOrdersQuery(params.userID, params.status, params.limit)
	if err != nil {
		return err
	}

	views, err := s.handlers.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	return s.renderOrder(c, http.StatusOK, orderID)
}

// TransitionOrder handles POST /api/v1/orders/{orderId}/transition.
func (s *Server) TransitionOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var req statusRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}
	next, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, next)
	if err != nil {
		return err
	}
	if err = s.handlers.TransitionOrder.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.renderOrder(c, http.StatusOK, orderID)
}

// TransitionPayment handles POST /api/v1/orders/{orderId}/payments.
func (s *Server) TransitionPayment(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var req statusRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}
	next, err := payment.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewTransitionPaymentCommand(orderID, next)
	if err != nil {
		return err
	}
	if err = s.handlers.TransitionPayment.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.renderOrder(c, http.StatusOK, orderID)
}

func (s *Server) renderOrder(c echo.Context, status int, orderID kernel.UUID) error {
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return err
	}
	view, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(status, view)
}

func orderLines(items []lineRequest) ([]commands.OrderLine, error) {
	lines := make([]commands.OrderLine, 0, len(items))
	var problems []error
	for _, item := range items {
		id, err := bodyUUID("menuItemId", item.MenuItemID)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		lines = append(lines, commands.OrderLine{MenuItemID: id, Qty: item.Qty, Options: item.Options})
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}
	return lines, nil
}

// bindBody decodes a JSON body. Malformed JSON is a validation error.
func bindBody(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	return nil
}
