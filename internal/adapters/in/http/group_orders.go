package http

import (
	"errors"
	"net/http"
	"time"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/payment"

	"github.com/labstack/echo/v4"
)

type createGroupOrderRequest struct {
	HostUserID   string     `json:"hostUserId"`
	RestaurantID string     `json:"restaurantId"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
}

type groupOrderItemsRequest struct {
	UserID string        `json:"userId"`
	Items  []lineRequest `json:"items"`
}

type checkoutGroupOrderRequest struct {
	PaymentChannel string `json:"paymentChannel"`
	CouponCode     string `json:"couponCode,omitempty"`
}

// GroupOrderResponse identifies a group order after a change.
type GroupOrderResponse struct {
	GroupOrderID kernel.UUID `json:"groupOrderId"`
	Message      string      `json:"message"`
}

// ListGroupOrders handles GET /api/v1/group-orders.
func (s *Server) ListGroupOrders(c echo.Context) error {
	views, err := s.handlers.GroupOrderReads.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// GetGroupOrder handles GET /api/v1/group-orders/{groupOrderId}.
func (s *Server) GetGroupOrder(c echo.Context) error {
	groupID, err := pathUUID(c, "groupOrderId")
	if err != nil {
		return err
	}

	query, err := queries.NewGetGroupOrderQuery(groupID)
	if err != nil {
		return err
	}
	view, err := s.handlers.GroupOrderReads.Get(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// CreateGroupOrder handles POST /api/v1/group-orders.
func (s *Server) CreateGroupOrder(c echo.Context) error {
	var req createGroupOrderRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	hostID, hostErr := bodyUUID("hostUserId", req.HostUserID)
	restaurantID, restaurantErr := bodyUUID("restaurantId", req.RestaurantID)
	if err := errors.Join(hostErr, restaurantErr); err != nil {
		return err
	}

	cmd, err := commands.NewCreateGroupOrderCommand(hostID, restaurantID, req.ExpiresAt)
	if err != nil {
		return err
	}
	groupID, err := s.handlers.GroupOrders.Create(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, GroupOrderResponse{GroupOrderID: groupID, Message: "Group order opened"})
}

// AddGroupOrderItems handles POST /api/v1/group-orders/{groupOrderId}/items.
func (s *Server) AddGroupOrderItems(c echo.Context) error {
	groupID, err := pathUUID(c, "groupOrderId")
	if err != nil {
		return err
	}
	var req groupOrderItemsRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}
	userID, userErr := bodyUUID("userId", req.UserID)
	lines, linesErr := orderLines(req.Items)
	if err = errors.Join(userErr, linesErr); err != nil {
		return err
	}

	cmd, err := commands.NewAddGroupOrderItemsCommand(groupID, userID, lines)
	if err != nil {
		return err
	}
	if err = s.handlers.GroupOrders.AddItems(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, GroupOrderResponse{GroupOrderID: groupID, Message: "Items added"})
}

// CheckoutGroupOrder handles POST /api/v1/group-orders/{groupOrderId}/checkout. The
// merged cart becomes one order owned by the host.
func (s *Server) CheckoutGroupOrder(c echo.Context) error {
	groupID, err := pathUUID(c, "groupOrderId")
	if err != nil {
		return err
	}
	var req checkoutGroupOrderRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}
	channel, err := payment.ParseChannel(req.PaymentChannel)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCheckoutGroupOrderCommand(groupID, channel, req.CouponCode)
	if err != nil {
		return err
	}
	orderID, err := s.handlers.GroupOrders.Checkout(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return s.renderOrder(c, http.StatusCreated, orderID)
}
