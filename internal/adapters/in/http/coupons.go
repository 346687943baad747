package http

import (
	"net/http"
	"time"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type createCouponRequest struct {
	Code           string           `json:"code"`
	Type           string           `json:"type"`
	Value          decimal.Decimal  `json:"value"`
	RestaurantID   *string          `json:"restaurantId,omitempty"`
	MinOrderAmount *decimal.Decimal `json:"minOrderAmount,omitempty"`
	ValidFrom      *time.Time       `json:"validFrom,omitempty"`
	ValidTo        *time.Time       `json:"validTo,omitempty"`
	UsageLimit     *int             `json:"usageLimit,omitempty"`
	Active         *bool            `json:"active,omitempty"`
}

func (r createCouponRequest) command() (commands.CreateCouponCommand, error) {
	draft := commands.CouponDraft{
		Code:           r.Code,
		Type:           r.Type,
		Value:          r.Value,
		MinOrderAmount: r.MinOrderAmount,
		ValidFrom:      r.ValidFrom,
		ValidTo:        r.ValidTo,
		UsageLimit:     r.UsageLimit,
		Active:         r.Active,
	}
	if r.RestaurantID != nil {
		id, err := bodyUUID("restaurantId", *r.RestaurantID)
		if err != nil {
			return commands.CreateCouponCommand{}, err
		}
		draft.RestaurantID = &id
	}
	return commands.NewCreateCouponCommand(draft)
}

// ListCoupons handles GET /api/v1/coupons.
func (s *Server) ListCoupons(c echo.Context) error {
	views, err := s.handlers.Coupons.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// CreateCoupon handles POST /api/v1/coupons and answers with the stored coupon.
func (s *Server) CreateCoupon(c echo.Context) error {
	var req createCouponRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	cmd, err := req.command()
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err = s.handlers.CreateCoupon.Handle(ctx, cmd); err != nil {
		return err
	}
	query, err := queries.NewGetCouponQuery(cmd.Code())
	if err != nil {
		return err
	}
	view, err := s.handlers.Coupons.Get(ctx, query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}

