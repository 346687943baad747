package http

import (
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// pathUUID binds a required path parameter such as {orderId}.
func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var raw openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &raw, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}

	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

// bodyUUID parses an identifier taken from a request body.
func bodyUUID(name, value string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(value)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

// listOrdersParams holds the optional filters of GET /api/v1/orders.
type listOrdersParams struct {
	userID *kernel.UUID
	status *order.Status
	limit  int
}

func bindListOrdersParams(c echo.Context) (listOrdersParams, error) {
	var (
		params listOrdersParams
		userID *openapi_types.UUID
		status *string
		limit  *int
	)

	if err := runtime.BindQueryParameter("form", true, false, "userId", c.QueryParams(), &userID); err != nil {
		return params, errs.NewValueIsInvalidErrorWithCause("userId", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "status", c.QueryParams(), &status); err != nil {
		return params, errs.NewValueIsInvalidErrorWithCause("status", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", c.QueryParams(), &limit); err != nil {
		return params, errs.NewValueIsInvalidErrorWithCause("limit", err)
	}

	if userID != nil {
		id, err := kernel.UUIDFromBytes(userID[:])
		if err != nil {
			return params, errs.NewValueIsInvalidErrorWithCause("userId", err)
		}
		params.userID = &id
	}
	if status != nil {
		s, err := order.ParseStatus(*status)
		if err != nil {
			return params, err
		}
		params.status = &s
	}
	if limit != nil {
		params.limit = *limit
	}
	return params, nil
}

// lineRequest is one cart line of a request body.
type lineRequest struct {
	MenuItemID string         `json:"menuItemId"`
	Qty        int            `json:"qty"`
	Options    map[string]any `json:"options,omitempty"`
}
