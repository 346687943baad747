package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// TrackingEvent is the data of one "tracking" Server-Sent Event.
type TrackingEvent struct {
	OrderID    kernel.UUID     `json:"orderId"`
	CourierID  kernel.UUID     `json:"courierId"`
	Lat        float64         `json:"lat"`
	Lng        float64         `json:"lng"`
	Status     delivery.Status `json:"status"`
	EtaMinutes int             `json:"etaMinutes"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func trackingEvent(u delivery.TrackingUpdate) TrackingEvent {
	return TrackingEvent{
		OrderID:    u.OrderID,
		CourierID:  u.CourierID,
		Lat:        u.Lat,
		Lng:        u.Lng,
		Status:     u.Status,
		EtaMinutes: u.EtaMinutes,
		UpdatedAt:  u.UpdatedAt,
	}
}

// SubscribeTracking handles GET /api/v1/orders/{orderId}/tracking. It streams the
// updates published after the call as Server-Sent Events until the client leaves.
func (s *Server) SubscribeTracking(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	if err = s.orderExists(c, orderID); err != nil {
		return err
	}

	ctx := c.Request().Context()
	updates, err := s.tracking.Subscribe(ctx, orderID)
	if err != nil {
		return err
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if _, err = fmt.Fprint(w, ": subscribed\n\n"); err != nil {
		return nil
	}
	w.Flush()

	heartbeat := time.NewTicker(s.cfg.Heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err = writeEvent(w, "tracking", trackingEvent(update)); err != nil {
				s.logger.DebugContext(ctx, "tracking stream closed", "orderId", orderID, "error", err)
				return nil
			}
		case <-heartbeat.C:
			if _, err = fmt.Fprint(w, ": ping\n\n"); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}

func (s *Server) orderExists(c echo.Context, orderID kernel.UUID) error {
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return err
	}
	_, err = s.handlers.GetOrder.Handle(c.Request().Context(), query)
	return err
}

func writeEvent(w *echo.Response, name string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload); err != nil {
		return err
	}
	w.Flush()
	return nil
}
