package queries

import (
	"time"

	"fooddelivery/internal/core/domain/model/catalog"
	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"

	"github.com/shopspring/decimal"
)

// Point is a coordinate in the read models.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func pointOf(p kernel.GeoPoint) Point {
	return Point{Lat: p.Lat(), Lng: p.Lng()}
}

// OrderItemView is one order line with the menu name resolved.
type OrderItemView struct {
	ID         kernel.UUID     `json:"id"`
	MenuItemID kernel.UUID     `json:"menuItemId"`
	Name       string          `json:"name"`
	Qty        int             `json:"qty"`
	Price      decimal.Decimal `json:"price"`
	LineTotal  decimal.Decimal `json:"lineTotal"`
	Options    map[string]any  `json:"options,omitempty"`
}

// PaymentView is the payment record of an order.
type PaymentView struct {
	ID          kernel.UUID     `json:"id"`
	Channel     payment.Channel `json:"channel"`
	Amount      decimal.Decimal `json:"amount"`
	Status      payment.Status  `json:"status"`
	TxnID       string          `json:"txnId,omitempty"`
	ProcessedAt *time.Time      `json:"processedAt,omitempty"`
}

func paymentView(p *payment.Payment) *PaymentView {
	if p == nil {
		return nil
	}
	return &PaymentView{
		ID:          p.ID(),
		Channel:     p.Channel(),
		Amount:      p.Amount(),
		Status:      p.Status(),
		TxnID:       p.TxnID(),
		ProcessedAt: p.ProcessedAt(),
	}
}

// CourierLocationView is the last reported position of a courier.
type CourierLocationView struct {
	Point
	RecordedAt time.Time `json:"recordedAt"`
}

// DeliveryView is the delivery of an order together with its courier position.
type DeliveryView struct {
	ID          kernel.UUID          `json:"id"`
	OrderID     kernel.UUID          `json:"orderId"`
	CourierID   kernel.UUID          `json:"courierId"`
	CourierName string               `json:"courierName,omitempty"`
	Status      delivery.Status      `json:"status"`
	PickupEta   *time.Time           `json:"pickupEta,omitempty"`
	DropoffEta  *time.Time           `json:"dropoffEta,omitempty"`
	StartedAt   *time.Time           `json:"startedAt,omitempty"`
	CompletedAt *time.Time           `json:"completedAt,omitempty"`
	Route       []Point              `json:"route,omitempty"`
	Polyline    string               `json:"polyline,omitempty"`
	Progress    int                  `json:"progress"`
	Location    *CourierLocationView `json:"location,omitempty"`
}

func deliveryView(d *delivery.Delivery) *DeliveryView {
	if d == nil {
		return nil
	}
	v := &DeliveryView{
		ID:          d.ID(),
		OrderID:     d.OrderID(),
		CourierID:   d.CourierID(),
		Status:      d.Status(),
		PickupEta:   d.PickupEta(),
		DropoffEta:  d.DropoffEta(),
		StartedAt:   d.StartedAt(),
		CompletedAt: d.CompletedAt(),
		Progress:    d.Progress(),
	}
	if d.HasRoute() {
		for _, p := range d.Route() {
			v.Route = append(v.Route, pointOf(p))
		}
		v.Polyline = d.RoutePolyline()
	}
	return v
}

// OrderView is the full read model of an order.
type OrderView struct {
	ID             kernel.UUID     `json:"id"`
	UserID         kernel.UUID     `json:"userId"`
	RestaurantID   kernel.UUID     `json:"restaurantId"`
	RestaurantName string          `json:"restaurantName,omitempty"`
	GroupOrderID   *kernel.UUID    `json:"groupOrderId,omitempty"`
	Status         order.Status    `json:"status"`
	PayStatus      payment.Status  `json:"payStatus"`
	Items          []OrderItemView `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	CouponCode     string          `json:"couponCode,omitempty"`
	Total          decimal.Decimal `json:"total"`
	EtaMinutes     *int            `json:"etaMinutes,omitempty"`
	Dropoff        Point           `json:"dropoff"`
	Payment        *PaymentView    `json:"payment,omitempty"`
	Delivery       *DeliveryView   `json:"delivery,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func orderView(o *order.Order, names map[kernel.UUID]string) OrderView {
	items := make([]OrderItemView, 0, len(o.Items()))
	for _, it := range o.Items() {
		items = append(items, OrderItemView{
			ID:         it.ID(),
			MenuItemID: it.MenuItemID(),
			Name:       names[it.MenuItemID()],
			Qty:        it.Qty(),
			Price:      it.Price(),
			LineTotal:  it.LineTotal(),
			Options:    it.Options(),
		})
	}

	return OrderView{
		ID:             o.ID(),
		UserID:         o.UserID(),
		RestaurantID:   o.RestaurantID(),
		GroupOrderID:   o.GroupOrderID(),
		Status:         o.Status(),
		PayStatus:      o.PayStatus(),
		Items:          items,
		Subtotal:       o.Subtotal(),
		DiscountAmount: o.DiscountAmount(),
		CouponCode:     o.CouponCode(),
		Total:          o.Total(),
		EtaMinutes:     o.EtaMinutes(),
		Dropoff:        pointOf(o.Dropoff()),
		CreatedAt:      o.CreatedAt(),
		UpdatedAt:      o.UpdatedAt(),
	}
}

// RestaurantView is a catalog entry.
type RestaurantView struct {
	ID        kernel.UUID `json:"id"`
	Name      string      `json:"name"`
	City      string      `json:"city"`
	Location  Point       `json:"location"`
	Rating    float64     `json:"rating"`
	OpenHours string      `json:"openHours"`
	IsOpen    bool        `json:"isOpen"`
}

func restaurantView(r *catalog.Restaurant) RestaurantView {
	return RestaurantView{
		ID:        r.ID(),
		Name:      r.Name(),
		City:      r.City(),
		Location:  pointOf(r.Location()),
		Rating:    r.Rating(),
		OpenHours: r.OpenHours(),
		IsOpen:    r.IsOpen(),
	}
}

// MenuItemView is a dish with its remaining stock.
type MenuItemView struct {
	ID      kernel.UUID     `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Stock   int             `json:"stock"`
	Options map[string]any  `json:"options,omitempty"`
}

func menuItemView(m *catalog.MenuItem) MenuItemView {
	return MenuItemView{
		ID:      m.ID(),
		Name:    m.Name(),
		Price:   m.Price(),
		Stock:   m.Stock(),
		Options: m.Options(),
	}
}
