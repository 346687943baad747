package queries

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const (
	// DefaultForecastMinutes is the horizon used when none is requested.
	DefaultForecastMinutes = 60
	MaxForecastMinutes     = 24 * 60

	// forecastWindow is the look-back the order rate is measured over.
	forecastWindow = time.Hour
)

var ErrForecastQueryIsNotConstructed = errors.New("ForecastQuery must be created via NewForecastQuery constructor")

// ForecastQuery asks for the expected order volume over the next minutes.
type ForecastQuery struct { //nolint:recvcheck //using for validation
	minutes int

	guard guard.ConstructorGuard
}

func NewForecastQuery(minutes int) (ForecastQuery, error) {
	if minutes < 1 || minutes > MaxForecastMinutes {
		return ForecastQuery{}, errs.NewValueIsOutOfRangeError("minutes", minutes, 1, MaxForecastMinutes)
	}
	return ForecastQuery{minutes: minutes, guard: guard.NewConstructorGuard()}, nil
}

func (q ForecastQuery) Validate() error {
	return q.guard.Validate(ErrForecastQueryIsNotConstructed)
}

// SalesTotals counts orders and sums their payable totals.
type SalesTotals struct {
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// RestaurantSales are the totals of one restaurant.
type RestaurantSales struct {
	RestaurantID   kernel.UUID `json:"restaurantId"`
	RestaurantName string      `json:"restaurantName"`
	City           string      `json:"city,omitempty"`
	SalesTotals
}

// SalesSummary is the order volume of the whole service and per restaurant.
type SalesSummary struct {
	Totals       SalesTotals       `json:"totals"`
	ByRestaurant []RestaurantSales `json:"byRestaurant"`
	GeneratedAt  time.Time         `json:"generatedAt"`
}

// ForecastPoint is the expected number of orders in the minute ending at TS.
type ForecastPoint struct {
	TS             time.Time `json:"ts"`
	ExpectedOrders float64   `json:"expectedOrders"`
}

// Forecast projects the recent order rate forward.
type Forecast struct {
	HorizonMinutes int             `json:"horizonMinutes"`
	PerMinute      float64         `json:"perMinute"`
	Points         []ForecastPoint `json:"points"`
}

// AnalyticsQueryHandler aggregates orders for operators.
type AnalyticsQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	clock      func() time.Time
}

// NewAnalyticsQueryHandler creates the handler. A nil clock means time.Now.
func NewAnalyticsQueryHandler(uowFactory ports.UnitOfWorkFactory, clock func() time.Time) AnalyticsQueryHandler {
	if clock == nil {
		clock = time.Now
	}
	return AnalyticsQueryHandler{uowFactory: uowFactory, clock: clock}
}

// Summary counts every order whatever its status, and revenue is the sum of the
// totals after discount. Restaurants are listed by revenue, highest first.
func (h AnalyticsQueryHandler) Summary(ctx context.Context) (SalesSummary, error) {
	summary := SalesSummary{
		Totals:       SalesTotals{Revenue: decimal.Zero},
		ByRestaurant: make([]RestaurantSales, 0),
		GeneratedAt:  h.clock().UTC(),
	}

	err := read(ctx, h.uowFactory, func(uow ports.UnitOfWork) error {
		orders, err := uow.Orders().List(ctx)
		if err != nil {
			return err
		}

		index := make(map[kernel.UUID]int)
		for _, o := range orders {
			i, ok := index[o.RestaurantID()]
			if !ok {
				sales, err := restaurantSales(ctx, uow, o.RestaurantID())
				if err != nil {
					return err
				}
				i = len(summary.ByRestaurant)
				index[o.RestaurantID()] = i
				summary.ByRestaurant = append(summary.ByRestaurant, sales)
			}
			summary.ByRestaurant[i].Orders++
			summary.ByRestaurant[i].Revenue = summary.ByRestaurant[i].Revenue.Add(o.Total())
			summary.Totals.Orders++
			summary.Totals.Revenue = summary.Totals.Revenue.Add(o.Total())
		}
		return nil
	})
	if err != nil {
		return SalesSummary{}, err
	}

	slices.SortStableFunc(summary.ByRestaurant, func(a, b RestaurantSales) int {
		if c := b.Revenue.Cmp(a.Revenue); c != 0 {
			return c
		}
		return cmp.Compare(a.RestaurantName, b.RestaurantName)
	})
	return summary, nil
}

func restaurantSales(ctx context.Context, uow ports.UnitOfWork, restaurantID kernel.UUID) (RestaurantSales, error) {
	sales := RestaurantSales{
		RestaurantID:   restaurantID,
		RestaurantName: restaurantID.String(),
		SalesTotals:    SalesTotals{Revenue: decimal.Zero},
	}
	r, found, err := optional(uow.Restaurants().Get(ctx, restaurantID))
	if err != nil {
		return RestaurantSales{}, err
	}
	if found {
		sales.RestaurantName = r.Name()
		sales.City = r.City()
	}
	return sales, nil
}

// Forecast assumes the order rate of the last hour holds for the whole horizon.
func (h AnalyticsQueryHandler) Forecast(ctx context.Context, query ForecastQuery) (Forecast, error) {
	if err := query.Validate(); err != nil {
		return Forecast{}, err
	}

	now := h.clock().UTC()
	since := now.Add(-forecastWindow)

	recent := 0
	err := read(ctx, h.uowFactory, func(uow ports.UnitOfWork) error {
		orders, err := uow.Orders().List(ctx)
		if err != nil {
			return err
		}
		for _, o := range orders {
			if o.CreatedAt().After(since) {
				recent++
			}
		}
		return nil
	})
	if err != nil {
		return Forecast{}, err
	}

	perMinute := float64(recent) / forecastWindow.Minutes()
	points := make([]ForecastPoint, 0, query.minutes)
	for i := 1; i <= query.minutes; i++ {
		points = append(points, ForecastPoint{
			TS:             now.Add(time.Duration(i) * time.Minute),
			ExpectedOrders: perMinute,
		})
	}

	return Forecast{HorizonMinutes: query.minutes, PerMinute: perMinute, Points: points}, nil
}
