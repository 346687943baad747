package catalog

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrMenuItemIsNotConstructed is returned when a zero-value MenuItem is used.
var ErrMenuItemIsNotConstructed = errs.NewValueIsRequiredError("MenuItem must be created via NewMenuItem constructor")

// MenuItem is a dish sold by a restaurant together with its remaining stock.
//
// Invariants:
//   - price is non-negative
//   - stock is never negative
type MenuItem struct {
	id           kernel.UUID
	restaurantID kernel.UUID
	name         string
	price        decimal.Decimal
	options      map[string]any
	stock        int
	guard        guard.ConstructorGuard
}

// NewMenuItem validates its arguments and builds a MenuItem. options is an opaque
// bag (spice levels, sizes) that the service only stores and echoes back.
func NewMenuItem(
	id, restaurantID kernel.UUID,
	name string,
	price decimal.Decimal,
	options map[string]any,
	stock int,
) (*MenuItem, error) {
	m := &MenuItem{
		options: maps.Clone(options),
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		m.setID(id),
		m.setRestaurantID(restaurantID),
		m.setName(name),
		m.setPrice(price),
		m.setStock(stock),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// Validate returns ErrMenuItemIsNotConstructed for nil and zero values.
func (m *MenuItem) Validate() error {
	if m == nil {
		return ErrMenuItemIsNotConstructed
	}
	return m.guard.Validate(ErrMenuItemIsNotConstructed)
}

func (m *MenuItem) ID() kernel.UUID { return m.id }
func (m *MenuItem) RestaurantID() kernel.UUID { return m.restaurantID }
func (m *MenuItem) Name() string { return m.name }
func (m *MenuItem) Price() decimal.Decimal { return m.price }
func (m *MenuItem) Stock() int { return m.stock }

// Options returns a shallow copy of the options bag.
func (m *MenuItem) Options() map[string]any {
	return maps.Clone(m.options)
}

// BelongsTo reports whether the item is sold by the given restaurant.
func (m *MenuItem) BelongsTo(restaurantID kernel.UUID) bool {
	return m.restaurantID.IsEqual(restaurantID)
}

// AdjustStock adds delta to the stock counter. A result below zero is rejected
// and leaves the counter unchanged.
func (m *MenuItem) AdjustStock(delta int) error {
	next := m.stock + delta
	if next < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"stock",
			fmt.Errorf("insufficient stock for %s: have %d, need %d", m.name, m.stock, -delta),
		)
	}
	m.stock = next
	return nil
}

// Reserve takes qty units out of stock.
func (m *MenuItem) Reserve(qty int) error {
	if qty <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("qty", fmt.Errorf("%d is not greater than 0", qty))
	}
	return m.AdjustStock(-qty)
}

// Release puts qty units back into stock.
func (m *MenuItem) Release(qty int) error {
	if qty <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("qty", fmt.Errorf("%d is not greater than 0", qty))
	}
	return m.AdjustStock(qty)
}

// Clone returns an independent copy, so stores can hand out snapshots that callers
// mutate without touching the stored value.
func (m *MenuItem) Clone() *MenuItem {
	c := *m
	c.options = maps.Clone(m.options)
	return &c
}

func (m *MenuItem) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	m.id = id
	return nil
}

func (m *MenuItem) setRestaurantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("restaurantID", err)
	}
	m.restaurantID = id
	return nil
}

func (m *MenuItem) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	m.name = name
	return nil
}

func (m *MenuItem) setPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%s is negative", price))
	}
	m.price = price
	return nil
}

func (m *MenuItem) setStock(stock int) error {
	if stock < 0 {
		return errs.NewValueIsInvalidErrorWithCause("stock", fmt.Errorf("%d is negative", stock))
	}
	m.stock = stock
	return nil
}
