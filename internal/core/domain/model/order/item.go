package order

import (
	"errors"
	"fmt"
	"maps"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrItemIsNotConstructed is returned when a zero-value Item is used.
var ErrItemIsNotConstructed = errs.NewValueIsRequiredError("Item must be created via NewItem constructor")

// Item is one cart line. Price is the unit price of the menu item at the moment the
// order was placed and is immutable.
type Item struct {
	id         kernel.UUID
	menuItemID kernel.UUID
	qty        int
	price      decimal.Decimal
	options    map[string]any
	guard      guard.ConstructorGuard
}

// NewItem validates its arguments and builds an Item.
func NewItem(id, menuItemID kernel.UUID, qty int, price decimal.Decimal, options map[string]any) (*Item, error) {
	it := &Item{
		options: maps.Clone(options),
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		it.setID(id),
		it.setMenuItemID(menuItemID),
		it.setQty(qty),
		it.setPrice(price),
	); err != nil {
		return nil, err
	}

	return it, nil
}

// Validate returns ErrItemIsNotConstructed for nil and zero values.
func (it *Item) Validate() error {
	if it == nil {
		return ErrItemIsNotConstructed
	}
	return it.guard.Validate(ErrItemIsNotConstructed)
}

func (it *Item) ID() kernel.UUID {
	return it.id
}

func (it *Item) MenuItemID() kernel.UUID {
	return it.menuItemID
}

func (it *Item) Qty() int {
	return it.qty
}

func (it *Item) Price() decimal.Decimal {
	return it.price
}

// Options returns a shallow copy of the options bag.
func (it *Item) Options() map[string]any {
	return maps.Clone(it.options)
}

// LineTotal returns price×qty.
func (it *Item) LineTotal() decimal.Decimal {
	return it.price.Mul(decimal.NewFromInt(int64(it.qty)))
}

func (it *Item) clone() *Item {
	c := *it
	c.options = maps.Clone(it.options)
	return &c
}

func (it *Item) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	it.id = id
	return nil
}

func (it *Item) setMenuItemID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("menuItemID", err)
	}
	it.menuItemID = id
	return nil
}

func (it *Item) setQty(qty int) error {
	if qty <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("qty", fmt.Errorf("%d is not greater than 0", qty))
	}
	it.qty = qty
	return nil
}

func (it *Item) setPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%s is negative", price))
	}
	it.price = price
	return nil
}
