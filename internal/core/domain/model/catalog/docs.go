// Package catalog models restaurants and the menu items they sell.
//
// MenuItem owns the stock counter that order creation reserves from and that
// cancellations and refunds release back into. Stock never goes negative.
package catalog
