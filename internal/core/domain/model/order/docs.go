// Package order provides the Order aggregate root of the food delivery service.
//
// The package includes:
//   - Order: the aggregate root holding the cart, totals, payment mirror and ETA
//   - Item: a cart line with the unit price captured at ordering time
//   - Status: the order state machine
//
// Key business rules:
//   - An order always has at least one item and every item has qty > 0
//   - Item prices are snapshotted and never change after creation
//   - total = Σ price×qty − discount, never negative
//   - Status follows the transition table in status.go; terminal states are
//     COMPLETED, CANCELLED, REFUNDED and FAILED
//   - PayStatus mirrors the paired payment.Payment and only changes through SetPayStatus
package order
