// Package delivery models the courier leg of an order.
//
// The package includes:
//   - Delivery: one per order, created when a courier is dispatched; it also
//     carries the planned route and how far along it the simulated courier is
//   - Status: the delivery state machine
//   - CourierLocation: the single last-known position of a courier
//   - TrackingUpdate: the ephemeral message pushed to order watchers
//
// A Delivery never moves past DELIVERED or FAILED; both are terminal.
package delivery
