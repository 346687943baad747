// Package metrics keeps the process-wide business counters exposed on /metrics.
package metrics

import (
	"sync/atomic"
)

// Counter names a business counter.
type Counter string

const (
	OrdersCreated          Counter = "orders_created"
	PaymentsPaid           Counter = "payments_paid"
	PaymentsFailed         Counter = "payments_failed"
	DeliveriesStarted      Counter = "deliveries_started"
	DispatchAssignments    Counter = "dispatch_assignments"
	GroupOrdersCreated     Counter = "group_orders_created"
	GroupOrdersCheckedOut  Counter = "group_orders_checked_out"
	CouponsRedeemed        Counter = "coupons_redeemed"
	TrackingSubscribers    Counter = "tracking_subscribers"
	TrackingTimersRunning  Counter = "tracking_timers_running"
	TrackingUpdatesEmitted Counter = "tracking_updates_emitted"
)

func counters() []Counter {
	return []Counter{
		OrdersCreated, PaymentsPaid, PaymentsFailed, DeliveriesStarted, DispatchAssignments,
		GroupOrdersCreated, GroupOrdersCheckedOut, CouponsRedeemed,
		TrackingSubscribers, TrackingTimersRunning, TrackingUpdatesEmitted,
	}
}

// Registry holds one atomic value per Counter. A nil *Registry discards everything,
// which keeps wiring optional in tests.
type Registry struct {
	values map[Counter]*atomic.Int64
}

// NewRegistry creates a registry with every counter at zero.
func NewRegistry() *Registry {
	r := &Registry{values: make(map[Counter]*atomic.Int64)}
	for _, c := range counters() {
		r.values[c] = new(atomic.Int64)
	}
	return r
}

// Inc adds one to c.
func (r *Registry) Inc(c Counter) {
	r.Add(c, 1)
}

// Add adds delta to c. Gauges such as TrackingSubscribers go down with a negative delta.
func (r *Registry) Add(c Counter, delta int64) {
	if r == nil {
		return
	}
	if v, ok := r.values[c]; ok {
		v.Add(delta)
	}
}

// Get returns the current value of c.
func (r *Registry) Get(c Counter) int64 {
	if r == nil {
		return 0
	}
	if v, ok := r.values[c]; ok {
		return v.Load()
	}
	return 0
}

// Snapshot returns a copy of every counter.
func (r *Registry) Snapshot() map[Counter]int64 {
	out := make(map[Counter]int64)
	if r == nil {
		return out
	}
	for c, v := range r.values {
		out[c] = v.Load()
	}
	return out
}
