// Package services provides domain services that work across several aggregates of
// the food delivery system and don't naturally belong to any single one of them.
//
// The package includes:
//   - CourierDispatcher: picks the courier with the lowest ETA+load score for an order
//   - TravelMinutes / SpeedKmh: the great-circle travel time estimate the dispatcher uses
//   - RoutePlanner: the deterministic waypoint list the tracking simulator follows
//
// Domain services are stateless and safe for concurrent use.
package services
