package services

import (
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
)

const (
	// DefaultRouteWaypoints is the number of points of a simulated route, endpoints included.
	DefaultRouteWaypoints = 5

	// MinutesPerStep is the ETA weight of one remaining waypoint.
	MinutesPerStep = 2
)

// RoutePlanner produces the deterministic route the tracking simulator follows.
type RoutePlanner struct {
	waypoints int
}

// NewRoutePlanner returns a planner emitting the given number of waypoints (at least 2).
func NewRoutePlanner(waypoints int) (RoutePlanner, error) {
	if waypoints < 2 {
		return RoutePlanner{}, errs.NewValueIsOutOfRangeError("waypoints", waypoints, 2, "unbounded")
	}
	return RoutePlanner{waypoints: waypoints}, nil
}

// Plan interpolates linearly from the restaurant to the drop-off. The first waypoint
// is the restaurant and the last is the drop-off.
func (p RoutePlanner) Plan(from, to kernel.GeoPoint) ([]kernel.GeoPoint, error) {
	n := p.waypoints
	if n < 2 {
		n = DefaultRouteWaypoints
	}

	route := make([]kernel.GeoPoint, 0, n)
	for i := range n {
		pt, err := from.Interpolate(to, float64(i)/float64(n-1))
		if err != nil {
			return nil, err
		}
		route = append(route, pt)
	}
	return route, nil
}

// EtaForRemaining converts the number of waypoints still ahead into minutes.
func EtaForRemaining(remaining int) int {
	return max(remaining, 0) * MinutesPerStep
}
