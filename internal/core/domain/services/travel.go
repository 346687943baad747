package services

import (
	"math"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
)

const (
	// DefaultSpeedKmh is the courier speed for cities without an entry in the speed table.
	DefaultSpeedKmh = 15.0

	// MinTravelMinutes is the floor of every leg estimate; nobody arrives instantly.
	MinTravelMinutes = 3
)

func getCitySpeeds() map[string]float64 {
	return map[string]float64{
		"HKG": 18,
		"SHA": 20,
	}
}

// SpeedKmh returns the average courier speed for a city code, e.g. "HKG".
func SpeedKmh(city string) float64 {
	if speed, ok := getCitySpeeds()[strings.ToUpper(strings.TrimSpace(city))]; ok {
		return speed
	}
	return DefaultSpeedKmh
}

// TravelMinutes estimates how long a courier needs from a to b in the given city:
// max(round(km / speed × 60), MinTravelMinutes).
func TravelMinutes(a, b kernel.GeoPoint, city string) (int, error) {
	km, err := a.DistanceKm(b)
	if err != nil {
		return 0, err
	}
	minutes := int(math.Round(km / SpeedKmh(city) * 60))
	return max(minutes, MinTravelMinutes), nil
}
