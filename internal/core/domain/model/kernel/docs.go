// Package kernel provides the shared domain primitives of the food delivery service.
//
// The package includes:
//   - UUID: identifier value object used by every aggregate
//   - GeoPoint: latitude/longitude value object with great-circle distance and interpolation
//
// Both are immutable and safe for concurrent use. Their zero values are invalid and fail
// Validate, so an uninitialised field is caught at the aggregate boundary.
package kernel
