// Package kernel contains shared value objects used across the domain model.
//
// It provides:
//   - UUID: an immutable identifier wrapping github.com/google/uuid
//   - GeoPoint: a validated geographic coordinate pair
//
// All value objects in this package are immutable and must be created through
// their constructor functions; zero values fail validation.
package kernel
