// Package geo holds the coordinate primitives shared by the lifecycle engine:
// positions, the service-area bounding box, and great-circle distance.
package geo

import (
	"context"
	"math"
)

// earthRadiusMeters is the mean Earth radius used by the haversine formula.
const earthRadiusMeters = 6371000.0

// Coordinates is a WGS84 position in floating-point degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is the service-area bounding box. Citizen- and officer-supplied
// positions must fall inside it at creation time.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// Contains reports whether c lies within the bounding box (inclusive).
func (b Bounds) Contains(c Coordinates) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat &&
		c.Lng >= b.MinLng && c.Lng <= b.MaxLng
}

// Distance computes the haversine great-circle distance between two
// coordinates in meters. Pure and symmetric; identical inputs yield 0.
func Distance(a, b Coordinates) float64 {
	phi1 := a.Lat * math.Pi / 180
	phi2 := b.Lat * math.Pi / 180
	dPhi := (b.Lat - a.Lat) * math.Pi / 180
	dLambda := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// PositionSource yields an observed device position. The real implementation
// lives outside the engine; tests and demos use simulated sources.
type PositionSource interface {
	CurrentPosition(ctx context.Context) (Coordinates, error)
}
