// Package geofence decides whether an observed field position is acceptably
// close to a complaint's declared coordinates.
package geofence

import "samadhan/pkg/geo"

// DefaultToleranceMeters is the pass radius used when none is configured.
const DefaultToleranceMeters = 20.0

// Result reports one presence check.
type Result struct {
	Passed         bool    `json:"passed"`
	DistanceMeters float64 `json:"distanceMeters"`
}

// Validator is a pure presence check around a target coordinate. Safe for
// concurrent use.
type Validator struct {
	toleranceMeters float64
}

// New constructs a Validator; a non-positive tolerance falls back to the
// default.
func New(toleranceMeters float64) *Validator {
	if toleranceMeters <= 0 {
		toleranceMeters = DefaultToleranceMeters
	}
	return &Validator{toleranceMeters: toleranceMeters}
}

// Verify computes the great-circle distance between target and observed and
// passes strictly inside the tolerance. Deterministic, no side effects.
func (v *Validator) Verify(target, observed geo.Coordinates) Result {
	d := geo.Distance(target, observed)
	return Result{
		Passed:         d < v.toleranceMeters,
		DistanceMeters: d,
	}
}

// ToleranceMeters exposes the configured radius for diagnostics.
func (v *Validator) ToleranceMeters() float64 {
	return v.toleranceMeters
}
