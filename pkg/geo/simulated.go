package geo

import (
	"context"
	"math/rand"
	"sync"
)

// SimulatedSource is a PositionSource that jitters around a fixed target.
// Demos and tests use it in place of device geolocation.
type SimulatedSource struct {
	mu            sync.Mutex
	target        Coordinates
	jitterDegrees float64
	rng           *rand.Rand
}

// NewSimulatedSource reports positions within jitterDegrees of target on each
// axis. A nil rng falls back to the shared global source.
func NewSimulatedSource(target Coordinates, jitterDegrees float64, rng *rand.Rand) *SimulatedSource {
	return &SimulatedSource{
		target:        target,
		jitterDegrees: jitterDegrees,
		rng:           rng,
	}
}

func (s *SimulatedSource) CurrentPosition(_ context.Context) (Coordinates, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Coordinates{
		Lat: s.target.Lat + s.offset(),
		Lng: s.target.Lng + s.offset(),
	}, nil
}

func (s *SimulatedSource) offset() float64 {
	var roll float64
	if s.rng != nil {
		roll = s.rng.Float64()
	} else {
		roll = rand.Float64()
	}
	return (roll*2 - 1) * s.jitterDegrees
}
