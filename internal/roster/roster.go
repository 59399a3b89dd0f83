// Package roster exposes the field-officer reference data. The lifecycle
// engine only reads it; roster management lives in a separate system.
package roster

import (
	"context"
	"sync"

	"samadhan/pkg/sentinel"
)

// Officer is reference data about a field officer. Not mutated by lifecycle
// events.
type Officer struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Avatar        string  `json:"avatar"`
	JobsCompleted int     `json:"jobsCompleted"`
	AvgTime       string  `json:"avgTime"`
	QualityScore  int     `json:"qualityScore"`
	CitizenRating float64 `json:"citizenRating"`
}

// Store is the read-only roster contract consumed by the lifecycle service.
type Store interface {
	Lookup(ctx context.Context, officerID string) (*Officer, error)
	List(ctx context.Context) ([]*Officer, error)
}

// InMemory is a map-backed roster.
type InMemory struct {
	mu       sync.RWMutex
	officers map[string]Officer
	order    []string
}

// NewInMemory constructs a roster seeded with the given officers.
func NewInMemory(officers ...Officer) *InMemory {
	s := &InMemory{officers: make(map[string]Officer, len(officers))}
	for _, o := range officers {
		s.officers[o.ID] = o
		s.order = append(s.order, o.ID)
	}
	return s
}

func (s *InMemory) Lookup(_ context.Context, officerID string) (*Officer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if o, ok := s.officers[officerID]; ok {
		return &o, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) List(_ context.Context) ([]*Officer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Officer, 0, len(s.order))
	for _, id := range s.order {
		o := s.officers[id]
		out = append(out, &o)
	}
	return out, nil
}

// DefaultRoster is the municipal crew the demo deployment ships with.
func DefaultRoster() *InMemory {
	return NewInMemory(
		Officer{ID: "OFF-001", Name: "Rajesh Kumar", Avatar: "RK", JobsCompleted: 142, AvgTime: "3.5h", QualityScore: 98, CitizenRating: 4.8},
		Officer{ID: "OFF-002", Name: "Suresh Singh", Avatar: "SS", JobsCompleted: 89, AvgTime: "4.2h", QualityScore: 92, CitizenRating: 4.5},
		Officer{ID: "OFF-003", Name: "Anita Desai", Avatar: "AD", JobsCompleted: 210, AvgTime: "2.8h", QualityScore: 99, CitizenRating: 4.9},
		Officer{ID: "OFF-004", Name: "Vikram Mehta", Avatar: "VM", JobsCompleted: 65, AvgTime: "5.1h", QualityScore: 85, CitizenRating: 4.0},
		Officer{ID: "OFF-005", Name: "Priya Sharma", Avatar: "PS", JobsCompleted: 112, AvgTime: "3.9h", QualityScore: 94, CitizenRating: 4.7},
	)
}
