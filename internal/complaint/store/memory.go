package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"samadhan/internal/complaint/models"
	"samadhan/pkg/sentinel"
)

// firstSequence keeps generated IDs four digits wide, matching the historical
// SS-<year>-<seq> numbering.
const firstSequence = 1000

// InMemory keeps complaints in a mutex-guarded map. It favors clarity over
// performance and is the default store for local runs and tests.
type InMemory struct {
	mu         sync.RWMutex
	complaints map[string]*models.Complaint
	nextSeq    int
}

// NewInMemory constructs an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{
		complaints: make(map[string]*models.Complaint),
		nextSeq:    firstSequence,
	}
}

func (s *InMemory) Create(_ context.Context, c *models.Complaint) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = fmt.Sprintf("SS-%d-%04d", c.SubmissionTime.Year(), s.nextSeq)
		s.nextSeq++
	} else if _, exists := s.complaints[c.ID]; exists {
		return "", sentinel.ErrConflict
	}
	s.complaints[c.ID] = c.Clone()
	return c.ID, nil
}

func (s *InMemory) Get(_ context.Context, id string) (*models.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.complaints[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return c.Clone(), nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Complaint, 0, len(s.complaints))
	for _, c := range s.complaints {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmissionTime.Equal(out[j].SubmissionTime) {
			return out[i].ID > out[j].ID
		}
		return out[i].SubmissionTime.After(out[j].SubmissionTime)
	})
	return out, nil
}

// Update applies the patch under the store lock, so guards and writes on one
// record are a single atomic step and updates apply in submission order.
func (s *InMemory) Update(_ context.Context, id string, p Patch) (*models.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.complaints[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	next := current.Clone()
	if err := p.apply(next); err != nil {
		return nil, err
	}
	s.complaints[id] = next
	return next.Clone(), nil
}
