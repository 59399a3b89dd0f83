// Package audit records lifecycle events as an append-only trail. Domain
// services emit events; a background worker persists them so request paths
// never block on the sink.
package audit

import (
	"context"
	"sync"
	"time"
)

// Action names the lifecycle event an audit entry describes.
type Action string

const (
	ActionSubmitted        Action = "complaint.submitted"
	ActionAssigned         Action = "complaint.assigned"
	ActionWorkStarted      Action = "complaint.work_started"
	ActionLocationChecked  Action = "complaint.location_checked"
	ActionWorkSubmitted    Action = "complaint.work_submitted"
	ActionVerdictRecorded  Action = "complaint.verdict_recorded"
	ActionSupervisorRuling Action = "complaint.supervisor_ruling"
	ActionClosed           Action = "complaint.closed"
	ActionVoteCast         Action = "complaint.vote_cast"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp   time.Time `json:"timestamp"`
	ComplaintID string    `json:"complaintId"`
	Actor       string    `json:"actor,omitempty"`
	Action      Action    `json:"action"`
	From        string    `json:"from,omitempty"`
	To          string    `json:"to,omitempty"`
	Note        string    `json:"note,omitempty"`
}

// Store persists events append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByComplaint(ctx context.Context, complaintID string) ([]Event, error)
}

// InMemoryStore keeps the trail in process memory.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByComplaint(_ context.Context, complaintID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.ComplaintID == complaintID {
			out = append(out, e)
		}
	}
	return out, nil
}
