// Package store owns complaint persistence. All mutations on one complaint ID
// apply in submission order; the record returned to callers is always a copy.
package store

import (
	"context"
	"time"

	"samadhan/internal/complaint/models"
	"samadhan/pkg/geo"
	"samadhan/pkg/sentinel"
)

// Store is the complaint repository contract. Implementations serialize
// updates per ID so concurrent officer/supervisor/voter operations cannot
// interleave into an inconsistent record.
type Store interface {
	// Create assigns an ID (SS-<year>-<seq>) and persists the complaint.
	Create(ctx context.Context, c *models.Complaint) (string, error)
	// Get returns a copy of the complaint or sentinel.ErrNotFound.
	Get(ctx context.Context, id string) (*models.Complaint, error)
	// List returns all complaints, newest submission first.
	List(ctx context.Context) ([]*models.Complaint, error)
	// Update applies a shallow merge of the set fields in one atomic step.
	// A non-empty ExpectStatus guard makes the whole update conditional.
	Update(ctx context.Context, id string, p Patch) (*models.Complaint, error)
}

// Patch is a partial update. Nil pointer fields are left untouched; the ID is
// never writable. Guards and writes apply atomically: on any rejection the
// record is unchanged.
type Patch struct {
	// ExpectStatus, when non-empty, requires the current status to be one of
	// the listed states. Violation returns sentinel.ErrInvalidState.
	ExpectStatus []models.Status

	Status             *models.Status
	AssignedOfficerID  *string
	WorkStartTime      *time.Time
	OfficerCoordinates *geo.Coordinates
	BeforePhoto        *string
	AfterPhoto         *string

	// AIAnalysis is write-once: setting it while a record is already present
	// returns sentinel.ErrInvalidState. ClearAIAnalysis removes the record
	// (supervisor-reject policy) and wins over a simultaneous set.
	AIAnalysis      *models.AIAnalysis
	ClearAIAnalysis bool

	SupervisorNotes *string

	// Vote increments; counters are monotonic so negatives are rejected.
	UpVotes   int
	DownVotes int
}

// apply merges p into c in place. Callers hold whatever lock serializes the
// record. c must be a private copy until the merge succeeds.
func (p Patch) apply(c *models.Complaint) error {
	if len(p.ExpectStatus) > 0 {
		matched := false
		for _, s := range p.ExpectStatus {
			if c.Status == s {
				matched = true
				break
			}
		}
		if !matched {
			return sentinel.ErrInvalidState
		}
	}

	if p.UpVotes < 0 || p.DownVotes < 0 {
		return sentinel.ErrInvalidState
	}
	if p.AIAnalysis != nil && !p.ClearAIAnalysis && c.AIAnalysis != nil {
		return sentinel.ErrInvalidState
	}

	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.AssignedOfficerID != nil {
		c.AssignedOfficerID = *p.AssignedOfficerID
	}
	if p.WorkStartTime != nil {
		t := *p.WorkStartTime
		c.WorkStartTime = &t
	}
	if p.OfficerCoordinates != nil {
		pos := *p.OfficerCoordinates
		c.OfficerCoordinates = &pos
	}
	if p.BeforePhoto != nil {
		c.BeforePhoto = *p.BeforePhoto
	}
	if p.AfterPhoto != nil {
		c.AfterPhoto = *p.AfterPhoto
	}
	if p.ClearAIAnalysis {
		c.AIAnalysis = nil
	}
	if p.AIAnalysis != nil && !p.ClearAIAnalysis {
		a := *p.AIAnalysis
		a.Notes = append([]string(nil), p.AIAnalysis.Notes...)
		c.AIAnalysis = &a
	}
	if p.SupervisorNotes != nil {
		c.SupervisorNotes = *p.SupervisorNotes
	}
	c.CommunityVotes.Up += p.UpVotes
	c.CommunityVotes.Down += p.DownVotes

	return nil
}
