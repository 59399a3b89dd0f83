// Package adjudication is the supervisor's ruling surface over complaints
// awaiting review.
package adjudication

import (
	"context"

	"samadhan/internal/complaint/models"
	"samadhan/pkg/domainerrors"
)

// Decision is a supervisor ruling.
type Decision string

const (
	DecisionApprove Decision = "Approve"
	DecisionReject  Decision = "Reject"
)

// Lifecycle is the slice of the lifecycle controller the adjudicator uses.
type Lifecycle interface {
	Approve(ctx context.Context, id, notes string) (*models.Complaint, error)
	Reject(ctx context.Context, id, notes string) (*models.Complaint, error)
}

// Adjudicator applies supervisor rulings to complaints in PendingApproval or
// Flagged. All status writes go through the lifecycle controller.
type Adjudicator struct {
	lifecycle Lifecycle
}

func New(lifecycle Lifecycle) *Adjudicator {
	return &Adjudicator{lifecycle: lifecycle}
}

// Decide records one ruling. Approve promotes to Verified; Reject returns the
// complaint to InProgress for rework, clearing the automated verdict so the
// next submission is judged fresh.
func (a *Adjudicator) Decide(ctx context.Context, id string, decision Decision, notes string) (*models.Complaint, error) {
	switch decision {
	case DecisionApprove:
		return a.lifecycle.Approve(ctx, id, notes)
	case DecisionReject:
		return a.lifecycle.Reject(ctx, id, notes)
	default:
		return nil, domainerrors.Newf(domainerrors.CodeValidation, "unknown decision %q", decision)
	}
}
