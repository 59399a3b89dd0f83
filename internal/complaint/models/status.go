package models

// Status is the lifecycle state of a complaint.
//
// Invariants:
//   - Submitted is the sole initial state; Closed is the sole terminal state
//   - A complaint only moves along edges in the transition table below
//   - The single backward edge is supervisor rejection, which returns a
//     complaint awaiting review to InProgress
type Status string

const (
	StatusSubmitted           Status = "Submitted"
	StatusAssigned            Status = "Assigned"
	StatusInProgress          Status = "InProgress"
	StatusPendingVerification Status = "PendingVerification"
	StatusFlagged             Status = "Flagged"
	StatusPendingApproval     Status = "PendingApproval"
	StatusVerified            Status = "Verified"
	StatusClosed              Status = "Closed"
)

// transitions is the authoritative edge table. The lifecycle service is the
// only writer of Status and consults this before every update.
var transitions = map[Status][]Status{
	StatusSubmitted:           {StatusAssigned},
	StatusAssigned:            {StatusInProgress},
	StatusInProgress:          {StatusPendingVerification},
	StatusPendingVerification: {StatusPendingApproval, StatusFlagged},
	StatusPendingApproval:     {StatusVerified, StatusInProgress},
	StatusFlagged:             {StatusVerified, StatusInProgress},
	StatusVerified:            {StatusClosed},
	StatusClosed:              {},
}

// CanTransitionTo reports whether the edge s -> next is in the table.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further transitions exist from s.
func (s Status) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// AwaitingReview reports whether s is eligible for supervisor adjudication.
func (s Status) AwaitingReview() bool {
	return s == StatusPendingApproval || s == StatusFlagged
}

// Completed reports whether community feedback is open for this state.
func (s Status) Completed() bool {
	return s == StatusVerified || s == StatusClosed
}
