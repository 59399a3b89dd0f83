package service

import (
	"context"

	"samadhan/internal/complaint/models"
	"samadhan/pkg/domainerrors"
	"samadhan/pkg/requestcontext"
)

// Stats aggregates the live complaint set for dashboards.
type Stats struct {
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"byStatus"`
	ByIssueType    map[string]int `json:"byIssueType"`
	Overdue        int            `json:"overdue"`
	ResolutionRate float64        `json:"resolutionRate"`
}

// ComputeStats derives aggregate counts from the current complaint set.
// Resolution rate counts Verified and Closed complaints against the total.
func (s *Service) ComputeStats(ctx context.Context) (*Stats, error) {
	all, err := s.complaints.List(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to list complaints")
	}

	now := requestcontext.Now(ctx)
	st := &Stats{
		Total:       len(all),
		ByStatus:    make(map[string]int),
		ByIssueType: make(map[string]int),
	}
	resolved := 0
	for _, c := range all {
		st.ByStatus[string(c.Status)]++
		st.ByIssueType[string(c.IssueType)]++
		if c.Overdue(now) {
			st.Overdue++
		}
		if c.Status == models.StatusVerified || c.Status == models.StatusClosed {
			resolved++
		}
	}
	if st.Total > 0 {
		st.ResolutionRate = float64(resolved) / float64(st.Total)
	}
	return st, nil
}
