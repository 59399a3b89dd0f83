package store

import (
	"context"
	"time"

	"samadhan/internal/complaint/models"
	"samadhan/pkg/geo"
)

// SeedDemoComplaints loads the demo backlog so a fresh instance has every
// lifecycle stage represented. Create errors are ignored on purpose: seeding
// an already-populated store is a no-op.
func SeedDemoComplaints(s Store, now time.Time) {
	ctx := context.Background()
	sla := 48 * time.Hour

	seeds := []*models.Complaint{
		{
			ID:                "SS-2024-1024",
			IssueType:         models.IssuePothole,
			Description:       "Deep pothole near the main market entrance, causing traffic slowdown.",
			LocationName:      "MI Road, Jaipur",
			Status:            models.StatusAssigned,
			Coordinates:       geo.Coordinates{Lat: 26.9124, Lng: 75.8090},
			CitizenPhoto:      "artifact://seed/pothole-mi-road",
			SubmissionTime:    now.Add(-4 * time.Hour),
			EstimatedSLA:      now.Add(-4 * time.Hour).Add(sla),
			AssignedOfficerID: "OFF-001",
			CommunityVotes:    models.CommunityVotes{Up: 5},
		},
		{
			ID:             "SS-2024-1026",
			IssueType:      models.IssueWaterLeak,
			Description:    "Main pipeline leaking water on the street.",
			LocationName:   "Mansarovar Sector 5",
			Status:         models.StatusSubmitted,
			Coordinates:    geo.Coordinates{Lat: 26.8550, Lng: 75.7650},
			CitizenPhoto:   "artifact://seed/water-leak-mansarovar",
			SubmissionTime: now.Add(-50 * time.Hour),
			EstimatedSLA:   now.Add(-50 * time.Hour).Add(sla), // already overdue
			CommunityVotes: models.CommunityVotes{Up: 12, Down: 1},
		},
		{
			ID:                "SS-2024-1020",
			IssueType:         models.IssueWasteManagement,
			Description:       "Garbage not collected for 3 days.",
			LocationName:      "Raja Park",
			Status:            models.StatusVerified,
			Coordinates:       geo.Coordinates{Lat: 26.8900, Lng: 75.8200},
			CitizenPhoto:      "artifact://seed/waste-raja-park",
			BeforePhoto:       "artifact://seed/waste-raja-park-before",
			AfterPhoto:        "artifact://seed/waste-raja-park-after",
			SubmissionTime:    now.Add(-72 * time.Hour),
			EstimatedSLA:      now.Add(-72 * time.Hour).Add(sla),
			AssignedOfficerID: "OFF-003",
			AIAnalysis: &models.AIAnalysis{
				GPSMatch:        true,
				TimestampValid:  true,
				ChangeDetected:  true,
				QualityCheck:    true,
				ConfidenceScore: 96,
				Verdict:         models.VerdictApproved,
				Notes:           []string{"Clear difference detected", "Coordinates match within 3m"},
			},
			CommunityVotes: models.CommunityVotes{Up: 45, Down: 2},
		},
		{
			ID:                "SS-2024-1030",
			IssueType:         models.IssueOther,
			Description:       "Broken bench in the public park.",
			LocationName:      "Central Park",
			Status:            models.StatusPendingApproval,
			Coordinates:       geo.Coordinates{Lat: 26.9100, Lng: 75.8000},
			CitizenPhoto:      "artifact://seed/bench-central-park",
			BeforePhoto:       "artifact://seed/bench-central-park-before",
			AfterPhoto:        "artifact://seed/bench-central-park-after",
			SubmissionTime:    now.Add(-1 * time.Hour),
			EstimatedSLA:      now.Add(-1 * time.Hour).Add(sla),
			AssignedOfficerID: "OFF-004",
			AIAnalysis: &models.AIAnalysis{
				GPSMatch:        true,
				TimestampValid:  true,
				ChangeDetected:  true,
				QualityCheck:    true,
				ConfidenceScore: 89,
				Verdict:         models.VerdictApproved,
				Notes:           []string{"Good cleanup visible"},
			},
			CommunityVotes: models.CommunityVotes{},
		},
	}

	for _, c := range seeds {
		_, _ = s.Create(ctx, c)
	}
}
