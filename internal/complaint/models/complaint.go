package models

import (
	"time"

	"samadhan/pkg/domainerrors"
	"samadhan/pkg/geo"
)

// IssueType is the closed enumeration of reportable civic issues.
type IssueType string

const (
	IssuePothole         IssueType = "Pothole"
	IssueStreetLight     IssueType = "StreetLight"
	IssueWaterLeak       IssueType = "WaterLeak"
	IssueWasteManagement IssueType = "WasteManagement"
	IssueOther           IssueType = "Other"
)

var issueTypes = map[IssueType]struct{}{
	IssuePothole:         {},
	IssueStreetLight:     {},
	IssueWaterLeak:       {},
	IssueWasteManagement: {},
	IssueOther:           {},
}

// Valid reports whether t is a known issue type.
func (t IssueType) Valid() bool {
	_, ok := issueTypes[t]
	return ok
}

// CommunityVotes are monotonically non-decreasing feedback counters.
type CommunityVotes struct {
	Up   int `json:"up"`
	Down int `json:"down"`
}

// Complaint is the aggregate root tracked by the lifecycle engine.
//
// Invariants:
//   - ID is assigned at creation (format SS-<year>-<4-digit>) and immutable
//   - Coordinates are the citizen-reported target location, immutable
//   - AIAnalysis is set exactly once per verification cycle, by the
//     verification engine, atomically with the status transition it drives
//   - CommunityVotes only ever increase
//   - Status changes go through the lifecycle service exclusively
//
// Photo fields are opaque artifact references; the engine never decodes
// image bytes.
type Complaint struct {
	ID           string          `json:"id"`
	IssueType    IssueType       `json:"issueType"`
	Description  string          `json:"description"`
	LocationName string          `json:"locationName"`
	Status       Status          `json:"status"`
	Coordinates  geo.Coordinates `json:"coordinates"`

	CitizenPhoto string `json:"citizenPhoto"`
	BeforePhoto  string `json:"beforePhoto,omitempty"`
	AfterPhoto   string `json:"afterPhoto,omitempty"`

	SubmissionTime time.Time `json:"submissionTime"`
	EstimatedSLA   time.Time `json:"estimatedSLA"`

	AssignedOfficerID  string           `json:"assignedOfficerId,omitempty"`
	WorkStartTime      *time.Time       `json:"workStartTime,omitempty"`
	OfficerCoordinates *geo.Coordinates `json:"officerCoordinates,omitempty"`

	AIAnalysis      *AIAnalysis `json:"aiAnalysis,omitempty"`
	SupervisorNotes string      `json:"supervisorNotes,omitempty"`

	CommunityVotes CommunityVotes `json:"communityVotes"`
}

// NewComplaint validates citizen input and builds a Submitted complaint.
// The store assigns the ID on create.
func NewComplaint(issueType IssueType, description, locationName string, coords geo.Coordinates, citizenPhoto string, area geo.Bounds, now time.Time, slaWindow time.Duration) (*Complaint, error) {
	if !issueType.Valid() {
		return nil, domainerrors.Newf(domainerrors.CodeValidation, "unknown issue type %q", issueType)
	}
	if citizenPhoto == "" {
		return nil, domainerrors.New(domainerrors.CodeValidation, "citizen photo reference is required")
	}
	if !area.Contains(coords) {
		return nil, domainerrors.New(domainerrors.CodeValidation, "coordinates fall outside the service area")
	}
	return &Complaint{
		IssueType:      issueType,
		Description:    description,
		LocationName:   locationName,
		Status:         StatusSubmitted,
		Coordinates:    coords,
		CitizenPhoto:   citizenPhoto,
		SubmissionTime: now,
		EstimatedSLA:   now.Add(slaWindow),
	}, nil
}

// HasEvidence reports whether both before and after artifacts are attached.
func (c *Complaint) HasEvidence() bool {
	return c.BeforePhoto != "" && c.AfterPhoto != ""
}

// Overdue reports whether the SLA deadline has passed without completion.
func (c *Complaint) Overdue(now time.Time) bool {
	return !c.Status.Completed() && now.After(c.EstimatedSLA)
}

// Clone returns a deep copy so store internals never leak shared pointers.
func (c *Complaint) Clone() *Complaint {
	dup := *c
	if c.WorkStartTime != nil {
		t := *c.WorkStartTime
		dup.WorkStartTime = &t
	}
	if c.OfficerCoordinates != nil {
		p := *c.OfficerCoordinates
		dup.OfficerCoordinates = &p
	}
	if c.AIAnalysis != nil {
		a := *c.AIAnalysis
		a.Notes = append([]string(nil), c.AIAnalysis.Notes...)
		dup.AIAnalysis = &a
	}
	return &dup
}
