// Package service implements the complaint lifecycle controller. It is the
// sole authority for status transitions: every actor-facing operation goes
// through here, and no other component writes Status.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"samadhan/internal/audit"
	"samadhan/internal/complaint/models"
	"samadhan/internal/complaint/store"
	"samadhan/internal/geofence"
	"samadhan/internal/platform/metrics"
	"samadhan/internal/roster"
	"samadhan/pkg/domainerrors"
	"samadhan/pkg/geo"
	"samadhan/pkg/requestcontext"
	"samadhan/pkg/sentinel"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks OfficerRoster,AuditPublisher,VerificationQueue

// OfficerRoster is the read-only officer lookup consumed by assignment.
type OfficerRoster interface {
	Lookup(ctx context.Context, officerID string) (*roster.Officer, error)
}

// AuditPublisher receives lifecycle events after each committed write.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// VerificationQueue admits complaints into the automated verification
// pipeline. Enqueue returns sentinel.ErrBusy when the backlog is full.
type VerificationQueue interface {
	Enqueue(complaintID string) error
}

// Service orchestrates the complaint lifecycle over the store.
type Service struct {
	complaints store.Store
	officers   OfficerRoster
	validator  *geofence.Validator

	queue VerificationQueue

	area      geo.Bounds
	slaWindow time.Duration

	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   AuditPublisher
}

// Option configures optional service dependencies.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.audit = publisher }
}

// WithServiceArea overrides the default Jaipur bounding box.
func WithServiceArea(area geo.Bounds) Option {
	return func(s *Service) { s.area = area }
}

// WithSLAWindow overrides the fixed 48h resolution deadline.
func WithSLAWindow(d time.Duration) Option {
	return func(s *Service) { s.slaWindow = d }
}

// New constructs the lifecycle controller. The verification queue is attached
// afterwards via SetVerificationQueue because the engine needs the service to
// report completions.
func New(complaints store.Store, officers OfficerRoster, validator *geofence.Validator, opts ...Option) *Service {
	s := &Service{
		complaints: complaints,
		officers:   officers,
		validator:  validator,
		area:       geo.Bounds{MinLat: 26.8, MaxLat: 27.0, MinLng: 75.7, MaxLng: 75.9},
		slaWindow:  48 * time.Hour,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetVerificationQueue wires the engine's admission queue once both sides
// exist. Must be called before the first SubmitWork.
func (s *Service) SetVerificationQueue(q VerificationQueue) {
	s.queue = q
}

// SubmitInput is the citizen-facing creation payload.
type SubmitInput struct {
	IssueType    models.IssueType
	Description  string
	LocationName string
	Coordinates  geo.Coordinates
	CitizenPhoto string
}

// Submit creates a new complaint in Submitted and stamps its SLA deadline.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*models.Complaint, error) {
	now := requestcontext.Now(ctx)

	c, err := models.NewComplaint(in.IssueType, in.Description, in.LocationName, in.Coordinates, in.CitizenPhoto, s.area, now, s.slaWindow)
	if err != nil {
		return nil, err
	}

	id, err := s.complaints.Create(ctx, c)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to create complaint")
	}
	c.ID = id

	if s.metrics != nil {
		s.metrics.ComplaintsCreated.Inc()
	}
	s.logAudit(ctx, audit.Event{
		ComplaintID: id,
		Action:      audit.ActionSubmitted,
		To:          string(models.StatusSubmitted),
	})
	s.logger.InfoContext(ctx, "complaint submitted",
		"complaint_id", id,
		"issue_type", string(in.IssueType),
	)
	return c, nil
}

// Get returns one complaint by ID.
func (s *Service) Get(ctx context.Context, id string) (*models.Complaint, error) {
	c, err := s.complaints.Get(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err, "get")
	}
	return c, nil
}

// List returns all complaints, newest first.
func (s *Service) List(ctx context.Context) ([]*models.Complaint, error) {
	return s.complaints.List(ctx)
}

// Assign attaches an officer to a Submitted complaint.
func (s *Service) Assign(ctx context.Context, id, officerID string) (*models.Complaint, error) {
	if _, err := s.officers.Lookup(ctx, officerID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, domainerrors.Newf(domainerrors.CodeNotFound, "officer %s is not on the roster", officerID)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "roster lookup failed")
	}

	c, err := s.transition(ctx, id, "assign", store.Patch{
		ExpectStatus:      []models.Status{models.StatusSubmitted},
		Status:            statusPtr(models.StatusAssigned),
		AssignedOfficerID: &officerID,
	})
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, audit.Event{
		ComplaintID: id,
		Actor:       officerID,
		Action:      audit.ActionAssigned,
		From:        string(models.StatusSubmitted),
		To:          string(models.StatusAssigned),
	})
	return c, nil
}

// StartWork moves an Assigned complaint to InProgress and records the start
// time.
func (s *Service) StartWork(ctx context.Context, id string) (*models.Complaint, error) {
	now := requestcontext.Now(ctx)
	c, err := s.transition(ctx, id, "startWork", store.Patch{
		ExpectStatus:  []models.Status{models.StatusAssigned},
		Status:        statusPtr(models.StatusInProgress),
		WorkStartTime: &now,
	})
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, audit.Event{
		ComplaintID: id,
		Actor:       c.AssignedOfficerID,
		Action:      audit.ActionWorkStarted,
		From:        string(models.StatusAssigned),
		To:          string(models.StatusInProgress),
	})
	return c, nil
}

// CheckLocation validates officer presence against the complaint's target
// coordinates. A pass records the observed position and unlocks evidence
// capture; a fail is retryable after physically relocating.
func (s *Service) CheckLocation(ctx context.Context, id string, observed geo.Coordinates) (geofence.Result, error) {
	c, err := s.complaints.Get(ctx, id)
	if err != nil {
		return geofence.Result{}, translateStoreErr(err, "locationCheck")
	}
	if c.Status != models.StatusInProgress {
		return geofence.Result{}, domainerrors.New(domainerrors.CodeInvalidTransition, "location checks require work in progress")
	}
	if !s.area.Contains(observed) {
		return geofence.Result{}, domainerrors.New(domainerrors.CodeValidation, "observed position falls outside the service area")
	}

	res := s.validator.Verify(c.Coordinates, observed)
	if s.metrics != nil {
		outcome := "fail"
		if res.Passed {
			outcome = "pass"
		}
		s.metrics.GeofenceChecks.WithLabelValues(outcome).Inc()
	}
	if !res.Passed {
		return res, domainerrors.Newf(domainerrors.CodeGeofenceFailed,
			"observed position is %.1fm from the target (tolerance %.0fm)",
			res.DistanceMeters, s.validator.ToleranceMeters())
	}

	if _, err := s.complaints.Update(ctx, id, store.Patch{
		ExpectStatus:       []models.Status{models.StatusInProgress},
		OfficerCoordinates: &observed,
	}); err != nil {
		return res, translateStoreErr(err, "locationCheck")
	}
	s.logAudit(ctx, audit.Event{
		ComplaintID: id,
		Actor:       c.AssignedOfficerID,
		Action:      audit.ActionLocationChecked,
		Note:        fmt.Sprintf("%.1fm from target", res.DistanceMeters),
	})
	return res, nil
}

// SubmitWorkInput carries the officer's evidence references.
type SubmitWorkInput struct {
	BeforePhoto string
	AfterPhoto  string
}

// SubmitWork attaches evidence and hands the complaint to automated
// verification. Requires a prior passing location check and both artifacts;
// rejections leave the complaint in InProgress with prior evidence intact.
func (s *Service) SubmitWork(ctx context.Context, id string, in SubmitWorkInput) (*models.Complaint, error) {
	c, err := s.complaints.Get(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err, "submitWork")
	}
	if c.Status != models.StatusInProgress {
		return nil, domainerrors.New(domainerrors.CodeInvalidTransition, "submitWork is only legal from InProgress")
	}
	if c.OfficerCoordinates == nil {
		return nil, domainerrors.New(domainerrors.CodeGeofenceFailed, "location has not been verified at the site")
	}
	if in.BeforePhoto == "" || in.AfterPhoto == "" {
		return nil, domainerrors.New(domainerrors.CodeMissingEvidence, "before and after evidence are both required")
	}

	updated, err := s.transition(ctx, id, "submitWork", store.Patch{
		ExpectStatus: []models.Status{models.StatusInProgress},
		Status:       statusPtr(models.StatusPendingVerification),
		BeforePhoto:  &in.BeforePhoto,
		AfterPhoto:   &in.AfterPhoto,
	})
	if err != nil {
		return nil, err
	}

	if err := s.queue.Enqueue(id); err != nil {
		// Undo the transition so the officer can retry; evidence stays.
		if _, revertErr := s.complaints.Update(ctx, id, store.Patch{
			ExpectStatus: []models.Status{models.StatusPendingVerification},
			Status:       statusPtr(models.StatusInProgress),
		}); revertErr != nil {
			s.logger.ErrorContext(ctx, "failed to revert submit after full queue",
				"complaint_id", id, "error", revertErr)
		}
		if errors.Is(err, sentinel.ErrBusy) {
			return nil, domainerrors.New(domainerrors.CodeBusy, "verification queue is full, retry shortly")
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to enqueue verification")
	}

	s.logAudit(ctx, audit.Event{
		ComplaintID: id,
		Actor:       updated.AssignedOfficerID,
		Action:      audit.ActionWorkSubmitted,
		From:        string(models.StatusInProgress),
		To:          string(models.StatusPendingVerification),
	})
	return updated, nil
}

// CompleteVerification records the engine's verdict. The analysis write and
// the status transition are one atomic store update: both happen or neither
// does, and a complaint outside PendingVerification rejects the pair.
func (s *Service) CompleteVerification(ctx context.Context, id string, analysis models.AIAnalysis) (*models.Complaint, error) {
	target := analysis.Verdict.TargetStatus()
	c, err := s.transition(ctx, id, "verificationComplete", store.Patch{
		ExpectStatus: []models.Status{models.StatusPendingVerification},
		Status:       &target,
		AIAnalysis:   &analysis,
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.Verdicts.WithLabelValues(string(analysis.Verdict)).Inc()
	}
	s.logAudit(ctx, audit.Event{
		ComplaintID: id,
		Actor:       "verification-engine",
		Action:      audit.ActionVerdictRecorded,
		From:        string(models.StatusPendingVerification),
		To:          string(target),
		Note:        fmt.Sprintf("confidence %d", analysis.ConfidenceScore),
	})
	return c, nil
}

// Approve is the supervisor ruling that accepts completed work.
func (s *Service) Approve(ctx context.Context, id, notes string) (*models.Complaint, error) {
	c, err := s.transition(ctx, id, "supervisorApprove", store.Patch{
		ExpectStatus:    []models.Status{models.StatusPendingApproval, models.StatusFlagged},
		Status:          statusPtr(models.StatusVerified),
		SupervisorNotes: &notes,
	})
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, audit.Event{
		ComplaintID: id,
		Actor:       "supervisor",
		Action:      audit.ActionSupervisorRuling,
		To:          string(models.StatusVerified),
		Note:        notes,
	})
	return c, nil
}

// Reject is the supervisor ruling that sends work back to the officer. The
// stored analysis is cleared in the same atomic update so the next submission
// can produce a fresh verdict; evidence references are retained.
func (s *Service) Reject(ctx context.Context, id, notes string) (*models.Complaint, error) {
	c, err := s.transition(ctx, id, "supervisorReject", store.Patch{
		ExpectStatus:    []models.Status{models.StatusPendingApproval, models.StatusFlagged},
		Status:          statusPtr(models.StatusInProgress),
		SupervisorNotes: &notes,
		ClearAIAnalysis: true,
	})
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, audit.Event{
		ComplaintID: id,
		Actor:       "supervisor",
		Action:      audit.ActionSupervisorRuling,
		To:          string(models.StatusInProgress),
		Note:        notes,
	})
	return c, nil
}

// Close is the administrative step that retires a Verified complaint.
func (s *Service) Close(ctx context.Context, id string) (*models.Complaint, error) {
	c, err := s.transition(ctx, id, "close", store.Patch{
		ExpectStatus: []models.Status{models.StatusVerified},
		Status:       statusPtr(models.StatusClosed),
	})
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, audit.Event{
		ComplaintID: id,
		Action:      audit.ActionClosed,
		From:        string(models.StatusVerified),
		To:          string(models.StatusClosed),
	})
	return c, nil
}

// transition applies a guarded status patch and keeps the transition metric.
func (s *Service) transition(ctx context.Context, id, event string, p Patch) (*models.Complaint, error) {
	prev := p.ExpectStatus
	c, err := s.complaints.Update(ctx, id, p)
	if err != nil {
		return nil, translateStoreErr(err, event)
	}
	if s.metrics != nil && p.Status != nil {
		from := ""
		if len(prev) == 1 {
			from = string(prev[0])
		}
		s.metrics.ObserveTransition(from, string(*p.Status))
	}
	return c, nil
}

// Patch re-exports the store's patch type for transition helpers.
type Patch = store.Patch

func translateStoreErr(err error, event string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return domainerrors.New(domainerrors.CodeNotFound, "complaint not found")
	case errors.Is(err, sentinel.ErrInvalidState):
		return domainerrors.Newf(domainerrors.CodeInvalidTransition, "%s is not legal from the complaint's current state", event)
	case errors.Is(err, sentinel.ErrConflict):
		return domainerrors.New(domainerrors.CodeConflict, "a concurrent update won, retry from a fresh read")
	default:
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "complaint store failure")
	}
}

func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if event.Actor == "" {
		event.Actor = requestcontext.Actor(ctx)
	}
	event.Timestamp = requestcontext.Now(ctx)
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "complaint_id", event.ComplaintID, "error", err)
	}
}

func statusPtr(s models.Status) *models.Status { return &s }
