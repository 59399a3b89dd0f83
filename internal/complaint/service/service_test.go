package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"samadhan/internal/complaint/models"
	"samadhan/internal/complaint/service"
	"samadhan/internal/complaint/service/mocks"
	"samadhan/internal/complaint/store"
	"samadhan/internal/geofence"
	"samadhan/internal/roster"
	"samadhan/pkg/domainerrors"
	"samadhan/pkg/geo"
	"samadhan/pkg/requestcontext"
	"samadhan/pkg/sentinel"
)

var (
	target   = geo.Coordinates{Lat: 26.91, Lng: 75.80}
	onSite   = geo.Coordinates{Lat: 26.91001, Lng: 75.80001}
	offSite  = geo.Coordinates{Lat: 26.92, Lng: 75.80}
	outside  = geo.Coordinates{Lat: 28.6, Lng: 77.2}
	officerA = "OFF-001"
)

type ServiceSuite struct {
	suite.Suite

	ctrl     *gomock.Controller
	store    *store.InMemory
	officers *mocks.MockOfficerRoster
	queue    *mocks.MockVerificationQueue
	svc      *service.Service

	ctx context.Context
	now time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = store.NewInMemory()
	s.officers = mocks.NewMockOfficerRoster(s.ctrl)
	s.queue = mocks.NewMockVerificationQueue(s.ctrl)

	s.svc = service.New(s.store, s.officers, geofence.New(20))
	s.svc.SetVerificationQueue(s.queue)

	s.now = time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *ServiceSuite) submit() *models.Complaint {
	c, err := s.svc.Submit(s.ctx, service.SubmitInput{
		IssueType:    models.IssuePothole,
		Description:  "Deep pothole near the bus stop",
		LocationName: "MI Road, Jaipur",
		Coordinates:  target,
		CitizenPhoto: "artifact://citizen-1",
	})
	s.Require().NoError(err)
	return c
}

// advance walks a fresh complaint into InProgress with a passing location check.
func (s *ServiceSuite) advanceToVerifiedSite() *models.Complaint {
	c := s.submit()
	s.officers.EXPECT().Lookup(gomock.Any(), officerA).Return(&roster.Officer{ID: officerA}, nil)
	_, err := s.svc.Assign(s.ctx, c.ID, officerA)
	s.Require().NoError(err)
	_, err = s.svc.StartWork(s.ctx, c.ID)
	s.Require().NoError(err)
	res, err := s.svc.CheckLocation(s.ctx, c.ID, onSite)
	s.Require().NoError(err)
	s.Require().True(res.Passed)
	return c
}

func (s *ServiceSuite) TestSubmitStampsSLAAndStatus() {
	c := s.submit()

	s.Equal(models.StatusSubmitted, c.Status)
	s.Equal(s.now, c.SubmissionTime)
	s.Equal(s.now.Add(48*time.Hour), c.EstimatedSLA)
	s.Regexp(`^SS-\d{4}-\d{4}$`, c.ID)
}

func (s *ServiceSuite) TestSubmitRejectsOutOfAreaCoordinates() {
	_, err := s.svc.Submit(s.ctx, service.SubmitInput{
		IssueType:    models.IssuePothole,
		Description:  "pothole",
		LocationName: "Delhi",
		Coordinates:  outside,
		CitizenPhoto: "artifact://citizen-1",
	})
	s.True(domainerrors.HasCode(err, domainerrors.CodeValidation))
}

func (s *ServiceSuite) TestAssignUnknownOfficer() {
	c := s.submit()
	s.officers.EXPECT().Lookup(gomock.Any(), "OFF-999").Return(nil, sentinel.ErrNotFound)

	_, err := s.svc.Assign(s.ctx, c.ID, "OFF-999")
	s.True(domainerrors.HasCode(err, domainerrors.CodeNotFound))

	got, err := s.svc.Get(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusSubmitted, got.Status)
}

func (s *ServiceSuite) TestAssignFromWrongStateLeavesComplaintUntouched() {
	c := s.advanceToVerifiedSite()

	s.officers.EXPECT().Lookup(gomock.Any(), officerA).Return(&roster.Officer{ID: officerA}, nil)
	_, err := s.svc.Assign(s.ctx, c.ID, officerA)
	s.True(domainerrors.HasCode(err, domainerrors.CodeInvalidTransition))

	got, _ := s.svc.Get(s.ctx, c.ID)
	s.Equal(models.StatusInProgress, got.Status)
}

func (s *ServiceSuite) TestStartWorkRecordsStartTime() {
	c := s.submit()
	s.officers.EXPECT().Lookup(gomock.Any(), officerA).Return(&roster.Officer{ID: officerA}, nil)
	_, err := s.svc.Assign(s.ctx, c.ID, officerA)
	s.Require().NoError(err)

	got, err := s.svc.StartWork(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusInProgress, got.Status)
	s.Require().NotNil(got.WorkStartTime)
	s.Equal(s.now, *got.WorkStartTime)
}

func (s *ServiceSuite) TestCheckLocationPassRecordsPosition() {
	c := s.advanceToVerifiedSite()

	got, _ := s.svc.Get(s.ctx, c.ID)
	s.Require().NotNil(got.OfficerCoordinates)
	s.Equal(onSite, *got.OfficerCoordinates)
}

func (s *ServiceSuite) TestCheckLocationFailIsRetryable() {
	c := s.submit()
	s.officers.EXPECT().Lookup(gomock.Any(), officerA).Return(&roster.Officer{ID: officerA}, nil)
	_, err := s.svc.Assign(s.ctx, c.ID, officerA)
	s.Require().NoError(err)
	_, err = s.svc.StartWork(s.ctx, c.ID)
	s.Require().NoError(err)

	res, err := s.svc.CheckLocation(s.ctx, c.ID, offSite)
	s.True(domainerrors.HasCode(err, domainerrors.CodeGeofenceFailed))
	s.False(res.Passed)
	s.Greater(res.DistanceMeters, 20.0)

	// Same complaint, new position, no state reset needed.
	res, err = s.svc.CheckLocation(s.ctx, c.ID, onSite)
	s.Require().NoError(err)
	s.True(res.Passed)
}

func (s *ServiceSuite) TestCheckLocationOutsideServiceArea() {
	c := s.submit()
	s.officers.EXPECT().Lookup(gomock.Any(), officerA).Return(&roster.Officer{ID: officerA}, nil)
	_, err := s.svc.Assign(s.ctx, c.ID, officerA)
	s.Require().NoError(err)
	_, err = s.svc.StartWork(s.ctx, c.ID)
	s.Require().NoError(err)

	_, err = s.svc.CheckLocation(s.ctx, c.ID, outside)
	s.True(domainerrors.HasCode(err, domainerrors.CodeValidation))
}

func (s *ServiceSuite) TestSubmitWorkWithoutLocationCheck() {
	c := s.submit()
	s.officers.EXPECT().Lookup(gomock.Any(), officerA).Return(&roster.Officer{ID: officerA}, nil)
	_, err := s.svc.Assign(s.ctx, c.ID, officerA)
	s.Require().NoError(err)
	_, err = s.svc.StartWork(s.ctx, c.ID)
	s.Require().NoError(err)

	_, err = s.svc.SubmitWork(s.ctx, c.ID, service.SubmitWorkInput{
		BeforePhoto: "artifact://before-1",
		AfterPhoto:  "artifact://after-1",
	})
	s.True(domainerrors.HasCode(err, domainerrors.CodeGeofenceFailed))
}

func (s *ServiceSuite) TestSubmitWorkMissingEvidence() {
	c := s.advanceToVerifiedSite()

	_, err := s.svc.SubmitWork(s.ctx, c.ID, service.SubmitWorkInput{BeforePhoto: "artifact://before-1"})
	s.True(domainerrors.HasCode(err, domainerrors.CodeMissingEvidence))

	got, _ := s.svc.Get(s.ctx, c.ID)
	s.Equal(models.StatusInProgress, got.Status)
}

func (s *ServiceSuite) TestSubmitWorkEnqueues() {
	c := s.advanceToVerifiedSite()
	s.queue.EXPECT().Enqueue(c.ID).Return(nil)

	got, err := s.svc.SubmitWork(s.ctx, c.ID, service.SubmitWorkInput{
		BeforePhoto: "artifact://before-1",
		AfterPhoto:  "artifact://after-1",
	})
	s.Require().NoError(err)
	s.Equal(models.StatusPendingVerification, got.Status)
	s.Equal("artifact://before-1", got.BeforePhoto)
	s.Equal("artifact://after-1", got.AfterPhoto)
}

func (s *ServiceSuite) TestSubmitWorkFullQueueRevertsStatus() {
	c := s.advanceToVerifiedSite()
	s.queue.EXPECT().Enqueue(c.ID).Return(sentinel.ErrBusy)

	_, err := s.svc.SubmitWork(s.ctx, c.ID, service.SubmitWorkInput{
		BeforePhoto: "artifact://before-1",
		AfterPhoto:  "artifact://after-1",
	})
	s.True(domainerrors.HasCode(err, domainerrors.CodeBusy))

	// Back in InProgress with evidence intact, so the retry is cheap.
	got, _ := s.svc.Get(s.ctx, c.ID)
	s.Equal(models.StatusInProgress, got.Status)
	s.Equal("artifact://before-1", got.BeforePhoto)
	s.Equal("artifact://after-1", got.AfterPhoto)
}

func (s *ServiceSuite) submitWork(c *models.Complaint) {
	s.queue.EXPECT().Enqueue(c.ID).Return(nil)
	_, err := s.svc.SubmitWork(s.ctx, c.ID, service.SubmitWorkInput{
		BeforePhoto: "artifact://before-1",
		AfterPhoto:  "artifact://after-1",
	})
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestCompleteVerificationApproved() {
	c := s.advanceToVerifiedSite()
	s.submitWork(c)

	got, err := s.svc.CompleteVerification(s.ctx, c.ID, models.AIAnalysis{
		GPSMatch: true, TimestampValid: true, ChangeDetected: true, QualityCheck: true,
		ConfidenceScore: 92,
		Verdict:         models.VerdictApproved,
	})
	s.Require().NoError(err)
	s.Equal(models.StatusPendingApproval, got.Status)
	s.Require().NotNil(got.AIAnalysis)
	s.Equal(92, got.AIAnalysis.ConfidenceScore)
}

func (s *ServiceSuite) TestCompleteVerificationFlagged() {
	c := s.advanceToVerifiedSite()
	s.submitWork(c)

	got, err := s.svc.CompleteVerification(s.ctx, c.ID, models.AIAnalysis{
		ConfidenceScore: 45,
		Verdict:         models.VerdictFlagged,
		Notes:           []string{"no visible change between photos"},
	})
	s.Require().NoError(err)
	s.Equal(models.StatusFlagged, got.Status)
}

func (s *ServiceSuite) TestCompleteVerificationIsSingleShot() {
	c := s.advanceToVerifiedSite()
	s.submitWork(c)

	_, err := s.svc.CompleteVerification(s.ctx, c.ID, models.AIAnalysis{Verdict: models.VerdictApproved, ConfidenceScore: 90})
	s.Require().NoError(err)

	// Second verdict finds the complaint out of PendingVerification.
	_, err = s.svc.CompleteVerification(s.ctx, c.ID, models.AIAnalysis{Verdict: models.VerdictFlagged, ConfidenceScore: 45})
	s.True(domainerrors.HasCode(err, domainerrors.CodeInvalidTransition))

	got, _ := s.svc.Get(s.ctx, c.ID)
	s.Equal(models.StatusPendingApproval, got.Status)
	s.Equal(90, got.AIAnalysis.ConfidenceScore)
}

func (s *ServiceSuite) TestSupervisorApprove() {
	c := s.advanceToVerifiedSite()
	s.submitWork(c)
	_, err := s.svc.CompleteVerification(s.ctx, c.ID, models.AIAnalysis{Verdict: models.VerdictApproved, ConfidenceScore: 90})
	s.Require().NoError(err)

	got, err := s.svc.Approve(s.ctx, c.ID, "Work verified on review")
	s.Require().NoError(err)
	s.Equal(models.StatusVerified, got.Status)
	s.Equal("Work verified on review", got.SupervisorNotes)
}

func (s *ServiceSuite) TestSupervisorRejectClearsAnalysisKeepsEvidence() {
	c := s.advanceToVerifiedSite()
	s.submitWork(c)
	_, err := s.svc.CompleteVerification(s.ctx, c.ID, models.AIAnalysis{Verdict: models.VerdictFlagged, ConfidenceScore: 45})
	s.Require().NoError(err)

	got, err := s.svc.Reject(s.ctx, c.ID, "After photo does not show the repaired surface")
	s.Require().NoError(err)
	s.Equal(models.StatusInProgress, got.Status)
	s.Nil(got.AIAnalysis)
	s.Equal("artifact://before-1", got.BeforePhoto)
	s.Equal("artifact://after-1", got.AfterPhoto)
	s.Equal("After photo does not show the repaired surface", got.SupervisorNotes)
}

func (s *ServiceSuite) TestRejectedComplaintCanBeResubmitted() {
	c := s.advanceToVerifiedSite()
	s.submitWork(c)
	_, err := s.svc.CompleteVerification(s.ctx, c.ID, models.AIAnalysis{Verdict: models.VerdictFlagged, ConfidenceScore: 45})
	s.Require().NoError(err)
	_, err = s.svc.Reject(s.ctx, c.ID, "redo")
	s.Require().NoError(err)

	s.queue.EXPECT().Enqueue(c.ID).Return(nil)
	got, err := s.svc.SubmitWork(s.ctx, c.ID, service.SubmitWorkInput{
		BeforePhoto: "artifact://before-2",
		AfterPhoto:  "artifact://after-2",
	})
	s.Require().NoError(err)
	s.Equal(models.StatusPendingVerification, got.Status)

	// A fresh verdict is writable: the reject cleared the previous one.
	_, err = s.svc.CompleteVerification(s.ctx, c.ID, models.AIAnalysis{Verdict: models.VerdictApproved, ConfidenceScore: 88})
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestCloseRequiresVerified() {
	c := s.submit()
	_, err := s.svc.Close(s.ctx, c.ID)
	s.True(domainerrors.HasCode(err, domainerrors.CodeInvalidTransition))
}

func (s *ServiceSuite) TestCloseFromVerified() {
	c := s.advanceToVerifiedSite()
	s.submitWork(c)
	_, err := s.svc.CompleteVerification(s.ctx, c.ID, models.AIAnalysis{Verdict: models.VerdictApproved, ConfidenceScore: 90})
	s.Require().NoError(err)
	_, err = s.svc.Approve(s.ctx, c.ID, "ok")
	s.Require().NoError(err)

	got, err := s.svc.Close(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusClosed, got.Status)
}

func (s *ServiceSuite) TestComputeStats() {
	s.submit()
	c := s.advanceToVerifiedSite()
	s.submitWork(c)
	_, err := s.svc.CompleteVerification(s.ctx, c.ID, models.AIAnalysis{Verdict: models.VerdictApproved, ConfidenceScore: 90})
	s.Require().NoError(err)
	_, err = s.svc.Approve(s.ctx, c.ID, "ok")
	s.Require().NoError(err)

	stats, err := s.svc.ComputeStats(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, stats.Total)
	s.Equal(1, stats.ByStatus["Submitted"])
	s.Equal(1, stats.ByStatus["Verified"])
	s.Equal(2, stats.ByIssueType["Pothole"])
	s.InDelta(0.5, stats.ResolutionRate, 1e-9)
}

func (s *ServiceSuite) TestGetUnknownComplaint() {
	_, err := s.svc.Get(s.ctx, "SS-2024-9999")
	s.True(domainerrors.HasCode(err, domainerrors.CodeNotFound))
}
