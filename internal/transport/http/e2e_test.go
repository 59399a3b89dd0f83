package httptransport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"samadhan/internal/adjudication"
	"samadhan/internal/audit"
	"samadhan/internal/complaint/models"
	"samadhan/internal/complaint/service"
	"samadhan/internal/complaint/store"
	"samadhan/internal/evidence"
	"samadhan/internal/feedback"
	"samadhan/internal/geofence"
	"samadhan/internal/platform/logger"
	"samadhan/internal/roster"
	httptransport "samadhan/internal/transport/http"
	"samadhan/internal/verification"
	"samadhan/pkg/geo"
)

func bytesReader(raw []byte) io.Reader { return bytes.NewReader(raw) }

// constantSource replays one Int63 value forever. A small value passes the
// visual-change roll, a large one fails it.
type constantSource struct{ v int64 }

func (s constantSource) Int63() int64 { return s.v }
func (constantSource) Seed(int64)     {}

// FullFlowSuite drives complete lifecycle journeys through the HTTP surface
// with a live verification worker.
type FullFlowSuite struct {
	suite.Suite

	store  *store.InMemory
	server *httptest.Server
	cancel context.CancelFunc
	done   chan struct{}
}

func TestFullFlowSuite(t *testing.T) {
	suite.Run(t, new(FullFlowSuite))
}

func (s *FullFlowSuite) start(rollValue int64) {
	log := logger.New(slog.LevelError)
	s.store = store.NewInMemory()
	validator := geofence.New(20)
	officers := roster.DefaultRoster()

	inbox := make(chan audit.Event, 64)
	trail := audit.NewInMemoryStore()
	worker := audit.NewWorker(trail, inbox, log)

	svc := service.New(s.store, officers, validator,
		service.WithLogger(log),
		service.WithAuditPublisher(audit.NewPublisher(inbox)),
	)
	engine := verification.New(svc, svc, validator, verification.Config{
		QueueDepth:  8,
		SuccessBias: 0.9,
		RunBudget:   2 * time.Second,
	}, verification.WithLogger(log), verification.WithRand(rand.New(constantSource{v: rollValue})))
	svc.SetVerificationQueue(engine)

	router := httptransport.NewRouter(httptransport.Deps{
		Complaints: httptransport.NewComplaintHandler(svc, trail, log),
		Review:     httptransport.NewReviewHandler(adjudication.New(svc), log),
		Community:  httptransport.NewCommunityHandler(feedback.New(s.store, feedback.WithLogger(log)), log),
		Directory:  httptransport.NewDirectoryHandler(officers, log),
		Artifacts:  httptransport.NewArtifactHandler(evidence.NewInMemory(), log),
		Logger:     log,
	})
	s.server = httptest.NewServer(router)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{}, 2)
	go func() { _ = engine.Run(ctx); s.done <- struct{}{} }()
	go func() { _ = worker.Run(ctx); s.done <- struct{}{} }()
}

func (s *FullFlowSuite) TearDownTest() {
	s.cancel()
	<-s.done
	<-s.done
	s.server.Close()
}

func (s *FullFlowSuite) seedComplaint() string {
	id, err := s.store.Create(context.Background(), &models.Complaint{
		ID:             "SS-2024-2001",
		IssueType:      models.IssuePothole,
		Description:    "Deep pothole near the bus stop",
		LocationName:   "MI Road, Jaipur",
		Status:         models.StatusSubmitted,
		Coordinates:    geo.Coordinates{Lat: 26.91, Lng: 75.80},
		CitizenPhoto:   "artifact://citizen-1",
		SubmissionTime: time.Now(),
		EstimatedSLA:   time.Now().Add(48 * time.Hour),
	})
	s.Require().NoError(err)
	return id
}

func (s *FullFlowSuite) post(path string, body any) models.Complaint {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)
	resp, err := http.Post(s.server.URL+path, "application/json", bytesReader(raw))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Less(resp.StatusCode, 300, "unexpected status %d for %s", resp.StatusCode, path)
	var c models.Complaint
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&c))
	return c
}

// driveToPendingVerification walks the officer journey up to work submission.
func (s *FullFlowSuite) driveToPendingVerification(id string) {
	s.post(fmt.Sprintf("/complaints/%s/assign", id), map[string]string{"officerId": "OFF-001"})
	s.post(fmt.Sprintf("/complaints/%s/start", id), nil)

	raw, err := json.Marshal(map[string]any{
		"coordinates": map[string]float64{"lat": 26.91001, "lng": 75.80001},
	})
	s.Require().NoError(err)
	resp, err := http.Post(s.server.URL+fmt.Sprintf("/complaints/%s/location-check", id), "application/json", bytesReader(raw))
	s.Require().NoError(err)
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	s.post(fmt.Sprintf("/complaints/%s/submit", id), map[string]string{
		"beforePhoto": "artifact://before-1",
		"afterPhoto":  "artifact://after-1",
	})
}

func (s *FullFlowSuite) awaitVerdict(id string) models.Complaint {
	var c *models.Complaint
	s.Require().Eventually(func() bool {
		got, err := s.store.Get(context.Background(), id)
		if err != nil || got.Status == models.StatusPendingVerification {
			return false
		}
		c = got
		return true
	}, 2*time.Second, 5*time.Millisecond)
	return *c
}

func (s *FullFlowSuite) TestApprovedJourney() {
	s.start(1 << 60) // visual change detected
	id := s.seedComplaint()

	s.driveToPendingVerification(id)
	c := s.awaitVerdict(id)

	s.Equal(models.StatusPendingApproval, c.Status)
	s.Require().NotNil(c.AIAnalysis)
	s.True(c.AIAnalysis.ChangeDetected)
	s.GreaterOrEqual(c.AIAnalysis.ConfidenceScore, 85)
	s.LessOrEqual(c.AIAnalysis.ConfidenceScore, 98)
}

func (s *FullFlowSuite) TestFlaggedJourney() {
	s.start(int64(float64(1<<62) * 1.9)) // visual change not detected
	id := s.seedComplaint()

	s.driveToPendingVerification(id)
	c := s.awaitVerdict(id)

	s.Equal(models.StatusFlagged, c.Status)
	s.Require().NotNil(c.AIAnalysis)
	s.False(c.AIAnalysis.ChangeDetected)
	s.Equal(45, c.AIAnalysis.ConfidenceScore)
}

func (s *FullFlowSuite) TestRejectionReturnsToInProgress() {
	s.start(int64(float64(1<<62) * 1.9))
	id := s.seedComplaint()

	s.driveToPendingVerification(id)
	s.awaitVerdict(id)

	c := s.post(fmt.Sprintf("/complaints/%s/decision", id), map[string]string{
		"decision": "Reject",
		"notes":    "insufficient repair",
	})
	s.Equal(models.StatusInProgress, c.Status)
	s.Equal("insufficient repair", c.SupervisorNotes)
	s.Nil(c.AIAnalysis)
	s.Equal("artifact://before-1", c.BeforePhoto)
}

func (s *FullFlowSuite) TestCommunityVotesOnVerified() {
	s.start(1 << 60)
	id := s.seedComplaint()

	s.driveToPendingVerification(id)
	s.awaitVerdict(id)
	s.post(fmt.Sprintf("/complaints/%s/decision", id), map[string]string{"decision": "Approve", "notes": "ok"})

	for range 2 {
		raw, err := json.Marshal(map[string]string{"direction": "up"})
		s.Require().NoError(err)
		resp, err := http.Post(s.server.URL+fmt.Sprintf("/complaints/%s/vote", id), "application/json", bytesReader(raw))
		s.Require().NoError(err)
		resp.Body.Close()
		s.Require().Equal(http.StatusOK, resp.StatusCode)
	}

	c, err := s.store.Get(context.Background(), id)
	s.Require().NoError(err)
	s.Equal(models.CommunityVotes{Up: 2, Down: 0}, c.CommunityVotes)
}
