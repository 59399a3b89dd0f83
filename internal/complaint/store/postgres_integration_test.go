//go:build integration

package store_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"samadhan/internal/complaint/models"
	"samadhan/internal/complaint/store"
	"samadhan/pkg/geo"
	"samadhan/pkg/sentinel"
)

type PostgresStoreSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *sql.DB
	store     *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("samadhan"),
		tcpostgres.WithUsername("samadhan"),
		tcpostgres.WithPassword("samadhan"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(60*time.Second)),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sql.Open("postgres", dsn)
	s.Require().NoError(err)
	s.Require().NoError(db.Ping())
	s.db = db

	schema, err := os.ReadFile(filepath.Join(".", "schema.sql"))
	s.Require().NoError(err)
	_, err = db.Exec(string(schema))
	s.Require().NoError(err)

	s.store = store.NewPostgres(db)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.db.Exec(`TRUNCATE complaints`)
	s.Require().NoError(err)
}

func newTestComplaint() *models.Complaint {
	return &models.Complaint{
		IssueType:      models.IssueStreetLight,
		Description:    "flickering light near park gate",
		LocationName:   "Vaishali Nagar",
		Status:         models.StatusSubmitted,
		Coordinates:    geo.Coordinates{Lat: 26.9050, Lng: 75.7450},
		CitizenPhoto:   "artifact://test/light",
		SubmissionTime: time.Now().UTC().Truncate(time.Millisecond),
		EstimatedSLA:   time.Now().UTC().Add(48 * time.Hour).Truncate(time.Millisecond),
	}
}

func (s *PostgresStoreSuite) TestCreateGetRoundTrip() {
	ctx := context.Background()

	id, err := s.store.Create(ctx, newTestComplaint())
	s.Require().NoError(err)
	s.Regexp(`^SS-\d{4}-\d{4}$`, id)

	got, err := s.store.Get(ctx, id)
	s.Require().NoError(err)
	s.Equal(models.IssueStreetLight, got.IssueType)
	s.Equal(models.StatusSubmitted, got.Status)
	s.Nil(got.AIAnalysis)
	s.Nil(got.WorkStartTime)
}

func (s *PostgresStoreSuite) TestGetUnknownID() {
	_, err := s.store.Get(context.Background(), "SS-2024-0001")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpdateGuardAndAnalysisRoundTrip() {
	ctx := context.Background()

	c := newTestComplaint()
	c.Status = models.StatusPendingVerification
	id, err := s.store.Create(ctx, c)
	s.Require().NoError(err)

	status := models.StatusPendingApproval
	analysis := &models.AIAnalysis{
		GPSMatch:        true,
		TimestampValid:  true,
		ChangeDetected:  true,
		QualityCheck:    true,
		ConfidenceScore: 92,
		Verdict:         models.VerdictApproved,
		Notes:           []string{"significant repair detected"},
	}
	updated, err := s.store.Update(ctx, id, store.Patch{
		ExpectStatus: []models.Status{models.StatusPendingVerification},
		Status:       &status,
		AIAnalysis:   analysis,
	})
	s.Require().NoError(err)
	s.Equal(models.StatusPendingApproval, updated.Status)

	got, err := s.store.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(got.AIAnalysis)
	s.Equal(92, got.AIAnalysis.ConfidenceScore)
	s.Equal([]string{"significant repair detected"}, got.AIAnalysis.Notes)

	// Write-once: a second analysis rejects and changes nothing.
	_, err = s.store.Update(ctx, id, store.Patch{
		AIAnalysis: &models.AIAnalysis{Verdict: models.VerdictFlagged, ConfidenceScore: 45},
	})
	s.Require().ErrorIs(err, sentinel.ErrInvalidState)
}

func (s *PostgresStoreSuite) TestConcurrentVotesSerializeOnRow() {
	ctx := context.Background()

	c := newTestComplaint()
	c.Status = models.StatusVerified
	id, err := s.store.Create(ctx, c)
	s.Require().NoError(err)

	const voters = 20
	var wg sync.WaitGroup
	wg.Add(voters)
	for i := 0; i < voters; i++ {
		go func() {
			defer wg.Done()
			_, err := s.store.Update(ctx, id, store.Patch{UpVotes: 1})
			s.NoError(err)
		}()
	}
	wg.Wait()

	got, err := s.store.Get(ctx, id)
	s.Require().NoError(err)
	s.Equal(voters, got.CommunityVotes.Up)
}
