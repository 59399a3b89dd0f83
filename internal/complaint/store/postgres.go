package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"samadhan/internal/complaint/models"
	"samadhan/pkg/geo"
	"samadhan/pkg/sentinel"
)

// Postgres persists complaints in PostgreSQL. Per-ID ordering comes from row
// locks: every update runs SELECT ... FOR UPDATE inside one transaction, so
// guards and writes are atomic and concurrent writers queue on the row.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed complaint store. The schema in
// schema.sql must be applied beforehand.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const complaintColumns = `
	id, issue_type, description, location_name, status,
	lat, lng, citizen_photo, before_photo, after_photo,
	submission_time, estimated_sla, assigned_officer_id,
	work_start_time, officer_lat, officer_lng,
	ai_analysis, supervisor_notes, votes_up, votes_down`

func (s *Postgres) Create(ctx context.Context, c *models.Complaint) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin create: %w", err)
	}
	defer tx.Rollback()

	if c.ID == "" {
		var seq int64
		if err := tx.QueryRowContext(ctx, `SELECT nextval('complaint_seq')`).Scan(&seq); err != nil {
			return "", fmt.Errorf("allocate complaint id: %w", err)
		}
		c.ID = fmt.Sprintf("SS-%d-%04d", c.SubmissionTime.Year(), seq)
	}

	analysis, err := marshalAnalysis(c.AIAnalysis)
	if err != nil {
		return "", err
	}

	var officerLat, officerLng sql.NullFloat64
	if c.OfficerCoordinates != nil {
		officerLat = sql.NullFloat64{Float64: c.OfficerCoordinates.Lat, Valid: true}
		officerLng = sql.NullFloat64{Float64: c.OfficerCoordinates.Lng, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO complaints (`+complaintColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)`,
		c.ID, string(c.IssueType), c.Description, c.LocationName, string(c.Status),
		c.Coordinates.Lat, c.Coordinates.Lng, c.CitizenPhoto,
		nullString(c.BeforePhoto), nullString(c.AfterPhoto),
		c.SubmissionTime, c.EstimatedSLA, nullString(c.AssignedOfficerID),
		nullTime(c.WorkStartTime), officerLat, officerLng,
		analysis, nullString(c.SupervisorNotes),
		c.CommunityVotes.Up, c.CommunityVotes.Down,
	)
	if err != nil {
		return "", fmt.Errorf("insert complaint: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit create: %w", err)
	}
	return c.ID, nil
}

func (s *Postgres) Get(ctx context.Context, id string) (*models.Complaint, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+complaintColumns+` FROM complaints WHERE id = $1`, id)
	return scanComplaint(row)
}

func (s *Postgres) List(ctx context.Context) ([]*models.Complaint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+complaintColumns+` FROM complaints ORDER BY submission_time DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	defer rows.Close()

	var out []*models.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Postgres) Update(ctx context.Context, id string, p Patch) (*models.Complaint, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+complaintColumns+` FROM complaints WHERE id = $1 FOR UPDATE`, id)
	c, err := scanComplaint(row)
	if err != nil {
		return nil, err
	}

	if err := p.apply(c); err != nil {
		return nil, err
	}

	analysis, err := marshalAnalysis(c.AIAnalysis)
	if err != nil {
		return nil, err
	}
	var officerLat, officerLng sql.NullFloat64
	if c.OfficerCoordinates != nil {
		officerLat = sql.NullFloat64{Float64: c.OfficerCoordinates.Lat, Valid: true}
		officerLng = sql.NullFloat64{Float64: c.OfficerCoordinates.Lng, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE complaints SET
			status = $2, assigned_officer_id = $3, work_start_time = $4,
			officer_lat = $5, officer_lng = $6, before_photo = $7, after_photo = $8,
			ai_analysis = $9, supervisor_notes = $10, votes_up = $11, votes_down = $12
		WHERE id = $1`,
		c.ID, string(c.Status), nullString(c.AssignedOfficerID), nullTime(c.WorkStartTime),
		officerLat, officerLng, nullString(c.BeforePhoto), nullString(c.AfterPhoto),
		analysis, nullString(c.SupervisorNotes),
		c.CommunityVotes.Up, c.CommunityVotes.Down,
	)
	if err != nil {
		return nil, fmt.Errorf("update complaint: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return c, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComplaint(row rowScanner) (*models.Complaint, error) {
	var (
		c                          models.Complaint
		issueType, status          string
		beforePhoto, afterPhoto    sql.NullString
		officerID, supervisorNotes sql.NullString
		workStart                  sql.NullTime
		officerLat, officerLng     sql.NullFloat64
		analysis                   []byte
	)
	err := row.Scan(
		&c.ID, &issueType, &c.Description, &c.LocationName, &status,
		&c.Coordinates.Lat, &c.Coordinates.Lng, &c.CitizenPhoto,
		&beforePhoto, &afterPhoto,
		&c.SubmissionTime, &c.EstimatedSLA, &officerID,
		&workStart, &officerLat, &officerLng,
		&analysis, &supervisorNotes,
		&c.CommunityVotes.Up, &c.CommunityVotes.Down,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan complaint: %w", err)
	}

	c.IssueType = models.IssueType(issueType)
	c.Status = models.Status(status)
	c.BeforePhoto = beforePhoto.String
	c.AfterPhoto = afterPhoto.String
	c.AssignedOfficerID = officerID.String
	c.SupervisorNotes = supervisorNotes.String
	if workStart.Valid {
		t := workStart.Time
		c.WorkStartTime = &t
	}
	if officerLat.Valid && officerLng.Valid {
		c.OfficerCoordinates = &geo.Coordinates{Lat: officerLat.Float64, Lng: officerLng.Float64}
	}
	if len(analysis) > 0 {
		var a models.AIAnalysis
		if err := json.Unmarshal(analysis, &a); err != nil {
			return nil, fmt.Errorf("decode ai analysis: %w", err)
		}
		c.AIAnalysis = &a
	}
	return &c, nil
}

func marshalAnalysis(a *models.AIAnalysis) ([]byte, error) {
	if a == nil {
		return nil, nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode ai analysis: %w", err)
	}
	return raw, nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
