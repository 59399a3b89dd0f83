package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"samadhan/internal/audit"
	"samadhan/internal/complaint/models"
	"samadhan/internal/complaint/service"
	"samadhan/internal/geofence"
	"samadhan/pkg/geo"
	"samadhan/pkg/httputil"
	"samadhan/pkg/requestcontext"
)

// Lifecycle is the slice of the lifecycle controller the complaint surface
// needs.
type Lifecycle interface {
	Submit(ctx context.Context, in service.SubmitInput) (*models.Complaint, error)
	Get(ctx context.Context, id string) (*models.Complaint, error)
	List(ctx context.Context) ([]*models.Complaint, error)
	Assign(ctx context.Context, id, officerID string) (*models.Complaint, error)
	StartWork(ctx context.Context, id string) (*models.Complaint, error)
	CheckLocation(ctx context.Context, id string, observed geo.Coordinates) (geofence.Result, error)
	SubmitWork(ctx context.Context, id string, in service.SubmitWorkInput) (*models.Complaint, error)
	Close(ctx context.Context, id string) (*models.Complaint, error)
	ComputeStats(ctx context.Context) (*service.Stats, error)
}

// Trail reads the audit history for one complaint.
type Trail interface {
	ListByComplaint(ctx context.Context, complaintID string) ([]audit.Event, error)
}

// ComplaintHandler serves the citizen and officer complaint endpoints.
type ComplaintHandler struct {
	lifecycle Lifecycle
	trail     Trail
	logger    *slog.Logger
}

func NewComplaintHandler(lifecycle Lifecycle, trail Trail, logger *slog.Logger) *ComplaintHandler {
	return &ComplaintHandler{lifecycle: lifecycle, trail: trail, logger: logger}
}

// Register mounts the complaint endpoints.
func (h *ComplaintHandler) Register(r chi.Router) {
	r.Post("/complaints", h.HandleSubmit)
	r.Get("/complaints", h.HandleList)
	r.Get("/complaints/{id}", h.HandleGet)
	r.Get("/complaints/{id}/events", h.HandleEvents)
	r.Get("/stats", h.HandleStats)
	r.Post("/complaints/{id}/assign", h.HandleAssign)
	r.Post("/complaints/{id}/start", h.HandleStartWork)
	r.Post("/complaints/{id}/location-check", h.HandleLocationCheck)
	r.Post("/complaints/{id}/submit", h.HandleSubmitWork)
	r.Post("/complaints/{id}/close", h.HandleClose)
}

// SubmitRequest is the citizen submission payload.
type SubmitRequest struct {
	IssueType    string          `json:"issueType"`
	Description  string          `json:"description"`
	LocationName string          `json:"locationName"`
	Coordinates  geo.Coordinates `json:"coordinates"`
	CitizenPhoto string          `json:"citizenPhoto"`
}

// HandleSubmit handles POST /complaints.
func (h *ComplaintHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[SubmitRequest](w, r, h.logger)
	if !ok {
		return
	}

	c, err := h.lifecycle.Submit(ctx, service.SubmitInput{
		IssueType:    models.IssueType(req.IssueType),
		Description:  req.Description,
		LocationName: req.LocationName,
		Coordinates:  req.Coordinates,
		CitizenPhoto: req.CitizenPhoto,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "complaint submission rejected",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

// HandleList handles GET /complaints.
func (h *ComplaintHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.lifecycle.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

// HandleGet handles GET /complaints/{id}.
func (h *ComplaintHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.lifecycle.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

// HandleEvents handles GET /complaints/{id}/events.
func (h *ComplaintHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	// 404 for unknown complaints rather than an empty trail.
	if _, err := h.lifecycle.Get(ctx, id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	events, err := h.trail.ListByComplaint(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, events)
}

// HandleStats handles GET /stats.
func (h *ComplaintHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.lifecycle.ComputeStats(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

// AssignRequest names the officer taking ownership.
type AssignRequest struct {
	OfficerID string `json:"officerId"`
}

// HandleAssign handles POST /complaints/{id}/assign.
func (h *ComplaintHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[AssignRequest](w, r, h.logger)
	if !ok {
		return
	}

	c, err := h.lifecycle.Assign(ctx, chi.URLParam(r, "id"), req.OfficerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

// HandleStartWork handles POST /complaints/{id}/start.
func (h *ComplaintHandler) HandleStartWork(w http.ResponseWriter, r *http.Request) {
	c, err := h.lifecycle.StartWork(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

// LocationCheckRequest carries the officer's observed position.
type LocationCheckRequest struct {
	Coordinates geo.Coordinates `json:"coordinates"`
}

// LocationCheckResponse reports the geofence outcome. Failures additionally
// arrive as a geofence_failed error with status 422.
type LocationCheckResponse struct {
	Passed         bool    `json:"passed"`
	DistanceMeters float64 `json:"distanceMeters"`
}

// HandleLocationCheck handles POST /complaints/{id}/location-check.
func (h *ComplaintHandler) HandleLocationCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[LocationCheckRequest](w, r, h.logger)
	if !ok {
		return
	}

	res, err := h.lifecycle.CheckLocation(ctx, chi.URLParam(r, "id"), req.Coordinates)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, LocationCheckResponse{
		Passed:         res.Passed,
		DistanceMeters: res.DistanceMeters,
	})
}

// SubmitWorkRequest carries the before/after evidence references.
type SubmitWorkRequest struct {
	BeforePhoto string `json:"beforePhoto"`
	AfterPhoto  string `json:"afterPhoto"`
}

// HandleSubmitWork handles POST /complaints/{id}/submit.
func (h *ComplaintHandler) HandleSubmitWork(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	req, ok := httputil.Decode[SubmitWorkRequest](w, r, h.logger)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	c, err := h.lifecycle.SubmitWork(ctx, id, service.SubmitWorkInput{
		BeforePhoto: req.BeforePhoto,
		AfterPhoto:  req.AfterPhoto,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "work submission rejected",
			"request_id", requestcontext.RequestID(ctx),
			"complaint_id", id,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "work submitted for verification",
		"request_id", requestcontext.RequestID(ctx),
		"complaint_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusAccepted, c)
}

// HandleClose handles POST /complaints/{id}/close.
func (h *ComplaintHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	c, err := h.lifecycle.Close(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}
