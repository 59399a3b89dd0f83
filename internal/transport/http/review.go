package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"samadhan/internal/adjudication"
	"samadhan/internal/complaint/models"
	"samadhan/pkg/httputil"
	"samadhan/pkg/requestcontext"
)

// Adjudicator is the supervisor decision surface.
type Adjudicator interface {
	Decide(ctx context.Context, id string, decision adjudication.Decision, notes string) (*models.Complaint, error)
}

// ReviewHandler serves supervisor rulings.
type ReviewHandler struct {
	adjudicator Adjudicator
	logger      *slog.Logger
}

func NewReviewHandler(adjudicator Adjudicator, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{adjudicator: adjudicator, logger: logger}
}

// Register mounts the review endpoints.
func (h *ReviewHandler) Register(r chi.Router) {
	r.Post("/complaints/{id}/decision", h.HandleDecision)
}

// DecisionRequest is the supervisor ruling payload.
type DecisionRequest struct {
	Decision string `json:"decision"`
	Notes    string `json:"notes"`
}

// HandleDecision handles POST /complaints/{id}/decision.
func (h *ReviewHandler) HandleDecision(w http.ResponseWriter, r *http.Request) {
	ctx := requestcontext.WithActor(r.Context(), "supervisor")
	req, ok := httputil.Decode[DecisionRequest](w, r, h.logger)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	c, err := h.adjudicator.Decide(ctx, id, adjudication.Decision(req.Decision), req.Notes)
	if err != nil {
		h.logger.WarnContext(ctx, "supervisor decision rejected",
			"request_id", requestcontext.RequestID(ctx),
			"complaint_id", id,
			"decision", req.Decision,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}
