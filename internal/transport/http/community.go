package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"samadhan/internal/complaint/models"
	"samadhan/internal/feedback"
	"samadhan/pkg/httputil"
)

// Voter applies a community vote.
type Voter interface {
	Vote(ctx context.Context, id string, direction feedback.Direction) (models.CommunityVotes, error)
}

// CommunityHandler serves the public feedback endpoints.
type CommunityHandler struct {
	voter  Voter
	logger *slog.Logger
}

func NewCommunityHandler(voter Voter, logger *slog.Logger) *CommunityHandler {
	return &CommunityHandler{voter: voter, logger: logger}
}

// Register mounts the community endpoints.
func (h *CommunityHandler) Register(r chi.Router) {
	r.Post("/complaints/{id}/vote", h.HandleVote)
}

// VoteRequest carries one vote, direction "up" or "down".
type VoteRequest struct {
	Direction string `json:"direction"`
}

// HandleVote handles POST /complaints/{id}/vote.
func (h *CommunityHandler) HandleVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[VoteRequest](w, r, h.logger)
	if !ok {
		return
	}

	votes, err := h.voter.Vote(ctx, chi.URLParam(r, "id"), feedback.Direction(req.Direction))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, votes)
}
