package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"samadhan/internal/roster"
	"samadhan/pkg/httputil"
)

// OfficerLister exposes the field officer roster.
type OfficerLister interface {
	List(ctx context.Context) ([]*roster.Officer, error)
}

// DirectoryHandler serves the officer roster.
type DirectoryHandler struct {
	officers OfficerLister
	logger   *slog.Logger
}

func NewDirectoryHandler(officers OfficerLister, logger *slog.Logger) *DirectoryHandler {
	return &DirectoryHandler{officers: officers, logger: logger}
}

// Register mounts the directory endpoints.
func (h *DirectoryHandler) Register(r chi.Router) {
	r.Get("/officers", h.HandleList)
}

// HandleList handles GET /officers.
func (h *DirectoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	officers, err := h.officers.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, officers)
}
