package httptransport

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"samadhan/internal/evidence"
	"samadhan/pkg/domainerrors"
	"samadhan/pkg/httputil"
	"samadhan/pkg/sentinel"
)

// maxArtifactBytes bounds one uploaded photo.
const maxArtifactBytes = 8 << 20

// ArtifactHandler serves evidence upload and retrieval. The lifecycle engine
// only ever sees the refs this hands out.
type ArtifactHandler struct {
	store  evidence.Store
	logger *slog.Logger
}

func NewArtifactHandler(store evidence.Store, logger *slog.Logger) *ArtifactHandler {
	return &ArtifactHandler{store: store, logger: logger}
}

// Register mounts the artifact endpoints. Uploads carry raw bytes, so this
// group stays outside the JSON content-type guard.
func (h *ArtifactHandler) Register(r chi.Router) {
	r.Post("/artifacts", h.HandleUpload)
	r.Get("/artifacts", h.HandleFetch)
}

// HandleUpload handles POST /artifacts.
func (h *ArtifactHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxArtifactBytes+1))
	if err != nil {
		httputil.WriteError(w, domainerrors.Wrap(err, domainerrors.CodeValidation, "failed to read artifact body"))
		return
	}
	if len(raw) == 0 {
		httputil.WriteError(w, domainerrors.New(domainerrors.CodeValidation, "artifact body is empty"))
		return
	}
	if len(raw) > maxArtifactBytes {
		httputil.WriteError(w, domainerrors.New(domainerrors.CodeValidation, "artifact exceeds the size limit"))
		return
	}

	ref, err := h.store.Put(ctx, raw)
	if err != nil {
		httputil.WriteError(w, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to store artifact"))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"ref": ref})
}

// HandleFetch handles GET /artifacts?ref=...
func (h *ArtifactHandler) HandleFetch(w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("ref")
	if ref == "" {
		httputil.WriteError(w, domainerrors.New(domainerrors.CodeValidation, "ref query parameter is required"))
		return
	}

	raw, err := h.store.Get(r.Context(), ref)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, domainerrors.New(domainerrors.CodeNotFound, "artifact not found"))
			return
		}
		httputil.WriteError(w, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to load artifact"))
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
