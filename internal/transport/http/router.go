// Package httptransport exposes the complaint lifecycle engine as a JSON API.
// Handlers stay thin: decode, delegate to a domain service, encode.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"samadhan/internal/platform/middleware"
	"samadhan/pkg/httputil"
)

// HealthChecker reports readiness of an attached backend (Redis, Postgres).
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps collects everything the router mounts.
type Deps struct {
	Complaints *ComplaintHandler
	Review     *ReviewHandler
	Community  *CommunityHandler
	Directory  *DirectoryHandler
	Artifacts  *ArtifactHandler

	// Backends is consulted by /healthz; nil entries are skipped.
	Backends map[string]HealthChecker

	Logger *slog.Logger
}

// NewRouter assembles the middleware stack and all endpoint groups.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", healthz(deps.Backends))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if deps.Artifacts != nil {
		deps.Artifacts.Register(r)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		deps.Complaints.Register(r)
		deps.Review.Register(r)
		deps.Community.Register(r)
		deps.Directory.Register(r)
	})

	return r
}

func healthz(backends map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}
		code := http.StatusOK
		for name, hc := range backends {
			if hc == nil {
				continue
			}
			if err := hc.Health(r.Context()); err != nil {
				status[name] = "unavailable"
				status["status"] = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			status[name] = "ok"
		}
		httputil.WriteJSON(w, code, status)
	}
}
