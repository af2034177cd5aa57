package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/slidewise/chartgen/internal/api/middleware"
	"github.com/slidewise/chartgen/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	RateLimit *mw.RateLimit

	HealthHandler     http.HandlerFunc
	SubmitJobHandler  http.HandlerFunc
	PollJobHandler    http.HandlerFunc
	GenerateHandler   http.HandlerFunc
	BatchHandler      http.HandlerFunc
	ListChartTypes    http.HandlerFunc
	ListAnalyticsType http.HandlerFunc
	ListLayouts       http.HandlerFunc
	ListThemes        http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	// Discovery endpoints
	r.Get("/api/v1/charts/types", orNotImplemented(deps.ListChartTypes))
	r.Get("/api/v1/charts/analytics-types", orNotImplemented(deps.ListAnalyticsType))
	r.Get("/api/v1/charts/layouts", orNotImplemented(deps.ListLayouts))
	r.Get("/api/v1/charts/themes", orNotImplemented(deps.ListThemes))

	// Generation endpoints, rate limited
	r.Group(func(r chi.Router) {
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit.Limit)
		}

		r.Post("/api/v1/charts/jobs", orNotImplemented(deps.SubmitJobHandler))
		r.Get("/api/v1/charts/jobs/{jobID}", orNotImplemented(deps.PollJobHandler))

		r.Post("/api/v1/charts/generate", orNotImplemented(deps.GenerateHandler))
		r.Post("/api/v1/charts/generate/batch", orNotImplemented(deps.BatchHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
