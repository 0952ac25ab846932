// Package router sets up all HTTP routes and middleware chains for the
// portfolio API. Reads are public; writes and uploads can be guarded by
// an admin key.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"portfolio/internal/handlers"
	"portfolio/internal/metrics"
	"portfolio/internal/middleware"
)

// Options tunes the cross-cutting parts of the router.
type Options struct {
	// CORSOrigins lists allowed browser origins; empty allows all.
	CORSOrigins []string
	// AdminKeyHash is the bcrypt hash guarding mutating routes; empty
	// leaves them open.
	AdminKeyHash string
	// UploadLimiter rate-limits the upload endpoints per client IP.
	UploadLimiter *middleware.RateLimiter
	// Metrics mounts GET /metrics and instruments every request.
	Metrics bool
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(catalog *handlers.Catalog, uploads *handlers.Uploads, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request. Recoverer sits inside
	// Logger and Instrument so a recovered panic is logged and counted as a 500.
	r.Use(middleware.Logger)
	if opts.Metrics {
		r.Use(metrics.Instrument)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(opts.CORSOrigins))

	r.NotFound(notFoundHandler)
	r.MethodNotAllowed(methodNotAllowedHandler)

	if opts.Metrics {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler)

		// Catalog reads.
		r.Get("/categories", catalog.ListCategories)
		r.Get("/categories/{catKey}/subcategories", catalog.ListSubcategories)
		r.Get("/categories/{catKey}/subcategories/{subKey}/apps", catalog.ListApps)
		r.Get("/apps/{catKey}/{subKey}/{slug}", catalog.GetApp)

		// Catalog writes.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdminKey(opts.AdminKeyHash))

			r.Post("/categories", catalog.CreateCategory)
			r.Put("/categories/{catKey}", catalog.UpdateCategory)
			r.Delete("/categories/{catKey}", catalog.DeleteCategory)

			r.Post("/subcategories", catalog.CreateSubcategory)
			r.Put("/subcategories/{catKey}/{subKey}", catalog.UpdateSubcategory)
			r.Delete("/subcategories/{catKey}/{subKey}", catalog.DeleteSubcategory)

			r.Post("/apps", catalog.CreateApp)
			r.Put("/apps/{catKey}/{subKey}/{slug}", catalog.UpdateApp)
			r.Delete("/apps/{catKey}/{subKey}/{slug}", catalog.DeleteApp)

			// Upload side channels.
			r.Route("/uploads", func(r chi.Router) {
				if opts.UploadLimiter != nil {
					r.Use(opts.UploadLimiter.Middleware)
				}
				r.Post("/icon", uploads.PresignIcon)
				r.Post("/github", uploads.CommitGitHub)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"ok":true}`))
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"not_found","detail":"no such route"}`))
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	w.Write([]byte(`{"error":"method_not_allowed","detail":"method not supported on this route"}`))
}
