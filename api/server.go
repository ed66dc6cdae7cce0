/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. RequestID:      Unique ID per request for tracing
  2. RealIP:         Client address behind proxies
  3. RequestLogger:  Structured request logging (zerolog)
  4. Recoverer:      Panic recovery (500 instead of crash)
  5. CORS:           Cross-origin requests for the back-office frontend

ROUTE GROUPS:
  /api/agreements/*   Agreement drafting, pricing, lifecycle
  /api/offices/*      Office inventory
  /api/notices/*      Termination notices
  /healthz            Liveness probe

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/warp/agreement-engine/obs"
)

// RouterOptions tunes the middleware stack.
type RouterOptions struct {
	Logger         zerolog.Logger
	AllowedOrigins []string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:8080"}
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(obs.RequestLogger{Logger: opts.Logger}.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/agreements", func(r chi.Router) {
			r.Get("/", h.ListAgreements)
			r.Post("/", h.CreateAgreement)
			r.Post("/preview", h.PreviewDraft)
			r.Get("/{id}", h.GetAgreement)
			r.Put("/{id}/draft", h.UpdateDraft)
			r.Post("/{id}/status", h.TransitionAgreement)
		})

		r.Route("/offices", func(r chi.Router) {
			r.Get("/", h.ListOffices)
			r.Post("/", h.CreateOffice)
			r.Get("/{id}", h.GetOffice)
			r.Put("/{id}", h.UpdateOffice)
			r.Delete("/{id}", h.DeleteOffice)
		})

		r.Route("/notices", func(r chi.Router) {
			r.Get("/", h.ListNotices)
			r.Post("/", h.CreateNotice)
			r.Post("/preview", h.PreviewNotice)
			r.Get("/{id}", h.GetNotice)
			r.Put("/{id}/override", h.SetNoticeOverride)
			r.Post("/{id}/activate", h.ActivateNotice)
			r.Post("/{id}/cancel", h.CancelNotice)
		})
	})

	return r
}
