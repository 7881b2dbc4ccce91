package httpx

import (
	"context"
	"encoding/json"
	"net/http"

	"newsdesk/internal/config"
	"newsdesk/internal/domain/content"
	"newsdesk/internal/http/handlers"
	middlewarex "newsdesk/internal/http/middleware"
	"newsdesk/internal/services/data"
	"newsdesk/internal/session"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// SessionManager is everything the router needs from the session layer.
type SessionManager interface {
	middlewarex.Authenticator
	handlers.SessionIssuer
	handlers.SessionEnder
	handlers.UserRevoker
}

var _ SessionManager = (*session.Manager)(nil)

// HealthCheck reports whether a backing store is reachable.
type HealthCheck func(ctx context.Context) error

// RouterDependencies holds all dependencies for the HTTP router
type RouterDependencies struct {
	Config      config.Cfg
	DataService *data.Service
	Sessions    SessionManager
	Health      map[string]HealthCheck
}

// NewRouter creates the dashboard API router
func NewRouter(deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	// Health check (public)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status, code := map[string]string{"status": "ok"}, http.StatusOK
		for name, check := range deps.Health {
			if err := check(r.Context()); err != nil {
				status[name] = err.Error()
				status["status"] = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			status[name] = "ok"
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(status)
	})

	// Admin routes (protected by admin token)
	r.Route("/admin", func(r chi.Router) {
		r.Use(middlewarex.AdminAuth(deps.Config.Sec.AdminToken))

		r.Post("/sessions", handlers.IssueSession(deps.Sessions))
	})

	// API routes (protected by session auth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarex.SessionAuth(deps.Sessions))
		r.Use(middlewarex.RateLimit(deps.Config.Sec.RateLimitPerMin))

		r.Get("/me", handlers.Me())
		r.Delete("/session", handlers.Logout(deps.Sessions))

		r.Get("/{resource}", handlers.ListContent(deps.DataService))
		r.With(middlewarex.RequireRole(content.RoleAdmin)).
			Delete("/{resource}/{id}", handlers.DeleteContent(deps.DataService, deps.Sessions))
	})

	return r
}
