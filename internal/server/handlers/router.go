package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/taskkeeper/internal/server/middleware"
)

// Routes bundles what NewRouter serves.
type Routes struct {
	Auth     *AuthHandler
	Tasks    *TaskHandler
	Health   *HealthHandler
	Verifier middleware.TokenVerifier
	Public   *middleware.PublicRoutes

	// Limiter throttles the credential endpoints. Nil disables limiting.
	Limiter    middleware.Limiter
	TrustProxy bool
}

// NewRouter builds the API. Authentication wraps the whole mux, so any
// route not on the public allowlist, including unknown paths, needs a
// valid access token.
func NewRouter(logger *slog.Logger, rt Routes) http.Handler {
	public := rt.Public
	if public == nil {
		public = middleware.DefaultPublicRoutes()
	}

	limit := func(h http.HandlerFunc) http.Handler { return h }
	if rt.Limiter != nil {
		rl := middleware.RateLimitMiddleware(logger, rt.Limiter, rt.TrustProxy)
		limit = func(h http.HandlerFunc) http.Handler { return rl(h) }
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", rt.Health.Health)

	mux.Handle("POST /api/v1/auth/register", limit(rt.Auth.Register))
	mux.Handle("POST /api/v1/auth/login", limit(rt.Auth.Login))
	mux.Handle("POST /api/v1/auth/refresh", limit(rt.Auth.Refresh))
	mux.Handle("POST /api/v1/auth/forgot-password", limit(rt.Auth.ForgotPassword))
	mux.Handle("POST /api/v1/auth/reset-password", limit(rt.Auth.ResetPassword))
	mux.HandleFunc("POST /api/v1/auth/logout", rt.Auth.Logout)
	mux.HandleFunc("GET /api/v1/auth/me", rt.Auth.Me)

	mux.HandleFunc("POST /api/v1/tasks", rt.Tasks.Create)
	mux.HandleFunc("GET /api/v1/tasks", rt.Tasks.List)
	mux.HandleFunc("GET /api/v1/tasks/{id}", rt.Tasks.Get)
	mux.HandleFunc("PATCH /api/v1/tasks/{id}", rt.Tasks.Update)
	mux.HandleFunc("DELETE /api/v1/tasks/{id}", rt.Tasks.Delete)

	return middleware.Chain(mux,
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingWithSkip(logger, []string{"/health"}),
		middleware.Authenticate(logger, rt.Verifier, public),
	)
}
