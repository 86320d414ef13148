package middleware

import (
	"net/http"
	"strings"
)

// Route is a method and an exact path.
type Route struct {
	Method string
	Path   string
}

// PublicRoutes is the set of routes reachable without an access token.
// Everything not listed is protected, unknown paths included. The set is
// fixed after construction and safe for concurrent reads.
type PublicRoutes struct {
	routes map[Route]struct{}
}

// NewPublicRoutes builds an allowlist from routes.
func NewPublicRoutes(routes ...Route) *PublicRoutes {
	p := &PublicRoutes{routes: make(map[Route]struct{}, len(routes))}
	for _, r := range routes {
		p.routes[Route{Method: strings.ToUpper(r.Method), Path: normalizePath(r.Path)}] = struct{}{}
	}
	return p
}

// DefaultPublicRoutes returns the allowlist of the task API: the
// credential-issuing auth endpoints and the health check.
func DefaultPublicRoutes() *PublicRoutes {
	return NewPublicRoutes(
		Route{Method: http.MethodPost, Path: "/api/v1/auth/register"},
		Route{Method: http.MethodPost, Path: "/api/v1/auth/login"},
		Route{Method: http.MethodPost, Path: "/api/v1/auth/refresh"},
		Route{Method: http.MethodPost, Path: "/api/v1/auth/forgot-password"},
		Route{Method: http.MethodPost, Path: "/api/v1/auth/reset-password"},
		Route{Method: http.MethodGet, Path: "/health"},
		Route{Method: http.MethodHead, Path: "/health"},
	)
}

// IsPublic reports whether method and path match an entry exactly.
func (p *PublicRoutes) IsPublic(method, path string) bool {
	if p == nil {
		return false
	}
	_, ok := p.routes[Route{Method: method, Path: normalizePath(path)}]
	return ok
}

// Len returns the number of entries.
func (p *PublicRoutes) Len() int {
	if p == nil {
		return 0
	}
	return len(p.routes)
}

// normalizePath drops a single trailing slash so /health/ and /health match.
func normalizePath(path string) string {
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		return path[:len(path)-1]
	}
	return path
}
