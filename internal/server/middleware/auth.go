package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/taskkeeper/internal/server/identity"
	"github.com/iudanet/taskkeeper/internal/server/jwt"
	"github.com/iudanet/taskkeeper/pkg/api"
)

// UnauthorizedMessage is the only message a 401 ever carries.
const UnauthorizedMessage = "invalid or expired token"

// TokenVerifier validates an access token.
type TokenVerifier interface {
	Verify(token string) (*jwt.Claims, error)
}

// Authenticate wraps the whole mux. Requests on the public allowlist pass
// through untouched; every other request must carry a valid
// "Authorization: Bearer <token>" header or gets the uniform 401.
// On success the verified identity is attached to the request context.
func Authenticate(logger *slog.Logger, verifier TokenVerifier, public *PublicRoutes) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if public.IsPublic(r.Method, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				logger.WarnContext(ctx, "request rejected",
					slog.String("reason", "missing_token"),
					slog.String("method", r.Method),
					slog.String("path", sanitizePath(r.URL.Path)),
				)
				Unauthorized(w)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				logger.WarnContext(ctx, "request rejected",
					slog.String("reason", rejectReason(err)),
					slog.String("method", r.Method),
					slog.String("path", sanitizePath(r.URL.Path)),
				)
				Unauthorized(w)
				return
			}

			ctx = identity.WithIdentity(ctx, identity.Identity{
				Subject:   claims.Subject,
				TokenID:   claims.ID,
				ExpiresAt: claims.ExpiresAt,
			})

			logger.DebugContext(ctx, "request authenticated", slog.String("user_id", claims.Subject))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Unauthorized writes the uniform 401 response. The body does not depend on
// why the credential was rejected.
func Unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{
		Error:   http.StatusText(http.StatusUnauthorized),
		Message: UnauthorizedMessage,
	})
}

// bearerToken extracts the token from an Authorization header value.
// The scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// rejectReason names the failure for the log only.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return "expired"
	case errors.Is(err, jwt.ErrInvalidSignature):
		return "invalid_signature"
	default:
		return "malformed"
	}
}
