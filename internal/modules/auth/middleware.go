package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/serdarakin/shoply-backend/internal/modules/user"
)

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	UserID string
	Role   user.Role
}

type contextKey struct{}

// FromContext returns the authenticated identity, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// UserIDFromRequest returns the authenticated user's id, or "" when the
// request carries no identity. Handlers in other modules take this as an
// injected accessor so they do not depend on auth internals.
func UserIDFromRequest(r *http.Request) string {
	id, _ := FromContext(r.Context())
	return id.UserID
}

// RequireAuth verifies the Bearer access token and attaches the caller
// identity to the request context.
func RequireAuth(tokens *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				respondError(w, http.StatusUnauthorized, "missing token")
				return
			}
			sub, role, err := tokens.VerifyAccess(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				respondError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			parsed, ok := user.ParseRole(role)
			if !ok {
				respondError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), contextKey{}, Identity{UserID: sub, Role: parsed})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route to the given roles. Must run after RequireAuth.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := FromContext(r.Context())
			if !ok {
				respondError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			for _, role := range roles {
				if id.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			respondError(w, http.StatusForbidden, "forbidden")
		})
	}
}
