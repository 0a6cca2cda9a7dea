package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/thisisamish/cashcard-api/internal/api/httpx"
	"github.com/thisisamish/cashcard-api/internal/auth"
)

type ctxKey int

const (
	ctxUsernameKey ctxKey = iota
	ctxRoleKey
)

// Username returns the authenticated principal set by Auth.
func Username(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxUsernameKey).(string)
	return v, ok
}

// Role returns the principal's role set by Auth.
func Role(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxRoleKey).(string)
	return v, ok
}

type AuthMiddleware struct {
	TM *auth.TokenManager
}

func NewAuthMiddleware(tm *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{TM: tm}
}

// Auth requires a Bearer access token. Missing, malformed, expired, and
// refresh-typed tokens all end the request with 401 before any handler
// runs, so a bad caller learns nothing about what exists.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token", nil)
			return
		}
		token := strings.TrimSpace(ah[len("Bearer "):])

		claims, isRefresh, err := m.TM.ParseAny(token)
		if err != nil || isRefresh {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid access token", nil)
			return
		}

		ctx := context.WithValue(r.Context(), ctxUsernameKey, claims.Subject)
		ctx = context.WithValue(ctx, ctxRoleKey, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole admits only principals with the given role. Mount it
// inside Auth; without claims in context it denies everything.
func RequireRole(need string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := Role(r.Context())
			if !ok || role != need {
				httpx.WriteError(w, http.StatusForbidden, "forbidden", "insufficient role", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
