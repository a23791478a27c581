package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/gestion-contratistas/portal/internal/common"
	"github.com/gestion-contratistas/portal/internal/server/auth"
)

type ctxKey int

const claimsKey ctxKey = 0

// ClaimsFromContext returns the verified session claims placed on the
// request context by Authenticate. The second return is false on requests
// that never passed through the middleware.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// extractToken pulls the session token off the request. The cookie wins over
// the Authorization header when both are present.
func extractToken(r *http.Request) (string, error) {
	if c, err := r.Cookie(common.TokenCookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	header := r.Header.Get(common.AuthorizationHeaderName)
	if after, ok := strings.CutPrefix(header, "Bearer "); ok && after != "" {
		return after, nil
	}
	return "", common.ErrMissingToken
}

// Authenticate verifies the session token and stores its claims on the
// request context. The handler chain below it never runs on a failed
// verification. Browser clients are sent back to /login; API clients get a
// 401 (no token) or 403 (bad or expired token).
func Authenticate(secretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := extractToken(r)
			if err != nil {
				if wantsJSON(r) {
					writeError(w, http.StatusUnauthorized, "No autorizado")
					return
				}
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			claims, err := auth.VerifyToken(tokenString, secretKey)
			if err != nil {
				if wantsJSON(r) {
					writeError(w, http.StatusForbidden, "Token inválido o expirado")
					return
				}
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets the request through only when the verified identity holds
// exactly the given role. It never parses tokens itself and must be mounted
// after Authenticate. A denied browser client is redirected to its own home
// view; API clients get a 403.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				if wantsJSON(r) {
					writeError(w, http.StatusUnauthorized, "No autorizado")
					return
				}
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			if claims.Role != role {
				if wantsJSON(r) {
					writeError(w, http.StatusForbidden, "Acceso denegado")
					return
				}
				http.Redirect(w, r, homeFor(claims.Role), http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
