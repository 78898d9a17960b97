package middleware

import (
	"net/http"
	"strings"
)

// TokenVerifier accepts or rejects a bearer token. *auth.Authenticator
// satisfies it.
type TokenVerifier interface {
	Verify(token string) error
}

// NewAdminAuth returns a middleware that requires a valid
// "Authorization: Bearer <token>" header. Anything else gets a 401.
func NewAdminAuth(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}
			if err := v.Verify(strings.TrimSpace(token)); err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="admin", error="invalid_token"`)
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
