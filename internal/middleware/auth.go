// Package middleware provides HTTP middleware components for the API server.
package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dev-olayemi/jobbank/internal/auth"
)

// TokenValidator validates bearer tokens and returns their claims.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// Authenticate is a middleware that validates the Authorization bearer token
// and stores the authenticated user ID in the request context. Requests
// without a valid access token receive a 401 with the standard error envelope.
func Authenticate(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeAuthError(w, r, "Authentication required")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				writeAuthError(w, r, "Invalid or expired token")
				return
			}
			if claims.Type != auth.TokenTypeAccess {
				writeAuthError(w, r, "Access token required")
				return
			}

			ctx := SetUserID(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeAuthError writes a 401 in the standard error envelope. The envelope is
// duplicated here rather than imported from the api package to avoid a
// dependency cycle.
func writeAuthError(w http.ResponseWriter, r *http.Request, message string) {
	SetErrorCode(r.Context(), "auth_failed")
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    "auth_failed",
			"message": message,
		},
	})
}
