// Package middleware holds the HTTP middleware shared by every route.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"ottermoney/internal/shared/auth"
)

type ContextKey string

const UserIDKey ContextKey = "user_id"

// UserID extracts the authenticated user id placed by Identity.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok
}

// Identity resolves the acting user for every API route. Two gates, checked
// in order:
//
//  1. A trusted-service secret in the X-API-Secret header (the legacy
//     "secret" name still works), which delegates identity to the user_id
//     query parameter. Missing user_id is a 400.
//  2. A Bearer JWT whose subject is the user id. Any verification failure
//     is a 401.
//
// Requests matching neither gate get a 401.
func Identity(apiSecret string, tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			secret := r.Header.Get("X-API-Secret")
			if secret == "" {
				secret = r.Header.Get("secret")
			}

			if secret != "" && secret == apiSecret {
				userID := r.URL.Query().Get("user_id")
				if userID == "" {
					http.Error(w, "user_id query parameter is required", http.StatusBadRequest)
					return
				}
				serveAs(next, w, r, userID)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			userID, err := tokens.Verify(parts[1])
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			serveAs(next, w, r, userID)
		})
	}
}

func serveAs(next http.Handler, w http.ResponseWriter, r *http.Request, userID string) {
	ctx := context.WithValue(r.Context(), UserIDKey, userID)
	next.ServeHTTP(w, r.WithContext(ctx))
}
