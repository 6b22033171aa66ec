package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ottermoney/internal/shared/auth"
)

const testSecret = "service-secret"

func identityHandler(t *testing.T, tokens *auth.TokenManager) (http.Handler, *string) {
	t.Helper()
	var gotUserID string
	h := Identity(testSecret, tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r.Context())
		if !ok {
			t.Error("handler reached without a user id in context")
		}
		gotUserID = id
		w.WriteHeader(http.StatusOK)
	}))
	return h, &gotUserID
}

func TestIdentity(t *testing.T) {
	tokens := auth.NewTokenManager("jwt-secret", time.Hour)
	validToken, err := tokens.Issue("user-42")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
		wantUserID string
	}{
		{
			name: "api secret with user_id",
			setup: func(r *http.Request) {
				r.Header.Set("X-API-Secret", testSecret)
				q := r.URL.Query()
				q.Set("user_id", "user-7")
				r.URL.RawQuery = q.Encode()
			},
			wantStatus: http.StatusOK,
			wantUserID: "user-7",
		},
		{
			name: "legacy secret header",
			setup: func(r *http.Request) {
				r.Header.Set("secret", testSecret)
				q := r.URL.Query()
				q.Set("user_id", "user-7")
				r.URL.RawQuery = q.Encode()
			},
			wantStatus: http.StatusOK,
			wantUserID: "user-7",
		},
		{
			name: "api secret without user_id",
			setup: func(r *http.Request) {
				r.Header.Set("X-API-Secret", testSecret)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "wrong api secret falls through to 401",
			setup: func(r *http.Request) {
				r.Header.Set("X-API-Secret", "guess")
				q := r.URL.Query()
				q.Set("user_id", "user-7")
				r.URL.RawQuery = q.Encode()
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "valid bearer token",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+validToken)
			},
			wantStatus: http.StatusOK,
			wantUserID: "user-42",
		},
		{
			name: "bearer token wins only when no secret matches",
			setup: func(r *http.Request) {
				r.Header.Set("X-API-Secret", testSecret)
				r.Header.Set("Authorization", "Bearer "+validToken)
				q := r.URL.Query()
				q.Set("user_id", "user-7")
				r.URL.RawQuery = q.Encode()
			},
			wantStatus: http.StatusOK,
			wantUserID: "user-7",
		},
		{
			name: "garbage bearer token",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer not.a.token")
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "malformed authorization header",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", validToken)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "no credentials",
			setup:      func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, gotUserID := identityHandler(t, tokens)

			r := httptest.NewRequest(http.MethodGet, "/api/v1/user_accounts", nil)
			tt.setup(r)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && *gotUserID != tt.wantUserID {
				t.Errorf("user id = %q, want %q", *gotUserID, tt.wantUserID)
			}
		})
	}
}
