package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"ottermoney/internal/domain/user"
	"ottermoney/internal/shared/auth"
)

// AuthHandler registers users and issues bearer tokens for email/password
// logins.
type AuthHandler struct {
	users  user.Repository
	tokens *auth.TokenManager
	log    *logrus.Logger
}

func NewAuthHandler(users user.Repository, tokens *auth.TokenManager, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, log: log}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// HandleLogin verifies credentials and returns a signed token.
// POST /api/v1/auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if errors.Is(err, user.ErrUserNotFound) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// HandleRegister creates a user and returns a token, so a fresh install can
// bootstrap its first account without touching the database by hand.
// POST /api/v1/auth/register.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	_, err := h.users.GetByEmail(r.Context(), req.Email)
	if err == nil {
		http.Error(w, "Email already registered", http.StatusConflict)
		return
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		writeError(w, h.log, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	u := &user.User{Email: req.Email, PasswordHash: hash}
	if err := h.users.Create(r.Context(), u); err != nil {
		writeError(w, h.log, err)
		return
	}
	h.log.WithField("user_id", u.ID).Info("user registered")

	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
