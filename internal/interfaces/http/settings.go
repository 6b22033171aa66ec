package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"ottermoney/internal/domain/settings"
	"ottermoney/internal/shared/middleware"
)

// SettingsHandler serves per-user preferences.
type SettingsHandler struct {
	settings settings.Repository
	log      *logrus.Logger
}

func NewSettingsHandler(repo settings.Repository, log *logrus.Logger) *SettingsHandler {
	return &SettingsHandler{settings: repo, log: log}
}

type updateSettingsRequest struct {
	DarkMode   bool            `json:"dark_mode"`
	Categories json.RawMessage `json:"categories"`
}

// HandleGetSettings returns the user's settings. A user who never saved any
// gets the defaults instead of a 404. GET /api/v1/user_settings.
func (h *SettingsHandler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	s, err := h.settings.GetByUserID(r.Context(), userID)
	if errors.Is(err, settings.ErrSettingsNotFound) {
		s = &settings.Settings{UserID: userID}
	} else if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, s)
}

// HandleUpdateSettings stores dark mode and the category document.
// PUT /api/v1/user_settings.
func (h *SettingsHandler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	s := &settings.Settings{
		UserID:     userID,
		DarkMode:   req.DarkMode,
		Categories: req.Categories,
	}
	if err := h.settings.Upsert(r.Context(), s); err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, s)
}
