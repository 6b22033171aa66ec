// Package http contains the JSON API handlers.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"ottermoney/internal/domain/account"
	"ottermoney/internal/domain/credential"
	"ottermoney/internal/domain/settings"
	"ottermoney/internal/infrastructure/simplefin"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeRaw echoes an upstream payload verbatim.
func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// writeError maps domain errors onto HTTP statuses. Upstream bridge failures
// pass through with their original status and body; anything unrecognized is
// a 500 carrying the error text.
func writeError(w http.ResponseWriter, log *logrus.Logger, err error) {
	var apiErr *simplefin.APIError
	if errors.As(err, &apiErr) {
		http.Error(w, apiErr.Body, apiErr.StatusCode)
		return
	}

	switch {
	case errors.Is(err, account.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, account.ErrAccountNotFound):
		http.Error(w, "Account not found", http.StatusNotFound)
	case errors.Is(err, credential.ErrCredentialNotFound):
		http.Error(w, "No SimpleFIN credentials configured", http.StatusNotFound)
	case errors.Is(err, settings.ErrSettingsNotFound):
		http.Error(w, "Settings not found", http.StatusNotFound)
	default:
		log.WithError(err).Error("request failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
