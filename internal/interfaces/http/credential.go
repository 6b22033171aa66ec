package http

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"ottermoney/internal/domain/credential"
	"ottermoney/internal/infrastructure/simplefin"
	"ottermoney/internal/shared/middleware"
)

// CredentialHandler exchanges SimpleFIN setup tokens for stored access URLs.
type CredentialHandler struct {
	credentials credential.Repository
	client      simplefin.ClientInterface
	log         *logrus.Logger
}

func NewCredentialHandler(credentials credential.Repository, client simplefin.ClientInterface, log *logrus.Logger) *CredentialHandler {
	return &CredentialHandler{credentials: credentials, client: client, log: log}
}

type claimRequest struct {
	SetupToken string `json:"setup_token"`
}

// HandleClaim claims a one-time setup token and stores the resulting access
// URL for the user. POST /api/v1/simplefin/claim.
func (h *CredentialHandler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.SetupToken == "" {
		http.Error(w, "setup_token is required", http.StatusBadRequest)
		return
	}

	accessURL, err := h.client.Claim(r.Context(), req.SetupToken)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	if _, err := h.credentials.Save(r.Context(), userID, accessURL); err != nil {
		writeError(w, h.log, err)
		return
	}

	h.log.WithField("user_id", userID).Info("simplefin credential claimed")
	writeJSON(w, http.StatusCreated, map[string]string{"status": "claimed"})
}
