package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"ottermoney/internal/domain/account"
	"ottermoney/internal/domain/sync"
	"ottermoney/internal/shared/middleware"
)

// AccountsHandler serves the cached account listings and the live bridge
// passthrough.
type AccountsHandler struct {
	accounts *account.Service
	sync     *sync.Service
	log      *logrus.Logger
}

func NewAccountsHandler(accounts *account.Service, syncService *sync.Service, log *logrus.Logger) *AccountsHandler {
	return &AccountsHandler{accounts: accounts, sync: syncService, log: log}
}

type addAccountRequest struct {
	SFAccountID   string `json:"sf_account_id"`
	SFAccountName string `json:"sf_account_name"`
	SFName        string `json:"sf_name"`
	Balance       string `json:"balance"`
	SFBalanceDate int64  `json:"sf_balance_date"`
	Hidden        bool   `json:"hidden"`
}

// HandleLiveAccounts proxies the bridge payload without touching the local
// cache. GET /api/v1/accounts.
func (h *AccountsHandler) HandleLiveAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	raw, err := h.sync.FetchRaw(r.Context(), userID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeRaw(w, http.StatusOK, raw)
}

// HandleListUserAccounts returns the cached accounts. An empty cache triggers
// one sync and a re-read, so a fresh user's first request comes back
// populated. GET /api/v1/user_accounts.
func (h *AccountsHandler) HandleListUserAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	showHidden := r.URL.Query().Get("show_hidden") == "true"

	accounts, err := h.accounts.ListForUser(r.Context(), userID, showHidden)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	if len(accounts) == 0 {
		if _, _, err := h.sync.SyncAccounts(r.Context(), userID); err != nil {
			writeError(w, h.log, err)
			return
		}
		accounts, err = h.accounts.ListForUser(r.Context(), userID, showHidden)
		if err != nil {
			writeError(w, h.log, err)
			return
		}
	}

	if accounts == nil {
		accounts = []*account.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

// HandleAddAccount stores one manual account. POST /api/v1/user_accounts.
func (h *AccountsHandler) HandleAddAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req addAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := h.accounts.AddManual(r.Context(), userID, account.UpsertRecord{
		SFAccountID:   req.SFAccountID,
		SFAccountName: req.SFAccountName,
		SFName:        req.SFName,
		Balance:       req.Balance,
		SFBalanceDate: req.SFBalanceDate,
		Hidden:        req.Hidden,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// HandleHideAccount flips an account's hidden flag.
// PATCH /api/v1/user_accounts/{id}/hide?hidden=.
func (h *AccountsHandler) HandleHideAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sfAccountID := chi.URLParam(r, "id")
	raw := r.URL.Query().Get("hidden")
	if raw == "" {
		http.Error(w, "hidden query parameter is required", http.StatusBadRequest)
		return
	}
	hidden := raw != "false"

	if err := h.accounts.SetHidden(r.Context(), userID, sfAccountID, hidden); err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sf_account_id": sfAccountID,
		"hidden":        hidden,
	})
}

// HandleSync runs a sync for the user and echoes the bridge payload, which
// is what the frontend polls during onboarding. GET /api/v1/sync.
func (h *AccountsHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	_, raw, err := h.sync.SyncAccounts(r.Context(), userID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeRaw(w, http.StatusOK, raw)
}
