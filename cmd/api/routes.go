package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"ottermoney/internal/shared/config"
	"ottermoney/internal/shared/middleware"
)

// SetupRoutes builds the router. /health and login stay public; everything
// else sits behind the identity middleware.
func SetupRoutes(cfg *config.Config, deps *Dependencies, log *logrus.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logging(log))
	if cfg.Server.AllowedOrigin != "" {
		r.Use(middleware.CORS(cfg.Server.AllowedOrigin))
	}

	r.Get("/health", deps.HealthHandler.HandleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", deps.AuthHandler.HandleRegister)
		r.Post("/auth/login", deps.AuthHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Identity(cfg.Auth.APISecret, deps.Tokens))

			r.Get("/accounts", deps.AccountsHandler.HandleLiveAccounts)
			r.Get("/sync", deps.AccountsHandler.HandleSync)

			r.Get("/user_accounts", deps.AccountsHandler.HandleListUserAccounts)
			r.Post("/user_accounts", deps.AccountsHandler.HandleAddAccount)
			r.Patch("/user_accounts/{id}/hide", deps.AccountsHandler.HandleHideAccount)

			r.Post("/simplefin/claim", deps.CredentialHandler.HandleClaim)

			r.Get("/user_settings", deps.SettingsHandler.HandleGetSettings)
			r.Put("/user_settings", deps.SettingsHandler.HandleUpdateSettings)
		})
	})

	if cfg.Telemetry.Enabled {
		return otelhttp.NewHandler(r, "http.server")
	}
	return r
}
