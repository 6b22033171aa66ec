package main

import (
	"github.com/sirupsen/logrus"

	"ottermoney/internal/domain/account"
	"ottermoney/internal/domain/sync"
	"ottermoney/internal/infrastructure/cache"
	"ottermoney/internal/infrastructure/postgres"
	"ottermoney/internal/infrastructure/simplefin"
	httphandlers "ottermoney/internal/interfaces/http"
	"ottermoney/internal/shared/auth"
	"ottermoney/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AccountsHandler   *httphandlers.AccountsHandler
	AuthHandler       *httphandlers.AuthHandler
	CredentialHandler *httphandlers.CredentialHandler
	SettingsHandler   *httphandlers.SettingsHandler
	HealthHandler     *httphandlers.HealthHandler

	// Auth
	Tokens *auth.TokenManager

	// For the scheduler job provider
	SyncService    *sync.Service
	CredentialRepo *postgres.CredentialRepository
}

// NewDependencies initializes all application components.
func NewDependencies(cfg *config.Config, log *logrus.Logger) (*Dependencies, error) {
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Info("connected to database")

	accountRepo := postgres.NewAccountRepository(db)
	credentialRepo := postgres.NewCredentialRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)
	userRepo := postgres.NewUserRepository(db)

	listCache, err := cache.NewAccountCache()
	if err != nil {
		return nil, err
	}

	accountService := account.NewService(accountRepo, listCache)
	sfClient := simplefin.NewClient(cfg.SimpleFIN.Timeout)
	syncService := sync.NewService(sfClient, credentialRepo, accountService, settingsRepo, log)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	return &Dependencies{
		DB:                db,
		AccountsHandler:   httphandlers.NewAccountsHandler(accountService, syncService, log),
		AuthHandler:       httphandlers.NewAuthHandler(userRepo, tokens, log),
		CredentialHandler: httphandlers.NewCredentialHandler(credentialRepo, sfClient, log),
		SettingsHandler:   httphandlers.NewSettingsHandler(settingsRepo, log),
		HealthHandler:     httphandlers.NewHealthHandler(db),
		Tokens:            tokens,
		SyncService:       syncService,
		CredentialRepo:    credentialRepo,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
