package postgres

import (
	"context"
	"fmt"
)

// migrations run in order on every startup of cmd/migrate. Each statement is
// idempotent, so there is no version table.
var migrations = []string{
	`CREATE SCHEMA IF NOT EXISTS ottermoney`,

	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

	`CREATE TABLE IF NOT EXISTS ottermoney.users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS ottermoney.user_simplefin_tokens (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		user_id UUID NOT NULL UNIQUE,
		access_url TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS ottermoney.user_accounts (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		user_id UUID NOT NULL,
		sf_account_id TEXT NOT NULL,
		sf_account_name TEXT NOT NULL DEFAULT '',
		sf_name TEXT,
		balance NUMERIC(10,2) NOT NULL,
		sf_balance_date BIGINT,
		source TEXT NOT NULL DEFAULT 'simplefin-bridge',
		category TEXT,
		display_name TEXT,
		hidden BOOLEAN NOT NULL DEFAULT FALSE,
		inserted_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (user_id, sf_account_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_user_accounts_user_id
		ON ottermoney.user_accounts (user_id)`,

	`CREATE TABLE IF NOT EXISTS ottermoney.user_settings (
		id UUID PRIMARY KEY,
		dark_mode BOOLEAN NOT NULL DEFAULT FALSE,
		categories JSONB,
		sf_last_sync TIMESTAMPTZ,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Migrate applies the schema. Safe to run repeatedly.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
