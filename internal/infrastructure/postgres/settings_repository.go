package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ottermoney/internal/domain/settings"
)

// SettingsRepository implements settings.Repository for PostgreSQL. The
// settings row id is the user id.
type SettingsRepository struct {
	db *DB
}

func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) GetByUserID(ctx context.Context, userID string) (*settings.Settings, error) {
	query := `
		SELECT id, dark_mode, categories, sf_last_sync, updated_at
		FROM ottermoney.user_settings
		WHERE id = $1
	`

	var s settings.Settings
	var categories []byte
	var lastSync sql.NullTime

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.UserID, &s.DarkMode, &categories, &lastSync, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, settings.ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	if len(categories) > 0 {
		s.Categories = categories
	}
	if lastSync.Valid {
		t := lastSync.Time
		s.SFLastSync = &t
	}

	return &s, nil
}

// Upsert stores dark mode and categories, leaving sf_last_sync to the sync
// path.
func (r *SettingsRepository) Upsert(ctx context.Context, s *settings.Settings) error {
	query := `
		INSERT INTO ottermoney.user_settings (id, dark_mode, categories, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (id)
		DO UPDATE SET
			dark_mode = EXCLUDED.dark_mode,
			categories = EXCLUDED.categories,
			updated_at = CURRENT_TIMESTAMP
	`

	var categories any
	if len(s.Categories) > 0 {
		categories = []byte(s.Categories)
	}

	if _, err := r.db.ExecContext(ctx, query, s.UserID, s.DarkMode, categories); err != nil {
		return fmt.Errorf("failed to upsert settings: %w", err)
	}

	return nil
}

// TouchLastSync records a successful sync timestamp, creating the row if the
// user has no settings yet.
func (r *SettingsRepository) TouchLastSync(ctx context.Context, userID string, at time.Time) error {
	query := `
		INSERT INTO ottermoney.user_settings (id, sf_last_sync, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (id)
		DO UPDATE SET
			sf_last_sync = EXCLUDED.sf_last_sync,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := r.db.ExecContext(ctx, query, userID, at); err != nil {
		return fmt.Errorf("failed to update last sync time: %w", err)
	}

	return nil
}
