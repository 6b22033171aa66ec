// Package settings holds per-user display preferences and sync bookkeeping.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrSettingsNotFound = errors.New("settings not found")

// Settings is the per-user preferences row. The row id is the user id.
// Categories is an opaque JSON document owned by the frontend.
type Settings struct {
	UserID     string          `json:"-"`
	DarkMode   bool            `json:"dark_mode"`
	Categories json.RawMessage `json:"categories,omitempty"`
	SFLastSync *time.Time      `json:"sf_last_sync,omitempty"`
	UpdatedAt  time.Time       `json:"-"`
}

type Repository interface {
	// GetByUserID returns the user's settings or ErrSettingsNotFound.
	GetByUserID(ctx context.Context, userID string) (*Settings, error)

	// Upsert stores dark mode and categories, creating the row if needed.
	Upsert(ctx context.Context, s *Settings) error

	// TouchLastSync records a successful sync timestamp, creating the row
	// if needed.
	TouchLastSync(ctx context.Context, userID string, at time.Time) error
}
