package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ottermoney/internal/domain/credential"
)

// CredentialRepository implements credential.Repository for PostgreSQL. The
// access URL is stored as opaque text; it already embeds its own basic-auth
// credentials.
type CredentialRepository struct {
	db *DB
}

func NewCredentialRepository(db *DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

func (r *CredentialRepository) GetByUserID(ctx context.Context, userID string) (*credential.Credential, error) {
	query := `
		SELECT id, user_id, access_url, created_at
		FROM ottermoney.user_simplefin_tokens
		WHERE user_id = $1
	`

	var cred credential.Credential
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&cred.ID, &cred.UserID, &cred.AccessURL, &cred.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, credential.ErrCredentialNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	return &cred, nil
}

// Save stores or replaces the user's access URL. One credential per user.
func (r *CredentialRepository) Save(ctx context.Context, userID, accessURL string) (*credential.Credential, error) {
	query := `
		INSERT INTO ottermoney.user_simplefin_tokens (user_id, access_url)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET access_url = EXCLUDED.access_url
		RETURNING id, user_id, access_url, created_at
	`

	var cred credential.Credential
	err := r.db.QueryRowContext(ctx, query, userID, accessURL).Scan(
		&cred.ID, &cred.UserID, &cred.AccessURL, &cred.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save credential: %w", err)
	}

	return &cred, nil
}

func (r *CredentialRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	query := `SELECT user_id FROM ottermoney.user_simplefin_tokens ORDER BY user_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list credential users: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating credential users: %w", err)
	}

	return userIDs, nil
}
