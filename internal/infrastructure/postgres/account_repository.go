package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ottermoney/internal/domain/account"
)

// AccountRepository implements account.Repository for PostgreSQL.
type AccountRepository struct {
	db *DB
}

func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// ListByUser retrieves the user's cached accounts, hidden rows filtered out
// unless includeHidden is set.
func (r *AccountRepository) ListByUser(ctx context.Context, userID string, includeHidden bool) ([]*account.Account, error) {
	query := `
		SELECT id, user_id, sf_account_id, sf_account_name, sf_name, balance::text,
		       sf_balance_date, source, category, display_name, hidden, inserted_at
		FROM ottermoney.user_accounts
		WHERE user_id = $1
	`
	if !includeHidden {
		query += ` AND hidden = FALSE`
	}
	query += ` ORDER BY sf_account_name, sf_account_id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		var acc account.Account
		var sfName, category, displayName sql.NullString
		var balanceDate sql.NullInt64

		err := rows.Scan(
			&acc.ID, &acc.UserID, &acc.SFAccountID, &acc.SFAccountName,
			&sfName, &acc.Balance, &balanceDate, &acc.Source,
			&category, &displayName, &acc.Hidden, &acc.InsertedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}

		if sfName.Valid {
			acc.SFName = sfName.String
		}
		if balanceDate.Valid {
			acc.SFBalanceDate = balanceDate.Int64
		}
		if category.Valid {
			acc.Category = category.String
		}
		if displayName.Valid {
			acc.DisplayName = displayName.String
		}

		accounts = append(accounts, &acc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// UpsertBatch merges records keyed on (user_id, sf_account_id) in a single
// statement. The conflict branch only touches aggregator-owned columns, so
// category, display_name and hidden survive every sync.
func (r *AccountRepository) UpsertBatch(ctx context.Context, userID string, records []account.UpsertRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	values := make([]string, 0, len(records))
	args := make([]any, 0, len(records)*8)
	for i, rec := range records {
		base := i * 8
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8))
		args = append(args,
			userID, rec.SFAccountID, rec.SFAccountName, nullString(rec.SFName),
			rec.Balance, nullInt64(rec.SFBalanceDate), rec.Source, rec.Hidden,
		)
	}

	query := `
		INSERT INTO ottermoney.user_accounts (
			user_id, sf_account_id, sf_account_name, sf_name, balance,
			sf_balance_date, source, hidden
		)
		VALUES ` + strings.Join(values, ", ") + `
		ON CONFLICT (user_id, sf_account_id)
		DO UPDATE SET
			sf_account_name = EXCLUDED.sf_account_name,
			sf_name = EXCLUDED.sf_name,
			balance = EXCLUDED.balance,
			sf_balance_date = EXCLUDED.sf_balance_date,
			source = EXCLUDED.source
	`

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert accounts: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return int(rows), nil
}

// SetHidden flips the hidden flag on a single account, scoped to the user so
// one user can never touch another's rows.
func (r *AccountRepository) SetHidden(ctx context.Context, userID, sfAccountID string, hidden bool) error {
	query := `
		UPDATE ottermoney.user_accounts
		SET hidden = $3
		WHERE user_id = $1 AND sf_account_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, userID, sfAccountID, hidden)
	if err != nil {
		return fmt.Errorf("failed to update account visibility: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return account.ErrAccountNotFound
	}

	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt64(i int64) sql.NullInt64 {
	if i == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: i, Valid: true}
}
