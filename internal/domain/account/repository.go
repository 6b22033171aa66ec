package account

import "context"

// Repository defines the interface for account data access
// This interface is defined in the domain layer, but implemented in the infrastructure layer
type Repository interface {
	// ListByUser returns a user's cached accounts. Hidden rows are filtered
	// out unless includeHidden is set.
	ListByUser(ctx context.Context, userID string, includeHidden bool) ([]*Account, error)

	// UpsertBatch merges records keyed on (user_id, sf_account_id) and
	// returns the number of rows written.
	UpsertBatch(ctx context.Context, userID string, records []UpsertRecord) (int, error)

	// SetHidden flips the hidden flag on a single account scoped to the
	// user. Returns ErrAccountNotFound when no row matched.
	SetHidden(ctx context.Context, userID, sfAccountID string, hidden bool) error
}

// ListCache is an optional read cache over ListByUser results, invalidated on
// every write for the user. Implemented in the infrastructure layer.
type ListCache interface {
	Get(userID string, includeHidden bool) ([]*Account, bool)
	Set(userID string, includeHidden bool, accounts []*Account)
	InvalidateUser(userID string)
}
