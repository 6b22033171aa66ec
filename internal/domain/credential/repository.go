package credential

import "context"

// Repository defines credential store access.
type Repository interface {
	// GetByUserID returns the user's stored credential or
	// ErrCredentialNotFound.
	GetByUserID(ctx context.Context, userID string) (*Credential, error)

	// Save stores or replaces the user's access URL.
	Save(ctx context.Context, userID, accessURL string) (*Credential, error)

	// ListUserIDs returns every user id holding a credential. Used by the
	// background sync scheduler.
	ListUserIDs(ctx context.Context) ([]string, error)
}
