package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Service contains the business logic for account operations
type Service struct {
	repo  Repository
	cache ListCache
}

// NewService creates a new account service. cache may be nil, in which case
// every read hits the repository.
func NewService(repo Repository, cache ListCache) *Service {
	return &Service{repo: repo, cache: cache}
}

// ListForUser returns the user's cached accounts, hidden rows filtered out
// unless includeHidden is set. This is a pure read: an empty cache is an
// empty answer, never a trigger for a sync.
func (s *Service) ListForUser(ctx context.Context, userID string, includeHidden bool) ([]*Account, error) {
	if userID == "" {
		return nil, errors.New("valid user ID is required")
	}

	if s.cache != nil {
		if accounts, ok := s.cache.Get(userID, includeHidden); ok {
			return accounts, nil
		}
	}

	accounts, err := s.repo.ListByUser(ctx, userID, includeHidden)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(userID, includeHidden, accounts)
	}
	return accounts, nil
}

// MergeRecords validates and bulk-upserts records for the user, returning the
// number of rows written.
func (s *Service) MergeRecords(ctx context.Context, userID string, records []UpsertRecord) (int, error) {
	if userID == "" {
		return 0, errors.New("valid user ID is required")
	}
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return 0, fmt.Errorf("%w: %s", ErrInvalidInput, err)
		}
	}
	if len(records) == 0 {
		return 0, nil
	}

	// A bridge payload can list the same account twice. The single-statement
	// upsert cannot touch a row twice, so later duplicates replace earlier
	// ones before the batch reaches the store.
	seen := make(map[string]int, len(records))
	deduped := make([]UpsertRecord, 0, len(records))
	for _, r := range records {
		if i, ok := seen[r.SFAccountID]; ok {
			deduped[i] = r
			continue
		}
		seen[r.SFAccountID] = len(deduped)
		deduped = append(deduped, r)
	}

	n, err := s.repo.UpsertBatch(ctx, userID, deduped)
	if err != nil {
		return 0, err
	}
	s.invalidate(userID)
	return n, nil
}

// AddManual stores a single user-entered account. A missing external id gets
// a generated one so the row still satisfies the (user, sf_account_id) key.
func (s *Service) AddManual(ctx context.Context, userID string, record UpsertRecord) error {
	if record.SFAccountID == "" {
		record.SFAccountID = "manual-" + uuid.NewString()
	}
	record.Source = SourceManual

	normalized, err := NormalizeBalance(record.Balance)
	if err != nil {
		return fmt.Errorf("%w: balance must be a decimal string", ErrInvalidInput)
	}
	record.Balance = normalized

	_, err = s.MergeRecords(ctx, userID, []UpsertRecord{record})
	return err
}

// SetHidden flips the hidden flag for one of the user's accounts. A miss is
// ErrAccountNotFound regardless of whether the account exists under another
// user.
func (s *Service) SetHidden(ctx context.Context, userID, sfAccountID string, hidden bool) error {
	if userID == "" || sfAccountID == "" {
		return fmt.Errorf("%w: user and account ids are required", ErrInvalidInput)
	}

	if err := s.repo.SetHidden(ctx, userID, sfAccountID, hidden); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

func (s *Service) invalidate(userID string) {
	if s.cache != nil {
		s.cache.InvalidateUser(userID)
	}
}
