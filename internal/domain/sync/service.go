// Package sync pulls account data from the SimpleFIN bridge and merges it
// into the local cache.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"ottermoney/internal/domain/account"
	"ottermoney/internal/domain/credential"
	"ottermoney/internal/domain/settings"
	"ottermoney/internal/infrastructure/simplefin"
)

// Result counts what a single sync did.
type Result struct {
	UserID  string
	Found   int
	Merged  int
	Skipped int
}

// Service orchestrates credential resolution, the bridge fetch and the
// account merge for one user at a time.
type Service struct {
	client      simplefin.ClientInterface
	credentials credential.Repository
	accounts    *account.Service
	settings    settings.Repository
	log         *logrus.Logger
}

func NewService(
	client simplefin.ClientInterface,
	credentials credential.Repository,
	accounts *account.Service,
	settingsRepo settings.Repository,
	log *logrus.Logger,
) *Service {
	return &Service{
		client:      client,
		credentials: credentials,
		accounts:    accounts,
		settings:    settingsRepo,
		log:         log,
	}
}

// ResolveAccessURL looks up the user's stored credential and returns the
// normalized accounts URL. Missing credentials surface as
// credential.ErrCredentialNotFound.
func (s *Service) ResolveAccessURL(ctx context.Context, userID string) (string, error) {
	cred, err := s.credentials.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	return credential.NormalizeAccessURL(cred.AccessURL), nil
}

// FetchRaw resolves the credential and returns the bridge payload verbatim,
// without touching the local cache. Backs the live passthrough endpoint.
func (s *Service) FetchRaw(ctx context.Context, userID string) ([]byte, error) {
	accessURL, err := s.ResolveAccessURL(ctx, userID)
	if err != nil {
		return nil, err
	}

	_, raw, err := s.client.FetchAccounts(ctx, accessURL)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// SyncAccounts fetches the user's accounts from the bridge and upserts them
// keyed on (user_id, sf_account_id). Records without an id or balance are
// skipped silently. The last-sync timestamp update is best effort: a failure
// there is logged and never surfaces, since the sync's success is defined by
// the fetch alone. Returns the merge counters and the raw bridge payload.
func (s *Service) SyncAccounts(ctx context.Context, userID string) (*Result, []byte, error) {
	accessURL, err := s.ResolveAccessURL(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	payload, raw, err := s.client.FetchAccounts(ctx, accessURL)
	if err != nil {
		return nil, nil, err
	}

	records, skipped := s.mapRecords(userID, payload)
	result := &Result{
		UserID:  userID,
		Found:   len(payload.Accounts),
		Skipped: skipped,
	}

	if len(records) > 0 {
		merged, err := s.accounts.MergeRecords(ctx, userID, records)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to upsert accounts: %w", err)
		}
		result.Merged = merged
	}

	if err := s.settings.TouchLastSync(ctx, userID, time.Now().UTC()); err != nil {
		s.log.WithError(err).WithField("user_id", userID).
			Warn("failed to update last sync time")
	}

	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"found":   result.Found,
		"merged":  result.Merged,
		"skipped": result.Skipped,
	}).Info("account sync complete")

	return result, raw, nil
}

// mapRecords turns bridge accounts into upsert records, dropping any without
// an id or a parseable balance.
func (s *Service) mapRecords(userID string, payload *simplefin.AccountsPayload) ([]account.UpsertRecord, int) {
	records := make([]account.UpsertRecord, 0, len(payload.Accounts))
	skipped := 0

	for _, acc := range payload.Accounts {
		if acc.ID == "" || acc.Balance == "" {
			skipped++
			continue
		}

		balance, err := account.NormalizeBalance(acc.Balance.String())
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"user_id":    userID,
				"account_id": acc.ID,
				"balance":    acc.Balance.String(),
			}).Warn("skipping account with unparseable balance")
			skipped++
			continue
		}

		var orgName string
		if acc.Org != nil {
			orgName = acc.Org.Name
		}

		records = append(records, account.UpsertRecord{
			SFAccountID:   acc.ID,
			SFAccountName: acc.Name,
			SFName:        orgName,
			Balance:       balance,
			SFBalanceDate: acc.BalanceDate,
			Source:        account.SourceAggregator,
			Hidden:        acc.Hidden,
		})
	}

	return records, skipped
}
