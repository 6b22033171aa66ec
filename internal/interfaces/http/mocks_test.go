package http

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"ottermoney/internal/domain/account"
	"ottermoney/internal/domain/credential"
	"ottermoney/internal/domain/settings"
	"ottermoney/internal/domain/user"
	"ottermoney/internal/infrastructure/simplefin"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}

// memAccountRepo is a stateful in-memory account.Repository, enough to
// exercise the read-then-sync fallback end to end.
type memAccountRepo struct {
	rows map[string][]*account.Account // keyed by user id
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{rows: make(map[string][]*account.Account)}
}

func (m *memAccountRepo) ListByUser(ctx context.Context, userID string, includeHidden bool) ([]*account.Account, error) {
	var out []*account.Account
	for _, acc := range m.rows[userID] {
		if acc.Hidden && !includeHidden {
			continue
		}
		out = append(out, acc)
	}
	return out, nil
}

func (m *memAccountRepo) UpsertBatch(ctx context.Context, userID string, records []account.UpsertRecord) (int, error) {
	for _, rec := range records {
		updated := false
		for _, acc := range m.rows[userID] {
			if acc.SFAccountID == rec.SFAccountID {
				acc.SFAccountName = rec.SFAccountName
				acc.SFName = rec.SFName
				acc.Balance = rec.Balance
				acc.SFBalanceDate = rec.SFBalanceDate
				acc.Source = rec.Source
				updated = true
				break
			}
		}
		if !updated {
			m.rows[userID] = append(m.rows[userID], &account.Account{
				UserID:        userID,
				SFAccountID:   rec.SFAccountID,
				SFAccountName: rec.SFAccountName,
				SFName:        rec.SFName,
				Balance:       rec.Balance,
				SFBalanceDate: rec.SFBalanceDate,
				Source:        rec.Source,
				Hidden:        rec.Hidden,
			})
		}
	}
	return len(records), nil
}

func (m *memAccountRepo) SetHidden(ctx context.Context, userID, sfAccountID string, hidden bool) error {
	for _, acc := range m.rows[userID] {
		if acc.SFAccountID == sfAccountID {
			acc.Hidden = hidden
			return nil
		}
	}
	return account.ErrAccountNotFound
}

// MockCredentialRepo implements credential.Repository
type MockCredentialRepo struct {
	GetByUserIDFunc func(ctx context.Context, userID string) (*credential.Credential, error)
	SaveFunc        func(ctx context.Context, userID, accessURL string) (*credential.Credential, error)
}

func (m *MockCredentialRepo) GetByUserID(ctx context.Context, userID string) (*credential.Credential, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return &credential.Credential{UserID: userID, AccessURL: "https://u:p@bridge.example.com/simplefin"}, nil
}

func (m *MockCredentialRepo) Save(ctx context.Context, userID, accessURL string) (*credential.Credential, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, userID, accessURL)
	}
	return &credential.Credential{UserID: userID, AccessURL: accessURL}, nil
}

func (m *MockCredentialRepo) ListUserIDs(ctx context.Context) ([]string, error) {
	return nil, nil
}

// MockSettingsRepo implements settings.Repository
type MockSettingsRepo struct {
	GetByUserIDFunc func(ctx context.Context, userID string) (*settings.Settings, error)
	UpsertFunc      func(ctx context.Context, s *settings.Settings) error
}

func (m *MockSettingsRepo) GetByUserID(ctx context.Context, userID string) (*settings.Settings, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return nil, settings.ErrSettingsNotFound
}

func (m *MockSettingsRepo) Upsert(ctx context.Context, s *settings.Settings) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, s)
	}
	return nil
}

func (m *MockSettingsRepo) TouchLastSync(ctx context.Context, userID string, at time.Time) error {
	return nil
}

// MockClient implements simplefin.ClientInterface
type MockClient struct {
	FetchAccountsFunc func(ctx context.Context, accessURL string) (*simplefin.AccountsPayload, []byte, error)
	ClaimFunc         func(ctx context.Context, setupToken string) (string, error)
}

func (m *MockClient) FetchAccounts(ctx context.Context, accessURL string) (*simplefin.AccountsPayload, []byte, error) {
	if m.FetchAccountsFunc != nil {
		return m.FetchAccountsFunc(ctx, accessURL)
	}
	return &simplefin.AccountsPayload{}, []byte(`{"accounts":[]}`), nil
}

func (m *MockClient) Claim(ctx context.Context, setupToken string) (string, error) {
	if m.ClaimFunc != nil {
		return m.ClaimFunc(ctx, setupToken)
	}
	return "", nil
}

// MockUserRepo implements user.Repository
type MockUserRepo struct {
	GetByEmailFunc func(ctx context.Context, email string) (*user.User, error)
	CreateFunc     func(ctx context.Context, u *user.User) error
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, user.ErrUserNotFound
}

func (m *MockUserRepo) Create(ctx context.Context, u *user.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	u.ID = "user-new"
	return nil
}
