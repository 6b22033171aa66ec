package account

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type mockRepo struct {
	listFunc   func(ctx context.Context, userID string, includeHidden bool) ([]*Account, error)
	upsertFunc func(ctx context.Context, userID string, records []UpsertRecord) (int, error)
	hideFunc   func(ctx context.Context, userID, sfAccountID string, hidden bool) error
}

func (m *mockRepo) ListByUser(ctx context.Context, userID string, includeHidden bool) ([]*Account, error) {
	return m.listFunc(ctx, userID, includeHidden)
}

func (m *mockRepo) UpsertBatch(ctx context.Context, userID string, records []UpsertRecord) (int, error) {
	return m.upsertFunc(ctx, userID, records)
}

func (m *mockRepo) SetHidden(ctx context.Context, userID, sfAccountID string, hidden bool) error {
	return m.hideFunc(ctx, userID, sfAccountID, hidden)
}

type mapCache struct {
	entries     map[string][]*Account
	invalidated []string
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]*Account)}
}

func (c *mapCache) key(userID string, includeHidden bool) string {
	if includeHidden {
		return userID + ":all"
	}
	return userID + ":visible"
}

func (c *mapCache) Get(userID string, includeHidden bool) ([]*Account, bool) {
	accounts, ok := c.entries[c.key(userID, includeHidden)]
	return accounts, ok
}

func (c *mapCache) Set(userID string, includeHidden bool, accounts []*Account) {
	c.entries[c.key(userID, includeHidden)] = accounts
}

func (c *mapCache) InvalidateUser(userID string) {
	c.invalidated = append(c.invalidated, userID)
	delete(c.entries, userID+":all")
	delete(c.entries, userID+":visible")
}

func TestNormalizeBalance(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"100.5", "100.50", false},
		{"100", "100.00", false},
		{"-0.125", "-0.13", false},
		{"0", "0.00", false},
		{"", "", true},
		{"12,50", "", true},
		{"abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizeBalance(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NormalizeBalance(%q) = %q, expected error", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeBalance(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeBalance(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestUpsertRecordValidate(t *testing.T) {
	valid := UpsertRecord{SFAccountID: "acc-1", Balance: "10.00", Source: SourceAggregator}

	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() on a valid record failed: %v", err)
	}

	missing := valid
	missing.SFAccountID = ""
	if err := missing.Validate(); err == nil {
		t.Error("Validate() accepted a record without an external id")
	}

	badSource := valid
	badSource.Source = "plaid"
	if err := badSource.Validate(); err == nil {
		t.Error("Validate() accepted an unknown source")
	}

	badBalance := valid
	badBalance.Balance = "not-a-number"
	if err := badBalance.Validate(); err == nil {
		t.Error("Validate() accepted a non-decimal balance")
	}
}

func TestListForUser_PureRead(t *testing.T) {
	calls := 0
	repo := &mockRepo{
		listFunc: func(ctx context.Context, userID string, includeHidden bool) ([]*Account, error) {
			calls++
			return []*Account{}, nil
		},
	}
	svc := NewService(repo, nil)

	accounts, err := svc.ListForUser(context.Background(), "user-1", false)
	if err != nil {
		t.Fatalf("ListForUser() failed: %v", err)
	}
	if len(accounts) != 0 {
		t.Errorf("got %d accounts, want 0", len(accounts))
	}
	if calls != 1 {
		t.Errorf("repository called %d times, want 1", calls)
	}

	if _, err := svc.ListForUser(context.Background(), "", false); err == nil {
		t.Error("ListForUser() accepted an empty user id")
	}
}

func TestListForUser_CachesReads(t *testing.T) {
	calls := 0
	repo := &mockRepo{
		listFunc: func(ctx context.Context, userID string, includeHidden bool) ([]*Account, error) {
			calls++
			return []*Account{{SFAccountID: "acc-1"}}, nil
		},
	}
	cache := newMapCache()
	svc := NewService(repo, cache)

	for i := 0; i < 3; i++ {
		if _, err := svc.ListForUser(context.Background(), "user-1", false); err != nil {
			t.Fatalf("ListForUser() failed: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("repository called %d times, want 1 (subsequent reads served from cache)", calls)
	}

	// Hidden and visible views cache separately.
	if _, err := svc.ListForUser(context.Background(), "user-1", true); err != nil {
		t.Fatalf("ListForUser(includeHidden) failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("repository called %d times, want 2", calls)
	}
}

func TestMergeRecords(t *testing.T) {
	var gotRecords []UpsertRecord
	repo := &mockRepo{
		upsertFunc: func(ctx context.Context, userID string, records []UpsertRecord) (int, error) {
			gotRecords = records
			return len(records), nil
		},
	}
	cache := newMapCache()
	svc := NewService(repo, cache)

	records := []UpsertRecord{
		{SFAccountID: "acc-1", Balance: "10.00", Source: SourceAggregator},
		{SFAccountID: "acc-2", Balance: "20.00", Source: SourceAggregator},
	}

	n, err := svc.MergeRecords(context.Background(), "user-1", records)
	if err != nil {
		t.Fatalf("MergeRecords() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("MergeRecords() = %d, want 2", n)
	}
	if len(gotRecords) != 2 {
		t.Errorf("repository received %d records, want 2", len(gotRecords))
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "user-1" {
		t.Errorf("cache invalidations = %v, want [user-1]", cache.invalidated)
	}
}

func TestMergeRecords_DuplicateIDsLastWins(t *testing.T) {
	var got []UpsertRecord
	repo := &mockRepo{
		upsertFunc: func(ctx context.Context, userID string, records []UpsertRecord) (int, error) {
			got = records
			return len(records), nil
		},
	}
	svc := NewService(repo, nil)

	_, err := svc.MergeRecords(context.Background(), "user-1", []UpsertRecord{
		{SFAccountID: "acc-1", Balance: "10.00", Source: SourceAggregator},
		{SFAccountID: "acc-2", Balance: "20.00", Source: SourceAggregator},
		{SFAccountID: "acc-1", Balance: "30.00", Source: SourceAggregator},
	})
	if err != nil {
		t.Fatalf("MergeRecords() failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("repository received %d records, want 2 after de-duplication", len(got))
	}
	if got[0].SFAccountID != "acc-1" || got[0].Balance != "30.00" {
		t.Errorf("first record = %+v, want acc-1 with the later balance 30.00", got[0])
	}
	if got[1].SFAccountID != "acc-2" {
		t.Errorf("second record = %+v, want acc-2", got[1])
	}
}

func TestMergeRecords_RejectsInvalid(t *testing.T) {
	repo := &mockRepo{
		upsertFunc: func(ctx context.Context, userID string, records []UpsertRecord) (int, error) {
			t.Fatal("UpsertBatch must not be reached for invalid input")
			return 0, nil
		},
	}
	svc := NewService(repo, nil)

	_, err := svc.MergeRecords(context.Background(), "user-1", []UpsertRecord{
		{SFAccountID: "acc-1", Balance: "oops", Source: SourceAggregator},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("MergeRecords() error = %v, want ErrInvalidInput", err)
	}
}

func TestMergeRecords_EmptyBatchSkipsStore(t *testing.T) {
	repo := &mockRepo{
		upsertFunc: func(ctx context.Context, userID string, records []UpsertRecord) (int, error) {
			t.Fatal("UpsertBatch must not be reached for an empty batch")
			return 0, nil
		},
	}
	svc := NewService(repo, nil)

	n, err := svc.MergeRecords(context.Background(), "user-1", nil)
	if err != nil {
		t.Fatalf("MergeRecords() failed: %v", err)
	}
	if n != 0 {
		t.Errorf("MergeRecords() = %d, want 0", n)
	}
}

func TestAddManual(t *testing.T) {
	var got UpsertRecord
	repo := &mockRepo{
		upsertFunc: func(ctx context.Context, userID string, records []UpsertRecord) (int, error) {
			got = records[0]
			return 1, nil
		},
	}
	svc := NewService(repo, nil)

	err := svc.AddManual(context.Background(), "user-1", UpsertRecord{
		SFAccountName: "Vacation fund",
		Balance:       "42.5",
	})
	if err != nil {
		t.Fatalf("AddManual() failed: %v", err)
	}
	if got.Source != SourceManual {
		t.Errorf("Source = %q, want %q", got.Source, SourceManual)
	}
	if got.Balance != "42.50" {
		t.Errorf("Balance = %q, want normalized %q", got.Balance, "42.50")
	}
	if !strings.HasPrefix(got.SFAccountID, "manual-") {
		t.Errorf("SFAccountID = %q, want a generated manual- id", got.SFAccountID)
	}

	err = svc.AddManual(context.Background(), "user-1", UpsertRecord{Balance: "nope"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("AddManual() error = %v, want ErrInvalidInput", err)
	}
}

func TestSetHidden(t *testing.T) {
	repo := &mockRepo{
		hideFunc: func(ctx context.Context, userID, sfAccountID string, hidden bool) error {
			if userID == "user-1" && sfAccountID == "acc-1" {
				return nil
			}
			return ErrAccountNotFound
		},
	}
	cache := newMapCache()
	svc := NewService(repo, cache)

	if err := svc.SetHidden(context.Background(), "user-1", "acc-1", true); err != nil {
		t.Fatalf("SetHidden() failed: %v", err)
	}
	if len(cache.invalidated) != 1 {
		t.Errorf("cache invalidations = %v, want one for user-1", cache.invalidated)
	}

	err := svc.SetHidden(context.Background(), "user-2", "acc-1", true)
	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("SetHidden() error = %v, want ErrAccountNotFound", err)
	}

	if err := svc.SetHidden(context.Background(), "", "acc-1", true); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("SetHidden() with empty user error = %v, want ErrInvalidInput", err)
	}
}
