// Package cache provides an in-memory read cache for account listings.
package cache

import (
	"fmt"
	"sync"

	"github.com/dgraph-io/ristretto"

	"ottermoney/internal/domain/account"
)

// AccountCache caches ListByUser results per (user, includeHidden) pair.
// Keys are tracked per user so a write can drop both variants at once.
type AccountCache struct {
	cache *ristretto.Cache

	mu       sync.Mutex
	userKeys map[string]map[string]struct{}
}

var _ account.ListCache = (*AccountCache)(nil)

func NewAccountCache() (*AccountCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	return &AccountCache{
		cache:    c,
		userKeys: make(map[string]map[string]struct{}),
	}, nil
}

func listKey(userID string, includeHidden bool) string {
	return fmt.Sprintf("accounts:%s:%t", userID, includeHidden)
}

func (c *AccountCache) Get(userID string, includeHidden bool) ([]*account.Account, bool) {
	v, ok := c.cache.Get(listKey(userID, includeHidden))
	if !ok {
		return nil, false
	}
	accounts, ok := v.([]*account.Account)
	return accounts, ok
}

func (c *AccountCache) Set(userID string, includeHidden bool, accounts []*account.Account) {
	key := listKey(userID, includeHidden)

	c.mu.Lock()
	keys, ok := c.userKeys[userID]
	if !ok {
		keys = make(map[string]struct{})
		c.userKeys[userID] = keys
	}
	keys[key] = struct{}{}
	c.mu.Unlock()

	c.cache.Set(key, accounts, 1)
}

// InvalidateUser drops every cached listing for the user. Called after any
// write so stale balances never outlive a sync.
func (c *AccountCache) InvalidateUser(userID string) {
	c.mu.Lock()
	keys := c.userKeys[userID]
	delete(c.userKeys, userID)
	c.mu.Unlock()

	for key := range keys {
		c.cache.Del(key)
	}
}

// Wait blocks until pending writes are applied. Only tests need it.
func (c *AccountCache) Wait() {
	c.cache.Wait()
}
