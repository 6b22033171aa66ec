// Package credential stores per-user SimpleFIN access URLs.
package credential

import (
	"errors"
	"strings"
	"time"
)

var ErrCredentialNotFound = errors.New("credential not found")

// Credential is a stored SimpleFIN access URL for one user. The URL is
// opaque and carries its own embedded credentials; it is created by the
// claim flow and read on every sync.
type Credential struct {
	ID        string
	UserID    string
	AccessURL string
	CreatedAt time.Time
}

const accountsSuffix = "/accounts"

// NormalizeAccessURL ensures the stored URL ends with the accounts path.
// Idempotent; performs no other validation.
func NormalizeAccessURL(accessURL string) string {
	trimmed := strings.TrimRight(accessURL, "/")
	if strings.HasSuffix(trimmed, accountsSuffix) {
		return trimmed
	}
	return trimmed + accountsSuffix
}
