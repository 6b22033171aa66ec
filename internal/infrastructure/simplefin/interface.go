package simplefin

import "context"

// ClientInterface abstracts the bridge client so sync services can be tested
// with fakes.
type ClientInterface interface {
	// FetchAccounts GETs the access URL and returns the parsed payload and
	// the raw response body.
	FetchAccounts(ctx context.Context, accessURL string) (*AccountsPayload, []byte, error)

	// Claim exchanges a setup token for an access URL.
	Claim(ctx context.Context, setupToken string) (string, error)
}
