// Package simplefin talks to the SimpleFIN bridge over per-user access URLs.
package simplefin

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 60 * time.Second

// Client fetches account data from the SimpleFIN bridge. The access URL
// carries its own embedded credentials, so no auth headers are added.
type Client struct {
	httpClient *http.Client
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a SimpleFIN client. A zero timeout falls back to the
// default.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// APIError is a non-200 answer from the bridge. Status and body are kept
// verbatim so callers can pass them through to their own clients.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("simplefin request failed with status %d: %s", e.StatusCode, e.Body)
}

// Organization identifies the institution holding an account.
type Organization struct {
	Domain  string `json:"domain,omitempty"`
	Name    string `json:"name,omitempty"`
	SfinURL string `json:"sfin-url,omitempty"`
}

// Account is one account record in a bridge payload.
type Account struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Org         *Organization `json:"org,omitempty"`
	Currency    string        `json:"currency,omitempty"`
	Balance     DecimalString `json:"balance"`
	BalanceDate int64         `json:"balance-date"`
	Hidden      bool          `json:"hidden,omitempty"`
}

// AccountsPayload is the top-level bridge response.
type AccountsPayload struct {
	Errors   []string  `json:"errors,omitempty"`
	Accounts []Account `json:"accounts"`
}

// FetchAccounts issues a single GET against the (already normalized) access
// URL and returns the parsed payload together with the raw body, which the
// passthrough endpoints echo verbatim. A non-200 answer comes back as
// *APIError; transport and decode failures as plain wrapped errors.
func (c *Client) FetchAccounts(ctx context.Context, accessURL string) (*AccountsPayload, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, accessURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload AccountsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &payload, body, nil
}

// Claim exchanges a one-time SimpleFIN setup token for a permanent access
// URL. The token is the base64 of a claim URL; claiming is a single empty
// POST whose response body is the access URL.
func (c *Client) Claim(ctx context.Context, setupToken string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(setupToken))
	if err != nil {
		return "", fmt.Errorf("failed to decode setup token: %w", err)
	}
	claimURL := strings.TrimSpace(string(decoded))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claimURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create claim request: %w", err)
	}
	req.Header.Set("Content-Length", "0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute claim request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read claim response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	accessURL := strings.TrimSpace(string(body))
	if accessURL == "" {
		return "", fmt.Errorf("claim returned an empty access URL")
	}
	return accessURL, nil
}
