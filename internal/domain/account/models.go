// Package account holds the cached bank-account entity and its business rules.
package account

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Account sources. Aggregator rows are written by the SimpleFIN sync,
// manual rows by the user through the API.
const (
	SourceAggregator = "simplefin-bridge"
	SourceManual     = "manual"
)

// Domain errors
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidInput    = errors.New("invalid input")
)

// Account is one cached bank account row, unique per (user, sf_account_id).
// Balance is kept as a decimal string so aggregator-supplied values round-trip
// unchanged.
type Account struct {
	ID            string    `json:"-"`
	UserID        string    `json:"-"`
	SFAccountID   string    `json:"sf_account_id"`
	SFAccountName string    `json:"sf_account_name"`
	SFName        string    `json:"sf_name"`
	Balance       string    `json:"balance"`
	SFBalanceDate int64     `json:"sf_balance_date"`
	Source        string    `json:"source"`
	Category      string    `json:"category,omitempty"`
	DisplayName   string    `json:"display_name,omitempty"`
	Hidden        bool      `json:"hidden"`
	InsertedAt    time.Time `json:"-"`
}

// UpsertRecord is one row of a bulk merge. The upsert only ever touches
// aggregator-owned columns on conflict; Category, DisplayName and Hidden are
// written on insert and preserved afterwards.
type UpsertRecord struct {
	SFAccountID   string
	SFAccountName string
	SFName        string
	Balance       string
	SFBalanceDate int64
	Source        string
	Hidden        bool
}

// Validate checks a record before it reaches the store.
func (r UpsertRecord) Validate() error {
	if r.SFAccountID == "" {
		return errors.New("sf_account_id is required")
	}
	if r.Source != SourceAggregator && r.Source != SourceManual {
		return errors.New("unknown account source")
	}
	if _, err := decimal.NewFromString(r.Balance); err != nil {
		return errors.New("balance must be a decimal string")
	}
	return nil
}

// NormalizeBalance parses a balance token (string or stringified number) and
// renders it with two decimal places, matching the NUMERIC(10,2) column.
func NormalizeBalance(raw string) (string, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return "", err
	}
	return d.StringFixed(2), nil
}
