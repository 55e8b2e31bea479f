// Package storage holds the persistence adapters: a Postgres bet store and a
// Redis per-chat preference store. All cell-to-type coercion happens here, at
// the boundary, so callers only ever see typed records.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"betledger/internal/pkg/models"
)

var (
	// ErrNotFound is returned when a bet id does not exist.
	ErrNotFound = errors.New("bet not found")
	// ErrAlreadySettled is returned when settling a bet that is no longer
	// Pending. Settlement is a one-way transition; corrections are out of
	// band.
	ErrAlreadySettled = errors.New("bet already settled")
)

// BetStore persists bet records.
type BetStore interface {
	// Append persists a new bet with all fields in one write.
	Append(ctx context.Context, bet *models.Bet) error
	// FindByID returns the bet or ErrNotFound.
	FindByID(ctx context.Context, id string) (*models.Bet, error)
	// Settle writes status, return and profit as one observable unit, only
	// if the bet is still Pending. Returns ErrNotFound or ErrAlreadySettled.
	Settle(ctx context.Context, id string, status models.BetStatus, ret, profit decimal.Decimal) error
	// List returns every stored bet, oldest first.
	List(ctx context.Context) ([]models.Bet, error)
}

// PreferenceStore maps a chat to its default tipster.
type PreferenceStore interface {
	SetDefaultTipster(ctx context.Context, chatID int64, tipster string) error
	// DefaultTipster returns "" when no default is configured.
	DefaultTipster(ctx context.Context, chatID int64) (string, error)
}
