package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BetStatus is the lifecycle state of a logged bet. A bet starts Pending and
// moves exactly once to Win, Loss or Void.
type BetStatus string

const (
	StatusPending BetStatus = "Pending"
	StatusWin     BetStatus = "Win"
	StatusLoss    BetStatus = "Loss"
	StatusVoid    BetStatus = "Void"
)

// Settled reports whether the status is a terminal outcome.
func (s BetStatus) Settled() bool {
	switch s {
	case StatusWin, StatusLoss, StatusVoid:
		return true
	}
	return false
}

// UnknownTipster labels bets with no tipster from any source. The same
// placeholder is used at creation and when aggregating stored rows.
const UnknownTipster = "Unknown"

// Bet is one logged wager.
//
// Return and Profit are meaningful only once Status is settled; while the bet
// is Pending both hold decimal zero.
type Bet struct {
	ID         string
	DatePlaced time.Time
	EventDate  *time.Time
	Tipster    string
	Selection  string
	Odds       decimal.Decimal
	Bookmaker  string
	Stake      decimal.Decimal
	Status     BetStatus
	Return     decimal.Decimal
	Profit     decimal.Decimal
}
