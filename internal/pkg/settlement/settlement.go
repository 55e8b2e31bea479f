// Package settlement computes the monetary result of a bet outcome.
package settlement

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"betledger/internal/pkg/models"
)

// Outcome is a settlement verdict.
type Outcome string

const (
	Win  Outcome = "Win"
	Loss Outcome = "Loss"
	Void Outcome = "Void"
)

// ParseOutcome normalizes a user-supplied outcome tag. Case-insensitive.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "win":
		return Win, nil
	case "loss":
		return Loss, nil
	case "void":
		return Void, nil
	}
	return "", fmt.Errorf("unknown outcome %q: use win, loss or void", s)
}

// Status maps the outcome to the bet status it settles into.
func (o Outcome) Status() models.BetStatus {
	switch o {
	case Win:
		return models.StatusWin
	case Loss:
		return models.StatusLoss
	default:
		return models.StatusVoid
	}
}

// Compute returns (return, profit) for settling a bet. Values are exact;
// rounding to 2 decimal places happens at the storage/render boundary so the
// two derived figures cannot drift apart.
//
//	Win:  return = odds × stake, profit = return − stake
//	Loss: return = 0,            profit = −stake
//	Void: return = stake,        profit = 0
func Compute(odds, stake decimal.Decimal, o Outcome) (ret, profit decimal.Decimal) {
	switch o {
	case Win:
		ret = odds.Mul(stake)
		profit = ret.Sub(stake)
	case Loss:
		ret = decimal.Decimal{}
		profit = stake.Neg()
	case Void:
		ret = stake
		profit = decimal.Decimal{}
	}
	return ret, profit
}
