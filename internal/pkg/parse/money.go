package parse

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var moneySalvageRe = regexp.MustCompile(`[^0-9.\-]`)

// Money parses a monetary amount from user input ("£1,250.50" -> 1250.50).
// An amount must be strictly positive to be a valid stake.
func Money(s string) (decimal.Decimal, bool) {
	d, ok := parseMoney(s)
	if !ok || !d.IsPositive() {
		return decimal.Decimal{}, false
	}
	return d, true
}

// StoredMoney coerces a raw stored cell value. Unlike Money it accepts zero,
// and salvages digits from garbage rather than failing: a blank or broken
// cell reads as 0, matching how the sheet reader always behaved.
func StoredMoney(s string) decimal.Decimal {
	if d, ok := parseMoney(s); ok {
		return d
	}
	salvaged := moneySalvageRe.ReplaceAllString(s, "")
	if d, err := decimal.NewFromString(salvaged); err == nil {
		return d
	}
	return decimal.Decimal{}
}

func parseMoney(s string) (decimal.Decimal, bool) {
	s = cleanNumeric(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Decimal{}, false
	}
	// keep only the last dot if someone pasted "1.234.56"
	if parts := strings.Split(s, "."); len(parts) > 2 {
		s = strings.Join(parts[:len(parts)-1], "") + "." + parts[len(parts)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
