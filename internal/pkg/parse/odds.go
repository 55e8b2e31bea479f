// Package parse holds the value parsers that turn free-form user text into
// normalized odds, money and event times. Every parser is total: bad input
// yields a false/zero result, never a panic, because the bet-line resolver
// uses these as oracles when deciding how an ambiguous line is laid out.
package parse

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Odds parses decimal or fractional odds. Fractional "a/b" means 1 + a/b.
// Decimal input may carry a decimal comma ("2,5") or thousands separators.
// Anything that does not come out strictly greater than 1.0 is not odds.
func Odds(s string) (decimal.Decimal, bool) {
	s = cleanNumeric(s)
	if s == "" {
		return decimal.Decimal{}, false
	}

	if numStr, denStr, found := strings.Cut(s, "/"); found {
		num, errN := strconv.ParseInt(numStr, 10, 64)
		den, errD := strconv.ParseInt(denStr, 10, 64)
		if errN != nil || errD != nil || den == 0 {
			return decimal.Decimal{}, false
		}
		odds := one.Add(decimal.NewFromInt(num).Div(decimal.NewFromInt(den)))
		if !odds.GreaterThan(one) {
			return decimal.Decimal{}, false
		}
		return odds, true
	}

	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") || strings.Count(s, ",") > 1 {
			// commas are thousands noise
			s = strings.ReplaceAll(s, ",", "")
		} else {
			// lone comma, no dot: decimal comma
			s = strings.Replace(s, ",", ".", 1)
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil || !d.GreaterThan(one) {
		return decimal.Decimal{}, false
	}
	return d, true
}

// cleanNumeric strips whitespace, non-breaking spaces and currency symbols.
func cleanNumeric(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', ' ', '£', '$', '€':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
