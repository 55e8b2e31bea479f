// Package betline resolves a slash-delimited chat line into a bet record.
//
// A line is one of:
//
//	Selection / Odds / Bookmaker / Stake
//	Tipster / Selection / Odds / Bookmaker / Stake
//	Selection / Odds / Bookmaker / Stake / EventDateTime
//	Tipster / Selection / Odds / Bookmaker / Stake / EventDateTime
//
// The five-field case is ambiguous between the two middle layouts; the value
// parsers act as oracles to decide which one the user meant.
package betline

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"betledger/internal/pkg/models"
	"betledger/internal/pkg/parse"
)

// AmbiguityPreference picks the winner when a five-field line validates under
// both layouts. Preferring the tipster reading is the historical behaviour;
// it is an explicit option here because it is a product choice, not a
// necessity.
type AmbiguityPreference int

const (
	PreferTipster AmbiguityPreference = iota
	PreferEventDate
)

// RejectKind classifies why a line was not accepted.
type RejectKind int

const (
	RejectFieldCount RejectKind = iota
	RejectOdds
	RejectStake
	RejectEventDate
	RejectAmbiguous
)

// Rejection is a recoverable parse failure with a user-facing message.
type Rejection struct {
	Kind    RejectKind
	Message string
}

func (r *Rejection) Error() string { return r.Message }

const usageMessage = "Send a bet as one of:\n" +
	"`Selection / Odds / Bookmaker / Stake`\n" +
	"`Tipster / Selection / Odds / Bookmaker / Stake`\n" +
	"`Selection / Odds / Bookmaker / Stake / EventDateTime`\n" +
	"`Tipster / Selection / Odds / Bookmaker / Stake / EventDateTime`"

// Resolver turns chat lines into bet records.
type Resolver struct {
	Loc        *time.Location
	Now        func() time.Time
	Preference AmbiguityPreference
}

// Resolve parses one line. defaultTipster is the per-chat default, applied
// when the line itself names no tipster; blank falls back to the Unknown label.
func (r *Resolver) Resolve(line, defaultTipster string) (*models.Bet, *Rejection) {
	now := r.Now().In(r.Loc)

	fields := splitFields(line, -1)
	switch {
	case len(fields) == 4:
		return r.fourFields(fields, defaultTipster, now)
	case len(fields) == 5:
		return r.fiveFields(fields, defaultTipster, now)
	case len(fields) >= 6:
		// Re-split with a fixed count so a trailing event date may itself
		// contain "/" (e.g. 12/05/2026 19:45).
		return r.sixOrMoreFields(line, defaultTipster, now)
	default:
		return nil, &Rejection{RejectFieldCount, usageMessage}
	}
}

// fourFields: Selection/Odds/Bookmaker/Stake.
func (r *Resolver) fourFields(f []string, defaultTipster string, now time.Time) (*models.Bet, *Rejection) {
	odds, ok := parse.Odds(f[1])
	if !ok {
		return nil, rejectOdds(f[1])
	}
	stake, ok := parse.Money(f[3])
	if !ok {
		return nil, rejectStake(f[3])
	}
	return r.build(defaultTipster, f[0], odds, f[2], stake, nil, now), nil
}

// fiveFields resolves the ambiguous layout by validating both readings.
func (r *Resolver) fiveFields(f []string, defaultTipster string, now time.Time) (*models.Bet, *Rejection) {
	// Pattern A: Tipster/Selection/Odds/Bookmaker/Stake
	aOdds, aOddsOK := parse.Odds(f[2])
	aStake, aStakeOK := parse.Money(f[4])
	aOK := aOddsOK && aStakeOK

	// Pattern B: Selection/Odds/Bookmaker/Stake/EventDateTime
	bOdds, bOddsOK := parse.Odds(f[1])
	bStake, bStakeOK := parse.Money(f[3])
	bDate, bDateOK := parse.EventTime(f[4], now, r.Loc)
	bOK := bOddsOK && bStakeOK && bDateOK

	switch {
	case chooseTipsterLayout(aOK, bOK, r.Preference):
		return r.build(f[0], f[1], aOdds, f[3], aStake, nil, now), nil
	case bOK:
		return r.build(defaultTipster, f[0], bOdds, f[2], bStake, &bDate, now), nil
	default:
		return nil, &Rejection{RejectAmbiguous,
			"Could not read that as either\n" +
				"`Tipster / Selection / Odds / Bookmaker / Stake` or\n" +
				"`Selection / Odds / Bookmaker / Stake / EventDateTime`.\n" +
				"Check the odds, stake and date fields."}
	}
}

// chooseTipsterLayout decides the five-field tie. When only one reading
// validates it wins; when both do, the configured preference decides.
func chooseTipsterLayout(aOK, bOK bool, pref AmbiguityPreference) bool {
	if aOK && bOK {
		return pref == PreferTipster
	}
	return aOK
}

// sixOrMoreFields: Tipster/Selection/Odds/Bookmaker/Stake/EventDateTime, with
// a fallback reading for event dates written with slashes.
func (r *Resolver) sixOrMoreFields(line, defaultTipster string, now time.Time) (*models.Bet, *Rejection) {
	f := splitFields(line, 6)
	odds, oddsOK := parse.Odds(f[2])
	stake, stakeOK := parse.Money(f[4])
	date, dateOK := parse.EventTime(f[5], now, r.Loc)
	if oddsOK && stakeOK && dateOK {
		return r.build(f[0], f[1], odds, f[3], stake, &date, now), nil
	}

	// Five fixed fields with the date absorbing the remaining slashes.
	g := splitFields(line, 5)
	bOdds, bOddsOK := parse.Odds(g[1])
	bStake, bStakeOK := parse.Money(g[3])
	bDate, bDateOK := parse.EventTime(g[4], now, r.Loc)
	if bOddsOK && bStakeOK && bDateOK {
		return r.build(defaultTipster, g[0], bOdds, g[2], bStake, &bDate, now), nil
	}

	switch {
	case !oddsOK:
		return nil, rejectOdds(f[2])
	case !stakeOK:
		return nil, rejectStake(f[4])
	default:
		return nil, &Rejection{RejectEventDate,
			fmt.Sprintf("Could not read %q as an event date. Try `20/09 19:45`, `tomorrow 19:45` or `2026-09-20 19:45`.", f[5])}
	}
}

func (r *Resolver) build(tipster, selection string, odds decimal.Decimal,
	bookmaker string, stake decimal.Decimal, eventDate *time.Time, now time.Time) *models.Bet {

	tipster = strings.TrimSpace(tipster)
	if tipster == "" {
		tipster = models.UnknownTipster
	}
	return &models.Bet{
		ID:         uuid.NewString(),
		DatePlaced: now,
		EventDate:  eventDate,
		Tipster:    tipster,
		Selection:  selection,
		Odds:       odds,
		Bookmaker:  bookmaker,
		Stake:      stake,
		Status:     models.StatusPending,
	}
}

// rejectOdds suggests the decimal form only. Fractional odds parse fine as a
// bare value, but inside a line the slash is a field separator first, so
// advertising them here would steer users into misresolved lines.
func rejectOdds(field string) *Rejection {
	return &Rejection{RejectOdds,
		fmt.Sprintf("Odds %q must be a decimal greater than 1.0 (e.g. 2.1).", field)}
}

func rejectStake(field string) *Rejection {
	return &Rejection{RejectStake,
		fmt.Sprintf("Stake %q must be a positive amount (e.g. 50 or £25.50).", field)}
}

// splitFields splits on "/" and trims each segment. n < 0 splits fully; n > 0
// keeps at most n segments so the last one may contain "/".
func splitFields(line string, n int) []string {
	var parts []string
	if n < 0 {
		parts = strings.Split(line, "/")
	} else {
		parts = strings.SplitN(line, "/", n)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
