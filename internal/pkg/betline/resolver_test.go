package betline

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"betledger/internal/pkg/models"
)

var london = mustLoadLocation("Europe/London")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

var testNow = time.Date(2026, 9, 15, 12, 0, 0, 0, london)

func newResolver(pref AmbiguityPreference) *Resolver {
	return &Resolver{
		Loc:        london,
		Now:        func() time.Time { return testNow },
		Preference: pref,
	}
}

func TestResolveFourFields(t *testing.T) {
	bet, rej := newResolver(PreferTipster).Resolve("Liverpool win / 2.1 / Bet365 / 50", "John")
	if rej != nil {
		t.Fatalf("unexpected rejection: %v", rej)
	}
	if bet.Tipster != "John" {
		t.Errorf("tipster = %q, want %q", bet.Tipster, "John")
	}
	if bet.Selection != "Liverpool win" || bet.Bookmaker != "Bet365" {
		t.Errorf("selection/bookmaker = %q/%q", bet.Selection, bet.Bookmaker)
	}
	if !bet.Odds.Equal(decimal.RequireFromString("2.1")) {
		t.Errorf("odds = %s, want 2.1", bet.Odds)
	}
	if !bet.Stake.Equal(decimal.RequireFromString("50")) {
		t.Errorf("stake = %s, want 50", bet.Stake)
	}
	if bet.Status != models.StatusPending {
		t.Errorf("status = %q, want Pending", bet.Status)
	}
	if bet.EventDate != nil {
		t.Errorf("event date = %v, want nil", bet.EventDate)
	}
	if !bet.DatePlaced.Equal(testNow) {
		t.Errorf("date placed = %s, want %s", bet.DatePlaced, testNow)
	}
}

func TestResolveFiveFieldsPatternA(t *testing.T) {
	bet, rej := newResolver(PreferTipster).Resolve("Lewis / Liverpool win / 2.1 / Bet365 / 50", "John")
	if rej != nil {
		t.Fatalf("unexpected rejection: %v", rej)
	}
	if bet.Tipster != "Lewis" {
		t.Errorf("tipster = %q, want Lewis", bet.Tipster)
	}
	if bet.EventDate != nil {
		t.Errorf("event date = %v, want nil", bet.EventDate)
	}
}

func TestResolveFiveFieldsPatternB(t *testing.T) {
	bet, rej := newResolver(PreferTipster).Resolve("Liverpool win / 2.1 / Bet365 / 50 / tomorrow 19:45", "John")
	if rej != nil {
		t.Fatalf("unexpected rejection: %v", rej)
	}
	if bet.Tipster != "John" {
		t.Errorf("tipster = %q, want John (chat default)", bet.Tipster)
	}
	want := time.Date(2026, 9, 16, 19, 45, 0, 0, london)
	if bet.EventDate == nil || !bet.EventDate.Equal(want) {
		t.Errorf("event date = %v, want %s", bet.EventDate, want)
	}
}

// The tie-break between the two five-field readings is a deliberate product
// choice, so it is pinned down here: a double-valid line goes to the tipster
// reading by default and to the event-date reading only when configured.
func TestChooseTipsterLayout(t *testing.T) {
	tests := []struct {
		aOK, bOK bool
		pref     AmbiguityPreference
		want     bool
	}{
		{true, false, PreferTipster, true},
		{false, true, PreferTipster, false},
		{true, true, PreferTipster, true},
		{true, true, PreferEventDate, false},
		{false, false, PreferTipster, false},
	}
	for _, tt := range tests {
		if got := chooseTipsterLayout(tt.aOK, tt.bOK, tt.pref); got != tt.want {
			t.Errorf("chooseTipsterLayout(%v, %v, %v) = %v, want %v",
				tt.aOK, tt.bOK, tt.pref, got, tt.want)
		}
	}
}

func TestResolveFiveFieldsNeitherPattern(t *testing.T) {
	_, rej := newResolver(PreferTipster).Resolve("a / b / c / d / e", "John")
	if rej == nil {
		t.Fatal("expected rejection")
	}
	if rej.Kind != RejectAmbiguous {
		t.Errorf("kind = %v, want RejectAmbiguous", rej.Kind)
	}
}

func TestResolveSixFields(t *testing.T) {
	bet, rej := newResolver(PreferTipster).Resolve(
		"Lewis / Liverpool win / 2.1 / Bet365 / 50 / 2026-09-20 19:45", "John")
	if rej != nil {
		t.Fatalf("unexpected rejection: %v", rej)
	}
	if bet.Tipster != "Lewis" {
		t.Errorf("tipster = %q, want Lewis", bet.Tipster)
	}
	want := time.Date(2026, 9, 20, 19, 45, 0, 0, london)
	if bet.EventDate == nil || !bet.EventDate.Equal(want) {
		t.Errorf("event date = %v, want %s", bet.EventDate, want)
	}
}

// An event date written with slashes pushes the raw segment count past six;
// the resolver re-splits with a fixed count instead of rejecting.
func TestResolveSlashDate(t *testing.T) {
	bet, rej := newResolver(PreferTipster).Resolve(
		"Liverpool win / 2.1 / Bet365 / 50 / 20/09/2026 19:45", "John")
	if rej != nil {
		t.Fatalf("unexpected rejection: %v", rej)
	}
	if bet.Tipster != "John" {
		t.Errorf("tipster = %q, want John", bet.Tipster)
	}
	want := time.Date(2026, 9, 20, 19, 45, 0, 0, london)
	if bet.EventDate == nil || !bet.EventDate.Equal(want) {
		t.Errorf("event date = %v, want %s", bet.EventDate, want)
	}

	bet, rej = newResolver(PreferTipster).Resolve(
		"Liverpool win / 2.1 / Bet365 / 50 / 20/09 19:45", "John")
	if rej != nil {
		t.Fatalf("unexpected rejection: %v", rej)
	}
	want = time.Date(2026, 9, 20, 19, 45, 0, 0, london)
	if bet.EventDate == nil || !bet.EventDate.Equal(want) {
		t.Errorf("event date = %v, want %s", bet.EventDate, want)
	}
}

func TestResolveSixFieldsBadDate(t *testing.T) {
	_, rej := newResolver(PreferTipster).Resolve(
		"Lewis / Liverpool win / 2.1 / Bet365 / 50 / not-a-date", "John")
	if rej == nil {
		t.Fatal("expected rejection")
	}
	if rej.Kind != RejectEventDate {
		t.Errorf("kind = %v, want RejectEventDate", rej.Kind)
	}
}

func TestResolveWrongFieldCounts(t *testing.T) {
	for _, line := range []string{
		"a / b / c",
		"only one field",
		"a / b",
	} {
		_, rej := newResolver(PreferTipster).Resolve(line, "John")
		if rej == nil {
			t.Errorf("Resolve(%q) accepted, want field-count rejection", line)
			continue
		}
		if rej.Kind != RejectFieldCount {
			t.Errorf("Resolve(%q) kind = %v, want RejectFieldCount", line, rej.Kind)
		}
	}
}

func TestResolveBadOddsAndStake(t *testing.T) {
	_, rej := newResolver(PreferTipster).Resolve("Liverpool win / 1.0 / Bet365 / 50", "John")
	if rej == nil || rej.Kind != RejectOdds {
		t.Fatalf("rejection = %v, want RejectOdds", rej)
	}
	// A slash splits the line before the odds parser sees it, so the message
	// must not suggest fractional odds like 11/10.
	if strings.Contains(rej.Message, "/") {
		t.Errorf("odds rejection %q suggests a slash form", rej.Message)
	}
	_, rej = newResolver(PreferTipster).Resolve("Liverpool win / 2.1 / Bet365 / 0", "John")
	if rej == nil || rej.Kind != RejectStake {
		t.Fatalf("rejection = %v, want RejectStake", rej)
	}
}

func TestResolveTipsterFallback(t *testing.T) {
	bet, rej := newResolver(PreferTipster).Resolve("Liverpool win / 2.1 / Bet365 / 50", "")
	if rej != nil {
		t.Fatalf("unexpected rejection: %v", rej)
	}
	if bet.Tipster != models.UnknownTipster {
		t.Errorf("tipster = %q, want %q", bet.Tipster, models.UnknownTipster)
	}
}

// Two resolutions of the same line mint distinct ids with identical fields.
func TestResolveFreshIDs(t *testing.T) {
	r := newResolver(PreferTipster)
	a, _ := r.Resolve("Liverpool win / 2.1 / Bet365 / 50", "John")
	b, _ := r.Resolve("Liverpool win / 2.1 / Bet365 / 50", "John")
	if a.ID == b.ID {
		t.Error("ids should differ between resolutions")
	}
	if a.Selection != b.Selection || !a.Odds.Equal(b.Odds) || !a.Stake.Equal(b.Stake) {
		t.Error("field values should be identical")
	}
}
