package settlement

import (
	"testing"

	"github.com/shopspring/decimal"

	"betledger/internal/pkg/models"
)

func TestParseOutcome(t *testing.T) {
	tests := []struct {
		in   string
		want Outcome
		ok   bool
	}{
		{"win", Win, true},
		{"WIN", Win, true},
		{" Win ", Win, true},
		{"loss", Loss, true},
		{"Void", Void, true},
		{"push", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := ParseOutcome(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseOutcome(%q) err = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("ParseOutcome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCompute(t *testing.T) {
	odds := decimal.RequireFromString("2.5")
	stake := decimal.RequireFromString("100")

	tests := []struct {
		outcome    Outcome
		ret        string
		profit     string
		wantStatus models.BetStatus
	}{
		{Win, "250", "150", models.StatusWin},
		{Loss, "0", "-100", models.StatusLoss},
		{Void, "100", "0", models.StatusVoid},
	}
	for _, tt := range tests {
		ret, profit := Compute(odds, stake, tt.outcome)
		if !ret.Equal(decimal.RequireFromString(tt.ret)) {
			t.Errorf("%s: return = %s, want %s", tt.outcome, ret, tt.ret)
		}
		if !profit.Equal(decimal.RequireFromString(tt.profit)) {
			t.Errorf("%s: profit = %s, want %s", tt.outcome, profit, tt.profit)
		}
		if tt.outcome.Status() != tt.wantStatus {
			t.Errorf("%s: status = %q, want %q", tt.outcome, tt.outcome.Status(), tt.wantStatus)
		}
	}
}

// Fractional odds settle without float drift: 11/10 on £3 returns £6.30 even.
func TestComputeExact(t *testing.T) {
	odds := decimal.RequireFromString("2.1")
	stake := decimal.RequireFromString("3")
	ret, profit := Compute(odds, stake, Win)
	if got := ret.StringFixed(2); got != "6.30" {
		t.Errorf("return = %s, want 6.30", got)
	}
	if got := profit.StringFixed(2); got != "3.30" {
		t.Errorf("profit = %s, want 3.30", got)
	}
}
