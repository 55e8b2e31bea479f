// Package summary aggregates stored bets into per-tipster and overall totals
// for a date window.
package summary

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"betledger/internal/pkg/models"
)

// Row is the aggregate for one tipster (or the overall total).
type Row struct {
	Tipster  string
	Bets     int
	Wins     int
	Staked   decimal.Decimal
	Returned decimal.Decimal
	Profit   decimal.Decimal
	WinPct   float64
	Pending  int
}

// Report is the result of aggregating one window.
type Report struct {
	Window   Window
	Overall  Row
	Tipsters []Row
}

// Build filters bets whose DatePlaced falls in w, then aggregates the settled
// ones by tipster. Void rows count their stake as returned and zero as profit
// regardless of what was stored for them, because older rows may have been
// voided before those columns were written.
func Build(bets []models.Bet, w Window) Report {
	var order []string
	groups := make(map[string]*Row)
	pendingByTipster := make(map[string]int)
	totalPending := 0

	for _, b := range bets {
		if !w.Contains(b.DatePlaced) {
			continue
		}
		tipster := normalizeTipster(b.Tipster)

		switch b.Status {
		case models.StatusPending:
			pendingByTipster[tipster]++
			totalPending++
			continue
		case models.StatusWin, models.StatusLoss, models.StatusVoid:
		default:
			// unknown or blank status: counted nowhere
			continue
		}

		g, ok := groups[tipster]
		if !ok {
			g = &Row{Tipster: tipster}
			groups[tipster] = g
			order = append(order, tipster)
		}
		g.Bets++
		g.Staked = g.Staked.Add(b.Stake)
		switch b.Status {
		case models.StatusWin:
			g.Wins++
			g.Returned = g.Returned.Add(b.Return)
			g.Profit = g.Profit.Add(b.Profit)
		case models.StatusLoss:
			g.Profit = g.Profit.Add(b.Profit)
		case models.StatusVoid:
			g.Returned = g.Returned.Add(b.Stake)
		}
	}

	rows := make([]Row, 0, len(order))
	for _, tipster := range order {
		row := *groups[tipster]
		if row.Bets > 0 {
			row.WinPct = float64(row.Wins) / float64(row.Bets)
		}
		row.Pending = pendingByTipster[tipster]
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Profit.GreaterThan(rows[j].Profit)
	})

	overall := Row{Pending: totalPending}
	for _, row := range rows {
		overall.Bets += row.Bets
		overall.Wins += row.Wins
		overall.Staked = overall.Staked.Add(row.Staked)
		overall.Returned = overall.Returned.Add(row.Returned)
		overall.Profit = overall.Profit.Add(row.Profit)
	}
	if overall.Bets > 0 {
		overall.WinPct = float64(overall.Wins) / float64(overall.Bets)
	}

	return Report{Window: w, Overall: overall, Tipsters: rows}
}

func normalizeTipster(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.UnknownTipster
	}
	return s
}
