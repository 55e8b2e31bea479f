package summary

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Render produces the Markdown summary report sent back to the chat.
func Render(r Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*Summary* `%s — %s`\n\n",
		r.Window.Start.Format("02 Jan 2006"),
		r.Window.End.AddDate(0, 0, -1).Format("02 Jan 2006"))

	fmt.Fprintf(&b, "*Overall*  Bets: `%d` | Staked: `%s` | Return: `%s`\n",
		r.Overall.Bets, GBP(r.Overall.Staked), GBP(r.Overall.Returned))
	fmt.Fprintf(&b, "Profit: *%s* | ROI: `%s` | Win%%: `%s` | Pending: `%d`\n\n",
		GBP(r.Overall.Profit), pct(roi(r.Overall)), pct(r.Overall.WinPct), r.Overall.Pending)

	if len(r.Tipsters) == 0 {
		b.WriteString("_No settled bets in this range._")
		return b.String()
	}

	b.WriteString("*By Tipster*\n")
	for _, row := range r.Tipsters {
		fmt.Fprintf(&b, "• *%s* — Bets: `%d` | Win%%: `%s` | ROI: `%s`\n",
			row.Tipster, row.Bets, pct(row.WinPct), pct(roi(row)))
		fmt.Fprintf(&b, "   Staked: `%s` | Return: `%s` | Profit: *%s*",
			GBP(row.Staked), GBP(row.Returned), GBP(row.Profit))
		if row.Pending > 0 {
			fmt.Fprintf(&b, " | Pending: `%d`", row.Pending)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func roi(r Row) float64 {
	if !r.Staked.IsPositive() {
		return 0
	}
	f, _ := r.Profit.Div(r.Staked).Float64()
	return f
}

// pct renders a 0..1 ratio as "52.5%".
func pct(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

// GBP renders a money amount as "£1,250.50".
func GBP(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	var grouped []string
	for len(intPart) > 3 {
		grouped = append([]string{intPart[len(intPart)-3:]}, grouped...)
		intPart = intPart[:len(intPart)-3]
	}
	grouped = append([]string{intPart}, grouped...)
	out := "£" + strings.Join(grouped, ",") + "." + fracPart
	if neg {
		out = "£-" + strings.Join(grouped, ",") + "." + fracPart
	}
	return out
}
