package summary

import (
	"fmt"
	"time"

	"betledger/internal/pkg/parse"
)

// Window is a half-open interval [Start, End) in the reference timezone.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// MonthWindow is the calendar month containing now, in loc.
func MonthWindow(now time.Time, loc *time.Location) Window {
	now = now.In(loc)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// ParseWindow builds a window from /summary arguments:
//
//	(none)      current calendar month
//	from        from-day to the end of that month
//	from to     from-day to the end of to-day
//
// Days accept YYYY-MM-DD, DD/MM[/YYYY], DD-MM-YYYY, today, yesterday.
func ParseWindow(args []string, now time.Time, loc *time.Location) (Window, error) {
	if len(args) == 0 {
		return MonthWindow(now, loc), nil
	}

	start, ok := parse.DayStart(args[0], now, loc)
	if !ok {
		return Window{}, badDate(args[0])
	}

	if len(args) >= 2 {
		endDay, ok := parse.DayStart(args[1], now, loc)
		if !ok {
			return Window{}, badDate(args[1])
		}
		return Window{Start: start, End: endDay.AddDate(0, 0, 1)}, nil
	}

	monthStart := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, loc)
	return Window{Start: start, End: monthStart.AddDate(0, 1, 0)}, nil
}

func badDate(arg string) error {
	return fmt.Errorf("bad date %q: use YYYY-MM-DD, DD/MM[/YYYY], today or yesterday", arg)
}
