package parse

import (
	"regexp"
	"strings"
	"time"
)

// Event date-time layouts tried in order. Layouts without a year produce year
// 0 from time.Parse; the caller's current year is substituted.
var eventTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02/01 15:04",
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"02/01",
}

var dateOnlyLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"02/01",
}

var clockRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

// EventTime parses a free-form event date-time. Accepted forms, in order:
// today/tomorrow with an optional HH:MM, a leading HH:MM optionally followed
// by a date (bare HH:MM means today), RFC3339, then the fixed layout list.
// Naive input is interpreted in loc; zoned input is converted into loc.
func EventTime(s string, now time.Time, loc *time.Location) (time.Time, bool) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return time.Time{}, false
	}

	fields := strings.Fields(s)
	switch strings.ToLower(fields[0]) {
	case "today", "tomorrow":
		day := DayOf(now, loc)
		if strings.ToLower(fields[0]) == "tomorrow" {
			day = day.AddDate(0, 0, 1)
		}
		if len(fields) == 1 {
			return day, true
		}
		if len(fields) == 2 {
			if c, ok := parseClock(fields[1]); ok {
				return c.on(day, loc), true
			}
		}
		return time.Time{}, false
	}

	// time-first ordering: "19:45", "19:45 12/05", "19:45 2026-05-12"
	if c, ok := parseClock(fields[0]); ok {
		if len(fields) == 1 {
			return c.on(DayOf(now, loc), loc), true
		}
		if day, ok := parseDateOnly(strings.Join(fields[1:], " "), now, loc); ok {
			return c.on(day, loc), true
		}
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), true
	}

	for _, layout := range eventTimeLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		if t.Year() == 0 {
			t = time.Date(now.In(loc).Year(), t.Month(), t.Day(),
				t.Hour(), t.Minute(), t.Second(), 0, loc)
		}
		return t, true
	}
	return time.Time{}, false
}

// DayStart parses a summary-range day: YYYY-MM-DD, DD/MM[/YYYY], DD-MM-YYYY,
// or the shorthands today/yesterday. The result is midnight in loc.
func DayStart(s string, now time.Time, loc *time.Location) (time.Time, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "today":
		return DayOf(now, loc), true
	case "yesterday":
		return DayOf(now, loc).AddDate(0, 0, -1), true
	}
	return parseDateOnly(s, now, loc)
}

// DayOf truncates t to midnight in loc.
func DayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func parseDateOnly(s string, now time.Time, loc *time.Location) (time.Time, bool) {
	for _, layout := range dateOnlyLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		year := t.Year()
		if year == 0 {
			year = now.In(loc).Year()
		}
		return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, loc), true
	}
	return time.Time{}, false
}

type clock struct {
	hour, min, sec int
}

// on combines the clock with a calendar day as a wall-clock time in loc.
// Building from components keeps the stated hour across DST transitions,
// where midnight-plus-duration would drift.
func (c clock) on(day time.Time, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.hour, c.min, c.sec, 0, loc)
}

func parseClock(s string) (clock, bool) {
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return clock{}, false
	}
	c := clock{hour: atoi(m[1]), min: atoi(m[2])}
	if m[3] != "" {
		c.sec = atoi(m[3])
	}
	if c.hour > 23 || c.min > 59 || c.sec > 59 {
		return clock{}, false
	}
	return c, true
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
