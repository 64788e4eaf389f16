package domain

import "time"

type Period string

const (
	PeriodDaily    Period = "daily"
	PeriodMonthly  Period = "monthly"
	PeriodLifetime Period = "lifetime"
)

// ParsePeriod maps a query value to a Period. An empty value means daily;
// anything unrecognized falls back to lifetime, i.e. no filter at all.
func ParsePeriod(s string) Period {
	switch Period(s) {
	case "":
		return PeriodDaily
	case PeriodDaily, PeriodMonthly:
		return Period(s)
	default:
		return PeriodLifetime
	}
}

// Window is a half-open [Start, End) range. A zero Window is unbounded.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Unbounded() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

func (w Window) Contains(t time.Time) bool {
	if w.Unbounded() {
		return true
	}
	return !t.Before(w.Start) && t.Before(w.End)
}

// WindowFor returns the window of p that contains now. Day and month
// boundaries follow now's location.
func WindowFor(p Period, now time.Time) Window {
	y, m, d := now.Date()
	loc := now.Location()

	switch p {
	case PeriodDaily:
		start := time.Date(y, m, d, 0, 0, 0, 0, loc)
		return Window{Start: start, End: start.AddDate(0, 0, 1)}
	case PeriodMonthly:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return Window{Start: start, End: start.AddDate(0, 1, 0)}
	default:
		return Window{}
	}
}
