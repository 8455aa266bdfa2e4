package snapshot

import (
	"fmt"
	"time"
)

// Period names returned by Manager.MultiPeriod
const (
	Period6Weeks  = "6w"
	Period12Weeks = "12w"
	PeriodAllTime = "all_time"
)

// DefaultAllTimeStart is the earliest plausible activity date
var DefaultAllTimeStart = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Window is an inclusive range of calendar dates
type Window struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of calendar dates in the window, both ends included
func (w Window) Days() int {
	if w.End.Before(w.Start) {
		return 0
	}
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

func (w Window) String() string {
	return fmt.Sprintf("%s..%s", w.Start.Format(time.DateOnly), w.End.Format(time.DateOnly))
}

// TrailingWindow covers the 7*weeks dates ending on today's date
func TrailingWindow(today time.Time, weeks int) Window {
	end := dateOf(today)
	return Window{Start: end.AddDate(0, 0, -(7*weeks - 1)), End: end}
}

// AllTimeWindow runs from start to today's date
func AllTimeWindow(today, start time.Time) Window {
	return Window{Start: dateOf(start), End: dateOf(today)}
}

// dateOf truncates to midnight of the UTC calendar date, matching how
// activity start times are bucketed
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// mondayOf returns the Monday of the week containing t, at midnight
func mondayOf(t time.Time) time.Time {
	daysFromMonday := (int(t.Weekday()) + 6) % 7 // Monday = 0
	return dateOf(t).AddDate(0, 0, -daysFromMonday)
}
