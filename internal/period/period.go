// Package period owns all calendar arithmetic for tracking periods.
// Every other package resolves period boundaries through here rather
// than doing its own date math.
package period

import (
	"fmt"
	"time"
)

// Granularity is the configured tracking-period length for a deployment.
type Granularity string

const (
	Daily  Granularity = "daily"
	Weekly Granularity = "weekly"
)

// Window is a named leaderboard date range.
type Window string

const (
	WindowDaily   Window = "daily"
	WindowWeekly  Window = "weekly"
	WindowMonthly Window = "monthly"
	WindowAllTime Window = "all_time"
)

// windowPriorPeriods maps each window to the number of whole periods it
// reaches back before the current one: daily covers the current period
// only, weekly three prior periods, monthly twelve. WindowAllTime is
// handled separately (epoch floor).
var windowPriorPeriods = map[Window]int{
	WindowDaily:   0,
	WindowWeekly:  3,
	WindowMonthly: 12,
}

// epochFloor is the lower bound for all_time ranges.
var epochFloor = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// ParseGranularity validates a configured granularity string.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case Daily:
		return Daily, nil
	case Weekly:
		return Weekly, nil
	}
	return "", fmt.Errorf("unknown granularity %q (want daily or weekly)", s)
}

// CapacityMinutes returns the maximum loggable minutes for one period.
func (g Granularity) CapacityMinutes() int {
	if g == Weekly {
		return 7 * 24 * 60
	}
	return 24 * 60
}

// StartOf maps an instant to the canonical start of its tracking period:
// the calendar date at midnight UTC for daily, the most recent Sunday at
// midnight UTC for weekly.
func StartOf(t time.Time, g Granularity) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if g == Weekly {
		return day.AddDate(0, 0, -int(day.Weekday()))
	}
	return day
}

// EndOf returns the last instant of the period starting at start.
func EndOf(start time.Time, g Granularity) time.Time {
	return NextStart(start, g).Add(-time.Nanosecond)
}

// NextStart returns the start of the period immediately after start.
func NextStart(start time.Time, g Granularity) time.Time {
	if g == Weekly {
		return start.AddDate(0, 0, 7)
	}
	return start.AddDate(0, 0, 1)
}

// Aligned reports whether t is a canonical period start under g.
func Aligned(t time.Time, g Granularity) bool {
	return t.Equal(StartOf(t, g))
}

// ResolveWindow maps a named leaderboard window to concrete [start, end]
// bounds around now. Named windows cover a fixed number of whole periods
// ending at the current one; all_time starts at the epoch floor. An
// unrecognized name resolves like weekly.
func ResolveWindow(w Window, now time.Time, g Granularity) (time.Time, time.Time) {
	if w == WindowAllTime {
		return epochFloor, now.UTC()
	}

	n, ok := windowPriorPeriods[w]
	if !ok {
		n = windowPriorPeriods[WindowWeekly]
	}

	start := StartOf(now, g)
	for i := 0; i < n; i++ {
		if g == Weekly {
			start = start.AddDate(0, 0, -7)
		} else {
			start = start.AddDate(0, 0, -1)
		}
	}
	return start, now.UTC()
}
