package lead

import (
	"fmt"
	"time"
)

// Range is an inclusive window of instants.
type Range struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t is within r. The zero time is never contained.
func (r Range) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	return !t.Before(r.From) && !t.After(r.To)
}

// DayRange covers start 00:00 through the last instant of end, in loc.
// A single-day query therefore always spans that whole day.
func DayRange(start, end Date, loc *time.Location) Range {
	return Range{
		From: start.In(loc),
		To:   end.In(loc).AddDate(0, 0, 1).Add(-time.Nanosecond),
	}
}

// Window is a product-view lookback period in days.
type Window int

const (
	Window30  Window = 30
	Window60  Window = 60
	Window90  Window = 90
	Window180 Window = 180
	Window365 Window = 365
)

// Windows lists the supported lookback periods.
func Windows() []Window {
	return []Window{Window30, Window60, Window90, Window180, Window365}
}

// ParseWindow validates a lookback period given in days.
func ParseWindow(days int) (Window, error) {
	for _, w := range Windows() {
		if int(w) == days {
			return w, nil
		}
	}
	return 0, fmt.Errorf("unsupported window: %d days (want one of 30, 60, 90, 180, 365)", days)
}

// Range returns [now - w days, now].
func (w Window) Range(now time.Time) Range {
	return Range{From: now.AddDate(0, 0, -int(w)), To: now}
}
