package domain

import "time"

// TimeWindow is a date interval used to filter transactions and series.
// A nil bound means unbounded on that side; both nil means "all time".
// When both bounds are set, Start <= End holds and both are inclusive.
type TimeWindow struct {
	Start *time.Time
	End   *time.Time
	Label string
}

// Unbounded reports whether the window covers all time.
func (w TimeWindow) Unbounded() bool { return w.Start == nil && w.End == nil }

// Contains reports whether t falls inside the window.
func (w TimeWindow) Contains(t time.Time) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	if w.End != nil && t.After(*w.End) {
		return false
	}
	return true
}
