package schedule

import "time"

// daysInMonth for the month containing t.
func daysInMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return first.AddDate(0, 1, -1).Day()
}

// ResolveMonthlyDate maps a monthly timing onto a concrete calendar day.
//
// START is the 1st of start's month. MID is the 1st of start's month plus
// half the month's day count (integer division), so the exact day varies
// with month length. END is the last day of finish's month, which can sit in
// a different month than start when the range crosses a month boundary; that
// asymmetry is carried over from the source behavior on purpose.
func ResolveMonthlyDate(start, finish time.Time, timing MonthlyTiming) (time.Time, error) {
	if start.IsZero() || finish.IsZero() {
		return time.Time{}, ErrMissingRange
	}

	switch timing {
	case MonthStart:
		return time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location()), nil
	case MonthMid:
		first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
		return first.AddDate(0, 0, daysInMonth(start)/2), nil
	case MonthEnd:
		first := time.Date(finish.Year(), finish.Month(), 1, 0, 0, 0, 0, finish.Location())
		return first.AddDate(0, 1, -1), nil
	}
	return time.Time{}, ErrMissingRange
}

// Occurrences expands a repeat rule into the concrete dates it produces
// inside [start, due]. A "none" rule yields just the start date. Daily yields
// every day. Weekly yields every matching weekday. Monthly yields the
// resolved timing day for each month the range touches, filtered to the
// window.
func Occurrences(rule Repeat, start, due time.Time) ([]time.Time, error) {
	if start.IsZero() || due.IsZero() {
		return nil, ErrMissingRange
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	start = truncateDay(start)
	due = truncateDay(due)

	var out []time.Time
	switch rule.Type {
	case RepeatNone:
		out = append(out, start)

	case RepeatDaily:
		for d := start; !d.After(due); d = d.AddDate(0, 0, 1) {
			out = append(out, d)
		}

	case RepeatWeekly:
		want := map[int]bool{}
		for name := range rule.DaySet() {
			idx, _ := weekdayIndex(name)
			want[idx] = true
		}
		for d := start; !d.After(due); d = d.AddDate(0, 0, 1) {
			if want[int(d.Weekday())] {
				out = append(out, d)
			}
		}

	case RepeatMonthly:
		for m := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location()); !m.After(due); m = m.AddDate(0, 1, 0) {
			day, err := ResolveMonthlyDate(m, m, rule.MonthlyTiming)
			if err != nil {
				return nil, err
			}
			if !day.Before(start) && !day.After(due) {
				out = append(out, day)
			}
		}
	}
	return out, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
