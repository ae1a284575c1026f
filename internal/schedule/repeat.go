package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// RepeatKind tags how a task repeats.
type RepeatKind string

const (
	RepeatNone    RepeatKind = "none"
	RepeatDaily   RepeatKind = "daily"
	RepeatWeekly  RepeatKind = "weekly"
	RepeatMonthly RepeatKind = "monthly"
)

// MonthlyTiming selects which part of the month a monthly task lands on.
type MonthlyTiming string

const (
	MonthStart MonthlyTiming = "START"
	MonthMid   MonthlyTiming = "MID"
	MonthEnd   MonthlyTiming = "END"
)

// Weekday abbreviations as the LLM and the mobile client exchange them.
var weekdayNames = []string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}

// Repeat is the tagged recurrence rule attached to a task descriptor.
// Days is only meaningful for weekly, MonthlyTiming only for monthly.
type Repeat struct {
	Type          RepeatKind    `json:"type"`
	Days          []string      `json:"days,omitempty"`
	MonthlyTiming MonthlyTiming `json:"monthly_timing,omitempty"`
}

var ErrMissingRange = errors.New("start and finish dates are required")

// Validate checks the kind-specific invariants: weekly carries 1-3 distinct
// weekdays, monthly carries exactly one known timing value.
func (r Repeat) Validate() error {
	switch r.Type {
	case RepeatNone, RepeatDaily:
		return nil
	case RepeatWeekly:
		if len(r.Days) < 1 || len(r.Days) > 3 {
			return fmt.Errorf("weekly repeat needs 1-3 days, got %d", len(r.Days))
		}
		seen := map[string]bool{}
		for _, d := range r.Days {
			name := strings.ToUpper(strings.TrimSpace(d))
			if _, ok := weekdayIndex(name); !ok {
				return fmt.Errorf("unknown weekday %q", d)
			}
			if seen[name] {
				return fmt.Errorf("duplicate weekday %q", d)
			}
			seen[name] = true
		}
		return nil
	case RepeatMonthly:
		switch r.MonthlyTiming {
		case MonthStart, MonthMid, MonthEnd:
			return nil
		}
		return fmt.Errorf("monthly repeat needs timing START, MID or END, got %q", r.MonthlyTiming)
	}
	return fmt.Errorf("unknown repeat type %q", r.Type)
}

// DaySet returns the weekly days as a canonical set keyed by uppercase
// abbreviation. Order of the incoming slice does not matter.
func (r Repeat) DaySet() map[string]bool {
	set := make(map[string]bool, len(r.Days))
	for _, d := range r.Days {
		set[strings.ToUpper(strings.TrimSpace(d))] = true
	}
	return set
}

func weekdayIndex(name string) (int, bool) {
	for i, n := range weekdayNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}
