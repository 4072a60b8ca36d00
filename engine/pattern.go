package engine

import "github.com/shopspring/decimal"

// =============================================================================
// DAY MODE - How much of a weekday counts toward leave consumption
// =============================================================================

// DayMode classifies one weekday of a working-time pattern. The mapping to
// a day-value is exhaustive; unrecognized store strings fail parsing
// instead of silently falling through.
type DayMode int

const (
	ModeFull DayMode = iota // counts as 1.0 leave days
	ModeHalf                // counts as 0.5 leave days
	ModeOff                 // contracted free day, consumes no leave
)

var (
	fullDay = decimal.NewFromInt(1)
	halfDay = decimal.NewFromFloat(0.5)
)

// Value returns the leave-day cost of a day in this mode.
func (m DayMode) Value() decimal.Decimal {
	switch m {
	case ModeHalf:
		return halfDay
	case ModeOff:
		return decimal.Zero
	default:
		return fullDay
	}
}

func (m DayMode) String() string {
	switch m {
	case ModeHalf:
		return "HALF"
	case ModeOff:
		return "OFF"
	default:
		return "FULL"
	}
}

func ParseDayMode(s string) (DayMode, error) {
	switch s {
	case "FULL":
		return ModeFull, nil
	case "HALF":
		return ModeHalf, nil
	case "OFF":
		return ModeOff, nil
	}
	return ModeFull, &ValidationError{Field: "mode", Detail: "unknown day mode: " + s}
}

// =============================================================================
// WORKING-TIME PATTERN
// =============================================================================

// PatternEntry assigns a mode to one weekday (0 = Monday .. 6 = Sunday).
type PatternEntry struct {
	Weekday int
	Mode    DayMode
}

// Pattern is an employee's weekly working-time pattern, at most one entry
// per weekday. An empty pattern is valid and means the default week:
// Monday-Friday full, Saturday-Sunday off. Patterns are replaced wholesale
// on edit, never patched.
type Pattern []PatternEntry

// ValueForWeekday returns the leave-day cost for the given weekday index
// (0 = Monday). Weekdays without an entry use the default week. This is a
// total function; out-of-range indexes behave like weekends.
func (p Pattern) ValueForWeekday(weekday int) decimal.Decimal {
	for _, e := range p {
		if e.Weekday == weekday {
			return e.Mode.Value()
		}
	}
	if weekday >= 0 && weekday <= 4 {
		return fullDay
	}
	return decimal.Zero
}

// Validate checks that the pattern is storable: weekday indexes in range
// and no weekday assigned twice.
func (p Pattern) Validate() error {
	seen := make(map[int]bool, len(p))
	for _, e := range p {
		if e.Weekday < 0 || e.Weekday > 6 {
			return &ValidationError{Field: "weekday", Detail: "index out of range 0..6"}
		}
		if seen[e.Weekday] {
			return &ValidationError{Field: "weekday", Detail: "duplicate entry for weekday"}
		}
		seen[e.Weekday] = true
	}
	return nil
}
