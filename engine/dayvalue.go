/*
dayvalue.go - Fractional day valuation and range accumulation

PURPOSE:
  Converts calendar dates into fractional leave-day costs and sums them
  over booking ranges. This is where the working-time pattern and the
  holiday calendar meet.

THE HOLIDAY RULE:
  A holiday cancels any day that would otherwise require presence. If the
  weekday's pattern value is > 0 (full OR half), a holiday on that date
  consumes 0 leave. A holiday on a contracted free day changes nothing.
  In particular a Half day counts as a working day for holiday purposes:
  holiday -> 0, no holiday -> 0.5.
*/
package engine

import "github.com/shopspring/decimal"

// maxProjectionDays bounds the forward walk in ProjectEnd to ten years.
// Holiday lookups for a projection must cover at least this far or the
// walk runs blind past the fetched range.
const maxProjectionDays = 3660

// =============================================================================
// DAY VALUATION
// =============================================================================

// DayValue returns the leave-day cost of one calendar date for an employee
// with the given pattern: 0, 0.5 or 1.0. Holidays that fall on would-be
// working days cost nothing.
func DayValue(date Date, pattern Pattern, holidays map[Date]struct{}) decimal.Decimal {
	base := pattern.ValueForWeekday(date.WeekdayIndex())
	if _, isHoliday := holidays[date]; isHoliday && base.IsPositive() {
		return decimal.Zero
	}
	return base
}

// =============================================================================
// RANGE ACCUMULATION
// =============================================================================

// SumRange returns the total leave-day cost of [from, to], inclusive of
// both ends. Inverted ranges sum to zero.
func SumRange(from, to Date, pattern Pattern, holidays map[Date]struct{}) decimal.Decimal {
	total := decimal.Zero
	for d := from; d.BeforeOrEqual(to); d = d.AddDays(1) {
		total = total.Add(DayValue(d, pattern, holidays))
	}
	return total
}

// ProjectEnd walks forward from start until the requested day count is
// used up and returns the last consuming date. Non-consuming days
// (holidays on working days, contracted free days, weekends) are stepped
// over without draining the counter. Used to project an end date from a
// requested number of leave days.
//
// days must be positive; the zero Date is returned otherwise.
func ProjectEnd(start Date, days decimal.Decimal, pattern Pattern, holidays map[Date]struct{}) Date {
	if !days.IsPositive() {
		return Date{}
	}
	remaining := days
	d := start
	// A pattern with no working days would never drain the counter.
	for i := 0; i < maxProjectionDays; i++ {
		v := DayValue(d, pattern, holidays)
		if v.IsPositive() {
			remaining = remaining.Sub(v)
			if !remaining.IsPositive() {
				return d
			}
		}
		d = d.AddDays(1)
	}
	return Date{}
}

// rangesIntersect is the overlap test for two inclusive date ranges:
// they intersect unless one ends before the other starts. Checking only
// "a1 <= b2 && b2 <= a2" misses ranges that fully contain the other.
func rangesIntersect(a1, a2, b1, b2 Date) bool {
	return !(a2.Before(b1) || b2.Before(a1))
}
