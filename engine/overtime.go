/*
overtime.go - Cumulative overtime ledger

PURPOSE:
  Overtime is a running balance that is intentionally never reset at a
  year boundary. Each entry is a signed hour delta: positive hours were
  worked on top of the contract, negative hours were taken back as time
  off. The headline figure is the cumulative sum of everything up to and
  including the requested year.

INVARIANT:
  CumulativeHours(y) == CarryoverHours(y) + Accrued(y) - Consumed(y)
  for any entry history, because the three right-hand terms partition the
  same entry set.
*/
package engine

import "github.com/shopspring/decimal"

// OvertimeBreakdown is the year-scoped view of the overtime ledger.
type OvertimeBreakdown struct {
	Year      int
	Carryover decimal.Decimal // everything up to Dec 31 of the prior year
	Accrued   decimal.Decimal // positive entries in the year
	Consumed  decimal.Decimal // negative entries in the year, as a positive number
	Balance   decimal.Decimal // cumulative through the year, never reset
}

// BreakdownOvertime folds an entry history into the breakdown for a year.
func BreakdownOvertime(entries []OvertimeEntry, year int) OvertimeBreakdown {
	b := OvertimeBreakdown{
		Year:      year,
		Carryover: decimal.Zero,
		Accrued:   decimal.Zero,
		Consumed:  decimal.Zero,
		Balance:   decimal.Zero,
	}
	for _, e := range entries {
		y := e.Date.Year()
		if y > year {
			continue
		}
		b.Balance = b.Balance.Add(e.Hours)
		if y < year {
			b.Carryover = b.Carryover.Add(e.Hours)
			continue
		}
		if e.Hours.IsPositive() {
			b.Accrued = b.Accrued.Add(e.Hours)
		} else {
			b.Consumed = b.Consumed.Add(e.Hours.Neg())
		}
	}
	return b
}

// CumulativeHours returns the all-time balance through the given year.
func CumulativeHours(entries []OvertimeEntry, year int) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Date.Year() <= year {
			total = total.Add(e.Hours)
		}
	}
	return total
}
