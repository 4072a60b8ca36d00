/*
carryover.go - Cross-year leave carryover resolution

PURPOSE:
  The carryover into year Y is whatever the employee did not use in Y-1:

    carry(Y) = clamp(entitlement(Y-1) + carry(Y-1) - taken(Y-1), 0, 30)

  which bottoms out at the hire year (carry(hireYear) == 0 unless
  overridden). A manual override for a year, the hire year included,
  replaces that year's value outright and feeds the following year
  through the carry(Y-1) term exactly once; it is never itself
  re-derived.

SHAPE:
  The definition is recursive over employment history, but it is resolved
  here with an explicit backward walk plus a forward fold, memoized per
  request. This bounds the work by the employment length, reads each
  prior year from the store once, and needs no recursion depth guard. A
  fifty-year lookback cap remains as a backstop against malformed hire
  dates and is logged as a warning, not an error.

CLAMPING:
  Every value that leaves this file is clamped to [0, 30] - computed
  results, override values (the UI pre-clamps, the resolver does not
  trust it), and the cap fallback.
*/
package engine

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// maxLookbackYears bounds the backward walk over employment history.
const maxLookbackYears = 50

var maxCarryoverDays = decimal.NewFromInt(30)

// clampCarryover forces a raw carryover into [0, 30] days.
func clampCarryover(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(maxCarryoverDays) {
		return maxCarryoverDays
	}
	return d
}

// carryoverResolver resolves carryovers for one employee within one
// request. The memo keeps each year's resolved value so that statistics
// for consecutive years do not re-read the same history.
type carryoverResolver struct {
	store RecordStore
	log   *logrus.Logger
	emp   Employee
	memo  map[int]decimal.Decimal
}

func newCarryoverResolver(store RecordStore, log *logrus.Logger, emp Employee) *carryoverResolver {
	return &carryoverResolver{
		store: store,
		log:   log,
		emp:   emp,
		memo:  make(map[int]decimal.Decimal),
	}
}

// resolve returns the carryover into the given year, clamped to [0, 30].
func (r *carryoverResolver) resolve(ctx context.Context, year int) (decimal.Decimal, error) {
	if v, ok := r.memo[year]; ok {
		return v, nil
	}

	// An override short-circuits everything else for this year.
	if ov, err := r.override(ctx, year); err != nil {
		return decimal.Zero, err
	} else if ov != nil {
		r.memo[year] = *ov
		return *ov, nil
	}

	hireYear := r.emp.HireYear()
	if year-1 < hireYear {
		r.memo[year] = decimal.Zero
		return decimal.Zero, nil
	}

	// Walk backward to the first year whose carryover is known: a
	// memoized year, an overridden year, the year the employment began,
	// or the lookback cap.
	base := year - 1 // carry(base) == baseCarry below
	baseCarry := decimal.Zero
	known := false
	for ; base > hireYear; base-- {
		if year-base >= maxLookbackYears {
			r.log.WithFields(logrus.Fields{
				"employee": r.emp.ID,
				"year":     year,
			}).Warn("carryover lookback cap reached, treating earlier history as empty")
			known = true
			break
		}
		if v, ok := r.memo[base]; ok {
			baseCarry = v
			known = true
			break
		}
		ov, err := r.override(ctx, base)
		if err != nil {
			return decimal.Zero, err
		}
		if ov != nil {
			baseCarry = *ov
			known = true
			break
		}
	}
	if !known {
		// base == hireYear. The carryover into the hire year is zero
		// unless an override says otherwise; it must still feed the
		// following year.
		if v, ok := r.memo[base]; ok {
			baseCarry = v
		} else {
			ov, err := r.override(ctx, base)
			if err != nil {
				return decimal.Zero, err
			}
			if ov != nil {
				baseCarry = *ov
			}
		}
	}
	r.memo[base] = baseCarry

	// Fold forward: each year's carryover is what the prior year left over.
	carry := baseCarry
	for y := base + 1; y <= year; y++ {
		prior := y - 1
		taken, err := r.leaveTakenIn(ctx, prior)
		if err != nil {
			return decimal.Zero, err
		}
		available := EntitlementForYear(r.emp, prior).Add(carry)
		carry = clampCarryover(available.Sub(taken))
		r.memo[y] = carry
	}
	return carry, nil
}

// override returns the clamped manual override for a year, or nil.
func (r *carryoverResolver) override(ctx context.Context, year int) (*decimal.Decimal, error) {
	mc, err := r.store.ManualCarryover(ctx, r.emp.ID, year)
	if err != nil {
		return nil, err
	}
	if mc == nil {
		return nil, nil
	}
	v := clampCarryover(mc.Days)
	return &v, nil
}

// leaveTakenIn sums the stored day-values of leave records starting in the
// year. The day-values were fixed by range accumulation at booking time.
func (r *carryoverResolver) leaveTakenIn(ctx context.Context, year int) (decimal.Decimal, error) {
	records, err := r.store.AbsencesInYear(ctx, KindLeave, r.emp.ID, year)
	if err != nil {
		return decimal.Zero, err
	}
	taken := decimal.Zero
	for _, rec := range records {
		taken = taken.Add(rec.Days)
	}
	return taken, nil
}
