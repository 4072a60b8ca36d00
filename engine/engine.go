/*
engine.go - Host-facing operation surface

PURPOSE:
  Engine bundles the record store, the holiday calendar and a logger, and
  exposes the operations a host application calls: statistics, carryover
  resolution, working-time pattern access, overtime breakdowns, overlap
  checks and manual carryover overrides. Booking operations live in
  booking.go, statistics composition in balance.go.

CONCURRENCY:
  Operations are sequential from the engine's point of view; the single
  mutable piece of state is the calendar cache, which is guarded and is
  invalidated synchronously by every holiday mutation that goes through
  the engine.
*/
package engine

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Engine struct {
	store    RecordStore
	calendar *Calendar
	log      *logrus.Logger
}

func New(store RecordStore, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{
		store:    store,
		calendar: NewCalendar(store, log),
		log:      log,
	}
}

// Calendar exposes the engine's holiday calendar.
func (e *Engine) Calendar() *Calendar { return e.calendar }

// =============================================================================
// CARRYOVER
// =============================================================================

// ResolveCarryover returns the leave days carried into the given year,
// always within [0, 30]. A manual override for the year wins outright.
func (e *Engine) ResolveCarryover(ctx context.Context, id EmployeeID, year int) (decimal.Decimal, error) {
	emp, err := e.store.Employee(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return newCarryoverResolver(e.store, e.log, emp).resolve(ctx, year)
}

// SetManualCarryover stores an override for (employee, year). The value is
// clamped to [0, 30] on the way in; the resolver clamps again on the way
// out regardless.
func (e *Engine) SetManualCarryover(ctx context.Context, id EmployeeID, year int, days decimal.Decimal, note string) error {
	if _, err := e.store.Employee(ctx, id); err != nil {
		return err
	}
	return e.store.SetManualCarryover(ctx, ManualCarryover{
		EmployeeID: id,
		Year:       year,
		Days:       clampCarryover(days),
		Note:       note,
	})
}

// ClearManualCarryover removes an override, returning the year to the
// computed carryover.
func (e *Engine) ClearManualCarryover(ctx context.Context, id EmployeeID, year int) error {
	return e.store.ClearManualCarryover(ctx, id, year)
}

// =============================================================================
// WORKING-TIME PATTERN
// =============================================================================

func (e *Engine) WorkingTimePattern(ctx context.Context, id EmployeeID) (Pattern, error) {
	if _, err := e.store.Employee(ctx, id); err != nil {
		return nil, err
	}
	return e.store.PatternFor(ctx, id)
}

// SetWorkingTimePattern replaces the employee's whole pattern. The store
// performs the delete-and-insert in one transaction; a failure leaves the
// previous pattern in place.
func (e *Engine) SetWorkingTimePattern(ctx context.Context, id EmployeeID, p Pattern) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if _, err := e.store.Employee(ctx, id); err != nil {
		return err
	}
	return e.store.ReplacePattern(ctx, id, p)
}

// =============================================================================
// OVERTIME
// =============================================================================

func (e *Engine) OvertimeBreakdown(ctx context.Context, id EmployeeID, year int) (OvertimeBreakdown, error) {
	if _, err := e.store.Employee(ctx, id); err != nil {
		return OvertimeBreakdown{}, err
	}
	entries, err := e.store.OvertimeEntries(ctx, id)
	if err != nil {
		return OvertimeBreakdown{}, err
	}
	return BreakdownOvertime(entries, year), nil
}

// AddOvertime records a signed hour delta. Zero-hour entries are rejected;
// they would only add noise to the ledger.
func (e *Engine) AddOvertime(ctx context.Context, id EmployeeID, date Date, hours decimal.Decimal, note string) (*OvertimeEntry, error) {
	if hours.IsZero() {
		return nil, &ValidationError{Field: "hours", Detail: "must be non-zero"}
	}
	if _, err := e.store.Employee(ctx, id); err != nil {
		return nil, err
	}
	entry := &OvertimeEntry{EmployeeID: id, Date: date, Hours: hours, Note: note}
	if err := e.store.InsertOvertime(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// =============================================================================
// OVERLAP
// =============================================================================

// CheckOverlap reports whether [from, to] intersects any existing record
// of the same kind for the employee. Two ranges intersect unless one ends
// before the other starts; records of the other kind never conflict.
func (e *Engine) CheckOverlap(ctx context.Context, kind AbsenceKind, id EmployeeID, from, to Date) (bool, error) {
	if to.Before(from) {
		return false, &ValidationError{Field: "range", Detail: "end date precedes start date"}
	}
	existing, err := e.store.Absences(ctx, kind, id)
	if err != nil {
		return false, err
	}
	for _, rec := range existing {
		if rangesIntersect(rec.From, rec.To, from, to) {
			return true, nil
		}
	}
	return false, nil
}

// findOverlap returns the first conflicting record, if any.
func (e *Engine) findOverlap(ctx context.Context, kind AbsenceKind, id EmployeeID, from, to Date) (*AbsenceRecord, error) {
	existing, err := e.store.Absences(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if rangesIntersect(existing[i].From, existing[i].To, from, to) {
			return &existing[i], nil
		}
	}
	return nil, nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// SaveHoliday writes a holiday and synchronously invalidates the calendar
// cache so the next valuation sees it.
func (e *Engine) SaveHoliday(ctx context.Context, h Holiday) error {
	if h.Name == "" {
		return &ValidationError{Field: "name", Detail: "must not be empty"}
	}
	if err := e.store.SaveHoliday(ctx, h); err != nil {
		return err
	}
	e.calendar.Invalidate()
	return nil
}

// DeleteHoliday removes a holiday by date and invalidates the cache.
func (e *Engine) DeleteHoliday(ctx context.Context, date Date) error {
	if err := e.store.DeleteHoliday(ctx, date); err != nil {
		return err
	}
	e.calendar.Invalidate()
	return nil
}
