/*
booking.go - Absence, training and projection operations

PURPOSE:
  The write path for dated records. Bookings are validated here - value
  granularity, termination boundary, overlap, leave budget - and stored
  with their day-value fixed, so later balance reads never re-derive what
  a past booking cost.

THE HALF-DAY RULE:
  A booking of one day or less spans exactly its start date: the end date
  is stored equal to the start date, never shifted forward. A booking of
  more than one day ends on the date where the requested day count is
  used up under the employee's pattern and the holiday calendar, so a
  2-day booking started on a Friday runs through the following Monday.
*/
package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// BookAbsence stores a leave or sickness booking starting at start and
// worth the given number of days (0.5 granularity). Bookings over one day
// derive their end date by walking working days forward, stepping over
// free days and holidays; overlap is checked against records of the same
// kind only. Leave bookings must fit the remaining budget of the start
// year; sickness is not budget-checked.
func (e *Engine) BookAbsence(ctx context.Context, kind AbsenceKind, id EmployeeID, start Date, days decimal.Decimal, note string) (*AbsenceRecord, error) {
	if !days.IsPositive() {
		return nil, &ValidationError{Field: "days", Detail: "must be positive"}
	}
	if !days.Mod(halfDay).IsZero() {
		return nil, &ValidationError{Field: "days", Detail: "must be a multiple of 0.5"}
	}

	emp, err := e.store.Employee(ctx, id)
	if err != nil {
		return nil, err
	}

	end := start
	if days.GreaterThan(fullDay) {
		pattern, err := e.store.PatternFor(ctx, id)
		if err != nil {
			return nil, err
		}
		holidays := e.calendar.HolidaysInRange(ctx, start, start.AddDays(maxProjectionDays))
		end = ProjectEnd(start, days, pattern, holidays)
		if end.IsZero() {
			return nil, &BusinessRuleError{
				Rule:   "booking impossible",
				Detail: "the working-time pattern has no consuming days",
			}
		}
	}

	if emp.TerminationDate != nil && end.After(*emp.TerminationDate) {
		return nil, &BusinessRuleError{
			Rule:   "booking past termination",
			Detail: fmt.Sprintf("booking ends %s, employment ends %s", end, emp.TerminationDate),
		}
	}

	conflict, err := e.findOverlap(ctx, kind, id, start, end)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, &OverlapError{Kind: kind, From: start, To: end, ExistingID: conflict.ID}
	}

	if kind == KindLeave {
		stats, err := e.statisticsFor(ctx, emp, start.Year())
		if err != nil {
			return nil, err
		}
		if days.GreaterThan(stats.Remaining) {
			return nil, &BusinessRuleError{
				Rule:   "leave budget exceeded",
				Detail: fmt.Sprintf("requested %s days, %s remaining in %d", days, stats.Remaining, start.Year()),
			}
		}
	}

	rec := &AbsenceRecord{
		EmployeeID: id,
		Kind:       kind,
		From:       start,
		To:         end,
		Days:       days,
		Note:       note,
	}
	if err := e.store.InsertAbsence(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Absences lists an employee's records of one kind, optionally limited to
// those starting in a year (year 0 means all).
func (e *Engine) Absences(ctx context.Context, kind AbsenceKind, id EmployeeID, year int) ([]AbsenceRecord, error) {
	if _, err := e.store.Employee(ctx, id); err != nil {
		return nil, err
	}
	if year == 0 {
		return e.store.Absences(ctx, kind, id)
	}
	return e.store.AbsencesInYear(ctx, kind, id, year)
}

// DeleteAbsence removes a booking. Past balances recompute accordingly;
// overlap is only ever enforced at insert time.
func (e *Engine) DeleteAbsence(ctx context.Context, kind AbsenceKind, recordID int64) error {
	return e.store.DeleteAbsence(ctx, kind, recordID)
}

// BookTraining stores a training attendance. The duration may carry a
// fractional trailing day.
func (e *Engine) BookTraining(ctx context.Context, id EmployeeID, date Date, durationDays decimal.Decimal, title, note string) (*TrainingRecord, error) {
	if !durationDays.IsPositive() {
		return nil, &ValidationError{Field: "duration_days", Detail: "must be positive"}
	}
	if title == "" {
		return nil, &ValidationError{Field: "title", Detail: "must not be empty"}
	}
	if _, err := e.store.Employee(ctx, id); err != nil {
		return nil, err
	}
	rec := &TrainingRecord{EmployeeID: id, Date: date, DurationDays: durationDays, Title: title, Note: note}
	if err := e.store.InsertTraining(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// RequestedDays returns what a prospective booking [from, to] would cost
// the employee in leave days, under their pattern and the holiday calendar.
func (e *Engine) RequestedDays(ctx context.Context, id EmployeeID, from, to Date) (decimal.Decimal, error) {
	if to.Before(from) {
		return decimal.Zero, &ValidationError{Field: "range", Detail: "end date precedes start date"}
	}
	pattern, err := e.WorkingTimePattern(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	holidays := e.calendar.HolidaysInRange(ctx, from, to)
	return SumRange(from, to, pattern, holidays), nil
}

// ProjectEndDate projects the calendar end date of a booking that starts
// at start and should consume the given number of leave days.
func (e *Engine) ProjectEndDate(ctx context.Context, id EmployeeID, start Date, days decimal.Decimal) (Date, error) {
	if !days.IsPositive() {
		return Date{}, &ValidationError{Field: "days", Detail: "must be positive"}
	}
	pattern, err := e.WorkingTimePattern(ctx, id)
	if err != nil {
		return Date{}, err
	}
	// Cover the walk's full reach; long projections cross several years.
	holidays := e.calendar.HolidaysInRange(ctx, start, start.AddDays(maxProjectionDays))
	end := ProjectEnd(start, days, pattern, holidays)
	if end.IsZero() {
		return Date{}, &BusinessRuleError{
			Rule:   "projection impossible",
			Detail: "the working-time pattern has no consuming days",
		}
	}
	return end, nil
}
