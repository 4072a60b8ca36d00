/*
balance.go - Per-employee, per-year balance aggregation

PURPOSE:
  Composes entitlement, carryover, and the year's bookings into the one
  statistic callers display:

    Available = Entitlement + CarryoverIn
    Remaining = Available - Taken

  Remaining may go negative when a year is over-booked; that is reported,
  not clamped. The sickness, training and overtime figures ride along for
  the listing views; overtime is cumulative across all years on purpose.
*/
package engine

import (
	"context"

	"github.com/shopspring/decimal"
)

// Statistics is the per-employee, per-year balance summary.
type Statistics struct {
	Employee Employee
	Year     int

	Entitlement decimal.Decimal // pro-rated in the hire year
	CarryoverIn decimal.Decimal // resolved, possibly overridden
	Available   decimal.Decimal // Entitlement + CarryoverIn
	Taken       decimal.Decimal // leave records starting in the year
	Remaining   decimal.Decimal // Available - Taken, may be negative

	SicknessDays  decimal.Decimal // sickness records starting in the year
	TrainingDays  decimal.Decimal // training durations in the year
	OvertimeHours decimal.Decimal // cumulative through the year
}

// EmployeeStatistics computes the balance summary for one employee-year.
// Pure read composition; nothing is written.
func (e *Engine) EmployeeStatistics(ctx context.Context, id EmployeeID, year int) (Statistics, error) {
	emp, err := e.store.Employee(ctx, id)
	if err != nil {
		return Statistics{}, err
	}
	return e.statisticsFor(ctx, emp, year)
}

// AllStatistics returns summaries for every employee active in the year,
// optionally narrowed to one department, in store listing order.
func (e *Engine) AllStatistics(ctx context.Context, year int, department string) ([]Statistics, error) {
	employees, err := e.store.Employees(ctx, EmployeeFilter{ActiveInYear: year, Department: department})
	if err != nil {
		return nil, err
	}
	stats := make([]Statistics, 0, len(employees))
	for _, emp := range employees {
		s, err := e.statisticsFor(ctx, emp, year)
		if err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, nil
}

func (e *Engine) statisticsFor(ctx context.Context, emp Employee, year int) (Statistics, error) {
	carryover, err := newCarryoverResolver(e.store, e.log, emp).resolve(ctx, year)
	if err != nil {
		return Statistics{}, err
	}

	entitlement := EntitlementForYear(emp, year)

	taken, err := e.sumAbsenceDays(ctx, KindLeave, emp.ID, year)
	if err != nil {
		return Statistics{}, err
	}
	sickness, err := e.sumAbsenceDays(ctx, KindSickness, emp.ID, year)
	if err != nil {
		return Statistics{}, err
	}

	trainings, err := e.store.TrainingsInYear(ctx, emp.ID, year)
	if err != nil {
		return Statistics{}, err
	}
	trainingDays := decimal.Zero
	for _, t := range trainings {
		trainingDays = trainingDays.Add(t.DurationDays)
	}

	overtime, err := e.store.OvertimeEntries(ctx, emp.ID)
	if err != nil {
		return Statistics{}, err
	}

	available := entitlement.Add(carryover)
	return Statistics{
		Employee:      emp,
		Year:          year,
		Entitlement:   entitlement,
		CarryoverIn:   carryover,
		Available:     available,
		Taken:         taken,
		Remaining:     available.Sub(taken),
		SicknessDays:  sickness,
		TrainingDays:  trainingDays,
		OvertimeHours: CumulativeHours(overtime, year),
	}, nil
}

func (e *Engine) sumAbsenceDays(ctx context.Context, kind AbsenceKind, id EmployeeID, year int) (decimal.Decimal, error) {
	records, err := e.store.AbsencesInYear(ctx, kind, id, year)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, rec := range records {
		total = total.Add(rec.Days)
	}
	return total, nil
}
