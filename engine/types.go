/*
Package engine implements the leave and time balance engine.

PURPOSE:
  This package contains the computations that turn raw dated records
  (leave, sickness, training, overtime, holidays, per-employee working-time
  patterns) into authoritative balances: entitlement pro-rating, cross-year
  carryover with manual override, fractional day valuation under holiday
  and working-time rules, overlap validation, and a cumulative overtime
  ledger.

KEY CONCEPTS IN THIS FILE (types.go):
  - Date: A calendar date at day granularity (all engine time is day-based)
  - Employee: Master data the calculations depend on (hire date, entitlement)
  - AbsenceRecord: A leave or sickness booking with its fractional day-value
  - OvertimeEntry: A signed hour delta in the never-reset overtime ledger
  - ManualCarryover: An administrator override for one employee-year

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for every day-value and hour quantity
  2. Purity: valuation and accumulation are pure functions over records
  3. Type Safety: closed DayMode enum instead of string-typed day modes

SEE ALSO:
  - pattern.go:    Working-time pattern (weekday -> Full/Half/Off)
  - dayvalue.go:   Day valuation and range accumulation
  - carryover.go:  The recursive carryover resolution, made iterative
  - engine.go:     The host-facing operation surface
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DATE - Calendar date at day granularity
// =============================================================================

// Date is a calendar date. The engine never deals in times of day; every
// stored and computed instant is a whole day in UTC.
type Date struct {
	t time.Time
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, &ValidationError{Field: "date", Detail: "expected YYYY-MM-DD, got " + s}
	}
	return Date{t: t}, nil
}

func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.t.After(other.t) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.t.Before(other.t) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }

// WeekdayIndex returns the engine weekday index where 0 = Monday and
// 6 = Sunday. Go's time.Weekday counts 0 = Sunday, so the platform value
// must be shifted before any pattern lookup.
func (d Date) WeekdayIndex() int {
	wd := int(d.t.Weekday())
	if wd == 0 {
		return 6
	}
	return wd - 1
}

func (d Date) String() string { return d.t.Format(dateLayout) }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID int64
type DepartmentID int64

// =============================================================================
// EMPLOYEE - Master data
// =============================================================================

type EmployeeStatus string

const (
	StatusActive   EmployeeStatus = "ACTIVE"
	StatusInactive EmployeeStatus = "INACTIVE"
)

// Employee carries the master data the engine computes from. Employees are
// never deleted, only deactivated.
type Employee struct {
	ID                EmployeeID
	FirstName         string
	LastName          string
	DepartmentID      DepartmentID
	HireDate          Date
	TerminationDate   *Date
	AnnualEntitlement decimal.Decimal // days per year, may be fractional
	WeeklyHours       decimal.Decimal
	Status            EmployeeStatus
}

func (e Employee) HireYear() int { return e.HireDate.Year() }

// ActiveInYear reports whether the employee should appear in listings for
// the given year: active, or terminated in that year or later.
func (e Employee) ActiveInYear(year int) bool {
	if e.TerminationDate != nil && e.TerminationDate.Year() < year {
		return false
	}
	return e.Status == StatusActive
}

// Department groups employees for display and filtering only; it has no
// effect on any balance computation.
type Department struct {
	ID          DepartmentID
	Name        string
	Color       string
	Description string
}

// =============================================================================
// DATED RECORDS
// =============================================================================

// AbsenceKind distinguishes the two range-booked record kinds. Overlap
// validation applies per kind: a leave range may coincide with a sickness
// range, but never with another leave range.
type AbsenceKind string

const (
	KindLeave    AbsenceKind = "leave"
	KindSickness AbsenceKind = "sickness"
)

func ParseAbsenceKind(s string) (AbsenceKind, error) {
	switch AbsenceKind(s) {
	case KindLeave, KindSickness:
		return AbsenceKind(s), nil
	}
	return "", &ValidationError{Field: "kind", Detail: "unknown absence kind: " + s}
}

// AbsenceRecord is a booked leave or sickness range. Days is the fractional
// day-value of the whole range (0.5 granularity), fixed at booking time.
type AbsenceRecord struct {
	ID         int64
	EmployeeID EmployeeID
	Kind       AbsenceKind
	From       Date
	To         Date
	Days       decimal.Decimal
	Note       string
}

// TrainingRecord is a training attendance; the trailing day may be fractional.
type TrainingRecord struct {
	ID           int64
	EmployeeID   EmployeeID
	Date         Date
	DurationDays decimal.Decimal
	Title        string
	Note         string
}

// OvertimeEntry is one signed delta in the overtime ledger.
// Positive hours are accrued, negative hours are consumed.
type OvertimeEntry struct {
	ID         int64
	EmployeeID EmployeeID
	Date       Date
	Hours      decimal.Decimal
	Note       string
}

// Holiday is a company holiday. Dates are unique; the region tag is
// informational.
type Holiday struct {
	Date   Date
	Name   string
	Region string
}

// ManualCarryover is an administrator-set carryover for one employee-year.
// When present it replaces the computed carryover for that year only.
type ManualCarryover struct {
	EmployeeID EmployeeID
	Year       int
	Days       decimal.Decimal
	Note       string
}
