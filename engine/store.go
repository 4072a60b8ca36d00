/*
store.go - Persistence interface for the record store

PURPOSE:
  Defines the interface between the engine and the database. The engine
  never issues SQL itself; it consumes typed lookups and writes. Failures
  cross this boundary as StorageError (wrapping ErrStorage), missing rows
  as NotFoundError - implementations never panic or throw.

IMPLEMENTATIONS:
  - store/sqlite:      Production embedded SQLite store
  - engine/store:      In-memory store for tests and development

ATOMICITY:
  ReplacePattern is the one compound write: delete-all-then-insert for an
  employee's working-time pattern MUST happen in a single transaction. A
  crash in between must not leave the employee with an empty pattern.
*/
package engine

import "context"

// =============================================================================
// RECORD STORE - Typed persistence surface consumed by the engine
// =============================================================================

// EmployeeFilter narrows employee listings. ActiveInYear keeps employees
// who are active or were terminated in that year or later; zero means no
// year filtering. Department is a name match; empty means all.
type EmployeeFilter struct {
	ActiveInYear int
	Department   string
}

type RecordStore interface {
	// Employees
	Employee(ctx context.Context, id EmployeeID) (Employee, error)
	Employees(ctx context.Context, f EmployeeFilter) ([]Employee, error)
	SaveEmployee(ctx context.Context, e *Employee) error
	DeactivateEmployee(ctx context.Context, id EmployeeID) error

	// Departments
	Departments(ctx context.Context) ([]Department, error)
	SaveDepartment(ctx context.Context, d *Department) error
	DeleteDepartment(ctx context.Context, id DepartmentID) error

	// Working-time pattern
	PatternFor(ctx context.Context, id EmployeeID) (Pattern, error)
	// ReplacePattern atomically swaps the whole pattern.
	ReplacePattern(ctx context.Context, id EmployeeID, p Pattern) error

	// Absences (leave and sickness)
	Absences(ctx context.Context, kind AbsenceKind, id EmployeeID) ([]AbsenceRecord, error)
	// AbsencesInYear returns records whose START date falls in year.
	AbsencesInYear(ctx context.Context, kind AbsenceKind, id EmployeeID, year int) ([]AbsenceRecord, error)
	InsertAbsence(ctx context.Context, rec *AbsenceRecord) error
	DeleteAbsence(ctx context.Context, kind AbsenceKind, recordID int64) error

	// Training
	TrainingsInYear(ctx context.Context, id EmployeeID, year int) ([]TrainingRecord, error)
	InsertTraining(ctx context.Context, rec *TrainingRecord) error

	// Overtime
	OvertimeEntries(ctx context.Context, id EmployeeID) ([]OvertimeEntry, error)
	InsertOvertime(ctx context.Context, entry *OvertimeEntry) error

	// Holidays
	HolidaysInYear(ctx context.Context, year int) ([]Holiday, error)
	SaveHoliday(ctx context.Context, h Holiday) error
	DeleteHoliday(ctx context.Context, date Date) error

	// Manual carryover overrides. ManualCarryover returns nil when no
	// override exists for (id, year).
	ManualCarryover(ctx context.Context, id EmployeeID, year int) (*ManualCarryover, error)
	SetManualCarryover(ctx context.Context, mc ManualCarryover) error
	ClearManualCarryover(ctx context.Context, id EmployeeID, year int) error

	// AvailableYears lists every year with any dated record, newest first,
	// always including the current and next year.
	AvailableYears(ctx context.Context) ([]int, error)
}

// HolidaySource is the narrow read surface the calendar needs.
type HolidaySource interface {
	HolidaysInYear(ctx context.Context, year int) ([]Holiday, error)
}
