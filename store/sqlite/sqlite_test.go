package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamplanner/timebalance/engine"
	"github.com/teamplanner/timebalance/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testEmployee() engine.Employee {
	return engine.Employee{
		FirstName:         "Clara",
		LastName:          "Fischer",
		HireDate:          engine.NewDate(2024, time.March, 1),
		AnnualEntitlement: decimal.NewFromInt(30),
		WeeklyHours:       decimal.NewFromFloat(38.5),
		Status:            engine.StatusActive,
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestSQLite_Employee_Roundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	emp := testEmployee()
	term := engine.NewDate(2027, time.June, 30)
	emp.TerminationDate = &term

	require.NoError(t, store.SaveEmployee(ctx, &emp))
	require.NotZero(t, emp.ID, "insert must assign an id")

	got, err := store.Employee(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Clara", got.FirstName)
	assert.True(t, got.HireDate.Equal(emp.HireDate))
	require.NotNil(t, got.TerminationDate)
	assert.True(t, got.TerminationDate.Equal(term))
	assert.True(t, got.AnnualEntitlement.Equal(decimal.NewFromInt(30)))
	assert.True(t, got.WeeklyHours.Equal(decimal.NewFromFloat(38.5)))
	assert.Equal(t, engine.StatusActive, got.Status)
}

func TestSQLite_Employee_UpdateKeepsID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	emp := testEmployee()
	require.NoError(t, store.SaveEmployee(ctx, &emp))

	emp.LastName = "Fischer-Braun"
	emp.AnnualEntitlement = decimal.NewFromInt(28)
	require.NoError(t, store.SaveEmployee(ctx, &emp))

	got, err := store.Employee(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fischer-Braun", got.LastName)
	assert.True(t, got.AnnualEntitlement.Equal(decimal.NewFromInt(28)))
}

func TestSQLite_Employee_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Employee(context.Background(), 12345)
	require.ErrorIs(t, err, engine.ErrNotFound)
}

func TestSQLite_Employees_FiltersAndOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	dept := engine.Department{Name: "Development"}
	require.NoError(t, store.SaveDepartment(ctx, &dept))

	a := testEmployee()
	a.LastName = "Zimmer"
	require.NoError(t, store.SaveEmployee(ctx, &a))

	b := testEmployee()
	b.LastName = "Arnold"
	b.DepartmentID = dept.ID
	require.NoError(t, store.SaveEmployee(ctx, &b))

	gone := testEmployee()
	gone.LastName = "Gone"
	term := engine.NewDate(2024, time.December, 31)
	gone.TerminationDate = &term
	require.NoError(t, store.SaveEmployee(ctx, &gone))

	all, err := store.Employees(ctx, engine.EmployeeFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Arnold", all[0].LastName, "listing is ordered by last name")

	active, err := store.Employees(ctx, engine.EmployeeFilter{ActiveInYear: 2026})
	require.NoError(t, err)
	require.Len(t, active, 2)

	dev, err := store.Employees(ctx, engine.EmployeeFilter{Department: "Development"})
	require.NoError(t, err)
	require.Len(t, dev, 1)
	assert.Equal(t, "Arnold", dev[0].LastName)
}

func TestSQLite_DeactivateEmployee(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	emp := testEmployee()
	require.NoError(t, store.SaveEmployee(ctx, &emp))
	require.NoError(t, store.DeactivateEmployee(ctx, emp.ID))

	got, err := store.Employee(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusInactive, got.Status)

	require.ErrorIs(t, store.DeactivateEmployee(ctx, 999), engine.ErrNotFound)
}

// =============================================================================
// WORKING-TIME PATTERN
// =============================================================================

func TestSQLite_Pattern_ReplaceWholesale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	emp := testEmployee()
	require.NoError(t, store.SaveEmployee(ctx, &emp))

	first := engine.Pattern{
		{Weekday: 0, Mode: engine.ModeFull},
		{Weekday: 5, Mode: engine.ModeHalf},
	}
	require.NoError(t, store.ReplacePattern(ctx, emp.ID, first))

	got, err := store.PatternFor(ctx, emp.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, first, got)

	// A replacement must not leave entries of the old pattern behind.
	second := engine.Pattern{{Weekday: 2, Mode: engine.ModeOff}}
	require.NoError(t, store.ReplacePattern(ctx, emp.ID, second))

	got, err = store.PatternFor(ctx, emp.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, second, got)

	// Replacing with an empty pattern clears the table for the employee.
	require.NoError(t, store.ReplacePattern(ctx, emp.ID, nil))
	got, err = store.PatternFor(ctx, emp.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// =============================================================================
// ABSENCES
// =============================================================================

func TestSQLite_Absences_RoundtripAndYearFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	emp := testEmployee()
	require.NoError(t, store.SaveEmployee(ctx, &emp))

	early := engine.AbsenceRecord{
		EmployeeID: emp.ID,
		Kind:       engine.KindLeave,
		From:       engine.NewDate(2025, time.July, 7),
		To:         engine.NewDate(2025, time.July, 11),
		Days:       decimal.NewFromFloat(4.5),
		Note:       "summer",
	}
	require.NoError(t, store.InsertAbsence(ctx, &early))
	require.NotZero(t, early.ID)

	late := engine.AbsenceRecord{
		EmployeeID: emp.ID,
		Kind:       engine.KindLeave,
		From:       engine.NewDate(2026, time.January, 5),
		To:         engine.NewDate(2026, time.January, 5),
		Days:       decimal.NewFromFloat(0.5),
	}
	require.NoError(t, store.InsertAbsence(ctx, &late))

	sick := engine.AbsenceRecord{
		EmployeeID: emp.ID,
		Kind:       engine.KindSickness,
		From:       engine.NewDate(2026, time.February, 2),
		To:         engine.NewDate(2026, time.February, 2),
		Days:       decimal.NewFromInt(1),
	}
	require.NoError(t, store.InsertAbsence(ctx, &sick))

	leave2026, err := store.AbsencesInYear(ctx, engine.KindLeave, emp.ID, 2026)
	require.NoError(t, err)
	require.Len(t, leave2026, 1)
	assert.True(t, leave2026[0].Days.Equal(decimal.NewFromFloat(0.5)))
	assert.True(t, leave2026[0].To.Equal(leave2026[0].From))

	allLeave, err := store.Absences(ctx, engine.KindLeave, emp.ID)
	require.NoError(t, err)
	require.Len(t, allLeave, 2)
	assert.Equal(t, "summer", allLeave[0].Note)

	require.NoError(t, store.DeleteAbsence(ctx, engine.KindLeave, early.ID))
	require.ErrorIs(t, store.DeleteAbsence(ctx, engine.KindLeave, early.ID), engine.ErrNotFound)
}

// =============================================================================
// TRAINING / OVERTIME
// =============================================================================

func TestSQLite_Training_Roundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	emp := testEmployee()
	require.NoError(t, store.SaveEmployee(ctx, &emp))

	rec := engine.TrainingRecord{
		EmployeeID:   emp.ID,
		Date:         engine.NewDate(2026, time.April, 13),
		DurationDays: decimal.NewFromFloat(1.5),
		Title:        "First aid",
	}
	require.NoError(t, store.InsertTraining(ctx, &rec))

	got, err := store.TrainingsInYear(ctx, emp.ID, 2026)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "First aid", got[0].Title)
	assert.True(t, got[0].DurationDays.Equal(decimal.NewFromFloat(1.5)))

	none, err := store.TrainingsInYear(ctx, emp.ID, 2025)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLite_Overtime_Roundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	emp := testEmployee()
	require.NoError(t, store.SaveEmployee(ctx, &emp))

	require.NoError(t, store.InsertOvertime(ctx, &engine.OvertimeEntry{
		EmployeeID: emp.ID,
		Date:       engine.NewDate(2026, time.March, 2),
		Hours:      decimal.NewFromFloat(-2.5),
	}))
	require.NoError(t, store.InsertOvertime(ctx, &engine.OvertimeEntry{
		EmployeeID: emp.ID,
		Date:       engine.NewDate(2025, time.November, 20),
		Hours:      decimal.NewFromInt(8),
		Note:       "release weekend",
	}))

	entries, err := store.OvertimeEntries(ctx, emp.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 2025, entries[0].Date.Year(), "entries are ordered by date")
	assert.True(t, entries[1].Hours.Equal(decimal.NewFromFloat(-2.5)))
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func TestSQLite_Holiday_UpsertByDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	date := engine.NewDate(2026, time.October, 3)
	require.NoError(t, store.SaveHoliday(ctx, engine.Holiday{Date: date, Name: "Tag der Einheit"}))
	require.NoError(t, store.SaveHoliday(ctx, engine.Holiday{Date: date, Name: "German Unity Day", Region: "DE"}))

	holidays, err := store.HolidaysInYear(ctx, 2026)
	require.NoError(t, err)
	require.Len(t, holidays, 1, "same date must overwrite, not duplicate")
	assert.Equal(t, "German Unity Day", holidays[0].Name)
	assert.Equal(t, "DE", holidays[0].Region)

	require.NoError(t, store.DeleteHoliday(ctx, date))
	require.ErrorIs(t, store.DeleteHoliday(ctx, date), engine.ErrNotFound)
}

// =============================================================================
// MANUAL CARRYOVER
// =============================================================================

func TestSQLite_ManualCarryover_Lifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	emp := testEmployee()
	require.NoError(t, store.SaveEmployee(ctx, &emp))

	// Absent override reads as nil, not as an error.
	mc, err := store.ManualCarryover(ctx, emp.ID, 2026)
	require.NoError(t, err)
	assert.Nil(t, mc)

	require.NoError(t, store.SetManualCarryover(ctx, engine.ManualCarryover{
		EmployeeID: emp.ID,
		Year:       2026,
		Days:       decimal.NewFromFloat(7.5),
		Note:       "audit",
	}))
	// Same (employee, year) overwrites.
	require.NoError(t, store.SetManualCarryover(ctx, engine.ManualCarryover{
		EmployeeID: emp.ID,
		Year:       2026,
		Days:       decimal.NewFromInt(9),
	}))

	mc, err = store.ManualCarryover(ctx, emp.ID, 2026)
	require.NoError(t, err)
	require.NotNil(t, mc)
	assert.True(t, mc.Days.Equal(decimal.NewFromInt(9)))

	require.NoError(t, store.ClearManualCarryover(ctx, emp.ID, 2026))
	mc, err = store.ManualCarryover(ctx, emp.ID, 2026)
	require.NoError(t, err)
	assert.Nil(t, mc)
}

// =============================================================================
// YEARS
// =============================================================================

func TestSQLite_AvailableYears(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	emp := testEmployee()
	require.NoError(t, store.SaveEmployee(ctx, &emp))
	require.NoError(t, store.InsertAbsence(ctx, &engine.AbsenceRecord{
		EmployeeID: emp.ID,
		Kind:       engine.KindLeave,
		From:       engine.NewDate(2019, time.May, 6),
		To:         engine.NewDate(2019, time.May, 6),
		Days:       decimal.NewFromInt(1),
	}))

	years, err := store.AvailableYears(ctx)
	require.NoError(t, err)

	current := time.Now().Year()
	assert.Contains(t, years, 2019)
	assert.Contains(t, years, current)
	assert.Contains(t, years, current+1)
	assert.IsDecreasing(t, years)
}

// =============================================================================
// CORRUPTION
// =============================================================================

func TestSQLite_MalformedStoredValues_SurfaceAsStorageError(t *testing.T) {
	// GIVEN: rows whose date and decimal columns were mangled outside
	//        the store's write path
	// THEN: reads fail with a StorageError instead of coercing the
	//       garbage into zero values

	path := filepath.Join(t.TempDir(), "timebalance.db")
	store, err := sqlite.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	emp := testEmployee()
	require.NoError(t, store.SaveEmployee(ctx, &emp))
	require.NoError(t, store.InsertAbsence(ctx, &engine.AbsenceRecord{
		EmployeeID: emp.ID,
		Kind:       engine.KindLeave,
		From:       engine.NewDate(2026, time.May, 4),
		To:         engine.NewDate(2026, time.May, 4),
		Days:       decimal.NewFromInt(1),
	}))

	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer raw.Close()
	_, err = raw.ExecContext(ctx, `UPDATE employees SET hire_date = 'someday'`)
	require.NoError(t, err)
	_, err = raw.ExecContext(ctx, `UPDATE leave SET days = 'plenty'`)
	require.NoError(t, err)

	_, err = store.Employee(ctx, emp.ID)
	require.ErrorIs(t, err, engine.ErrStorage)

	_, err = store.Absences(ctx, engine.KindLeave, emp.ID)
	require.ErrorIs(t, err, engine.ErrStorage)
}
