package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamplanner/timebalance/engine"
)

// =============================================================================
// ABSENCE BOOKING
// =============================================================================

func TestBookAbsence_HalfDay_SpansStartDateOnly(t *testing.T) {
	// A half-day booking must be stored with To == From, never extended.
	eng, mem := newTestEngine(t)
	id := saveEmployee(t, mem, employeeHired(2020, time.January, 30))

	rec, err := eng.BookAbsence(context.Background(), engine.KindLeave, id, monday, dec(0.5), "")
	require.NoError(t, err)
	assert.True(t, rec.From.Equal(monday))
	assert.True(t, rec.To.Equal(monday))
	assertDecimal(t, 0.5, rec.Days)
}

func TestBookAbsence_SingleDay_SpansStartDateOnly(t *testing.T) {
	eng, mem := newTestEngine(t)
	id := saveEmployee(t, mem, employeeHired(2020, time.January, 30))

	rec, err := eng.BookAbsence(context.Background(), engine.KindLeave, id, monday, dec(1), "")
	require.NoError(t, err)
	assert.True(t, rec.To.Equal(monday))
}

func TestBookAbsence_MultiDay_EndsWhenDaysConsumed(t *testing.T) {
	eng, mem := newTestEngine(t)
	id := saveEmployee(t, mem, employeeHired(2020, time.January, 30))

	// 3 days starting Monday end on Wednesday
	rec, err := eng.BookAbsence(context.Background(), engine.KindLeave, id, monday, dec(3), "")
	require.NoError(t, err)
	assert.True(t, rec.To.Equal(wednesday), "got %s", rec.To)

	// 2.5 days from the following Monday: the half day left after Tuesday
	// still needs Wednesday, so the booking runs through it.
	rec, err = eng.BookAbsence(context.Background(), engine.KindLeave, id, monday.AddDays(7), dec(2.5), "")
	require.NoError(t, err)
	assert.True(t, rec.To.Equal(monday.AddDays(9)), "got %s", rec.To)
}

func TestBookAbsence_MultiDay_SkipsWeekend(t *testing.T) {
	// GIVEN: a default Monday-Friday pattern
	// WHEN: booking 2 leave days starting on a Friday
	// THEN: the booking runs through the following Monday, not Saturday

	eng, mem := newTestEngine(t)
	id := saveEmployee(t, mem, employeeHired(2020, time.January, 30))

	rec, err := eng.BookAbsence(context.Background(), engine.KindLeave, id, friday, dec(2), "")
	require.NoError(t, err)
	assert.True(t, rec.From.Equal(friday))
	assert.True(t, rec.To.Equal(monday.AddDays(7)), "got %s", rec.To)
}

func TestBookAbsence_MultiDay_SkipsHolidays(t *testing.T) {
	// A holiday on the Monday after the weekend consumes nothing, so a
	// 2-day booking started Friday runs through Tuesday.
	eng, mem := newTestEngine(t)
	id := saveEmployee(t, mem, employeeHired(2020, time.January, 30))
	ctx := context.Background()

	require.NoError(t, eng.SaveHoliday(ctx, engine.Holiday{Date: monday.AddDays(7), Name: "Bridge day"}))

	rec, err := eng.BookAbsence(ctx, engine.KindLeave, id, friday, dec(2), "")
	require.NoError(t, err)
	assert.True(t, rec.To.Equal(monday.AddDays(8)), "got %s", rec.To)
}

func TestBookAbsence_RejectsBadGranularity(t *testing.T) {
	eng, mem := newTestEngine(t)
	id := saveEmployee(t, mem, employeeHired(2020, time.January, 30))

	ctx := context.Background()

	_, err := eng.BookAbsence(ctx, engine.KindLeave, id, monday, dec(0.3), "")
	require.ErrorIs(t, err, engine.ErrValidation)

	_, err = eng.BookAbsence(ctx, engine.KindLeave, id, monday, dec(0), "")
	require.ErrorIs(t, err, engine.ErrValidation)

	_, err = eng.BookAbsence(ctx, engine.KindLeave, id, monday, dec(-1), "")
	require.ErrorIs(t, err, engine.ErrValidation)
}

// =============================================================================
// OVERLAP
// =============================================================================

func TestBookAbsence_OverlappingSameKind_Rejected(t *testing.T) {
	// GIVEN: Leave booked Monday through Wednesday
	// WHEN: Booking leave on Wednesday again
	// THEN: Rejected with an OverlapError naming the existing record

	eng, mem := newTestEngine(t)
	id := saveEmployee(t, mem, employeeHired(2020, time.January, 30))
	ctx := context.Background()

	existing, err := eng.BookAbsence(ctx, engine.KindLeave, id, monday, dec(3), "")
	require.NoError(t, err)

	_, err = eng.BookAbsence(ctx, engine.KindLeave, id, wednesday, dec(1), "")
	require.ErrorIs(t, err, engine.ErrOverlap)

	var ovErr *engine.OverlapError
	require.ErrorAs(t, err, &ovErr)
	assert.Equal(t, existing.ID, ovErr.ExistingID)
}

func TestBookAbsence_OtherKind_MayCoincide(t *testing.T) {
	// Overlap is checked per kind: sickness during booked leave is allowed.
	eng, mem := newTestEngine(t)
	id := saveEmployee(t, mem, employeeHired(2020, time.January, 30))
	ctx := context.Background()

	_, err := eng.BookAbsence(ctx, engine.KindLeave, id, monday, dec(3), "")
	require.NoError(t, err)

	_, err = eng.BookAbsence(ctx, engine.KindSickness, id, tuesday, dec(1), "")
	require.NoError(t, err)
}

func TestBookAbsence_AdjacentRanges_AllowedBothSides(t *testing.T) {
	eng, mem := newTestEngine(t)
	id := saveEmployee(t, mem, employeeHired(2020, time.January, 30))
	ctx := context.Background()

	_, err := eng.BookAbsence(ctx, engine.KindLeave, id, tuesday, dec(1), "")
	require.NoError(t, err)

	_, err = eng.BookAbsence(ctx, engine.KindLeave, id, monday, dec(1), "")
	require.NoError(t, err)

	_, err = eng.BookAbsence(ctx, engine.KindLeave, id, wednesday, dec(1), "")
	require.NoError(t, err)
}

// =============================================================================
// BUSINESS RULES
// =============================================================================

func TestBookAbsence_LeaveBudgetExceeded_Rejected(t *testing.T) {
	eng, mem := newTestEngine(t)
	id := saveEmployee(t, mem, employeeHired(2026, time.January, 1))

	_, err := eng.BookAbsence(context.Background(), engine.KindLeave, id, monday, dec(3), "")
	require.ErrorIs(t, err, engine.ErrBusinessRule)
}

func TestBookAbsence_Sickness_NotBudgetChecked(t *testing.T) {
	eng, mem := newTestEngine(t)
	id := saveEmployee(t, mem, employeeHired(2026, time.January, 1))

	_, err := eng.BookAbsence(context.Background(), engine.KindSickness, id, monday, dec(3), "")
	require.NoError(t, err)
}

func TestBookAbsence_PastTermination_Rejected(t *testing.T) {
	eng, mem := newTestEngine(t)
	emp := employeeHired(2020, time.January, 30)
	term := tuesday
	emp.TerminationDate = &term
	id := saveEmployee(t, mem, emp)

	// 3 days from Monday would end Wednesday, one day past the end of
	// employment.
	_, err := eng.BookAbsence(context.Background(), engine.KindLeave, id, monday, dec(3), "")
	require.ErrorIs(t, err, engine.ErrBusinessRule)

	// Up to the termination date is fine.
	_, err = eng.BookAbsence(context.Background(), engine.KindLeave, id, monday, dec(2), "")
	require.NoError(t, err)
}

func TestBookAbsence_UnknownEmployee_NotFound(t *testing.T) {
	eng, _ := newTestEngine(t)

	_, err := eng.BookAbsence(context.Background(), engine.KindLeave, 404, monday, dec(1), "")
	require.ErrorIs(t, err, engine.ErrNotFound)
}

// =============================================================================
// LISTING AND DELETION
// =============================================================================

func TestAbsences_FilteredByStartYear(t *testing.T) {
	eng, mem := newTestEngine(t)
	id := saveEmployee(t, mem, employeeHired(2020, time.January, 30))
	ctx := context.Background()

	insertLeave(t, mem, id, engine.NewDate(2025, time.July, 7), 1)
	insertLeave(t, mem, id, engine.NewDate(2026, time.July, 7), 1)

	records, err := eng.Absences(ctx, engine.KindLeave, id, 2026)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2026, records[0].From.Year())

	all, err := eng.Absences(ctx, engine.KindLeave, id, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteAbsence_RemovesRecord(t *testing.T) {
	eng, mem := newTestEngine(t)
	id := saveEmployee(t, mem, employeeHired(2020, time.January, 30))
	ctx := context.Background()

	rec, err := eng.BookAbsence(ctx, engine.KindLeave, id, monday, dec(1), "")
	require.NoError(t, err)

	require.NoError(t, eng.DeleteAbsence(ctx, engine.KindLeave, rec.ID))

	records, err := eng.Absences(ctx, engine.KindLeave, id, 0)
	require.NoError(t, err)
	assert.Empty(t, records)

	err = eng.DeleteAbsence(ctx, engine.KindLeave, rec.ID)
	require.ErrorIs(t, err, engine.ErrNotFound)
}

// =============================================================================
// TRAINING
// =============================================================================

func TestBookTraining_Validation(t *testing.T) {
	eng, mem := newTestEngine(t)
	id := saveEmployee(t, mem, employeeHired(2020, time.January, 30))
	ctx := context.Background()

	_, err := eng.BookTraining(ctx, id, monday, dec(0), "Go course", "")
	require.ErrorIs(t, err, engine.ErrValidation)

	_, err = eng.BookTraining(ctx, id, monday, dec(1), "", "")
	require.ErrorIs(t, err, engine.ErrValidation)

	rec, err := eng.BookTraining(ctx, id, monday, dec(1.5), "Go course", "")
	require.NoError(t, err)
	assert.NotZero(t, rec.ID)
}

// =============================================================================
// REQUESTED DAYS AND PROJECTION
// =============================================================================

func TestRequestedDays_AccountsForHolidays(t *testing.T) {
	eng, mem := newTestEngine(t)
	id := saveEmployee(t, mem, employeeHired(2020, time.January, 30))
	ctx := context.Background()

	require.NoError(t, eng.SaveHoliday(ctx, engine.Holiday{Date: tuesday, Name: "Epiphany"}))

	days, err := eng.RequestedDays(ctx, id, monday, sunday)
	require.NoError(t, err)
	assertDecimal(t, 4, days)
}

func TestRequestedDays_InvertedRange_Rejected(t *testing.T) {
	eng, mem := newTestEngine(t)
	id := saveEmployee(t, mem, employeeHired(2020, time.January, 30))

	_, err := eng.RequestedDays(context.Background(), id, sunday, monday)
	require.ErrorIs(t, err, engine.ErrValidation)
}

func TestProjectEndDate_DefaultWeek(t *testing.T) {
	eng, mem := newTestEngine(t)
	id := saveEmployee(t, mem, employeeHired(2020, time.January, 30))

	end, err := eng.ProjectEndDate(context.Background(), id, monday, dec(5))
	require.NoError(t, err)
	assert.True(t, end.Equal(friday), "got %s", end)
}

func TestProjectEndDate_AllOffPattern_Rejected(t *testing.T) {
	eng, mem := newTestEngine(t)
	id := saveEmployee(t, mem, employeeHired(2020, time.January, 30))
	ctx := context.Background()

	allOff := make(engine.Pattern, 0, 7)
	for wd := 0; wd < 7; wd++ {
		allOff = append(allOff, engine.PatternEntry{Weekday: wd, Mode: engine.ModeOff})
	}
	require.NoError(t, eng.SetWorkingTimePattern(ctx, id, allOff))

	_, err := eng.ProjectEndDate(ctx, id, monday, dec(3))
	require.ErrorIs(t, err, engine.ErrBusinessRule)
}

func TestProjectEndDate_SeesHolidaysYearsAhead(t *testing.T) {
	// GIVEN: a Mondays-only pattern, so 110 days reach two years out
	// WHEN: a holiday lands exactly on the projected end date
	// THEN: the projection steps over it to the Monday after

	eng, mem := newTestEngine(t)
	id := saveEmployee(t, mem, employeeHired(2020, time.January, 30))
	ctx := context.Background()

	mondaysOnly := make(engine.Pattern, 0, 7)
	for wd := 0; wd < 7; wd++ {
		mode := engine.ModeOff
		if wd == 0 {
			mode = engine.ModeFull
		}
		mondaysOnly = append(mondaysOnly, engine.PatternEntry{Weekday: wd, Mode: mode})
	}
	require.NoError(t, eng.SetWorkingTimePattern(ctx, id, mondaysOnly))

	end, err := eng.ProjectEndDate(ctx, id, monday, dec(110))
	require.NoError(t, err)
	assert.True(t, end.Equal(engine.NewDate(2028, time.February, 7)), "got %s", end)

	require.NoError(t, eng.SaveHoliday(ctx, engine.Holiday{Date: end, Name: "Company holiday"}))

	end, err = eng.ProjectEndDate(ctx, id, monday, dec(110))
	require.NoError(t, err)
	assert.True(t, end.Equal(engine.NewDate(2028, time.February, 14)), "got %s", end)
}
