package engine_test

import (
	"testing"
	"time"

	"github.com/teamplanner/timebalance/engine"
)

func overtimeEntry(year int, month time.Month, day int, hours float64) engine.OvertimeEntry {
	return engine.OvertimeEntry{
		EmployeeID: 1,
		Date:       engine.NewDate(year, month, day),
		Hours:      dec(hours),
	}
}

func TestOvertime_Breakdown(t *testing.T) {
	entries := []engine.OvertimeEntry{
		overtimeEntry(2024, time.March, 1, 10),
		overtimeEntry(2024, time.October, 15, -4),
		overtimeEntry(2025, time.February, 3, 8),
		overtimeEntry(2025, time.August, 20, -3),
		overtimeEntry(2026, time.January, 5, 99), // future year, ignored
	}

	b := engine.BreakdownOvertime(entries, 2025)

	assertDecimal(t, 6, b.Carryover, "everything before 2025")
	assertDecimal(t, 8, b.Accrued)
	assertDecimal(t, 3, b.Consumed)
	assertDecimal(t, 11, b.Balance)
}

func TestOvertime_BalanceIdentity(t *testing.T) {
	// Balance must equal Carryover + Accrued - Consumed for any history:
	// the three terms partition the entries through the year.
	entries := []engine.OvertimeEntry{
		overtimeEntry(2023, time.May, 2, 12.5),
		overtimeEntry(2024, time.January, 9, -7),
		overtimeEntry(2024, time.June, 30, 3.25),
		overtimeEntry(2025, time.December, 31, -1.5),
	}

	for year := 2022; year <= 2026; year++ {
		b := engine.BreakdownOvertime(entries, year)
		want := b.Carryover.Add(b.Accrued).Sub(b.Consumed)
		if !b.Balance.Equal(want) {
			t.Fatalf("year %d: balance %s != %s", year, b.Balance, want)
		}
	}
}

func TestOvertime_NeverResetsAtYearBoundary(t *testing.T) {
	entries := []engine.OvertimeEntry{
		overtimeEntry(2023, time.May, 2, 10),
		overtimeEntry(2025, time.May, 2, 5),
	}

	// The 2023 surplus is still in the balance two years later.
	assertDecimal(t, 10, engine.CumulativeHours(entries, 2024))
	assertDecimal(t, 15, engine.CumulativeHours(entries, 2025))
}

func TestOvertime_EmptyHistory(t *testing.T) {
	b := engine.BreakdownOvertime(nil, 2025)

	assertDecimal(t, 0, b.Carryover)
	assertDecimal(t, 0, b.Accrued)
	assertDecimal(t, 0, b.Consumed)
	assertDecimal(t, 0, b.Balance)
}
