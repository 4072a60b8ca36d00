package engine_test

import (
	"testing"
	"time"

	"github.com/teamplanner/timebalance/engine"
)

func employeeHired(year int, month time.Month, annual float64) engine.Employee {
	return engine.Employee{
		FirstName:         "Anna",
		LastName:          "Berg",
		HireDate:          engine.NewDate(year, month, 1),
		AnnualEntitlement: dec(annual),
		Status:            engine.StatusActive,
	}
}

func TestEntitlement_NonHireYear_Unchanged(t *testing.T) {
	emp := employeeHired(2020, time.March, 30)

	assertDecimal(t, 30, engine.EntitlementForYear(emp, 2026))
}

func TestEntitlement_JanuaryHire_FullYear(t *testing.T) {
	emp := employeeHired(2026, time.January, 30)

	assertDecimal(t, 30, engine.EntitlementForYear(emp, 2026))
}

func TestEntitlement_JulyHire_HalfYear(t *testing.T) {
	// 6 remaining months including July: 30 / 12 * 6 = 15
	emp := employeeHired(2026, time.July, 30)

	assertDecimal(t, 15, engine.EntitlementForYear(emp, 2026))
}

func TestEntitlement_ProRating_RoundsToNearestHalf(t *testing.T) {
	// September hire, 4 remaining months: 28 / 12 * 4 = 9.33... -> 9.5
	emp := employeeHired(2026, time.September, 28)
	assertDecimal(t, 9.5, engine.EntitlementForYear(emp, 2026))

	// November hire, 2 remaining months: 25 / 12 * 2 = 4.16... -> 4.0
	emp = employeeHired(2026, time.November, 25)
	assertDecimal(t, 4, engine.EntitlementForYear(emp, 2026))
}

func TestEntitlement_DecemberHire_OneMonth(t *testing.T) {
	// 30 / 12 * 1 = 2.5
	emp := employeeHired(2026, time.December, 30)

	assertDecimal(t, 2.5, engine.EntitlementForYear(emp, 2026))
}
