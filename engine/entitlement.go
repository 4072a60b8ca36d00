package engine

import "github.com/shopspring/decimal"

var (
	two    = decimal.NewFromInt(2)
	twelve = decimal.NewFromInt(12)
)

// =============================================================================
// ENTITLEMENT - Annual leave allowance, pro-rated in the hire year
// =============================================================================

// EntitlementForYear returns the employee's leave entitlement for a year.
// Outside the hire year it is the plain annual entitlement. In the hire
// year it is pro-rated by remaining months, the hire month counting in
// full, and rounded to the nearest half day:
//
//	months = 12 - hireMonth + 1
//	raw    = annual / 12 * months
//	result = round(raw * 2) / 2
//
// Years before the hire year accrue nothing; callers must not ask for them.
func EntitlementForYear(e Employee, year int) decimal.Decimal {
	if year != e.HireYear() {
		return e.AnnualEntitlement
	}

	months := decimal.NewFromInt(int64(12 - int(e.HireDate.Month()) + 1))
	raw := e.AnnualEntitlement.Div(twelve).Mul(months)
	return roundToHalf(raw)
}

// roundToHalf rounds to the nearest 0.5 day.
func roundToHalf(d decimal.Decimal) decimal.Decimal {
	return d.Mul(two).Round(0).Div(two)
}
