package domain

import "github.com/shopspring/decimal"

// BalanceTolerance is the largest debit/credit difference a posting may carry
// to absorb 2-decimal rounding of derived amounts.
var BalanceTolerance = decimal.NewFromFloat(0.01)

// Round2 applies the single system-wide rounding rule: two decimal places,
// half away from zero. It is applied once per posting line, never to
// intermediate results.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
