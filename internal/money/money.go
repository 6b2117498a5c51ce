// Package money wraps shopspring/decimal for EUR amounts. Invoice amounts
// carry 2 decimal places; VAT rates are percents (20 for 20%).
package money

import (
	"github.com/shopspring/decimal"
)

// Zero is decimal zero.
var Zero = decimal.Zero

var hundred = decimal.NewFromInt(100)

// FromFloat creates a decimal from a float, rounded to cents.
func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// RatioToPercent converts a stored VAT ratio (0.20) into a percent (20).
func RatioToPercent(ratio float64) decimal.Decimal {
	return decimal.NewFromFloat(ratio).Mul(hundred).Round(2)
}

// VAT computes the tax amount on basis at ratePercent: basis * rate / 100,
// rounded to cents.
func VAT(basis decimal.Decimal, ratePercent decimal.Decimal) decimal.Decimal {
	return basis.Mul(ratePercent).Div(hundred).Round(2)
}

// Amount formats a decimal with exactly 2 decimal digits and a dot decimal
// separator, the XML numeric convention.
func Amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
