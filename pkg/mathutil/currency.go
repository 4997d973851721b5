// Package mathutil provides the exact arithmetic used to slice prices into
// schedule amounts.
package mathutil

import (
	"github.com/iwvelando/payment-plans/pkg/constants"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(constants.PercentageMultiplier)

// FloorShare returns floor(amount × percent/100) computed exactly.
func FloorShare(amount int64, percent decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(percent).Div(hundred).Floor().IntPart()
}

// RoundShare returns round(amount × percent/100), halves rounded up.
func RoundShare(amount int64, percent decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(percent).Div(hundred).Round(0).IntPart()
}

// FloorDiv divides whole currency units into n equal parts, rounding down.
// It returns 0 when n is not positive.
func FloorDiv(amount int64, n int) int64 {
	if n <= 0 {
		return 0
	}
	return decimal.NewFromInt(amount).Div(decimal.NewFromInt(int64(n))).Floor().IntPart()
}

// Percentage returns amount as a percentage of reference, rounded to
// constants.PercentagePlaces decimals. A zero reference yields 0.
func Percentage(amount, reference int64) float64 {
	if reference == 0 {
		return 0
	}
	pct := decimal.NewFromInt(amount).Div(decimal.NewFromInt(reference)).Mul(hundred)
	return pct.Round(constants.PercentagePlaces).InexactFloat64()
}

// ApplyPercentage applies a percentage to a value without rounding.
func ApplyPercentage(value int64, percent decimal.Decimal) float64 {
	return decimal.NewFromInt(value).Mul(percent).Div(hundred).InexactFloat64()
}

// Rate divides amount over n periods, for informational reference rates.
func Rate(amount int64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(amount) / float64(n)
}

// Complement returns 100 - percent.
func Complement(percent decimal.Decimal) decimal.Decimal {
	return hundred.Sub(percent)
}
