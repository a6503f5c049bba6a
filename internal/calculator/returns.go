package calculator

import (
	"fmt"
	"math"

	"stockscreener/internal/domain"

	"github.com/shopspring/decimal"
)

// CompoundReturns chains period returns multiplicatively:
// cumulative = prod(1+r_i) - 1. Returns are fractions, not percents.
func CompoundReturns(returns []float64) float64 {
	cumulative := 1.0
	for _, r := range returns {
		cumulative *= 1 + r
	}
	return cumulative - 1
}

// AnnualizedReturnPct converts a cumulative fractional return over the
// given number of years into an annualized percentage.
func AnnualizedReturnPct(cumulative float64, years int) float64 {
	if years <= 0 {
		return 0
	}
	return (math.Pow(1+cumulative, 1/float64(years)) - 1) * 100
}

// GrowValue applies one fractional period return to a portfolio value.
func GrowValue(value decimal.Decimal, periodReturn float64) (decimal.Decimal, error) {
	if value.IsZero() {
		return decimal.Zero, domain.ComputationError{Err: fmt.Errorf("cannot grow portfolio from zero value")}
	}
	return value.Mul(decimal.NewFromFloat(1 + periodReturn)), nil
}
