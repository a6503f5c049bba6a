package l3_service

import (
	"fmt"

	"stockscreener/internal/calculator"
	"stockscreener/internal/domain"

	"github.com/shopspring/decimal"
)

// MultiHorizonResult maps horizon years to a backtest summary. A nil
// entry means the data for that horizon was unavailable; the key is
// always present so callers can tell "no data" apart from "not asked".
type MultiHorizonResult map[int]*domain.BacktestResult

// Horizons is the set of lookback windows every multi-horizon backtest
// reports on.
var Horizons = []int{1, 2, 3, 4, 5}

// buildBacktestResult folds a simulation's period returns and ledger
// into the per-horizon summary. Compounding is multiplicative; the
// final value must equal inception grown by the cumulative return.
func buildBacktestResult(
	horizon int,
	finalValue decimal.Decimal,
	periodReturns []float64,
	transactions []domain.Transaction,
	shortfalls []domain.PortfolioShortfall,
) (*domain.BacktestResult, error) {
	if len(periodReturns) != horizon {
		return nil, domain.ComputationError{Err: fmt.Errorf("expected %d period returns for horizon %d, got %d", horizon, horizon, len(periodReturns))}
	}

	cumulative := calculator.CompoundReturns(periodReturns)

	return &domain.BacktestResult{
		Horizon:             horizon,
		FinalValue:          finalValue.Round(2),
		TotalReturnPct:      cumulative * 100,
		AnnualizedReturnPct: calculator.AnnualizedReturnPct(cumulative, horizon),
		Transactions:        transactions,
		Shortfalls:          shortfalls,
	}, nil
}
