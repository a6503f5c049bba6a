package domain

import "github.com/shopspring/decimal"

// BacktestResult summarizes one horizon of a simulation: the final
// portfolio value, headline return figures, and the full transaction
// ledger that produced them.
type BacktestResult struct {
	Horizon             int                  `json:"horizon"`
	FinalValue          decimal.Decimal      `json:"finalValue"`
	TotalReturnPct      float64              `json:"totalReturnPct"`
	AnnualizedReturnPct float64              `json:"annualizedReturnPct"`
	Transactions        []Transaction        `json:"transactions"`
	Shortfalls          []PortfolioShortfall `json:"shortfalls,omitempty"`
}
