package api

import (
	"time"

	"stockscreener/internal/domain"
	l3_service "stockscreener/internal/service/l3"

	"github.com/shopspring/decimal"
)

type TransactionResponse struct {
	Kind           string             `json:"kind"`
	TransactionID  string             `json:"transactionID"`
	YearsAgo       int                `json:"yearsAgo"`
	Date           time.Time          `json:"date"`
	PortfolioValue decimal.Decimal    `json:"portfolioValue"`
	Kept           []string           `json:"kept,omitempty"`
	Bought         []domain.TradeFill `json:"bought,omitempty"`
	Sold           []domain.TradeFill `json:"sold,omitempty"`
}

type BacktestResultResponse struct {
	Horizon             int                         `json:"horizon"`
	FinalValue          decimal.Decimal             `json:"finalValue"`
	TotalReturnPct      float64                     `json:"totalReturnPct"`
	AnnualizedReturnPct float64                     `json:"annualizedReturnPct"`
	Transactions        []TransactionResponse       `json:"transactions"`
	Shortfalls          []domain.PortfolioShortfall `json:"shortfalls,omitempty"`
}

// multiHorizonToResponse keeps a key per horizon; horizons downgraded by
// missing or thin data come through as explicit nulls.
func multiHorizonToResponse(result l3_service.MultiHorizonResult) map[int]*BacktestResultResponse {
	out := map[int]*BacktestResultResponse{}
	for horizon, backtest := range result {
		if backtest == nil {
			out[horizon] = nil
			continue
		}
		out[horizon] = &BacktestResultResponse{
			Horizon:             backtest.Horizon,
			FinalValue:          backtest.FinalValue,
			TotalReturnPct:      backtest.TotalReturnPct,
			AnnualizedReturnPct: backtest.AnnualizedReturnPct,
			Transactions:        transactionsToResponse(backtest.Transactions),
			Shortfalls:          backtest.Shortfalls,
		}
	}
	return out
}

func transactionsToResponse(transactions []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		header := transaction.Header()
		response := TransactionResponse{
			Kind:           string(transaction.Kind()),
			TransactionID:  header.TransactionID.String(),
			YearsAgo:       header.YearsAgo,
			Date:           header.Date,
			PortfolioValue: header.PortfolioValue,
		}
		switch t := transaction.(type) {
		case domain.BuyTransaction:
			response.Bought = t.Bought
		case domain.HoldTransaction:
			response.Kept = t.Kept
		case domain.RebalanceTransaction:
			response.Kept = t.Kept
			response.Sold = t.Sold
			response.Bought = t.Bought
		case domain.SellAllTransaction:
			response.Sold = t.Sold
		}
		out = append(out, response)
	}
	return out
}
