package internal

import (
	"context"
	"database/sql"
	"fmt"

	"stockscreener/internal/db/models/postgres/public/model"
	"stockscreener/internal/logger"
	"stockscreener/internal/repository"
	"stockscreener/pkg/gurufocus"
)

// IngestSnapshots refreshes the offset-0 factor snapshot for every
// ticker in the universe from the financial data API. Historical
// offsets are never rewritten; they accumulate as past runs age.
// Retry and pacing live in the API client, not here.
func IngestSnapshots(
	ctx context.Context,
	db *sql.DB,
	client *gurufocus.Client,
	tickerRepository repository.TickerRepository,
	snapshotRepository repository.SnapshotRepository,
) error {
	tickers, err := tickerRepository.List()
	if err != nil {
		return err
	}
	if len(tickers) == 0 {
		return fmt.Errorf("cannot ingest snapshots for an empty universe")
	}

	rows := []model.FactorSnapshot{}
	for _, ticker := range tickers {
		summary, err := client.GetStockSummary(ctx, ticker.Symbol)
		if err != nil {
			// a symbol the API no longer covers should not sink the
			// whole run; the core tolerates the resulting nulls
			logger.Warn("failed to fetch %s: %v", ticker.Symbol, err)
			continue
		}
		rows = append(rows, snapshotRowFromSummary(ticker.Symbol, summary))
	}
	if len(rows) == 0 {
		return fmt.Errorf("fetched 0 of %d symbols", len(tickers))
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := snapshotRepository.AddMany(tx, rows); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %d snapshot rows: %w", len(rows), err)
	}

	logger.Info("ingested snapshots for %d of %d symbols", len(rows), len(tickers))
	return nil
}

func snapshotRowFromSummary(symbol string, summary *gurufocus.StockSummary) model.FactorSnapshot {
	general := summary.Summary.General
	ratio := summary.Summary.Ratio
	growth := summary.Summary.Growth

	return model.FactorSnapshot{
		Symbol:          symbol,
		YearsAgo:        0,
		Price:           general.Price,
		MarketCap:       general.MktCap,
		Adtv:            general.Adtv,
		PriceToSales:    ratio.PsRatio,
		SalesGrowth:     growth.RevenueGrowth3Y,
		GfScore:         general.GfScore,
		PeRatio:         ratio.PeRatio,
		DebtToEquity:    ratio.DebtToEquity,
		OperatingMargin: ratio.OperatingMargin,
		Roic:            ratio.Roic,
		FcfYield:        ratio.FcfYield,
	}
}
