package l2_service

import (
	"context"
	"fmt"

	"stockscreener/internal/domain"

	"github.com/shopspring/decimal"
)

// fakeSnapshotService serves canned snapshots keyed by offset, with the
// same error contract as the real service.
type fakeSnapshotService struct {
	snapshots map[int][]domain.StockSnapshot
}

func (f fakeSnapshotService) Get(ctx context.Context, yearsAgo int) ([]domain.StockSnapshot, error) {
	if yearsAgo < 0 {
		return nil, domain.ConfigurationError{Err: fmt.Errorf("lookback offset must be >= 0, got %d", yearsAgo)}
	}
	snapshot, ok := f.snapshots[yearsAgo]
	if !ok || len(snapshot) == 0 {
		return nil, domain.DataUnavailableError{Err: fmt.Errorf("no snapshot recorded for offset %d", yearsAgo)}
	}
	return snapshot, nil
}

func (f fakeSnapshotService) PriceMap(ctx context.Context, yearsAgo int) (map[string]decimal.Decimal, error) {
	snapshot, err := f.Get(ctx, yearsAgo)
	if err != nil {
		return nil, err
	}
	priceMap := map[string]decimal.Decimal{}
	for _, stock := range snapshot {
		if stock.Price != nil {
			priceMap[stock.Symbol] = decimal.NewFromFloat(*stock.Price)
		}
	}
	return priceMap, nil
}

func fixtureStock(symbol, sector string, price *float64, metrics map[domain.Metric]*float64) domain.StockSnapshot {
	if metrics == nil {
		metrics = map[domain.Metric]*float64{}
	}
	return domain.StockSnapshot{
		Symbol:  symbol,
		Name:    symbol + " Inc",
		Sector:  sector,
		Price:   price,
		Metrics: metrics,
	}
}
