package l3_service

import (
	"context"
	"fmt"

	"stockscreener/internal/domain"
	"stockscreener/internal/util"

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

// fixtureStock builds a snapshot row with a price and a single roic
// value, which is all the backtest fixtures rank on.
func fixtureStock(symbol string, price, roic float64) domain.StockSnapshot {
	return domain.StockSnapshot{
		Symbol: symbol,
		Name:   symbol + " Inc",
		Sector: "Technology",
		Price:  util.FloatPointer(price),
		Metrics: map[domain.Metric]*float64{
			domain.Metric_Roic: util.FloatPointer(roic),
		},
	}
}

// unpricedStock builds a snapshot row lacking a price.
func unpricedStock(symbol string, roic float64) domain.StockSnapshot {
	stock := fixtureStock(symbol, 0, roic)
	stock.Price = nil
	return stock
}

func roicWeights() domain.WeightVector {
	weights, err := domain.NewWeightVector(map[string]int{"roic": 100})
	if err != nil {
		panic(err)
	}
	return weights
}
