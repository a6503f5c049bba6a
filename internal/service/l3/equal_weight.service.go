package l3_service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"stockscreener/internal/calculator"
	"stockscreener/internal/domain"
	"stockscreener/internal/logger"
	l1_service "stockscreener/internal/service/l1"
	l2_service "stockscreener/internal/service/l2"

	"github.com/montanaflynn/stats"
)

const quartersPerYear = 4

// WindowReturn is the blended equal-weight portfolio performance over
// one lookback window. ValidStocks is how many of the selected stocks
// had full price coverage and made it into the average; partial
// coverage is reported, never an error.
type WindowReturn struct {
	Years               int     `json:"years"`
	TotalReturnPct      float64 `json:"totalReturnPct"`
	AnnualizedReturnPct float64 `json:"annualizedReturnPct"`
	ValidStocks         int     `json:"validStocks"`
}

// StockWindowReturn is one selected stock's own return per window, nil
// where price coverage was incomplete.
type StockWindowReturn struct {
	Symbol  string           `json:"symbol"`
	Returns map[int]*float64 `json:"returns"`
}

type EqualWeightResult struct {
	// Portfolio always carries a key per window; nil marks a window
	// whose snapshot data was unavailable.
	Portfolio map[int]*WindowReturn `json:"portfolio"`
	Stocks    []StockWindowReturn   `json:"stocks"`
}

// EqualWeightService backtests the simplest strategy: pick the top n by
// weighted score once per window, then rebalance to equal weights every
// quarter until the present.
type EqualWeightService interface {
	ComputeReturns(ctx context.Context, weights domain.WeightVector, numStocks int) (*EqualWeightResult, error)
}

type equalWeightServiceHandler struct {
	SnapshotService l1_service.SnapshotService
	RankingService  l2_service.RankingService
}

func NewEqualWeightService(
	snapshotService l1_service.SnapshotService,
	rankingService l2_service.RankingService,
) EqualWeightService {
	return equalWeightServiceHandler{
		SnapshotService: snapshotService,
		RankingService:  rankingService,
	}
}

type windowResult struct {
	years     int
	portfolio *WindowReturn
	stocks    map[string]*float64
	err       error
}

func (h equalWeightServiceHandler) ComputeReturns(ctx context.Context, weights domain.WeightVector, numStocks int) (*EqualWeightResult, error) {
	if numStocks < 1 {
		return nil, domain.ConfigurationError{Err: fmt.Errorf("numStocks must be >= 1, got %d", numStocks)}
	}

	log := logger.FromContext(ctx)

	// windows are independent of each other, so compute them in parallel
	resultCh := make(chan windowResult, len(Horizons))
	var wg sync.WaitGroup
	for _, years := range Horizons {
		wg.Add(1)
		go func(years int) {
			defer wg.Done()
			portfolio, stocks, err := h.computeWindow(ctx, weights, numStocks, years)
			resultCh <- windowResult{years: years, portfolio: portfolio, stocks: stocks, err: err}
		}(years)
	}
	wg.Wait()
	close(resultCh)

	out := &EqualWeightResult{
		Portfolio: map[int]*WindowReturn{},
	}
	stockReturns := map[string]map[int]*float64{}
	for res := range resultCh {
		if res.err != nil {
			if !horizonFailure(res.err) {
				return nil, fmt.Errorf("equal weight backtest failed on %d year window: %w", res.years, res.err)
			}
			log.Warnf("equal weight window %d degraded to null: %v", res.years, res.err)
			out.Portfolio[res.years] = nil
			continue
		}
		out.Portfolio[res.years] = res.portfolio
		for symbol, ret := range res.stocks {
			if _, ok := stockReturns[symbol]; !ok {
				stockReturns[symbol] = map[int]*float64{}
			}
			stockReturns[symbol][res.years] = ret
		}
	}

	symbols := []string{}
	for symbol := range stockReturns {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	for _, symbol := range symbols {
		out.Stocks = append(out.Stocks, StockWindowReturn{
			Symbol:  symbol,
			Returns: stockReturns[symbol],
		})
	}

	return out, nil
}

// computeWindow selects the top n at the start of the window and walks
// quarter steps to the present, rebalancing to equal weights at each
// step. Annual snapshots only carry year-end prices, so quarter prices
// come from geometric interpolation between the two year endpoints.
func (h equalWeightServiceHandler) computeWindow(ctx context.Context, weights domain.WeightVector, numStocks, years int) (*WindowReturn, map[string]*float64, error) {
	selected, err := h.RankingService.RankUniverse(ctx, l2_service.RankUniverseInput{
		YearsAgo: years,
		Weights:  weights,
	})
	if err != nil {
		return nil, nil, err
	}
	candidates := topCandidatesWithPrices(selected, numStocks)
	if len(candidates) == 0 {
		return nil, nil, domain.InsufficientDataError{Err: fmt.Errorf("no priced candidates %d years ago", years)}
	}

	priceMaps := map[int]map[string]float64{}
	for offset := years; offset >= 0; offset-- {
		prices, err := h.SnapshotService.PriceMap(ctx, offset)
		if err != nil {
			return nil, nil, err
		}
		floats := map[string]float64{}
		for symbol, price := range prices {
			floats[symbol] = price.InexactFloat64()
		}
		priceMaps[offset] = floats
	}

	stockWindowReturns := map[string]*float64{}
	covered := []string{}
	for _, c := range candidates {
		if hasFullCoverage(c.Symbol, priceMaps, years) {
			entry := priceMaps[years][c.Symbol]
			exit := priceMaps[0][c.Symbol]
			ret := (exit - entry) / entry * 100
			stockWindowReturns[c.Symbol] = &ret
			covered = append(covered, c.Symbol)
		} else {
			stockWindowReturns[c.Symbol] = nil
		}
	}
	if len(covered) == 0 {
		return nil, nil, domain.InsufficientDataError{Err: fmt.Errorf("no selected stock has full price coverage over %d years", years)}
	}

	quarterReturns := []float64{}
	for offset := years; offset >= 1; offset-- {
		// constant quarterly growth per stock within the year
		quarterGrowth := map[string]float64{}
		for _, symbol := range covered {
			annualRatio := priceMaps[offset-1][symbol] / priceMaps[offset][symbol]
			quarterGrowth[symbol] = math.Pow(annualRatio, 1.0/quartersPerYear)
		}
		for q := 0; q < quartersPerYear; q++ {
			growths := []float64{}
			for _, symbol := range covered {
				growths = append(growths, quarterGrowth[symbol]-1)
			}
			blended, err := stats.Mean(growths)
			if err != nil {
				return nil, nil, domain.ComputationError{Err: err}
			}
			quarterReturns = append(quarterReturns, blended)
		}
	}

	cumulative := calculator.CompoundReturns(quarterReturns)

	return &WindowReturn{
		Years:               years,
		TotalReturnPct:      cumulative * 100,
		AnnualizedReturnPct: calculator.AnnualizedReturnPct(cumulative, years),
		ValidStocks:         len(covered),
	}, stockWindowReturns, nil
}

func hasFullCoverage(symbol string, priceMaps map[int]map[string]float64, years int) bool {
	for offset := years; offset >= 0; offset-- {
		if _, ok := priceMaps[offset][symbol]; !ok {
			return false
		}
	}
	return true
}
