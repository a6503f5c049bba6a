package l2_service

import (
	"context"
	"fmt"
	"sync"

	"stockscreener/internal/calculator"
	"stockscreener/internal/domain"
	l1_service "stockscreener/internal/service/l1"
)

// ScreenFilters optionally narrows the universe before ranking. Nil
// fields are no-ops.
type ScreenFilters struct {
	Sectors      []string
	MinMarketCap *float64
	MinAdtv      *float64
}

type RankUniverseInput struct {
	YearsAgo int
	Weights  domain.WeightVector
	// Limit truncates the ranking after overall ranks are assigned.
	// 0 means no truncation.
	Limit   int
	Filters *ScreenFilters
}

// RankingService turns a snapshot plus a weight vector into an ordered
// ranking. This is the selection rule used by the live screen and by
// every backtest strategy.
type RankingService interface {
	RankUniverse(ctx context.Context, in RankUniverseInput) ([]domain.RankedStock, error)
	RankSnapshot(ctx context.Context, snapshot []domain.StockSnapshot, weights domain.WeightVector, limit int) ([]domain.RankedStock, error)
	RankHistory(ctx context.Context, weights domain.WeightVector, yearsBack, limit int) (map[int]*HistoricalRanking, error)
}

type rankingServiceHandler struct {
	SnapshotService l1_service.SnapshotService
}

func NewRankingService(snapshotService l1_service.SnapshotService) RankingService {
	return rankingServiceHandler{
		SnapshotService: snapshotService,
	}
}

func (h rankingServiceHandler) RankUniverse(ctx context.Context, in RankUniverseInput) ([]domain.RankedStock, error) {
	snapshot, err := h.SnapshotService.Get(ctx, in.YearsAgo)
	if err != nil {
		return nil, err
	}

	if in.Filters != nil {
		snapshot = applyFilters(snapshot, *in.Filters)
	}

	return h.RankSnapshot(ctx, snapshot, in.Weights, in.Limit)
}

type rankWorkResult struct {
	Metric domain.Metric
	Ranks  map[string]int
}

func (h rankingServiceHandler) RankSnapshot(ctx context.Context, snapshot []domain.StockSnapshot, weights domain.WeightVector, limit int) ([]domain.RankedStock, error) {
	if len(snapshot) == 0 {
		return nil, domain.InsufficientDataError{Err: fmt.Errorf("cannot rank an empty snapshot")}
	}

	metrics := weights.WeightedMetrics()
	if len(metrics) == 0 {
		return nil, domain.ConfigurationError{Err: fmt.Errorf("no metric carries nonzero weight")}
	}

	// each metric's ranking is independent of the others, so fan the
	// per-metric sorts out over a small worker pool
	inputCh := make(chan domain.Metric, len(metrics))
	resultCh := make(chan rankWorkResult, len(metrics))
	var wg sync.WaitGroup
	for _, metric := range metrics {
		wg.Add(1)
		inputCh <- metric
	}
	close(inputCh)

	numGoroutines := 4
	for i := 0; i < numGoroutines; i++ {
		go func() {
			for {
				select {
				case <-ctx.Done():
					// release the counts for whatever is still queued
					// so the collector loop can terminate
					for range inputCh {
						wg.Done()
					}
					return
				case metric, ok := <-inputCh:
					if !ok {
						return
					}
					resultCh <- rankWorkResult{
						Metric: metric,
						Ranks:  calculator.DenseRanks(snapshot, metric),
					}
					wg.Done()
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	ranksByMetric := map[domain.Metric]map[string]int{}
	for res := range resultCh {
		ranksByMetric[res.Metric] = res.Ranks
	}
	if len(ranksByMetric) != len(metrics) {
		return nil, ctx.Err()
	}

	ranked := make([]domain.RankedStock, 0, len(snapshot))
	for _, stock := range snapshot {
		metricRanks := map[domain.Metric]int{}
		for _, metric := range metrics {
			if rank, ok := ranksByMetric[metric][stock.Symbol]; ok {
				metricRanks[metric] = rank
			}
		}
		ranked = append(ranked, domain.RankedStock{
			StockSnapshot: stock,
			MetricRanks:   metricRanks,
			WeightedScore: calculator.WeightedScore(stock.Symbol, weights, ranksByMetric),
		})
	}

	calculator.SortByScore(ranked)

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked, nil
}

func applyFilters(snapshot []domain.StockSnapshot, filters ScreenFilters) []domain.StockSnapshot {
	sectors := map[string]bool{}
	for _, s := range filters.Sectors {
		sectors[s] = true
	}

	out := []domain.StockSnapshot{}
	for _, stock := range snapshot {
		if len(sectors) > 0 && !sectors[stock.Sector] {
			continue
		}
		if filters.MinMarketCap != nil && belowFloor(stock.MetricValue(domain.Metric_MarketCap), *filters.MinMarketCap) {
			continue
		}
		if filters.MinAdtv != nil && belowFloor(stock.MetricValue(domain.Metric_Adtv), *filters.MinAdtv) {
			continue
		}
		out = append(out, stock)
	}

	return out
}

// belowFloor treats a missing value as failing the floor.
func belowFloor(value *float64, floor float64) bool {
	return value == nil || *value < floor
}
