package l2_service

import (
	"context"
	"fmt"

	"stockscreener/internal/domain"
	l1_service "stockscreener/internal/service/l1"
)

// GarpThresholds are the numeric gates of the growth-at-a-reasonable-price
// screen. Nil fields skip that gate entirely. All bounds are inclusive.
type GarpThresholds struct {
	MaxPeRatio         *float64
	MaxDebtToEquity    *float64
	MinOperatingMargin *float64
	MinRoic            *float64
	MinFcfYield        *float64
	MinSalesGrowth     *float64
}

func (t GarpThresholds) Validate() error {
	if t.MaxPeRatio != nil && *t.MaxPeRatio <= 0 {
		return domain.ConfigurationError{Err: fmt.Errorf("maxPeRatio must be positive, got %f", *t.MaxPeRatio)}
	}
	if t.MaxDebtToEquity != nil && *t.MaxDebtToEquity < 0 {
		return domain.ConfigurationError{Err: fmt.Errorf("maxDebtToEquity must be >= 0, got %f", *t.MaxDebtToEquity)}
	}
	return nil
}

type GarpScreenInput struct {
	Weights    domain.WeightVector
	Thresholds GarpThresholds
	Limit      int
}

// GarpService runs the one-shot GARP screen against the current
// snapshot: threshold filters first, then a composite ranking over the
// survivors reusing the weighted-score mechanics.
type GarpService interface {
	ScreenGarp(ctx context.Context, in GarpScreenInput) ([]domain.RankedStock, error)
}

type garpServiceHandler struct {
	SnapshotService l1_service.SnapshotService
	RankingService  RankingService
}

func NewGarpService(snapshotService l1_service.SnapshotService, rankingService RankingService) GarpService {
	return garpServiceHandler{
		SnapshotService: snapshotService,
		RankingService:  rankingService,
	}
}

func (h garpServiceHandler) ScreenGarp(ctx context.Context, in GarpScreenInput) ([]domain.RankedStock, error) {
	if err := in.Thresholds.Validate(); err != nil {
		return nil, err
	}

	snapshot, err := h.SnapshotService.Get(ctx, 0)
	if err != nil {
		return nil, err
	}

	survivors := []domain.StockSnapshot{}
	for _, stock := range snapshot {
		if passesGarpThresholds(stock, in.Thresholds) {
			survivors = append(survivors, stock)
		}
	}
	if len(survivors) == 0 {
		return nil, domain.InsufficientDataError{Err: fmt.Errorf("no stock passed the garp thresholds")}
	}

	return h.RankingService.RankSnapshot(ctx, survivors, in.Weights, in.Limit)
}

// passesGarpThresholds applies each configured gate. A stock with no
// value for a gated metric fails that gate; unknowns are not given the
// benefit of the doubt in a quality screen.
func passesGarpThresholds(stock domain.StockSnapshot, t GarpThresholds) bool {
	type gate struct {
		value *float64
		bound *float64
		max   bool
	}
	gates := []gate{
		{stock.MetricValue(domain.Metric_PeRatio), t.MaxPeRatio, true},
		{stock.MetricValue(domain.Metric_DebtToEquity), t.MaxDebtToEquity, true},
		{stock.MetricValue(domain.Metric_OperatingMargin), t.MinOperatingMargin, false},
		{stock.MetricValue(domain.Metric_Roic), t.MinRoic, false},
		{stock.MetricValue(domain.Metric_FcfYield), t.MinFcfYield, false},
		{stock.MetricValue(domain.Metric_SalesGrowth), t.MinSalesGrowth, false},
	}

	for _, g := range gates {
		if g.bound == nil {
			continue
		}
		if g.value == nil {
			return false
		}
		if g.max && *g.value > *g.bound {
			return false
		}
		if !g.max && *g.value < *g.bound {
			return false
		}
	}

	return true
}
