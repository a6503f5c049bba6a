package l2_service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"stockscreener/internal/domain"
	"stockscreener/internal/logger"
)

// HistoricalRanking is the top of the ranking as it would have looked at
// one lookback offset.
type HistoricalRanking struct {
	YearsAgo int                  `json:"yearsAgo"`
	Stocks   []domain.RankedStock `json:"stocks"`
}

// RankHistory recomputes the ranking for every offset from 0 back to
// yearsBack. Offsets with no snapshot produce an explicit nil entry; the
// key is never dropped, so callers can tell how far coverage reaches.
func (h rankingServiceHandler) RankHistory(ctx context.Context, weights domain.WeightVector, yearsBack, limit int) (map[int]*HistoricalRanking, error) {
	if yearsBack < 0 {
		return nil, domain.ConfigurationError{Err: fmt.Errorf("yearsBack must be >= 0, got %d", yearsBack)}
	}

	log := logger.FromContext(ctx)

	type offsetResult struct {
		yearsAgo int
		ranking  *HistoricalRanking
		err      error
	}

	// offsets are independent, rank them concurrently
	resultCh := make(chan offsetResult, yearsBack+1)
	var wg sync.WaitGroup
	for offset := 0; offset <= yearsBack; offset++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			stocks, err := h.RankUniverse(ctx, RankUniverseInput{
				YearsAgo: offset,
				Weights:  weights,
				Limit:    limit,
			})
			if err != nil {
				resultCh <- offsetResult{yearsAgo: offset, err: err}
				return
			}
			resultCh <- offsetResult{yearsAgo: offset, ranking: &HistoricalRanking{
				YearsAgo: offset,
				Stocks:   stocks,
			}}
		}(offset)
	}
	wg.Wait()
	close(resultCh)

	out := map[int]*HistoricalRanking{}
	for res := range resultCh {
		if res.err != nil {
			var dataUnavailable domain.DataUnavailableError
			var insufficientData domain.InsufficientDataError
			if !errors.As(res.err, &dataUnavailable) && !errors.As(res.err, &insufficientData) {
				return nil, fmt.Errorf("failed to rank offset %d: %w", res.yearsAgo, res.err)
			}
			log.Warnf("no ranking for offset %d: %v", res.yearsAgo, res.err)
			out[res.yearsAgo] = nil
			continue
		}
		out[res.yearsAgo] = res.ranking
	}

	return out, nil
}
