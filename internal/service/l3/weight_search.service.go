package l3_service

import (
	"context"
	"fmt"
	"sync"

	"stockscreener/internal/domain"
	"stockscreener/internal/logger"
)

// WeightSearchCandidate pairs a raw weight map with the outcome of
// backtesting it.
type WeightSearchCandidate struct {
	Weights             map[string]int `json:"weights"`
	AnnualizedReturnPct *float64       `json:"annualizedReturnPct"`
	Err                 string         `json:"error,omitempty"`
}

type WeightSearchResult struct {
	Horizon    int                     `json:"horizon"`
	Best       *WeightSearchCandidate  `json:"best"`
	Candidates []WeightSearchCandidate `json:"candidates"`
}

// WeightSearchService backtests many weight vectors against the same
// snapshot set and reports the best performer. Invocations share no
// mutable state, so candidates run in parallel.
type WeightSearchService interface {
	Search(ctx context.Context, candidates []map[string]int, horizon int) (*WeightSearchResult, error)
}

type weightSearchServiceHandler struct {
	AnnualRebalanceService AnnualRebalanceService
}

func NewWeightSearchService(annualRebalanceService AnnualRebalanceService) WeightSearchService {
	return weightSearchServiceHandler{
		AnnualRebalanceService: annualRebalanceService,
	}
}

func (h weightSearchServiceHandler) Search(ctx context.Context, candidates []map[string]int, horizon int) (*WeightSearchResult, error) {
	if len(candidates) == 0 {
		return nil, domain.ConfigurationError{Err: fmt.Errorf("cannot search over 0 weight candidates")}
	}
	validHorizon := false
	for _, h := range Horizons {
		if h == horizon {
			validHorizon = true
		}
	}
	if !validHorizon {
		return nil, domain.ConfigurationError{Err: fmt.Errorf("horizon must be one of %v, got %d", Horizons, horizon)}
	}

	log := logger.FromContext(ctx)

	inputCh := make(chan map[string]int, len(candidates))
	resultCh := make(chan WeightSearchCandidate, len(candidates))
	var wg sync.WaitGroup
	for _, c := range candidates {
		wg.Add(1)
		inputCh <- c
	}
	close(inputCh)

	numGoroutines := 8
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
				case raw, ok := <-inputCh:
					if !ok {
						return
					}
					resultCh <- h.evaluate(ctx, raw, horizon)
					wg.Done()
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	out := &WeightSearchResult{Horizon: horizon}
	for res := range resultCh {
		out.Candidates = append(out.Candidates, res)
		if res.AnnualizedReturnPct == nil {
			log.Warnf("weight candidate %v produced no result: %s", res.Weights, res.Err)
			continue
		}
		if out.Best == nil || *res.AnnualizedReturnPct > *out.Best.AnnualizedReturnPct {
			best := res
			out.Best = &best
		}
	}
	if out.Best == nil {
		return nil, domain.InsufficientDataError{Err: fmt.Errorf("no weight candidate produced a %d year result", horizon)}
	}

	return out, nil
}

func (h weightSearchServiceHandler) evaluate(ctx context.Context, raw map[string]int, horizon int) WeightSearchCandidate {
	out := WeightSearchCandidate{Weights: raw}

	weights, err := domain.NewWeightVector(raw)
	if err != nil {
		out.Err = err.Error()
		return out
	}

	results, err := h.AnnualRebalanceService.ComputeReturns(ctx, weights)
	if err != nil {
		out.Err = err.Error()
		return out
	}
	result := results[horizon]
	if result == nil {
		out.Err = fmt.Sprintf("no data for %d year horizon", horizon)
		return out
	}

	out.AnnualizedReturnPct = &result.AnnualizedReturnPct
	return out
}
