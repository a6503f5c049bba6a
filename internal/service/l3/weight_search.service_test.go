package l3_service

import (
	"context"
	"testing"

	"stockscreener/internal/domain"

	"github.com/stretchr/testify/require"
)

// fakeAnnualRebalanceService scores each candidate by its roic weight,
// so the best candidate is known in advance.
type fakeAnnualRebalanceService struct{}

func (f fakeAnnualRebalanceService) ComputeReturns(ctx context.Context, weights domain.WeightVector) (MultiHorizonResult, error) {
	annualized := float64(weights.Weight(domain.Metric_Roic))
	return MultiHorizonResult{
		1: {
			Horizon:             1,
			AnnualizedReturnPct: annualized,
		},
		2: nil,
	}, nil
}

func Test_weightSearchServiceHandler_Search(t *testing.T) {
	ctx := context.Background()
	handler := NewWeightSearchService(fakeAnnualRebalanceService{})

	t.Run("picks the highest annualized return", func(t *testing.T) {
		result, err := handler.Search(ctx, []map[string]int{
			{"roic": 100},
			{"roic": 60, "peRatio": 40},
			{"peRatio": 100},
		}, 1)
		require.NoError(t, err)

		require.Len(t, result.Candidates, 3)
		require.NotNil(t, result.Best)
		require.Equal(t, map[string]int{"roic": 100}, result.Best.Weights)
		require.InDelta(t, 100, *result.Best.AnnualizedReturnPct, 1e-9)
	})

	t.Run("invalid candidates are reported, not fatal", func(t *testing.T) {
		result, err := handler.Search(ctx, []map[string]int{
			{"roic": 100},
			{"roic": 50}, // does not sum to 100
		}, 1)
		require.NoError(t, err)

		require.Len(t, result.Candidates, 2)
		for _, candidate := range result.Candidates {
			if candidate.AnnualizedReturnPct == nil {
				require.NotEmpty(t, candidate.Err)
			}
		}
	})

	t.Run("null horizon yields no result for the candidate", func(t *testing.T) {
		_, err := handler.Search(ctx, []map[string]int{{"roic": 100}}, 2)
		require.Error(t, err)
		require.ErrorAs(t, err, &domain.InsufficientDataError{})
	})

	t.Run("unknown horizon rejected", func(t *testing.T) {
		_, err := handler.Search(ctx, []map[string]int{{"roic": 100}}, 9)
		require.Error(t, err)
		require.ErrorAs(t, err, &domain.ConfigurationError{})
	})

	t.Run("empty candidate list rejected", func(t *testing.T) {
		_, err := handler.Search(ctx, nil, 1)
		require.Error(t, err)
		require.ErrorAs(t, err, &domain.ConfigurationError{})
	})

	t.Run("cancelled context returns instead of hanging", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		// workers racing cancellation may still finish the whole batch;
		// either way the call must come back
		result, err := handler.Search(cancelled, []map[string]int{
			{"roic": 100},
			{"roic": 60, "peRatio": 40},
			{"peRatio": 100},
		}, 1)
		if err != nil {
			require.ErrorAs(t, err, &domain.InsufficientDataError{})
		} else {
			require.NotNil(t, result.Best)
		}
	})
}
