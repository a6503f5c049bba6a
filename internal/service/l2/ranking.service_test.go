package l2_service

import (
	"context"
	"testing"

	"stockscreener/internal/domain"
	"stockscreener/internal/util"

	"github.com/stretchr/testify/require"
)

func Test_rankingServiceHandler_RankUniverse(t *testing.T) {
	ctx := context.Background()

	weights, err := domain.NewWeightVector(map[string]int{
		"peRatio": 50,
		"roic":    50,
	})
	require.NoError(t, err)

	snapshotService := fakeSnapshotService{
		snapshots: map[int][]domain.StockSnapshot{
			0: {
				fixtureStock("AAPL", "Technology", util.FloatPointer(180), map[domain.Metric]*float64{
					domain.Metric_PeRatio: util.FloatPointer(28),
					domain.Metric_Roic:    util.FloatPointer(40),
				}),
				fixtureStock("GOOG", "Technology", util.FloatPointer(140), map[domain.Metric]*float64{
					domain.Metric_PeRatio: util.FloatPointer(22),
					domain.Metric_Roic:    util.FloatPointer(25),
				}),
				fixtureStock("XOM", "Energy", util.FloatPointer(110), map[domain.Metric]*float64{
					domain.Metric_PeRatio: util.FloatPointer(12),
					domain.Metric_Roic:    util.FloatPointer(10),
				}),
			},
		},
	}
	handler := NewRankingService(snapshotService)

	t.Run("orders by weighted score", func(t *testing.T) {
		ranked, err := handler.RankUniverse(ctx, RankUniverseInput{
			YearsAgo: 0,
			Weights:  weights,
		})
		require.NoError(t, err)
		require.Len(t, ranked, 3)

		// peRatio ranks: XOM 1, GOOG 2, AAPL 3
		// roic ranks:    AAPL 1, GOOG 2, XOM 3
		// scores: AAPL 2.0, GOOG 2.0, XOM 2.0 -> symbol tie-break
		require.Equal(t, "AAPL", ranked[0].Symbol)
		require.Equal(t, "GOOG", ranked[1].Symbol)
		require.Equal(t, "XOM", ranked[2].Symbol)
		for i, stock := range ranked {
			require.Equal(t, i+1, stock.OverallRank)
			require.InDelta(t, 2.0, stock.WeightedScore, 1e-9)
		}
	})

	t.Run("per-metric ranks are exposed", func(t *testing.T) {
		ranked, err := handler.RankUniverse(ctx, RankUniverseInput{
			YearsAgo: 0,
			Weights:  weights,
		})
		require.NoError(t, err)

		bySymbol := map[string]domain.RankedStock{}
		for _, stock := range ranked {
			bySymbol[stock.Symbol] = stock
		}
		require.Equal(t, 3, bySymbol["AAPL"].MetricRanks[domain.Metric_PeRatio])
		require.Equal(t, 1, bySymbol["AAPL"].MetricRanks[domain.Metric_Roic])
		require.Equal(t, 1, bySymbol["XOM"].MetricRanks[domain.Metric_PeRatio])
	})

	t.Run("limit truncates after ranking", func(t *testing.T) {
		ranked, err := handler.RankUniverse(ctx, RankUniverseInput{
			YearsAgo: 0,
			Weights:  weights,
			Limit:    2,
		})
		require.NoError(t, err)

		require.Len(t, ranked, 2)
		require.Equal(t, "AAPL", ranked[0].Symbol)
	})

	t.Run("sector filter narrows before ranking", func(t *testing.T) {
		ranked, err := handler.RankUniverse(ctx, RankUniverseInput{
			YearsAgo: 0,
			Weights:  weights,
			Filters:  &ScreenFilters{Sectors: []string{"Energy"}},
		})
		require.NoError(t, err)

		require.Len(t, ranked, 1)
		require.Equal(t, "XOM", ranked[0].Symbol)
		require.Equal(t, 1, ranked[0].OverallRank)
	})

	t.Run("cancelled context returns instead of hanging", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		// workers racing cancellation may still finish the whole batch;
		// either way the call must come back
		ranked, err := handler.RankUniverse(cancelled, RankUniverseInput{
			YearsAgo: 0,
			Weights:  weights,
		})
		if err != nil {
			require.ErrorIs(t, err, context.Canceled)
		} else {
			require.Len(t, ranked, 3)
		}
	})

	t.Run("missing value fails a floor filter", func(t *testing.T) {
		snapshotService := fakeSnapshotService{
			snapshots: map[int][]domain.StockSnapshot{
				0: {
					fixtureStock("AAPL", "Technology", util.FloatPointer(180), map[domain.Metric]*float64{
						domain.Metric_MarketCap: util.FloatPointer(2.8e12),
						domain.Metric_Roic:      util.FloatPointer(40),
					}),
					fixtureStock("GOOG", "Technology", util.FloatPointer(140), map[domain.Metric]*float64{
						domain.Metric_Roic: util.FloatPointer(25),
					}),
				},
			},
		}
		handler := NewRankingService(snapshotService)
		weights, err := domain.NewWeightVector(map[string]int{"roic": 100})
		require.NoError(t, err)

		ranked, err := handler.RankUniverse(ctx, RankUniverseInput{
			YearsAgo: 0,
			Weights:  weights,
			Filters:  &ScreenFilters{MinMarketCap: util.FloatPointer(1e12)},
		})
		require.NoError(t, err)

		require.Len(t, ranked, 1)
		require.Equal(t, "AAPL", ranked[0].Symbol)
	})

	t.Run("missing offset propagates data unavailable", func(t *testing.T) {
		_, err := handler.RankUniverse(ctx, RankUniverseInput{
			YearsAgo: 7,
			Weights:  weights,
		})
		require.Error(t, err)
		require.ErrorAs(t, err, &domain.DataUnavailableError{})
	})
}

func Test_rankingServiceHandler_RankSnapshot(t *testing.T) {
	ctx := context.Background()
	handler := NewRankingService(fakeSnapshotService{})

	weights, err := domain.NewWeightVector(map[string]int{"roic": 100})
	require.NoError(t, err)

	t.Run("empty snapshot is insufficient data", func(t *testing.T) {
		_, err := handler.RankSnapshot(ctx, nil, weights, 0)
		require.Error(t, err)
		require.ErrorAs(t, err, &domain.InsufficientDataError{})
	})

	t.Run("zero weight vector rejected", func(t *testing.T) {
		snapshot := []domain.StockSnapshot{
			fixtureStock("AAPL", "Technology", util.FloatPointer(180), nil),
		}
		_, err := handler.RankSnapshot(ctx, snapshot, domain.WeightVector{}, 0)
		require.Error(t, err)
		require.ErrorAs(t, err, &domain.ConfigurationError{})
	})

	t.Run("unranked symbol lands last via penalty", func(t *testing.T) {
		snapshot := []domain.StockSnapshot{
			fixtureStock("AAPL", "Technology", util.FloatPointer(180), map[domain.Metric]*float64{
				domain.Metric_Roic: util.FloatPointer(40),
			}),
			fixtureStock("GOOG", "Technology", util.FloatPointer(140), map[domain.Metric]*float64{
				domain.Metric_Roic: util.FloatPointer(25),
			}),
			fixtureStock("ZZZZ", "Technology", util.FloatPointer(5), nil),
		}

		ranked, err := handler.RankSnapshot(ctx, snapshot, weights, 0)
		require.NoError(t, err)

		require.Equal(t, "ZZZZ", ranked[2].Symbol)
		// 2 ranked peers, so the penalty rank is 3
		require.InDelta(t, 3.0, ranked[2].WeightedScore, 1e-9)
	})
}
