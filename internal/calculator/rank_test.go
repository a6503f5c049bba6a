package calculator

import (
	"testing"

	"stockscreener/internal/domain"
	"stockscreener/internal/util"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func snap(symbol string, metrics map[domain.Metric]*float64) domain.StockSnapshot {
	return domain.StockSnapshot{
		Symbol:  symbol,
		Metrics: metrics,
	}
}

func Test_DenseRanks(t *testing.T) {
	t.Run("higher is better", func(t *testing.T) {
		snapshot := []domain.StockSnapshot{
			snap("AAPL", map[domain.Metric]*float64{domain.Metric_Roic: util.FloatPointer(20)}),
			snap("GOOG", map[domain.Metric]*float64{domain.Metric_Roic: util.FloatPointer(10)}),
			snap("MSFT", map[domain.Metric]*float64{domain.Metric_Roic: util.FloatPointer(30)}),
		}

		ranks := DenseRanks(snapshot, domain.Metric_Roic)

		expected := map[string]int{
			"MSFT": 1,
			"AAPL": 2,
			"GOOG": 3,
		}
		require.Empty(t, cmp.Diff(expected, ranks))
	})

	t.Run("lower is better", func(t *testing.T) {
		snapshot := []domain.StockSnapshot{
			snap("AAPL", map[domain.Metric]*float64{domain.Metric_PeRatio: util.FloatPointer(25)}),
			snap("GOOG", map[domain.Metric]*float64{domain.Metric_PeRatio: util.FloatPointer(18)}),
			snap("MSFT", map[domain.Metric]*float64{domain.Metric_PeRatio: util.FloatPointer(32)}),
		}

		ranks := DenseRanks(snapshot, domain.Metric_PeRatio)

		expected := map[string]int{
			"GOOG": 1,
			"AAPL": 2,
			"MSFT": 3,
		}
		require.Empty(t, cmp.Diff(expected, ranks))
	})

	t.Run("ties share a rank with no gaps", func(t *testing.T) {
		snapshot := []domain.StockSnapshot{
			snap("AAPL", map[domain.Metric]*float64{domain.Metric_Roic: util.FloatPointer(20)}),
			snap("GOOG", map[domain.Metric]*float64{domain.Metric_Roic: util.FloatPointer(20)}),
			snap("MSFT", map[domain.Metric]*float64{domain.Metric_Roic: util.FloatPointer(10)}),
		}

		ranks := DenseRanks(snapshot, domain.Metric_Roic)

		expected := map[string]int{
			"AAPL": 1,
			"GOOG": 1,
			"MSFT": 2,
		}
		require.Empty(t, cmp.Diff(expected, ranks))
	})

	t.Run("nil values receive no rank", func(t *testing.T) {
		snapshot := []domain.StockSnapshot{
			snap("AAPL", map[domain.Metric]*float64{domain.Metric_Roic: util.FloatPointer(20)}),
			snap("GOOG", map[domain.Metric]*float64{domain.Metric_Roic: nil}),
			snap("MSFT", map[domain.Metric]*float64{}),
		}

		ranks := DenseRanks(snapshot, domain.Metric_Roic)

		expected := map[string]int{
			"AAPL": 1,
		}
		require.Empty(t, cmp.Diff(expected, ranks))
	})
}

func Test_WeightedScore(t *testing.T) {
	weights, err := domain.NewWeightVector(map[string]int{
		"roic":    50,
		"peRatio": 50,
	})
	require.NoError(t, err)

	ranksByMetric := map[domain.Metric]map[string]int{
		domain.Metric_Roic:    {"AAPL": 1, "GOOG": 2},
		domain.Metric_PeRatio: {"AAPL": 2, "GOOG": 1},
	}

	t.Run("weights blend ranks", func(t *testing.T) {
		require.InDelta(t, 1.5, WeightedScore("AAPL", weights, ranksByMetric), 1e-9)
		require.InDelta(t, 1.5, WeightedScore("GOOG", weights, ranksByMetric), 1e-9)
	})

	t.Run("missing rank takes one worse than every ranked peer", func(t *testing.T) {
		// MSFT has no rank on either metric; with 2 ranked peers the
		// penalty rank is 3 on each
		require.InDelta(t, 3.0, WeightedScore("MSFT", weights, ranksByMetric), 1e-9)
	})

	t.Run("uneven weights shift the blend", func(t *testing.T) {
		weights, err := domain.NewWeightVector(map[string]int{
			"roic":    80,
			"peRatio": 20,
		})
		require.NoError(t, err)

		// 0.8*1 + 0.2*2
		require.InDelta(t, 1.2, WeightedScore("AAPL", weights, ranksByMetric), 1e-9)
	})
}

func Test_SortByScore(t *testing.T) {
	t.Run("ascending by score, ties broken by symbol", func(t *testing.T) {
		stocks := []domain.RankedStock{
			{StockSnapshot: domain.StockSnapshot{Symbol: "MSFT"}, WeightedScore: 2},
			{StockSnapshot: domain.StockSnapshot{Symbol: "GOOG"}, WeightedScore: 1.5},
			{StockSnapshot: domain.StockSnapshot{Symbol: "AAPL"}, WeightedScore: 1.5},
		}

		SortByScore(stocks)

		require.Equal(t, "AAPL", stocks[0].Symbol)
		require.Equal(t, "GOOG", stocks[1].Symbol)
		require.Equal(t, "MSFT", stocks[2].Symbol)
		for i, stock := range stocks {
			require.Equal(t, i+1, stock.OverallRank)
		}
	})
}
