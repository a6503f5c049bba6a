package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_NewWeightVector(t *testing.T) {
	t.Run("valid weights", func(t *testing.T) {
		weights, err := NewWeightVector(map[string]int{
			"peRatio":   40,
			"roic":      35,
			"marketCap": 25,
		})
		require.NoError(t, err)
		require.Equal(t, 40, weights.Weight(Metric_PeRatio))
		require.Equal(t, 35, weights.Weight(Metric_Roic))
		require.Equal(t, 0, weights.Weight(Metric_FcfYield))
	})

	t.Run("unknown metric", func(t *testing.T) {
		_, err := NewWeightVector(map[string]int{"sharpeRatio": 100})
		require.Error(t, err)
		require.ErrorAs(t, err, &ConfigurationError{})
	})

	t.Run("weights must sum to 100", func(t *testing.T) {
		_, err := NewWeightVector(map[string]int{"peRatio": 40, "roic": 40})
		require.Error(t, err)
		require.ErrorAs(t, err, &ConfigurationError{})
	})

	t.Run("negative weight", func(t *testing.T) {
		_, err := NewWeightVector(map[string]int{"peRatio": -10, "roic": 110})
		require.Error(t, err)
		require.ErrorAs(t, err, &ConfigurationError{})
	})

	t.Run("single metric may take the full budget", func(t *testing.T) {
		weights, err := NewWeightVector(map[string]int{"gfScore": 100})
		require.NoError(t, err)
		require.Equal(t, []Metric{Metric_GfScore}, weights.WeightedMetrics())
	})
}

func Test_WeightedMetrics(t *testing.T) {
	t.Run("nonzero weights in canonical order", func(t *testing.T) {
		weights, err := NewWeightVector(map[string]int{
			"fcfYield":  30,
			"marketCap": 30,
			"peRatio":   40,
			"adtv":      0,
		})
		require.NoError(t, err)

		require.Equal(t, []Metric{Metric_MarketCap, Metric_PeRatio, Metric_FcfYield}, weights.WeightedMetrics())
	})
}

func Test_MetricDirections(t *testing.T) {
	t.Run("valuation ratios rank low to high", func(t *testing.T) {
		require.Equal(t, LowerIsBetter, Metric_PeRatio.Direction())
		require.Equal(t, LowerIsBetter, Metric_PriceToSales.Direction())
		require.Equal(t, LowerIsBetter, Metric_DebtToEquity.Direction())
	})

	t.Run("everything else ranks high to low", func(t *testing.T) {
		for _, m := range []Metric{Metric_MarketCap, Metric_Adtv, Metric_SalesGrowth, Metric_GfScore, Metric_OperatingMargin, Metric_Roic, Metric_FcfYield} {
			require.Equal(t, HigherIsBetter, m.Direction(), "metric %s", m)
		}
	})

	t.Run("unknown metrics are invalid", func(t *testing.T) {
		require.False(t, Metric("sharpeRatio").Valid())
		require.True(t, Metric_Roic.Valid())
	})
}
