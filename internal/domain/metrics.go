package domain

import "fmt"

// Metric is one of the closed set of factors the screener understands.
type Metric string

const (
	Metric_MarketCap       Metric = "marketCap"
	Metric_Adtv            Metric = "adtv"
	Metric_PriceToSales    Metric = "priceToSales"
	Metric_SalesGrowth     Metric = "salesGrowth"
	Metric_GfScore         Metric = "gfScore"
	Metric_PeRatio         Metric = "peRatio"
	Metric_DebtToEquity    Metric = "debtToEquity"
	Metric_OperatingMargin Metric = "operatingMargin"
	Metric_Roic            Metric = "roic"
	Metric_FcfYield        Metric = "fcfYield"
)

// Metrics is every recognized metric in canonical order. Anything that
// iterates a weight vector follows this order so output is deterministic.
var Metrics = []Metric{
	Metric_MarketCap,
	Metric_Adtv,
	Metric_PriceToSales,
	Metric_SalesGrowth,
	Metric_GfScore,
	Metric_PeRatio,
	Metric_DebtToEquity,
	Metric_OperatingMargin,
	Metric_Roic,
	Metric_FcfYield,
}

type Direction int

const (
	// HigherIsBetter ranks the largest raw value 1.
	HigherIsBetter Direction = iota
	// LowerIsBetter ranks the smallest raw value 1.
	LowerIsBetter
)

// metricDirections is the one place favorability is pinned down. Valuation
// ratios rank low-to-high, everything else high-to-low.
var metricDirections = map[Metric]Direction{
	Metric_MarketCap:       HigherIsBetter,
	Metric_Adtv:            HigherIsBetter,
	Metric_PriceToSales:    LowerIsBetter,
	Metric_SalesGrowth:     HigherIsBetter,
	Metric_GfScore:         HigherIsBetter,
	Metric_PeRatio:         LowerIsBetter,
	Metric_DebtToEquity:    LowerIsBetter,
	Metric_OperatingMargin: HigherIsBetter,
	Metric_Roic:            HigherIsBetter,
	Metric_FcfYield:        HigherIsBetter,
}

func (m Metric) Direction() Direction {
	return metricDirections[m]
}

func (m Metric) Valid() bool {
	_, ok := metricDirections[m]
	return ok
}

// WeightVector maps metrics to integer weights summing to exactly 100.
// It can only be built through NewWeightVector, so holding one means the
// weights are already validated.
type WeightVector struct {
	weights map[Metric]int
}

func NewWeightVector(raw map[string]int) (WeightVector, error) {
	weights := map[Metric]int{}
	sum := 0
	for key, weight := range raw {
		metric := Metric(key)
		if !metric.Valid() {
			return WeightVector{}, ConfigurationError{fmt.Errorf("unknown metric %q", key)}
		}
		if weight < 0 || weight > 100 {
			return WeightVector{}, ConfigurationError{fmt.Errorf("weight for %s must be within [0, 100], got %d", key, weight)}
		}
		weights[metric] = weight
		sum += weight
	}
	if sum != 100 {
		return WeightVector{}, ConfigurationError{fmt.Errorf("weights must sum to 100, got %d", sum)}
	}

	return WeightVector{weights: weights}, nil
}

// Weight returns the configured weight for the metric. Metrics that were
// never set default to 0.
func (w WeightVector) Weight(m Metric) int {
	return w.weights[m]
}

// WeightedMetrics returns the metrics carrying nonzero weight, in
// canonical order.
func (w WeightVector) WeightedMetrics() []Metric {
	out := []Metric{}
	for _, m := range Metrics {
		if w.weights[m] > 0 {
			out = append(out, m)
		}
	}
	return out
}
