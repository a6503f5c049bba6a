package calculator

import (
	"sort"

	"stockscreener/internal/domain"
)

// DenseRanks assigns ranks 1..N to the non-nil values of one metric
// across a snapshot, in favorability order for that metric. Identical
// raw values share a rank and the next distinct value takes the next
// integer (dense ranking, no gaps). Symbols with a nil value receive
// no rank at all.
func DenseRanks(snapshot []domain.StockSnapshot, metric domain.Metric) map[string]int {
	type entry struct {
		symbol string
		value  float64
	}

	entries := []entry{}
	for _, stock := range snapshot {
		if v := stock.MetricValue(metric); v != nil {
			entries = append(entries, entry{symbol: stock.Symbol, value: *v})
		}
	}

	betterThan := func(a, b float64) bool {
		if metric.Direction() == domain.LowerIsBetter {
			return a < b
		}
		return a > b
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].value != entries[j].value {
			return betterThan(entries[i].value, entries[j].value)
		}
		return entries[i].symbol < entries[j].symbol
	})

	ranks := map[string]int{}
	rank := 0
	for i, e := range entries {
		if i == 0 || e.value != entries[i-1].value {
			rank++
		}
		ranks[e.symbol] = rank
	}

	return ranks
}

// WeightedScore combines one symbol's per-metric ranks into a single
// scalar; lower is better. A symbol missing a rank for a weighted metric
// takes a penalty rank one worse than every ranked peer, so incomplete
// data is penalized but never disqualifying.
func WeightedScore(symbol string, weights domain.WeightVector, ranksByMetric map[domain.Metric]map[string]int) float64 {
	score := 0.0
	for _, metric := range weights.WeightedMetrics() {
		ranks := ranksByMetric[metric]
		rank, ok := ranks[symbol]
		if !ok {
			rank = len(ranks) + 1
		}
		score += float64(weights.Weight(metric)) / 100.0 * float64(rank)
	}
	return score
}

// SortByScore orders ranked stocks ascending by weighted score, ties
// broken by symbol, and assigns OverallRank positions starting at 1.
func SortByScore(stocks []domain.RankedStock) {
	sort.Slice(stocks, func(i, j int) bool {
		if stocks[i].WeightedScore != stocks[j].WeightedScore {
			return stocks[i].WeightedScore < stocks[j].WeightedScore
		}
		return stocks[i].Symbol < stocks[j].Symbol
	})
	for i := range stocks {
		stocks[i].OverallRank = i + 1
	}
}
