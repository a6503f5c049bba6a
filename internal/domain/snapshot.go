package domain

// StockSnapshot holds the raw factor values for one symbol at a given
// lookback offset. YearsAgo 0 is the most recent snapshot. A nil value
// means the upstream data source had no figure for that metric; the
// core tolerates nils everywhere rather than rejecting the symbol.
type StockSnapshot struct {
	Symbol   string
	Name     string
	Sector   string
	YearsAgo int
	Price    *float64
	Metrics  map[Metric]*float64
}

func (s StockSnapshot) MetricValue(m Metric) *float64 {
	return s.Metrics[m]
}

// HasPrice reports whether the symbol is a valid backtest candidate for
// this offset.
func (s StockSnapshot) HasPrice() bool {
	return s.Price != nil
}

// RankedStock is a snapshot plus the per-metric ranks and combined score
// computed against one weight vector. Lower WeightedScore is better.
type RankedStock struct {
	StockSnapshot
	MetricRanks   map[Metric]int
	WeightedScore float64
	OverallRank   int
}
