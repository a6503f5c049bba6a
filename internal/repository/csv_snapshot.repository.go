package repository

import (
	"database/sql"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"stockscreener/internal/db/models/postgres/public/model"
	"stockscreener/internal/domain"

	"github.com/gocarina/gocsv"
)

// nullableFloat reads an empty cell as a missing value. gocsv fills
// plain float pointers with zero for empty cells, which would make a
// missing metric look like a real 0 to the ranking code.
type nullableFloat struct {
	value *float64
}

func (n *nullableFloat) UnmarshalCSV(cell string) error {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		n.value = nil
		return nil
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return fmt.Errorf("failed to parse float cell %q: %w", cell, err)
	}
	n.value = &f
	return nil
}

// csvSnapshotRow mirrors one row of a snapshot export file. Metric
// cells are nullable, matching the columns in the postgres cache.
type csvSnapshotRow struct {
	Symbol          string        `csv:"symbol"`
	Name            string        `csv:"name"`
	Sector          string        `csv:"sector"`
	YearsAgo        int           `csv:"years_ago"`
	Price           nullableFloat `csv:"price"`
	MarketCap       nullableFloat `csv:"market_cap"`
	Adtv            nullableFloat `csv:"adtv"`
	PriceToSales    nullableFloat `csv:"price_to_sales"`
	SalesGrowth     nullableFloat `csv:"sales_growth"`
	GfScore         nullableFloat `csv:"gf_score"`
	PeRatio         nullableFloat `csv:"pe_ratio"`
	DebtToEquity    nullableFloat `csv:"debt_to_equity"`
	OperatingMargin nullableFloat `csv:"operating_margin"`
	Roic            nullableFloat `csv:"roic"`
	FcfYield        nullableFloat `csv:"fcf_yield"`
}

// CsvSnapshotRepository serves snapshots from a single CSV export
// instead of postgres. Used by the script CLI to run screens and
// backtests offline against a checked-in data file.
type CsvSnapshotRepository struct {
	snapshots map[int][]domain.StockSnapshot
}

func NewCsvSnapshotRepository(path string) (*CsvSnapshotRepository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer f.Close()

	rows := []csvSnapshotRow{}
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot file %s: %w", path, err)
	}

	snapshots := map[int][]domain.StockSnapshot{}
	for _, row := range rows {
		snapshots[row.YearsAgo] = append(snapshots[row.YearsAgo], domain.StockSnapshot{
			Symbol:   row.Symbol,
			Name:     row.Name,
			Sector:   row.Sector,
			YearsAgo: row.YearsAgo,
			Price:    row.Price.value,
			Metrics: map[domain.Metric]*float64{
				domain.Metric_MarketCap:       row.MarketCap.value,
				domain.Metric_Adtv:            row.Adtv.value,
				domain.Metric_PriceToSales:    row.PriceToSales.value,
				domain.Metric_SalesGrowth:     row.SalesGrowth.value,
				domain.Metric_GfScore:         row.GfScore.value,
				domain.Metric_PeRatio:         row.PeRatio.value,
				domain.Metric_DebtToEquity:    row.DebtToEquity.value,
				domain.Metric_OperatingMargin: row.OperatingMargin.value,
				domain.Metric_Roic:            row.Roic.value,
				domain.Metric_FcfYield:        row.FcfYield.value,
			},
		})
	}
	for _, stocks := range snapshots {
		sort.Slice(stocks, func(i, j int) bool {
			return stocks[i].Symbol < stocks[j].Symbol
		})
	}

	return &CsvSnapshotRepository{snapshots: snapshots}, nil
}

func (r *CsvSnapshotRepository) GetSnapshot(yearsAgo int) ([]domain.StockSnapshot, error) {
	return r.snapshots[yearsAgo], nil
}

func (r *CsvSnapshotRepository) ListOffsets() ([]int, error) {
	offsets := []int{}
	for offset := range r.snapshots {
		offsets = append(offsets, offset)
	}
	sort.Ints(offsets)
	return offsets, nil
}

// AddMany is unsupported; CSV exports are read-only inputs.
func (r *CsvSnapshotRepository) AddMany(tx *sql.Tx, snapshots []model.FactorSnapshot) error {
	return fmt.Errorf("csv snapshot repository is read-only")
}
