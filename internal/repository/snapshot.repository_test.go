package repository

import (
	"testing"
	"time"

	"stockscreener/internal/db/models/postgres/public/model"
	"stockscreener/internal/util"

	"github.com/stretchr/testify/require"
)

func Test_upsertSnapshotsQuery(t *testing.T) {
	now := time.Now().UTC()
	models := []model.FactorSnapshot{
		{
			Symbol:    "AAPL",
			YearsAgo:  0,
			Price:     util.FloatPointer(189.2),
			Roic:      util.FloatPointer(55.9),
			UpdatedAt: &now,
		},
	}

	sql, args := upsertSnapshotsQuery(models).Sql()

	require.Contains(t, sql, "ON CONFLICT (symbol, years_ago)")
	require.Contains(t, sql, "DO UPDATE")
	for _, column := range []string{
		"price", "market_cap", "adtv", "price_to_sales", "sales_growth",
		"gf_score", "pe_ratio", "debt_to_equity", "operating_margin",
		"roic", "fcf_yield", "updated_at",
	} {
		require.Contains(t, sql, column+" = excluded."+column)
	}
	require.NotContains(t, sql, "symbol = excluded.symbol")
	require.Len(t, args, 14)
}

func Test_upsertTickersQuery(t *testing.T) {
	tickers := []model.Ticker{
		{Symbol: "AAPL", Name: "Apple Inc", Sector: "Technology"},
		{Symbol: "MSFT", Name: "Microsoft Corp", Sector: "Technology"},
	}

	sql, args := upsertTickersQuery(tickers).Sql()

	require.Contains(t, sql, "ON CONFLICT (symbol)")
	require.Contains(t, sql, "name = excluded.name")
	require.Contains(t, sql, "sector = excluded.sector")
	require.NotContains(t, sql, "symbol = excluded.symbol")
	require.Len(t, args, 6)
}
