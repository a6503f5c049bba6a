package l3_service

import (
	"context"
	"testing"

	"stockscreener/internal/domain"
	l2_service "stockscreener/internal/service/l2"

	"github.com/stretchr/testify/require"
)

func Test_annualRebalanceServiceHandler_ComputeReturns(t *testing.T) {
	ctx := context.Background()

	// three symbols, each +10% in year 3->2, flat 2->1, +10% 1->0
	snapshotService := fakeSnapshotService{
		snapshots: map[int][]domain.StockSnapshot{
			3: {fixtureStock("AAA", 10, 30), fixtureStock("BBB", 20, 20), fixtureStock("CCC", 40, 10)},
			2: {fixtureStock("AAA", 11, 30), fixtureStock("BBB", 22, 20), fixtureStock("CCC", 44, 10)},
			1: {fixtureStock("AAA", 11, 30), fixtureStock("BBB", 22, 20), fixtureStock("CCC", 44, 10)},
			0: {fixtureStock("AAA", 12.1, 30), fixtureStock("BBB", 24.2, 20), fixtureStock("CCC", 48.4, 10)},
		},
	}
	handler := NewAnnualRebalanceService(snapshotService, l2_service.NewRankingService(snapshotService))

	results, err := handler.ComputeReturns(ctx, roicWeights())
	require.NoError(t, err)

	t.Run("every horizon keeps its key", func(t *testing.T) {
		require.Len(t, results, len(Horizons))
		for _, horizon := range Horizons {
			_, ok := results[horizon]
			require.True(t, ok, "horizon %d missing from result", horizon)
		}
	})

	t.Run("horizons beyond coverage degrade to null", func(t *testing.T) {
		require.Nil(t, results[4])
		require.Nil(t, results[5])
	})

	t.Run("single year compounding", func(t *testing.T) {
		result := results[1]
		require.NotNil(t, result)

		require.InDelta(t, 11000, result.FinalValue.InexactFloat64(), 0.01)
		require.InDelta(t, 10, result.TotalReturnPct, 1e-6)
		require.InDelta(t, 10, result.AnnualizedReturnPct, 1e-6)
	})

	t.Run("three year compounding", func(t *testing.T) {
		result := results[3]
		require.NotNil(t, result)

		// 10000 * 1.1 * 1.0 * 1.1
		require.InDelta(t, 12100, result.FinalValue.InexactFloat64(), 0.01)
		require.InDelta(t, 21, result.TotalReturnPct, 1e-6)
		// 1.21^(1/3) - 1
		require.InDelta(t, 6.5602, result.AnnualizedReturnPct, 1e-3)
	})

	t.Run("ledger alternates buy and sell-all", func(t *testing.T) {
		result := results[3]
		require.NotNil(t, result)

		require.Len(t, result.Transactions, 6)
		for i, transaction := range result.Transactions {
			if i%2 == 0 {
				require.Equal(t, domain.TransactionKind_Buy, transaction.Kind())
			} else {
				require.Equal(t, domain.TransactionKind_SellAll, transaction.Kind())
			}
		}

		// the first buy happens at the oldest offset with inception value
		header := result.Transactions[0].Header()
		require.Equal(t, 3, header.YearsAgo)
		require.True(t, header.PortfolioValue.Equal(domain.InceptionValue))
	})

	t.Run("thin universe records shortfalls", func(t *testing.T) {
		result := results[3]
		require.NotNil(t, result)

		require.Len(t, result.Shortfalls, 3)
		for _, shortfall := range result.Shortfalls {
			require.Equal(t, 10, shortfall.Requested)
			require.Equal(t, 3, shortfall.Filled)
		}
	})
}

func Test_annualRebalanceServiceHandler_missingSellPrices(t *testing.T) {
	ctx := context.Background()

	// DDD ranks first at offset 1 but vanishes from the offset 0
	// snapshot, so the blended return comes from AAA alone
	snapshotService := fakeSnapshotService{
		snapshots: map[int][]domain.StockSnapshot{
			1: {fixtureStock("AAA", 10, 20), fixtureStock("DDD", 10, 99)},
			0: {fixtureStock("AAA", 12.1, 20)},
		},
	}
	handler := NewAnnualRebalanceService(snapshotService, l2_service.NewRankingService(snapshotService))

	results, err := handler.ComputeReturns(ctx, roicWeights())
	require.NoError(t, err)

	result := results[1]
	require.NotNil(t, result)
	require.InDelta(t, 21, result.TotalReturnPct, 1e-6)

	// the sell leg only covers the symbol priced at both ends
	sellAll, ok := result.Transactions[1].(domain.SellAllTransaction)
	require.True(t, ok)
	require.Len(t, sellAll.Sold, 1)
	require.Equal(t, "AAA", sellAll.Sold[0].Symbol)
}

func Test_annualRebalanceServiceHandler_unpricedCandidates(t *testing.T) {
	ctx := context.Background()

	// EEE outranks everything but has no price, so it is skipped at
	// selection rather than bought
	snapshotService := fakeSnapshotService{
		snapshots: map[int][]domain.StockSnapshot{
			1: {unpricedStock("EEE", 99), fixtureStock("AAA", 10, 20)},
			0: {fixtureStock("AAA", 11, 20)},
		},
	}
	handler := NewAnnualRebalanceService(snapshotService, l2_service.NewRankingService(snapshotService))

	results, err := handler.ComputeReturns(ctx, roicWeights())
	require.NoError(t, err)

	result := results[1]
	require.NotNil(t, result)

	buy, ok := result.Transactions[0].(domain.BuyTransaction)
	require.True(t, ok)
	require.Len(t, buy.Bought, 1)
	require.Equal(t, "AAA", buy.Bought[0].Symbol)
}
