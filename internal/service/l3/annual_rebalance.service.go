package l3_service

import (
	"context"
	"errors"
	"fmt"

	"stockscreener/internal/calculator"
	"stockscreener/internal/domain"
	"stockscreener/internal/logger"
	l1_service "stockscreener/internal/service/l1"
	l2_service "stockscreener/internal/service/l2"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

const defaultPortfolioSize = 10

// AnnualRebalanceService simulates full annual turnover: every period
// the top ten ranking is recomputed from that period's snapshot, the
// held set is sold at that period's prices and the new top ten bought,
// equally weighted.
type AnnualRebalanceService interface {
	ComputeReturns(ctx context.Context, weights domain.WeightVector) (MultiHorizonResult, error)
}

type annualRebalanceServiceHandler struct {
	SnapshotService l1_service.SnapshotService
	RankingService  l2_service.RankingService
}

func NewAnnualRebalanceService(
	snapshotService l1_service.SnapshotService,
	rankingService l2_service.RankingService,
) AnnualRebalanceService {
	return annualRebalanceServiceHandler{
		SnapshotService: snapshotService,
		RankingService:  rankingService,
	}
}

func (h annualRebalanceServiceHandler) ComputeReturns(ctx context.Context, weights domain.WeightVector) (MultiHorizonResult, error) {
	log := logger.FromContext(ctx)

	out := MultiHorizonResult{}
	for _, horizon := range Horizons {
		result, err := h.computeHorizon(ctx, weights, horizon)
		if err != nil {
			if !horizonFailure(err) {
				return nil, fmt.Errorf("annual rebalance backtest failed on horizon %d: %w", horizon, err)
			}
			log.Warnf("annual rebalance horizon %d degraded to null: %v", horizon, err)
			out[horizon] = nil
			continue
		}
		out[horizon] = result
	}

	return out, nil
}

// horizonFailure reports whether the error should null out one horizon
// instead of failing the whole multi-horizon batch.
func horizonFailure(err error) bool {
	var dataUnavailable domain.DataUnavailableError
	var insufficientData domain.InsufficientDataError
	var computation domain.ComputationError
	return errors.As(err, &dataUnavailable) ||
		errors.As(err, &insufficientData) ||
		errors.As(err, &computation)
}

func (h annualRebalanceServiceHandler) computeHorizon(ctx context.Context, weights domain.WeightVector, horizon int) (*domain.BacktestResult, error) {
	value := domain.InceptionValue
	transactions := []domain.Transaction{}
	periodReturns := []float64{}
	shortfalls := []domain.PortfolioShortfall{}

	for offset := horizon; offset >= 1; offset-- {
		ranked, err := h.RankingService.RankUniverse(ctx, l2_service.RankUniverseInput{
			YearsAgo: offset,
			Weights:  weights,
		})
		if err != nil {
			return nil, err
		}

		candidates := topCandidatesWithPrices(ranked, defaultPortfolioSize)
		if len(candidates) == 0 {
			return nil, domain.InsufficientDataError{Err: fmt.Errorf("no priced candidates at offset %d", offset)}
		}
		if len(candidates) < defaultPortfolioSize {
			shortfalls = append(shortfalls, domain.PortfolioShortfall{
				YearsAgo:  offset,
				Requested: defaultPortfolioSize,
				Filled:    len(candidates),
			})
		}

		sellPrices, err := h.SnapshotService.PriceMap(ctx, offset-1)
		if err != nil {
			return nil, err
		}

		buys := make([]domain.TradeFill, 0, len(candidates))
		for _, c := range candidates {
			buyPrice := decimal.NewFromFloat(*c.Price)
			buys = append(buys, domain.TradeFill{
				Symbol:   c.Symbol,
				BuyPrice: &buyPrice,
			})
		}
		transactions = append(transactions, domain.BuyTransaction{
			TransactionHeader: domain.NewTransactionHeader(offset, value),
			Bought:            buys,
		})

		// blended period return: the equal-weight average over stocks
		// priced at both ends of the period
		stockReturns := []float64{}
		sells := make([]domain.TradeFill, 0, len(candidates))
		for _, c := range candidates {
			buyPrice := decimal.NewFromFloat(*c.Price)
			sellPrice, ok := sellPrices[c.Symbol]
			if !ok {
				continue
			}
			stockReturns = append(stockReturns, sellPrice.Sub(buyPrice).Div(buyPrice).InexactFloat64())
			sells = append(sells, domain.TradeFill{
				Symbol:    c.Symbol,
				BuyPrice:  &buyPrice,
				SellPrice: &sellPrice,
			})
		}
		if len(stockReturns) == 0 {
			return nil, domain.InsufficientDataError{Err: fmt.Errorf("no candidate priced at both offsets %d and %d", offset, offset-1)}
		}

		periodReturn, err := stats.Mean(stockReturns)
		if err != nil {
			return nil, domain.ComputationError{Err: err}
		}
		value, err = calculator.GrowValue(value, periodReturn)
		if err != nil {
			return nil, err
		}
		periodReturns = append(periodReturns, periodReturn)

		transactions = append(transactions, domain.SellAllTransaction{
			TransactionHeader: domain.NewTransactionHeader(offset-1, value),
			Sold:              sells,
		})
	}

	return buildBacktestResult(horizon, value, periodReturns, transactions, shortfalls)
}

// topCandidatesWithPrices walks the ranking in order and keeps the best
// n stocks that actually carry a price, under-filling when fewer exist.
func topCandidatesWithPrices(ranked []domain.RankedStock, n int) []domain.RankedStock {
	out := []domain.RankedStock{}
	for _, stock := range ranked {
		if !stock.HasPrice() {
			continue
		}
		out = append(out, stock)
		if len(out) == n {
			break
		}
	}
	return out
}
