package l3_service

import (
	"context"
	"fmt"

	"stockscreener/internal/domain"
	"stockscreener/internal/logger"
	l1_service "stockscreener/internal/service/l1"
	l2_service "stockscreener/internal/service/l2"

	"github.com/shopspring/decimal"
)

// HoldWinnersService simulates partial turnover: winners stay in the
// portfolio as long as their recomputed overall rank is within the keep
// threshold; everything below it is replaced by the best-ranked stocks
// not already held. keepThreshold is independent of portfolioSize and
// may exceed it, widening the safety margin before replacement.
type HoldWinnersService interface {
	ComputeReturns(ctx context.Context, weights domain.WeightVector, portfolioSize, keepThreshold int) (MultiHorizonResult, error)
}

type holdWinnersServiceHandler struct {
	SnapshotService l1_service.SnapshotService
	RankingService  l2_service.RankingService
}

func NewHoldWinnersService(
	snapshotService l1_service.SnapshotService,
	rankingService l2_service.RankingService,
) HoldWinnersService {
	return holdWinnersServiceHandler{
		SnapshotService: snapshotService,
		RankingService:  rankingService,
	}
}

func (h holdWinnersServiceHandler) ComputeReturns(ctx context.Context, weights domain.WeightVector, portfolioSize, keepThreshold int) (MultiHorizonResult, error) {
	if portfolioSize < 1 {
		return nil, domain.ConfigurationError{Err: fmt.Errorf("portfolioSize must be >= 1, got %d", portfolioSize)}
	}
	if keepThreshold < 1 {
		return nil, domain.ConfigurationError{Err: fmt.Errorf("keepThreshold must be >= 1, got %d", keepThreshold)}
	}

	log := logger.FromContext(ctx)

	out := MultiHorizonResult{}
	for _, horizon := range Horizons {
		result, err := h.computeHorizon(ctx, weights, portfolioSize, keepThreshold, horizon)
		if err != nil {
			if !horizonFailure(err) {
				return nil, fmt.Errorf("hold-winners backtest failed on horizon %d: %w", horizon, err)
			}
			log.Warnf("hold-winners horizon %d degraded to null: %v", horizon, err)
			out[horizon] = nil
			continue
		}
		out[horizon] = result
	}

	return out, nil
}

func (h holdWinnersServiceHandler) computeHorizon(ctx context.Context, weights domain.WeightVector, portfolioSize, keepThreshold, horizon int) (*domain.BacktestResult, error) {
	transactions := []domain.Transaction{}
	periodReturns := []float64{}
	shortfalls := []domain.PortfolioShortfall{}

	// open the portfolio at the oldest offset
	ranked, err := h.RankingService.RankUniverse(ctx, l2_service.RankUniverseInput{
		YearsAgo: horizon,
		Weights:  weights,
	})
	if err != nil {
		return nil, err
	}
	candidates := topCandidatesWithPrices(ranked, portfolioSize)
	if len(candidates) == 0 {
		return nil, domain.InsufficientDataError{Err: fmt.Errorf("no priced candidates at offset %d", horizon)}
	}
	if len(candidates) < portfolioSize {
		shortfalls = append(shortfalls, domain.PortfolioShortfall{
			YearsAgo:  horizon,
			Requested: portfolioSize,
			Filled:    len(candidates),
		})
	}

	portfolio := domain.NewPortfolio()
	slice := portfolio.Value.Div(decimal.NewFromInt(int64(len(candidates))))
	buys := []domain.TradeFill{}
	for _, c := range candidates {
		price := decimal.NewFromFloat(*c.Price)
		portfolio.Holdings[c.Symbol] = &domain.Holding{
			Symbol:     c.Symbol,
			EntryPrice: price,
			Quantity:   slice.Div(price),
		}
		buyPrice := price
		buys = append(buys, domain.TradeFill{Symbol: c.Symbol, BuyPrice: &buyPrice})
	}
	transactions = append(transactions, domain.BuyTransaction{
		TransactionHeader: domain.NewTransactionHeader(horizon, portfolio.Value),
		Bought:            buys,
	})

	// walk forward one period at a time; each period's survivors depend
	// on the prior period's, so this loop is inherently sequential
	for offset := horizon - 1; offset >= 1; offset-- {
		ranked, err := h.RankingService.RankUniverse(ctx, l2_service.RankUniverseInput{
			YearsAgo: offset,
			Weights:  weights,
		})
		if err != nil {
			return nil, err
		}

		priceMap, err := h.SnapshotService.PriceMap(ctx, offset)
		if err != nil {
			return nil, err
		}

		value := portfolio.TotalValue(priceMap)
		if value.IsZero() {
			return nil, domain.ComputationError{Err: fmt.Errorf("portfolio value hit zero at offset %d", offset)}
		}
		periodReturns = append(periodReturns, value.Sub(portfolio.Value).Div(portfolio.Value).InexactFloat64())

		rankBySymbol := map[string]int{}
		for _, stock := range ranked {
			rankBySymbol[stock.Symbol] = stock.OverallRank
		}

		kept := []string{}
		sold := []domain.TradeFill{}
		for _, symbol := range portfolio.HeldSymbols() {
			rank, inRanking := rankBySymbol[symbol]
			if inRanking && rank <= keepThreshold {
				kept = append(kept, symbol)
				continue
			}
			holding := portfolio.Holdings[symbol]
			sellPrice, ok := priceMap[symbol]
			if !ok {
				// no current price, exit at cost
				sellPrice = holding.EntryPrice
			}
			buyPrice := holding.EntryPrice
			sold = append(sold, domain.TradeFill{
				Symbol:    symbol,
				BuyPrice:  &buyPrice,
				SellPrice: &sellPrice,
			})
			delete(portfolio.Holdings, symbol)
		}

		bought := []domain.TradeFill{}
		for _, stock := range ranked {
			if len(portfolio.Holdings) >= portfolioSize {
				break
			}
			if _, held := portfolio.Holdings[stock.Symbol]; held || !stock.HasPrice() {
				continue
			}
			price := decimal.NewFromFloat(*stock.Price)
			portfolio.Holdings[stock.Symbol] = &domain.Holding{
				Symbol:     stock.Symbol,
				EntryPrice: price,
				Quantity:   decimal.Zero, // reassigned below
			}
			buyPrice := price
			bought = append(bought, domain.TradeFill{Symbol: stock.Symbol, BuyPrice: &buyPrice})
		}

		if len(portfolio.Holdings) == 0 {
			return nil, domain.InsufficientDataError{Err: fmt.Errorf("no priced candidates at offset %d", offset)}
		}
		if len(portfolio.Holdings) < portfolioSize {
			shortfalls = append(shortfalls, domain.PortfolioShortfall{
				YearsAgo:  offset,
				Requested: portfolioSize,
				Filled:    len(portfolio.Holdings),
			})
		}

		// re-equalize weights across the surviving set; kept holdings
		// retain their original entry price so the final sell still
		// reports realized returns against cost
		slice := value.Div(decimal.NewFromInt(int64(len(portfolio.Holdings))))
		for symbol, holding := range portfolio.Holdings {
			price, ok := priceMap[symbol]
			if !ok {
				price = holding.EntryPrice
			}
			holding.Quantity = slice.Div(price)
		}
		portfolio.Value = value

		transactions = append(transactions, domain.RebalanceTransaction{
			TransactionHeader: domain.NewTransactionHeader(offset, value),
			Kept:              kept,
			Sold:              sold,
			Bought:            bought,
		})
	}

	// close out everything at the most recent prices
	finalPrices, err := h.SnapshotService.PriceMap(ctx, 0)
	if err != nil {
		return nil, err
	}
	finalValue := portfolio.TotalValue(finalPrices)
	if finalValue.IsZero() {
		return nil, domain.ComputationError{Err: fmt.Errorf("portfolio value hit zero at final offset")}
	}
	periodReturns = append(periodReturns, finalValue.Sub(portfolio.Value).Div(portfolio.Value).InexactFloat64())

	finalSells := []domain.TradeFill{}
	for _, symbol := range portfolio.HeldSymbols() {
		holding := portfolio.Holdings[symbol]
		sellPrice, ok := finalPrices[symbol]
		if !ok {
			sellPrice = holding.EntryPrice
		}
		buyPrice := holding.EntryPrice
		finalSells = append(finalSells, domain.TradeFill{
			Symbol:    symbol,
			BuyPrice:  &buyPrice,
			SellPrice: &sellPrice,
		})
	}
	transactions = append(transactions, domain.SellAllTransaction{
		TransactionHeader: domain.NewTransactionHeader(0, finalValue),
		Sold:              finalSells,
	})

	return buildBacktestResult(horizon, finalValue, periodReturns, transactions, shortfalls)
}
