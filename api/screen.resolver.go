package api

import (
	"context"

	"stockscreener/internal/domain"
	l2_service "stockscreener/internal/service/l2"

	"github.com/gin-gonic/gin"
)

type ScreenRequest struct {
	Weights  map[string]int `json:"weights"`
	YearsAgo int            `json:"yearsAgo"`
	Limit    int            `json:"limit"`
	Filters  *struct {
		Sectors      []string `json:"sectors"`
		MinMarketCap *float64 `json:"minMarketCap"`
		MinAdtv      *float64 `json:"minAdtv"`
	} `json:"filters"`
}

type ScreenResponse struct {
	YearsAgo int                   `json:"yearsAgo"`
	Stocks   []RankedStockResponse `json:"stocks"`
}

type RankedStockResponse struct {
	Symbol        string              `json:"symbol"`
	Name          string              `json:"name"`
	Sector        string              `json:"sector"`
	Price         *float64            `json:"price"`
	MetricValues  map[string]*float64 `json:"metricValues"`
	MetricRanks   map[string]int      `json:"metricRanks"`
	WeightedScore float64             `json:"weightedScore"`
	OverallRank   int                 `json:"overallRank"`
}

func (m ApiHandler) screen(c *gin.Context) {
	ctx := context.Background()

	var requestBody ScreenRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJson(domain.ConfigurationError{Err: err}, c)
		return
	}

	weights, err := domain.NewWeightVector(requestBody.Weights)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	in := l2_service.RankUniverseInput{
		YearsAgo: requestBody.YearsAgo,
		Weights:  weights,
		Limit:    requestBody.Limit,
	}
	if requestBody.Filters != nil {
		in.Filters = &l2_service.ScreenFilters{
			Sectors:      requestBody.Filters.Sectors,
			MinMarketCap: requestBody.Filters.MinMarketCap,
			MinAdtv:      requestBody.Filters.MinAdtv,
		}
	}

	ranked, err := m.RankingService.RankUniverse(ctx, in)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, ScreenResponse{
		YearsAgo: requestBody.YearsAgo,
		Stocks:   rankedStocksToResponse(ranked),
	})
}

func rankedStocksToResponse(ranked []domain.RankedStock) []RankedStockResponse {
	out := make([]RankedStockResponse, 0, len(ranked))
	for _, stock := range ranked {
		values := map[string]*float64{}
		for metric, value := range stock.Metrics {
			values[string(metric)] = value
		}
		ranks := map[string]int{}
		for metric, rank := range stock.MetricRanks {
			ranks[string(metric)] = rank
		}
		out = append(out, RankedStockResponse{
			Symbol:        stock.Symbol,
			Name:          stock.Name,
			Sector:        stock.Sector,
			Price:         stock.Price,
			MetricValues:  values,
			MetricRanks:   ranks,
			WeightedScore: stock.WeightedScore,
			OverallRank:   stock.OverallRank,
		})
	}
	return out
}
