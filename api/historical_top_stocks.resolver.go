package api

import (
	"context"

	"stockscreener/internal/domain"

	"github.com/gin-gonic/gin"
)

type HistoricalTopStocksRequest struct {
	Weights   map[string]int `json:"weights"`
	YearsBack int            `json:"yearsBack"`
	Limit     int            `json:"limit"`
}

type HistoricalRankingResponse struct {
	YearsAgo int                   `json:"yearsAgo"`
	Stocks   []RankedStockResponse `json:"stocks"`
}

type HistoricalTopStocksResponse struct {
	// Rankings keeps a key per requested offset; a null value marks an
	// offset whose snapshot is missing or too thin to rank.
	Rankings map[int]*HistoricalRankingResponse `json:"rankings"`
}

func (m ApiHandler) historicalTopStocks(c *gin.Context) {
	ctx := context.Background()

	var requestBody HistoricalTopStocksRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJson(domain.ConfigurationError{Err: err}, c)
		return
	}

	weights, err := domain.NewWeightVector(requestBody.Weights)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	history, err := m.RankingService.RankHistory(ctx, weights, requestBody.YearsBack, requestBody.Limit)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	rankings := map[int]*HistoricalRankingResponse{}
	for yearsAgo, ranking := range history {
		if ranking == nil {
			rankings[yearsAgo] = nil
			continue
		}
		rankings[yearsAgo] = &HistoricalRankingResponse{
			YearsAgo: ranking.YearsAgo,
			Stocks:   rankedStocksToResponse(ranking.Stocks),
		}
	}

	c.JSON(200, HistoricalTopStocksResponse{
		Rankings: rankings,
	})
}
