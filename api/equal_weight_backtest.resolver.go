package api

import (
	"context"

	"stockscreener/internal/domain"
	l3_service "stockscreener/internal/service/l3"

	"github.com/gin-gonic/gin"
)

type EqualWeightBacktestRequest struct {
	Weights   map[string]int `json:"weights"`
	NumStocks int            `json:"numStocks"`
}

func (m ApiHandler) equalWeightBacktest(c *gin.Context) {
	ctx := context.Background()

	var requestBody EqualWeightBacktestRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJson(domain.ConfigurationError{Err: err}, c)
		return
	}

	weights, err := domain.NewWeightVector(requestBody.Weights)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	numStocks := requestBody.NumStocks
	if numStocks == 0 {
		numStocks = 10
	}

	result, err := m.EqualWeightService.ComputeReturns(ctx, weights, numStocks)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	// the result types already carry wire tags; no reshaping needed
	c.JSON(200, struct {
		Portfolio map[int]*l3_service.WindowReturn `json:"portfolio"`
		Stocks    []l3_service.StockWindowReturn   `json:"stocks"`
	}{
		Portfolio: result.Portfolio,
		Stocks:    result.Stocks,
	})
}
