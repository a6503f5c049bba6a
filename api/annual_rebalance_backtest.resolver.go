package api

import (
	"context"

	"stockscreener/internal/domain"

	"github.com/gin-gonic/gin"
)

type AnnualRebalanceBacktestRequest struct {
	Weights map[string]int `json:"weights"`
}

type AnnualRebalanceBacktestResponse struct {
	Results map[int]*BacktestResultResponse `json:"results"`
}

func (m ApiHandler) annualRebalanceBacktest(c *gin.Context) {
	ctx := context.Background()

	var requestBody AnnualRebalanceBacktestRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJson(domain.ConfigurationError{Err: err}, c)
		return
	}

	weights, err := domain.NewWeightVector(requestBody.Weights)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	result, err := m.AnnualRebalanceService.ComputeReturns(ctx, weights)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, AnnualRebalanceBacktestResponse{
		Results: multiHorizonToResponse(result),
	})
}
