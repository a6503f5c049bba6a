package api

import (
	"context"

	"stockscreener/internal/domain"

	"github.com/gin-gonic/gin"
)

type HoldWinnersBacktestRequest struct {
	Weights       map[string]int `json:"weights"`
	PortfolioSize int            `json:"portfolioSize"`
	KeepThreshold int            `json:"keepThreshold"`
}

type HoldWinnersBacktestResponse struct {
	Results map[int]*BacktestResultResponse `json:"results"`
}

func (m ApiHandler) holdWinnersBacktest(c *gin.Context) {
	ctx := context.Background()

	var requestBody HoldWinnersBacktestRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJson(domain.ConfigurationError{Err: err}, c)
		return
	}

	weights, err := domain.NewWeightVector(requestBody.Weights)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	result, err := m.HoldWinnersService.ComputeReturns(
		ctx,
		weights,
		requestBody.PortfolioSize,
		requestBody.KeepThreshold,
	)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, HoldWinnersBacktestResponse{
		Results: multiHorizonToResponse(result),
	})
}
