package api

import (
	"context"

	"stockscreener/internal/domain"
	l2_service "stockscreener/internal/service/l2"

	"github.com/gin-gonic/gin"
)

type GarpScreenRequest struct {
	Weights    map[string]int `json:"weights"`
	Limit      int            `json:"limit"`
	Thresholds struct {
		MaxPeRatio         *float64 `json:"maxPeRatio"`
		MaxDebtToEquity    *float64 `json:"maxDebtToEquity"`
		MinOperatingMargin *float64 `json:"minOperatingMargin"`
		MinRoic            *float64 `json:"minRoic"`
		MinFcfYield        *float64 `json:"minFcfYield"`
		MinSalesGrowth     *float64 `json:"minSalesGrowth"`
	} `json:"thresholds"`
}

type GarpScreenResponse struct {
	Stocks []RankedStockResponse `json:"stocks"`
}

func (m ApiHandler) garpScreen(c *gin.Context) {
	ctx := context.Background()

	var requestBody GarpScreenRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJson(domain.ConfigurationError{Err: err}, c)
		return
	}

	weights, err := domain.NewWeightVector(requestBody.Weights)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	ranked, err := m.GarpService.ScreenGarp(ctx, l2_service.GarpScreenInput{
		Weights: weights,
		Thresholds: l2_service.GarpThresholds{
			MaxPeRatio:         requestBody.Thresholds.MaxPeRatio,
			MaxDebtToEquity:    requestBody.Thresholds.MaxDebtToEquity,
			MinOperatingMargin: requestBody.Thresholds.MinOperatingMargin,
			MinRoic:            requestBody.Thresholds.MinRoic,
			MinFcfYield:        requestBody.Thresholds.MinFcfYield,
			MinSalesGrowth:     requestBody.Thresholds.MinSalesGrowth,
		},
		Limit: requestBody.Limit,
	})
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, GarpScreenResponse{
		Stocks: rankedStocksToResponse(ranked),
	})
}
