package api

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"stockscreener/internal/domain"
	"stockscreener/internal/logger"
	l2_service "stockscreener/internal/service/l2"
	l3_service "stockscreener/internal/service/l3"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type ApiHandler struct {
	RankingService         l2_service.RankingService
	GarpService            l2_service.GarpService
	EqualWeightService     l3_service.EqualWeightService
	AnnualRebalanceService l3_service.AnnualRebalanceService
	HoldWinnersService     l3_service.HoldWinnersService
	WeightSearchService    l3_service.WeightSearchService
}

func (m ApiHandler) StartApi(port int) error {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(logRequestMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to stockscreener"})
	})
	router.POST("/screen", m.screen)
	router.POST("/garpScreen", m.garpScreen)
	router.POST("/historicalTopStocks", m.historicalTopStocks)
	router.POST("/backtest/equalWeight", m.equalWeightBacktest)
	router.POST("/backtest/annualRebalance", m.annualRebalanceBacktest)
	router.POST("/backtest/holdWinners", m.holdWinnersBacktest)
	router.POST("/weightSearch", m.weightSearch)

	return router.Run(fmt.Sprintf(":%d", port))
}

// returnErrorJson maps the core error taxonomy onto HTTP status codes.
// Bad inputs are the caller's fault, missing snapshots are a lookup
// miss, and thin data is a valid request the data cannot satisfy.
func returnErrorJson(err error, c *gin.Context) {
	logger.Error("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)

	code := 500
	var configurationErr domain.ConfigurationError
	var dataUnavailableErr domain.DataUnavailableError
	var insufficientDataErr domain.InsufficientDataError
	switch {
	case errors.As(err, &configurationErr):
		code = 400
	case errors.As(err, &dataUnavailableErr):
		code = 404
	case errors.As(err, &insufficientDataErr):
		code = 422
	}

	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r responseBodyWriter) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func logRequestMiddleware(ctx *gin.Context) {
	w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: ctx.Writer}
	ctx.Writer = w

	start := time.Now().UTC()
	ctx.Next()

	logger.Info(
		"%s %s %d %dms %db",
		ctx.Request.Method,
		ctx.Request.URL.Path,
		ctx.Writer.Status(),
		time.Since(start).Milliseconds(),
		w.body.Len(),
	)
}
