package api

import (
	"context"

	"stockscreener/internal/domain"

	"github.com/gin-gonic/gin"
)

type WeightSearchRequest struct {
	Candidates []map[string]int `json:"candidates"`
	Horizon    int              `json:"horizon"`
}

func (m ApiHandler) weightSearch(c *gin.Context) {
	ctx := context.Background()

	var requestBody WeightSearchRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJson(domain.ConfigurationError{Err: err}, c)
		return
	}

	result, err := m.WeightSearchService.Search(ctx, requestBody.Candidates, requestBody.Horizon)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, result)
}
