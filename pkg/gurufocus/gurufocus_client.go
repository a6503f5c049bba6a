package gurufocus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stockscreener/internal/logger"

	"golang.org/x/time/rate"
)

// Client talks to the GuruFocus stock summary API. Requests are rate
// limited client-side; the API also throttles with 429s, which we back
// off from and retry.
type Client struct {
	HttpClient *http.Client
	ApiKey     string
	Limiter    *rate.Limiter
}

func NewClient(apiKey string, requestsPerMinute int) *Client {
	return &Client{
		HttpClient: http.DefaultClient,
		ApiKey:     apiKey,
		Limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
	}
}

type General struct {
	Company string   `json:"company"`
	Sector  string   `json:"sector"`
	Price   *float64 `json:"price"`
	GfScore *float64 `json:"gf_score"`
	MktCap  *float64 `json:"mktcap"`
	Adtv    *float64 `json:"avg_volume_dollars"`
}

type Ratio struct {
	PeRatio         *float64 `json:"pe"`
	PsRatio         *float64 `json:"ps"`
	DebtToEquity    *float64 `json:"debt2equity"`
	OperatingMargin *float64 `json:"operating_margin"`
	Roic            *float64 `json:"roic"`
	FcfYield        *float64 `json:"fcf_yield"`
}

type Growth struct {
	RevenueGrowth3Y *float64 `json:"revenue_growth_3y"`
}

type StockSummary struct {
	Summary struct {
		General General `json:"general"`
		Ratio   Ratio   `json:"ratio"`
		Growth  Growth  `json:"growth"`
	} `json:"summary"`
}

func (c *Client) GetStockSummary(ctx context.Context, symbol string) (*StockSummary, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("https://api.gurufocus.com/public/user/%s/stock/%s/summary", c.ApiKey, symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	response, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	responseBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("received status code %d and failed to read body: %w", response.StatusCode, err)
	}

	if response.StatusCode == 429 {
		logger.Debug("hit rate limit fetching %s. sleeping...", symbol)
		time.Sleep(60 * time.Second)
		return c.GetStockSummary(ctx, symbol)
	} else if response.StatusCode != 200 {
		type errResponse struct {
			Error string `json:"error"`
		}
		errJson := errResponse{}
		err = json.Unmarshal(responseBytes, &errJson)
		if err != nil {
			return nil, fmt.Errorf("received status code %d and failed to read error: %w", response.StatusCode, err)
		}
		return nil, fmt.Errorf("failed with status code %d: %s", response.StatusCode, errJson.Error)
	}

	var responseJson StockSummary
	err = json.Unmarshal(responseBytes, &responseJson)
	if err != nil {
		return nil, err
	}

	return &responseJson, nil
}
