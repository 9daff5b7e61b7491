// Package client talks to the Alpha Vantage market-data API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bobmcallan/vire-options/internal/cache"
	"github.com/bobmcallan/vire-options/internal/common"
	"github.com/bobmcallan/vire-options/internal/config"
	"github.com/bobmcallan/vire-options/internal/models"
)

const (
	FunctionDailyAdjusted = "TIME_SERIES_DAILY_ADJUSTED"
	FunctionNewsSentiment = "NEWS_SENTIMENT"

	timeSeriesKey = "Time Series (Daily)"
	queryPath     = "/query"
)

// ErrMissingAPIKey is returned before any request when no key is configured.
var ErrMissingAPIKey = errors.New("Alpha Vantage API key not provided")

// APIError is an error reported by Alpha Vantage itself: an "Error Message"
// payload, a rate-limit or premium notice, a non-2xx status or a payload
// without the expected data.
type APIError struct {
	Kind       string
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Alpha Vantage API %s: %s", e.Kind, e.Message)
}

// ConnectionError wraps a transport failure (DNS, refused, timeout).
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("Error connecting to Alpha Vantage: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// NewsQuery selects articles from the NEWS_SENTIMENT endpoint. Tickers or
// Topics is required.
type NewsQuery struct {
	Tickers  string
	Topics   string
	TimeFrom string
	TimeTo   string
	Sort     string
	Limit    int
}

// AlphaVantageClient fetches daily price series and news sentiment.
type AlphaVantageClient struct {
	http   *resty.Client
	apiKey string
	cache  *cache.ResponseCache
	logger *common.Logger
}

// NewAlphaVantageClient creates a client from configuration. A nil cache
// disables response caching.
func NewAlphaVantageClient(cfg config.AlphaVantageConfig, responseCache *cache.ResponseCache, logger *common.Logger) *AlphaVantageClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://www.alphavantage.co"
	}

	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	rc := resty.New()
	rc.SetBaseURL(baseURL)
	rc.SetTimeout(timeout)
	rc.SetHeader("User-Agent", config.UserAgent())
	rc.SetHeader("Accept", "application/json")

	return &AlphaVantageClient{
		http:   rc,
		apiKey: cfg.APIKey,
		cache:  responseCache,
		logger: logger,
	}
}

// DailySeries returns the daily adjusted time series for symbol.
func (c *AlphaVantageClient) DailySeries(ctx context.Context, symbol, outputSize string) (models.DailySeries, error) {
	if outputSize == "" {
		outputSize = models.OutputSizeCompact
	}

	body, err := c.query(ctx, FunctionDailyAdjusted, map[string]string{
		"symbol":     symbol,
		"outputsize": outputSize,
	})
	if err != nil {
		return nil, err
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &APIError{Kind: "Error", Message: fmt.Sprintf("unreadable response for %s: %v", symbol, err)}
	}

	raw, ok := payload[timeSeriesKey]
	if !ok {
		return nil, &APIError{
			Kind:    "Error",
			Message: fmt.Sprintf("Invalid or empty response received from Alpha Vantage for %s. Expected '%s' key.", symbol, timeSeriesKey),
		}
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &APIError{Kind: "Error", Message: fmt.Sprintf("malformed time series for %s: %v", symbol, err)}
	}

	// A bad bar is dropped, not fatal.
	series := make(models.DailySeries, len(entries))
	for date, entry := range entries {
		var bar models.DailyBar
		if err := json.Unmarshal(entry, &bar); err != nil {
			c.logger.Warn().Str("symbol", symbol).Str("date", date).Err(err).Msg("Skipping malformed daily bar")
			continue
		}
		series[date] = bar
	}

	c.logger.Debug().Str("symbol", symbol).Int("points", len(series)).Msg("Fetched daily series")
	return series, nil
}

// NewsSentiment returns the article feed for q. No articles is not an error.
func (c *AlphaVantageClient) NewsSentiment(ctx context.Context, q NewsQuery) ([]models.NewsArticle, error) {
	if q.Tickers == "" && q.Topics == "" {
		return nil, fmt.Errorf("either tickers or topics must be provided")
	}

	sort := q.Sort
	if sort == "" {
		sort = "LATEST"
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	params := map[string]string{
		"sort":  sort,
		"limit": strconv.Itoa(limit),
	}
	if q.Tickers != "" {
		params["tickers"] = q.Tickers
	}
	if q.Topics != "" {
		params["topics"] = q.Topics
	}
	if q.TimeFrom != "" {
		params["time_from"] = q.TimeFrom
	}
	if q.TimeTo != "" {
		params["time_to"] = q.TimeTo
	}

	body, err := c.query(ctx, FunctionNewsSentiment, params)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Items       json.RawMessage    `json:"items"`
		Information *string            `json:"Information"`
		Feed        *[]json.RawMessage `json:"feed"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &APIError{Kind: "Error", Message: "Invalid response structure from Alpha Vantage for news sentiment. Expected 'feed' key with a list."}
	}

	if payload.Feed == nil {
		if payload.Information != nil {
			c.logger.Info().Str("tickers", q.Tickers).Str("information", *payload.Information).Msg("Alpha Vantage returned no news feed")
			return []models.NewsArticle{}, nil
		}
		if itemsZero(payload.Items) {
			return []models.NewsArticle{}, nil
		}
		return nil, &APIError{Kind: "Error", Message: "Invalid response structure from Alpha Vantage for news sentiment. Expected 'feed' key with a list."}
	}

	articles := make([]models.NewsArticle, 0, len(*payload.Feed))
	for i, entry := range *payload.Feed {
		var article models.NewsArticle
		if err := json.Unmarshal(entry, &article); err != nil {
			c.logger.Warn().Str("tickers", q.Tickers).Int("index", i).Err(err).Msg("Skipping malformed news article")
			continue
		}
		articles = append(articles, article)
	}

	c.logger.Debug().Str("tickers", q.Tickers).Int("articles", len(articles)).Msg("Fetched news sentiment")
	return articles, nil
}

// Ping checks that the Alpha Vantage host answers. It does not spend quota.
func (c *AlphaVantageClient) Ping(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/")
	if err != nil {
		return &ConnectionError{Err: err}
	}
	if resp.StatusCode() >= 500 {
		return &APIError{Kind: "Error", Message: fmt.Sprintf("upstream returned %d", resp.StatusCode()), StatusCode: resp.StatusCode()}
	}
	return nil
}

// InvalidateSymbol drops cached responses for symbol.
func (c *AlphaVantageClient) InvalidateSymbol(symbol string) int {
	if c.cache == nil {
		return 0
	}
	return c.cache.InvalidateSymbol(symbol)
}

// query performs GET /query and returns the raw body once it has been
// checked for Alpha Vantage error payloads. Only clean bodies are cached.
func (c *AlphaVantageClient) query(ctx context.Context, function string, params map[string]string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	key := cache.MakeKey(function, params)
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			c.logger.Debug().Str("key", key).Msg("Alpha Vantage cache hit")
			return cached.Body, nil
		}
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParam("function", function).
		SetQueryParam("apikey", c.apiKey).
		Get(queryPath)
	if err != nil {
		c.logger.Warn().Err(err).Str("function", function).Dur("duration", time.Since(start)).Msg("Alpha Vantage request failed")
		return nil, &ConnectionError{Err: err}
	}

	c.logger.Debug().
		Str("function", function).
		Int("status", resp.StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("Alpha Vantage request")

	if resp.IsError() {
		return nil, &APIError{
			Kind:       "Error",
			Message:    fmt.Sprintf("upstream returned %d", resp.StatusCode()),
			StatusCode: resp.StatusCode(),
		}
	}

	body := resp.Body()
	if err := classify(body); err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(key, &cache.CachedResponse{Body: body, FetchedAt: time.Now()})
	}
	return body, nil
}

// classify turns Alpha Vantage's in-band error payloads into *APIError.
// Informational messages that are not about quota pass through.
func classify(body []byte) error {
	var msg struct {
		ErrorMessage *string `json:"Error Message"`
		Information  *string `json:"Information"`
		Note         *string `json:"Note"`
	}
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil
	}

	if msg.ErrorMessage != nil {
		return &APIError{Kind: "Error", Message: *msg.ErrorMessage}
	}
	if msg.Information != nil && isQuotaNotice(*msg.Information) {
		return &APIError{Kind: "Info", Message: *msg.Information}
	}
	if msg.Note != nil && isQuotaNotice(*msg.Note) {
		return &APIError{Kind: "Info", Message: *msg.Note}
	}
	return nil
}

func isQuotaNotice(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "api call frequency") ||
		strings.Contains(lower, "premium endpoint") ||
		strings.Contains(lower, "our premium plan")
}

// itemsZero reports whether the "items" field is "0" or 0.
func itemsZero(raw json.RawMessage) bool {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	return s == "0"
}
