package models

import (
	"fmt"
	"strings"
	"time"
)

// Disclaimer is attached to every suggestion response.
const Disclaimer = "This information is for educational purposes only and not financial advice. Options trading involves significant risk."

// Output sizes accepted by TIME_SERIES_DAILY_ADJUSTED.
const (
	OutputSizeCompact = "compact"
	OutputSizeFull    = "full"
)

// MaxNewsLimit is the largest NEWS_SENTIMENT limit Alpha Vantage accepts.
const MaxNewsLimit = 1000

// ValidationError reports a rejected suggestion request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// SuggestionRequest is the payload of POST /v1/trading-suggestions.
type SuggestionRequest struct {
	StockSymbol   string `json:"stock_symbol"`
	OutputSize    string `json:"output_size,omitempty"`
	NewsLimit     int    `json:"news_limit,omitempty"`
	RiskTolerance string `json:"risk_tolerance,omitempty"`
}

// RequestDefaults fills unset request fields.
type RequestDefaults struct {
	OutputSize    string
	NewsLimit     int
	RiskTolerance string
}

// Normalize trims and cases fields and applies defaults. It returns a
// *ValidationError for unusable input.
func (r *SuggestionRequest) Normalize(d RequestDefaults) error {
	r.StockSymbol = strings.ToUpper(strings.TrimSpace(r.StockSymbol))
	if r.StockSymbol == "" {
		return &ValidationError{Message: "stock_symbol is required."}
	}

	if strings.TrimSpace(r.RiskTolerance) == "" {
		r.RiskTolerance = d.RiskTolerance
	}
	risk, ok := ParseRiskTolerance(r.RiskTolerance)
	if !ok {
		return &ValidationError{Message: "Invalid risk_tolerance. Must be 'low', 'moderate', or 'high'."}
	}
	r.RiskTolerance = string(risk)

	r.OutputSize = strings.ToLower(strings.TrimSpace(r.OutputSize))
	if r.OutputSize == "" {
		r.OutputSize = d.OutputSize
	}
	if r.OutputSize != OutputSizeCompact && r.OutputSize != OutputSizeFull {
		return &ValidationError{Message: "Invalid output_size. Must be 'compact' or 'full'."}
	}

	if r.NewsLimit == 0 {
		r.NewsLimit = d.NewsLimit
	}
	if r.NewsLimit < 1 || r.NewsLimit > MaxNewsLimit {
		return &ValidationError{Message: fmt.Sprintf("Invalid news_limit. Must be between 1 and %d.", MaxNewsLimit)}
	}

	return nil
}

// PriceTargets groups the predicted price fields of a response.
type PriceTargets struct {
	ShortTermTarget *float64 `json:"short_term_target"`
	ChangePercent   float64  `json:"change_percent"`
}

// DataSource names an upstream provider used to build a response.
type DataSource struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// AlphaVantageSource is the only data source today.
var AlphaVantageSource = DataSource{Name: "Alpha Vantage", Type: "Market Data & News Sentiment API"}

// SuggestionResponse is the body returned for a successful request.
type SuggestionResponse struct {
	RequestID                  string               `json:"request_id"`
	StockSymbol                string               `json:"stock_symbol"`
	RiskTolerance              string               `json:"risk_tolerance"`
	CurrentPrice               float64              `json:"current_price"`
	LatestDataDate             string               `json:"latest_data_date"`
	AnalysisSummary            string               `json:"analysis_summary"`
	TrendAnalysis              TrendAnalysis        `json:"trend_analysis"`
	SentimentAnalysis          SentimentAnalysis    `json:"sentiment_analysis"`
	PredictedPriceTargets      PriceTargets         `json:"predicted_price_targets"`
	SuggestedOptionsStrategies []StrategySuggestion `json:"suggested_options_strategies"`
	DataSources                []DataSource         `json:"data_sources"`
	Timestamp                  string               `json:"timestamp"`
	Disclaimer                 string               `json:"disclaimer"`
}

// SuggestionRecord is a persisted summary of one served suggestion.
type SuggestionRecord struct {
	RequestID      string         `json:"request_id" badgerhold:"key"`
	Symbol         string         `json:"stock_symbol"`
	RiskTolerance  string         `json:"risk_tolerance"`
	CurrentPrice   float64        `json:"current_price"`
	LatestDataDate string         `json:"latest_data_date"`
	Direction      TrendDirection `json:"trend_direction"`
	SentimentLabel SentimentLabel `json:"sentiment_label"`
	SentimentScore float64        `json:"sentiment_score"`
	ChangePercent  float64        `json:"change_percent"`
	Strategy       string         `json:"strategy"`
	StrikePrice    *float64       `json:"strike_price"`
	Confidence     Confidence     `json:"confidence_level"`
	CreatedAt      time.Time      `json:"created_at"`
	// CreatedUnix mirrors CreatedAt for ordering in the store.
	CreatedUnix int64 `json:"-"`
}

// NewSuggestionRecord summarizes a response for history storage.
func NewSuggestionRecord(resp *SuggestionResponse, createdAt time.Time) SuggestionRecord {
	rec := SuggestionRecord{
		RequestID:      resp.RequestID,
		Symbol:         resp.StockSymbol,
		RiskTolerance:  resp.RiskTolerance,
		CurrentPrice:   resp.CurrentPrice,
		LatestDataDate: resp.LatestDataDate,
		Direction:      resp.TrendAnalysis.Direction,
		SentimentLabel: resp.SentimentAnalysis.Label,
		SentimentScore: resp.SentimentAnalysis.Score,
		ChangePercent:  resp.PredictedPriceTargets.ChangePercent,
		CreatedAt:      createdAt.UTC(),
		CreatedUnix:    createdAt.UnixNano(),
	}
	if len(resp.SuggestedOptionsStrategies) > 0 {
		first := resp.SuggestedOptionsStrategies[0]
		rec.Strategy = first.Strategy
		rec.StrikePrice = first.StrikePrice
		rec.Confidence = first.ConfidenceLevel
	}
	return rec
}
