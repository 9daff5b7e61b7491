package models

// TrendDirection is the outcome of the two-point price comparison.
type TrendDirection string

const (
	TrendUp   TrendDirection = "UP"
	TrendDown TrendDirection = "DOWN"
	TrendFlat TrendDirection = "FLAT"
)

// SentimentLabel buckets an average sentiment score.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "POSITIVE"
	SentimentNegative SentimentLabel = "NEGATIVE"
	SentimentNeutral  SentimentLabel = "NEUTRAL"
)

// UnknownDate is displayed when no latest data date is available.
const UnknownDate = "Unknown"

// TrendAnalysis is the serialized trend block.
type TrendAnalysis struct {
	Direction TrendDirection `json:"direction"`
	Details   string         `json:"details"`
}

// SentimentAnalysis is the serialized sentiment block.
type SentimentAnalysis struct {
	Score   float64        `json:"score"`
	Label   SentimentLabel `json:"label"`
	Details string         `json:"details"`
	// Articles is the number of articles that contributed a valid score.
	Articles int `json:"articles_scored"`
}

// AnalysisResult is the immutable outcome of analyzing one symbol.
type AnalysisResult struct {
	// CurrentPrice is 0 when unknown.
	CurrentPrice float64 `json:"current_price"`
	// LatestDataDate is nil when unknown.
	LatestDataDate         *string           `json:"latest_data_date"`
	Trend                  TrendAnalysis     `json:"trend_analysis"`
	Sentiment              SentimentAnalysis `json:"sentiment_analysis"`
	PredictedChangePercent float64           `json:"predicted_change_percent"`
	// PredictedTarget is nil when the current price is unknown.
	PredictedTarget *float64 `json:"predicted_short_term_target"`
	Summary         string   `json:"analysis_summary"`
}

// HasPrice reports whether a usable current price is present.
func (r AnalysisResult) HasPrice() bool {
	return r.CurrentPrice > 0
}

// LatestDateLabel returns the latest data date or UnknownDate.
func (r AnalysisResult) LatestDateLabel() string {
	if r.LatestDataDate == nil {
		return UnknownDate
	}
	return *r.LatestDataDate
}
