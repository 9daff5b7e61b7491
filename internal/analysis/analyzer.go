// Package analysis turns price history and news sentiment into a trend and
// sentiment classification, a fixed-table price prediction and an options
// suggestion. Every function is deterministic given its inputs.
package analysis

import (
	"time"

	"github.com/bobmcallan/vire-options/internal/common"
	"github.com/bobmcallan/vire-options/internal/models"
)

// Analyzer runs the analysis stages with a shared logger and clock.
type Analyzer struct {
	logger *common.Logger
	now    func() time.Time
}

// NewAnalyzer creates an Analyzer using the wall clock.
func NewAnalyzer(logger *common.Logger) *Analyzer {
	return &Analyzer{logger: logger, now: time.Now}
}

// WithClock returns a copy of the analyzer using now as its clock.
func (a *Analyzer) WithClock(now func() time.Time) *Analyzer {
	return &Analyzer{logger: a.logger, now: now}
}

// Analyze builds the analysis record for one symbol.
func (a *Analyzer) Analyze(series models.DailySeries, articles []models.NewsArticle) models.AnalysisResult {
	trend := DetectTrend(series, a.logger)
	sentiment := AggregateSentiment(articles, a.logger)
	prediction := Combine(trend.Trend.Direction, sentiment.Label)

	var latest *string
	if trend.LatestDate != "" {
		latest = ptr(trend.LatestDate)
	}

	return models.AnalysisResult{
		CurrentPrice:           trend.CurrentPrice,
		LatestDataDate:         latest,
		Trend:                  trend.Trend,
		Sentiment:              sentiment,
		PredictedChangePercent: round(prediction.ChangePercent, 2),
		PredictedTarget:        TargetPrice(trend.CurrentPrice, prediction.ChangePercent),
		Summary:                prediction.Summary,
	}
}

// Suggest derives the options suggestions for an analysis.
func (a *Analyzer) Suggest(result models.AnalysisResult, risk models.RiskTolerance) []models.StrategySuggestion {
	return SuggestStrategies(result, risk, a.now())
}
