package analysis

import "github.com/bobmcallan/vire-options/internal/models"

// Prediction is the combiner's fixed-table output.
type Prediction struct {
	ChangePercent float64
	Summary       string
}

type signal struct {
	trend     models.TrendDirection
	sentiment models.SentimentLabel
}

var predictionTable = map[signal]Prediction{
	{models.TrendUp, models.SentimentPositive}: {
		ChangePercent: 3.0,
		Summary:       "Stock shows an upward trend with positive news sentiment, suggesting a potential short-term price increase.",
	},
	{models.TrendDown, models.SentimentNegative}: {
		ChangePercent: -3.0,
		Summary:       "Stock shows a downward trend with negative news sentiment, suggesting a potential short-term price decrease.",
	},
	{models.TrendUp, models.SentimentNegative}: {
		ChangePercent: 0.5,
		Summary:       "Upward trend but negative news sentiment warrant caution. Potential volatility.",
	},
	{models.TrendDown, models.SentimentPositive}: {
		ChangePercent: -0.5,
		Summary:       "Downward trend despite positive news. Market may be reacting to other factors or news effect delayed.",
	},
}

var mixedSignals = Prediction{
	ChangePercent: 0.0,
	Summary:       "Mixed signals. Trend is flat or sentiment is neutral. Hold recommended.",
}

// Combine maps a trend and sentiment label to a predicted percent change.
func Combine(trend models.TrendDirection, sentiment models.SentimentLabel) Prediction {
	if p, ok := predictionTable[signal{trend, sentiment}]; ok {
		return p
	}
	return mixedSignals
}

// TargetPrice applies changePercent to price. It returns nil for a
// non-positive price.
func TargetPrice(price, changePercent float64) *float64 {
	if !(price > 0) {
		return nil
	}
	return ptr(round(price*(1+changePercent/100), 2))
}
