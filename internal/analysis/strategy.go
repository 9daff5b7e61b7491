package analysis

import (
	"fmt"
	"math"
	"time"

	"github.com/bobmcallan/vire-options/internal/models"
)

const (
	expirationOffsetDays = 40
	dateLayout           = "2006-01-02"

	directionalThreshold = 1.0
	highConfidenceAbove  = 5.0
	lowConfidenceBelow   = 1.0
)

const invalidPriceRationale = "Cannot determine strategy due to invalid current price."

// otmFactors are strike multipliers applied to the current price.
type otmFactors struct {
	call float64
	put  float64
}

var riskFactors = map[models.RiskTolerance]otmFactors{
	models.RiskLow:      {call: 1.005, put: 0.995},
	models.RiskModerate: {call: 1.02, put: 0.98},
	models.RiskHigh:     {call: 1.05, put: 0.95},
}

func factorsFor(risk models.RiskTolerance) otmFactors {
	if f, ok := riskFactors[risk]; ok {
		return f
	}
	return riskFactors[models.RiskModerate]
}

// SuggestStrategies derives exactly one options suggestion from an analysis.
// today is the fallback base for the expiration date.
func SuggestStrategies(result models.AnalysisResult, risk models.RiskTolerance, today time.Time) []models.StrategySuggestion {
	price := result.CurrentPrice
	if math.IsNaN(price) || price <= 0 {
		return []models.StrategySuggestion{{
			Strategy:        models.StrategyHold,
			Rationale:       invalidPriceRationale,
			ConfidenceLevel: models.ConfidenceLow,
		}}
	}

	pct := result.PredictedChangePercent
	factors := factorsFor(risk)

	switch {
	case pct > directionalThreshold:
		return []models.StrategySuggestion{directional(
			models.StrategyBuyCall, models.OptionCall, price*factors.call,
			fmt.Sprintf("Based on positive price prediction (%s%%). Suggested strike is slightly Out-of-the-Money for %s risk.", formatPercent(pct), risk),
			result, pct, today,
		)}
	case pct < -directionalThreshold:
		return []models.StrategySuggestion{directional(
			models.StrategyBuyPut, models.OptionPut, price*factors.put,
			fmt.Sprintf("Based on negative price prediction (%s%%). Suggested strike is slightly Out-of-the-Money for %s risk.", formatPercent(pct), risk),
			result, pct, today,
		)}
	default:
		return []models.StrategySuggestion{{
			Strategy: models.StrategyHoldNeutral,
			Rationale: fmt.Sprintf("Price prediction (%s%%) is close to zero. Consider holding or a neutral options strategy (e.g., Iron Condor - not detailed here).",
				formatPercent(pct)),
			ConfidenceLevel: models.ConfidenceLow,
		}}
	}
}

func directional(strategy, optionType string, strike float64, rationale string, result models.AnalysisResult, pct float64, today time.Time) models.StrategySuggestion {
	return models.StrategySuggestion{
		Strategy:        strategy,
		OptionType:      ptr(optionType),
		Action:          ptr(models.ActionBuy),
		StrikePrice:     ptr(round(strike, 2)),
		ExpirationDate:  ptr(ExpirationDate(deref(result.LatestDataDate), today)),
		Rationale:       rationale,
		ConfidenceLevel: ConfidenceFor(pct),
	}
}

// ConfidenceFor buckets the magnitude of a predicted percent change.
// The boundaries 1 and 5 are Medium.
func ConfidenceFor(pct float64) models.Confidence {
	abs := math.Abs(pct)
	switch {
	case abs > highConfidenceAbove:
		return models.ConfidenceHigh
	case abs < lowConfidenceBelow:
		return models.ConfidenceLow
	default:
		return models.ConfidenceMedium
	}
}

// ExpirationDate returns latestDate + 40 days, or today + 40 days when
// latestDate is empty or unparsable.
func ExpirationDate(latestDate string, today time.Time) string {
	base, err := time.Parse(dateLayout, latestDate)
	if err != nil {
		y, m, d := today.Date()
		base = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return base.AddDate(0, 0, expirationOffsetDays).Format(dateLayout)
}
