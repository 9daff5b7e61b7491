package models

import "strings"

// RiskTolerance selects the out-of-the-money factor set.
type RiskTolerance string

const (
	RiskLow      RiskTolerance = "low"
	RiskModerate RiskTolerance = "moderate"
	RiskHigh     RiskTolerance = "high"
)

// ParseRiskTolerance normalizes s and reports whether it names a known level.
func ParseRiskTolerance(s string) (RiskTolerance, bool) {
	r := RiskTolerance(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RiskLow, RiskModerate, RiskHigh:
		return r, true
	}
	return r, false
}

// Confidence is a coarse bucket of the predicted move's magnitude.
type Confidence string

const (
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

// Strategy names.
const (
	StrategyBuyCall     = "Buy Call"
	StrategyBuyPut      = "Buy Put"
	StrategyHoldNeutral = "Hold / Neutral"
	StrategyHold        = "Hold"
)

// Option types and actions.
const (
	OptionCall = "Call"
	OptionPut  = "Put"
	ActionBuy  = "Buy"
)

// StrategySuggestion is one suggested options trade. Nil pointers mean the
// field does not apply and serialize as JSON null.
type StrategySuggestion struct {
	Strategy        string     `json:"strategy"`
	OptionType      *string    `json:"option_type"`
	Action          *string    `json:"action"`
	StrikePrice     *float64   `json:"strike_price"`
	ExpirationDate  *string    `json:"expiration_date"`
	Rationale       string     `json:"rationale"`
	ConfidenceLevel Confidence `json:"confidence_level"`
}
