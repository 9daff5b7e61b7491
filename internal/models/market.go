// Package models defines data structures for vire-options.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DailyBar is one entry of Alpha Vantage's "Time Series (Daily)" map.
// Values arrive as decimal strings (occasionally bare numbers) and are parsed
// on demand.
type DailyBar struct {
	Open             string `json:"1. open"`
	High             string `json:"2. high"`
	Low              string `json:"3. low"`
	Close            string `json:"4. close"`
	AdjustedClose    string `json:"5. adjusted close,omitempty"`
	Volume           string `json:"6. volume,omitempty"`
	DividendAmount   string `json:"7. dividend amount,omitempty"`
	SplitCoefficient string `json:"8. split coefficient,omitempty"`
}

// UnmarshalJSON accepts each field as a JSON string or number. Unknown keys
// are ignored; null leaves the field empty.
func (b *DailyBar) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("daily bar: %w", err)
	}

	fields := []struct {
		key string
		dst *string
	}{
		{"1. open", &b.Open},
		{"2. high", &b.High},
		{"3. low", &b.Low},
		{"4. close", &b.Close},
		{"5. adjusted close", &b.AdjustedClose},
		{"6. volume", &b.Volume},
		{"7. dividend amount", &b.DividendAmount},
		{"8. split coefficient", &b.SplitCoefficient},
	}
	for _, f := range fields {
		v, ok := raw[f.key]
		if !ok {
			continue
		}
		text, err := scalarText(v)
		if err != nil {
			return fmt.Errorf("daily bar %q: %w", f.key, err)
		}
		*f.dst = text
	}
	return nil
}

// scalarText returns the text of a JSON string or number. null and empty
// input yield "".
func scalarText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return "", err
		}
		return text, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("expected string or number, got %s", raw)
	}
	return n.String(), nil
}

// ClosePrice parses the closing price. Negative, NaN and infinite values are
// rejected.
func (b DailyBar) ClosePrice() (float64, error) {
	s := strings.TrimSpace(b.Close)
	if s == "" {
		return 0, fmt.Errorf("close price missing")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("close price %q: %w", b.Close, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("close price %q out of range", b.Close)
	}
	return v, nil
}

// DailySeries maps ISO dates (YYYY-MM-DD) to daily bars.
type DailySeries map[string]DailyBar

// TickerSentiment is the per-ticker sentiment block of a news article.
type TickerSentiment struct {
	Ticker               string `json:"ticker"`
	RelevanceScore       string `json:"relevance_score"`
	TickerSentimentScore string `json:"ticker_sentiment_score"`
	TickerSentimentLabel string `json:"ticker_sentiment_label"`
}

// NewsArticle is one item of the NEWS_SENTIMENT feed.
type NewsArticle struct {
	Title                 string            `json:"title"`
	URL                   string            `json:"url"`
	TimePublished         string            `json:"time_published"`
	Summary               string            `json:"summary,omitempty"`
	Source                string            `json:"source,omitempty"`
	OverallSentimentScore json.RawMessage   `json:"overall_sentiment_score,omitempty"`
	OverallSentimentLabel string            `json:"overall_sentiment_label,omitempty"`
	TickerSentiment       []TickerSentiment `json:"ticker_sentiment,omitempty"`
}

// SentimentScore parses overall_sentiment_score, accepting a JSON number or a
// numeric string. ok is false when the article carries no score at all.
func (a NewsArticle) SentimentScore() (score float64, ok bool, err error) {
	raw := bytes.TrimSpace(a.OverallSentimentScore)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false, nil
	}

	text, err := scalarText(raw)
	if err != nil {
		return 0, true, fmt.Errorf("sentiment score %s: %w", raw, err)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, true, fmt.Errorf("sentiment score %s: %w", raw, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, true, fmt.Errorf("sentiment score %s out of range", raw)
	}
	return v, true, nil
}
