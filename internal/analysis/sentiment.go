package analysis

import (
	"fmt"

	"github.com/bobmcallan/vire-options/internal/common"
	"github.com/bobmcallan/vire-options/internal/models"
)

// Scores strictly beyond these bounds are labelled POSITIVE / NEGATIVE.
const (
	positiveThreshold = 0.15
	negativeThreshold = -0.15
)

const noSentimentDetail = "No valid sentiment scores found in news data."

// AggregateSentiment averages the parsable overall sentiment scores.
// Articles without a score are ignored; malformed scores are logged and skipped.
func AggregateSentiment(articles []models.NewsArticle, logger *common.Logger) models.SentimentAnalysis {
	var total float64
	var count int
	for i, article := range articles {
		score, ok, err := article.SentimentScore()
		if err != nil {
			logger.Warn().Int("index", i).Str("title", article.Title).Str("error", err.Error()).Msg("could not parse sentiment score")
			continue
		}
		if !ok {
			continue
		}
		total += score
		count++
	}

	if count == 0 {
		return models.SentimentAnalysis{
			Score:   0,
			Label:   models.SentimentNeutral,
			Details: noSentimentDetail,
		}
	}

	avg := total / float64(count)
	return models.SentimentAnalysis{
		Score:    round(avg, 4),
		Label:    labelFor(avg),
		Details:  fmt.Sprintf("Average sentiment score of %.2f from %d articles.", avg, count),
		Articles: count,
	}
}

func labelFor(avg float64) models.SentimentLabel {
	switch {
	case avg > positiveThreshold:
		return models.SentimentPositive
	case avg < negativeThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}
