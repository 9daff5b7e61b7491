package analysis

import (
	"sort"

	"github.com/bobmcallan/vire-options/internal/common"
	"github.com/bobmcallan/vire-options/internal/models"
)

const (
	trendDetailUp           = "Price increased from previous day."
	trendDetailDown         = "Price decreased from previous day."
	trendDetailSame         = "Price remained same as previous day."
	trendDetailInsufficient = "Trend analysis not fully implemented."
)

// PricePoint is a parsed daily close.
type PricePoint struct {
	Date  string
	Close float64
}

// TrendResult is the trend detector's output.
type TrendResult struct {
	Trend models.TrendAnalysis
	// CurrentPrice is 0 and LatestDate empty with fewer than two usable points.
	CurrentPrice float64
	LatestDate   string
}

// ParseSeries converts raw bars into price points sorted newest first.
// Bars whose close does not parse are skipped and logged.
func ParseSeries(series models.DailySeries, logger *common.Logger) []PricePoint {
	points := make([]PricePoint, 0, len(series))
	for date, bar := range series {
		price, err := bar.ClosePrice()
		if err != nil {
			logger.Warn().Str("date", date).Str("error", err.Error()).Msg("skipping malformed daily bar")
			continue
		}
		points = append(points, PricePoint{Date: date, Close: price})
	}
	// ISO dates are zero-padded, so string order is calendar order.
	sort.Slice(points, func(i, j int) bool { return points[i].Date > points[j].Date })
	return points
}

// DetectTrend compares the two most recent closes.
func DetectTrend(series models.DailySeries, logger *common.Logger) TrendResult {
	points := ParseSeries(series, logger)
	if len(points) < 2 {
		return TrendResult{
			Trend: models.TrendAnalysis{Direction: models.TrendFlat, Details: trendDetailInsufficient},
		}
	}

	latest, previous := points[0], points[1]
	res := TrendResult{CurrentPrice: latest.Close, LatestDate: latest.Date}
	switch {
	case latest.Close > previous.Close:
		res.Trend = models.TrendAnalysis{Direction: models.TrendUp, Details: trendDetailUp}
	case latest.Close < previous.Close:
		res.Trend = models.TrendAnalysis{Direction: models.TrendDown, Details: trendDetailDown}
	default:
		res.Trend = models.TrendAnalysis{Direction: models.TrendFlat, Details: trendDetailSame}
	}
	return res
}
