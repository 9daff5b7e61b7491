package interfaces

import (
	"context"

	"github.com/bobmcallan/vire-options/internal/client"
	"github.com/bobmcallan/vire-options/internal/models"
)

// MarketDataProvider supplies price history and news for a symbol.
type MarketDataProvider interface {
	DailySeries(ctx context.Context, symbol, outputSize string) (models.DailySeries, error)
	NewsSentiment(ctx context.Context, q client.NewsQuery) ([]models.NewsArticle, error)
	InvalidateSymbol(symbol string) int
}

// UpstreamPinger reports whether the market-data provider is reachable.
type UpstreamPinger interface {
	Ping(ctx context.Context) error
}
