// Package suggestions runs the fetch, analyze and suggest pipeline behind
// POST /v1/trading-suggestions and the MCP tools.
package suggestions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/bobmcallan/vire-options/internal/analysis"
	"github.com/bobmcallan/vire-options/internal/client"
	"github.com/bobmcallan/vire-options/internal/common"
	"github.com/bobmcallan/vire-options/internal/config"
	"github.com/bobmcallan/vire-options/internal/interfaces"
	"github.com/bobmcallan/vire-options/internal/models"
	"github.com/bobmcallan/vire-options/internal/tracing"
)

var (
	// ErrNoHistoricalData means the provider returned an empty price series.
	ErrNoHistoricalData = errors.New("no historical data")
	// ErrPriceUnavailable means the series did not yield a current price.
	ErrPriceUnavailable = errors.New("current price unavailable")
)

// SymbolError attaches the requested symbol to a pipeline failure.
type SymbolError struct {
	Symbol string
	Err    error
}

func (e *SymbolError) Error() string { return fmt.Sprintf("%s: %v", e.Symbol, e.Err) }
func (e *SymbolError) Unwrap() error { return e.Err }

// Service produces trading suggestions for a symbol.
type Service struct {
	data     interfaces.MarketDataProvider
	history  interfaces.HistoryStorage
	analyzer *analysis.Analyzer
	tracer   *tracing.Tracer
	logger   *common.Logger
	defaults models.RequestDefaults
	now      func() time.Time
	newID    func() string
}

// NewService creates a suggestion service.
func NewService(data interfaces.MarketDataProvider, history interfaces.HistoryStorage, tracer *tracing.Tracer, logger *common.Logger, cfg config.SuggestionsConfig) *Service {
	if tracer == nil {
		tracer = tracing.Disabled()
	}
	defaults := models.RequestDefaults{
		OutputSize:    cfg.DefaultOutputSize,
		NewsLimit:     cfg.DefaultNewsLimit,
		RiskTolerance: cfg.DefaultRiskTolerance,
	}
	if defaults.OutputSize == "" {
		defaults.OutputSize = models.OutputSizeCompact
	}
	if defaults.NewsLimit == 0 {
		defaults.NewsLimit = 50
	}
	if defaults.RiskTolerance == "" {
		defaults.RiskTolerance = string(models.RiskModerate)
	}

	return &Service{
		data:     data,
		history:  history,
		analyzer: analysis.NewAnalyzer(logger),
		tracer:   tracer,
		logger:   logger,
		defaults: defaults,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// WithClock sets the clock used for timestamps and expiration dates.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	s.analyzer = s.analyzer.WithClock(now)
	return s
}

// Defaults returns the request defaults applied by Generate.
func (s *Service) Defaults() models.RequestDefaults {
	return s.defaults
}

// Generate validates req, fetches market data, analyzes it and returns the
// suggestion response. Validation failures are *models.ValidationError;
// provider failures are *client.APIError or *client.ConnectionError.
func (s *Service) Generate(ctx context.Context, req models.SuggestionRequest) (resp *models.SuggestionResponse, err error) {
	startedAt := s.now().UTC()

	if err := req.Normalize(s.defaults); err != nil {
		return nil, err
	}
	symbol := req.StockSymbol

	ctx, span := s.tracer.StartSpan(ctx, "suggestions.generate",
		attribute.String("symbol", symbol),
		attribute.String("risk_tolerance", req.RiskTolerance),
	)
	defer func() { tracing.EndSpan(span, err) }()

	series, articles, err := s.fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, &SymbolError{Symbol: symbol, Err: ErrNoHistoricalData}
	}

	_, analyzeSpan := s.tracer.StartSpan(ctx, "suggestions.analyze", attribute.Int("points", len(series)), attribute.Int("articles", len(articles)))
	result := s.analyzer.Analyze(series, articles)
	analyzeSpan.End()

	if !result.HasPrice() {
		return nil, &SymbolError{Symbol: symbol, Err: ErrPriceUnavailable}
	}

	risk, _ := models.ParseRiskTolerance(req.RiskTolerance)
	_, suggestSpan := s.tracer.StartSpan(ctx, "suggestions.suggest")
	strategies := s.analyzer.Suggest(result, risk)
	suggestSpan.End()

	resp = &models.SuggestionResponse{
		RequestID:         s.newID(),
		StockSymbol:       symbol,
		RiskTolerance:     req.RiskTolerance,
		CurrentPrice:      result.CurrentPrice,
		LatestDataDate:    result.LatestDateLabel(),
		AnalysisSummary:   result.Summary,
		TrendAnalysis:     result.Trend,
		SentimentAnalysis: result.Sentiment,
		PredictedPriceTargets: models.PriceTargets{
			ShortTermTarget: result.PredictedTarget,
			ChangePercent:   result.PredictedChangePercent,
		},
		SuggestedOptionsStrategies: strategies,
		DataSources:                []models.DataSource{models.AlphaVantageSource},
		Timestamp:                  startedAt.Format(time.RFC3339),
		Disclaimer:                 models.Disclaimer,
	}

	s.record(ctx, resp, startedAt)

	traceID, _, _ := tracing.TraceFields(ctx)
	s.logger.Info().
		Str("request_id", resp.RequestID).
		Str("trace_id", traceID).
		Str("symbol", symbol).
		Str("trend", string(result.Trend.Direction)).
		Str("sentiment", string(result.Sentiment.Label)).
		Str("strategy", strategies[0].Strategy).
		Msg("Suggestion generated")

	return resp, nil
}

// fetch retrieves the price series and news feed concurrently. A series
// error takes precedence over a news error.
func (s *Service) fetch(ctx context.Context, req models.SuggestionRequest) (models.DailySeries, []models.NewsArticle, error) {
	ctx, span := s.tracer.StartSpan(ctx, "suggestions.fetch")
	defer span.End()

	var (
		wg                 sync.WaitGroup
		series             models.DailySeries
		articles           []models.NewsArticle
		seriesErr, newsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		series, seriesErr = s.data.DailySeries(ctx, req.StockSymbol, req.OutputSize)
	}()
	go func() {
		defer wg.Done()
		articles, newsErr = s.data.NewsSentiment(ctx, client.NewsQuery{
			Tickers: req.StockSymbol,
			Limit:   req.NewsLimit,
		})
	}()
	wg.Wait()

	if seriesErr != nil {
		s.logger.Warn().Err(seriesErr).Str("symbol", req.StockSymbol).Msg("Daily series fetch failed")
		return nil, nil, seriesErr
	}
	if newsErr != nil {
		s.logger.Warn().Err(newsErr).Str("symbol", req.StockSymbol).Msg("News sentiment fetch failed")
		return nil, nil, newsErr
	}
	return series, articles, nil
}

// record stores a history entry. Failures are logged and do not fail the
// request.
func (s *Service) record(ctx context.Context, resp *models.SuggestionResponse, at time.Time) {
	if s.history == nil {
		return
	}
	rec := models.NewSuggestionRecord(resp, at)
	if err := s.history.Record(ctx, &rec); err != nil {
		s.logger.Warn().Err(err).Str("request_id", resp.RequestID).Msg("Failed to record suggestion history")
	}
}

// Warm refreshes the cached series and news for symbol using the default
// request parameters.
func (s *Service) Warm(ctx context.Context, symbol string) error {
	req := models.SuggestionRequest{StockSymbol: symbol}
	if err := req.Normalize(s.defaults); err != nil {
		return err
	}

	ctx, span := s.tracer.StartSpan(ctx, "suggestions.warm", attribute.String("symbol", req.StockSymbol))
	var err error
	defer func() { tracing.EndSpan(span, err) }()

	dropped := s.data.InvalidateSymbol(req.StockSymbol)
	if _, _, err = s.fetch(ctx, req); err != nil {
		return fmt.Errorf("warm %s: %w", req.StockSymbol, err)
	}

	s.logger.Debug().Str("symbol", req.StockSymbol).Int("invalidated", dropped).Msg("Market data warmed")
	return nil
}

// History lists recorded suggestions, newest first.
func (s *Service) History(ctx context.Context, symbol string, limit int) ([]models.SuggestionRecord, error) {
	if s.history == nil {
		return []models.SuggestionRecord{}, nil
	}
	return s.history.List(ctx, symbol, limit)
}
