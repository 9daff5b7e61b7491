package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bobmcallan/vire-options/internal/cache"
	"github.com/bobmcallan/vire-options/internal/client"
	"github.com/bobmcallan/vire-options/internal/common"
	"github.com/bobmcallan/vire-options/internal/config"
	"github.com/bobmcallan/vire-options/internal/handlers"
	"github.com/bobmcallan/vire-options/internal/interfaces"
	"github.com/bobmcallan/vire-options/internal/mcp"
	"github.com/bobmcallan/vire-options/internal/scheduler"
	"github.com/bobmcallan/vire-options/internal/storage"
	"github.com/bobmcallan/vire-options/internal/suggestions"
	"github.com/bobmcallan/vire-options/internal/tracing"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Storage      interfaces.StorageManager
	Tracer       *tracing.Tracer
	AlphaVantage *client.AlphaVantageClient
	Suggestions  *suggestions.Service
	Scheduler    *scheduler.Scheduler

	// HTTP handlers
	HealthHandler         *handlers.HealthHandler
	VersionHandler        *handlers.VersionHandler
	UpstreamHealthHandler *handlers.UpstreamHealthHandler
	SuggestionsHandler    *handlers.SuggestionsHandler
	MCPHandler            *mcp.Handler

	ctx    context.Context
	cancel context.CancelFunc
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		Config: cfg,
		Logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	env := strings.ToLower(strings.TrimSpace(cfg.Environment))
	if env != "prod" && env != "dev" && env != "" {
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("unrecognized environment value, defaulting to prod behavior")
	}

	if err := a.initServices(); err != nil {
		a.Close()
		return nil, err
	}
	a.initHandlers()

	logger.Info().Msg("application initialization complete")

	return a, nil
}

// initServices wires storage, tracing, the Alpha Vantage client, the
// suggestion pipeline and the watchlist scheduler.
func (a *App) initServices() error {
	store, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.Storage = store

	tracer, err := tracing.New(a.Config.Tracing)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.Tracer = tracer

	responseCache := cache.New(a.Config.AlphaVantage.CacheTTL(), a.Config.AlphaVantage.CacheMaxEntries)
	a.AlphaVantage = client.NewAlphaVantageClient(a.Config.AlphaVantage, responseCache, a.Logger)

	a.Suggestions = suggestions.NewService(a.AlphaVantage, a.Storage.HistoryStorage(), a.Tracer, a.Logger, a.Config.Suggestions)

	a.Scheduler = scheduler.New(a.ctx, a.Suggestions, a.Config.Watchlist, a.Logger)
	if err := a.Scheduler.Register(); err != nil {
		return err
	}

	a.Logger.Debug().
		Bool("tracing", a.Tracer.Enabled()).
		Bool("history", a.Config.Storage.Badger.Enabled).
		Int("watchlist", len(a.Scheduler.Symbols())).
		Msg("services initialized")
	return nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.UpstreamHealthHandler = handlers.NewUpstreamHealthHandler(a.Logger, a.AlphaVantage)
	a.SuggestionsHandler = handlers.NewSuggestionsHandler(a.Logger, a.Suggestions)
	a.MCPHandler = mcp.NewHandler(a.Suggestions, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// StartBackground starts the watchlist scheduler, warming once first when
// run_on_start is set.
func (a *App) StartBackground() {
	if len(a.Scheduler.Symbols()) == 0 {
		return
	}
	if a.Config.Watchlist.RunOnStart {
		go a.Scheduler.RunNow()
	}
	a.Scheduler.Start()
}

// Close closes all application resources.
func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()
	}

	var errs []error
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.Tracer != nil {
		if err := a.Tracer.Shutdown(context.Background()); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage close: %w", err))
		}
	}
	return errors.Join(errs...)
}
