// Package scheduler pre-fetches market data for watchlist symbols on a cron
// schedule so interactive requests are served from the response cache.
package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/bobmcallan/vire-options/internal/common"
	"github.com/bobmcallan/vire-options/internal/config"
)

// Warmer refreshes cached market data for one symbol.
type Warmer interface {
	Warm(ctx context.Context, symbol string) error
}

// Scheduler runs the watchlist warm-up job.
type Scheduler struct {
	cron     *cron.Cron
	warmer   Warmer
	symbols  []string
	schedule string
	logger   *common.Logger
	ctx      context.Context
}

// New creates a scheduler for the configured watchlist.
func New(ctx context.Context, warmer Warmer, cfg config.WatchlistConfig, logger *common.Logger) *Scheduler {
	symbols := make([]string, 0, len(cfg.Symbols))
	for _, s := range cfg.Symbols {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			symbols = append(symbols, s)
		}
	}
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		warmer:   warmer,
		symbols:  symbols,
		schedule: cfg.Schedule,
		logger:   logger,
		ctx:      ctx,
	}
}

// Symbols returns the normalized watchlist.
func (s *Scheduler) Symbols() []string {
	return s.symbols
}

// Register adds the warm-up job. It is a no-op for an empty watchlist.
func (s *Scheduler) Register() error {
	if len(s.symbols) == 0 {
		return nil
	}
	if _, err := s.cron.AddFunc(s.schedule, func() { s.RunNow() }); err != nil {
		return fmt.Errorf("register watchlist job %q: %w", s.schedule, err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Str("schedule", s.schedule).Strs("symbols", s.symbols).Msg("Watchlist scheduler started")
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Watchlist scheduler stopped")
}

// RunNow warms every watchlist symbol in order and returns the number of
// failures. A failing symbol does not stop the run.
func (s *Scheduler) RunNow() int {
	failed := 0
	for _, symbol := range s.symbols {
		if s.ctx.Err() != nil {
			return failed
		}
		if err := s.warmer.Warm(s.ctx, symbol); err != nil {
			failed++
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Watchlist warm-up failed")
		}
	}
	s.logger.Info().Int("symbols", len(s.symbols)).Int("failed", failed).Msg("Watchlist warm-up complete")
	return failed
}
