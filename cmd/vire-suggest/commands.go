package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bobmcallan/vire-options/internal/cache"
	"github.com/bobmcallan/vire-options/internal/client"
	"github.com/bobmcallan/vire-options/internal/common"
	"github.com/bobmcallan/vire-options/internal/config"
	"github.com/bobmcallan/vire-options/internal/models"
	"github.com/bobmcallan/vire-options/internal/storage/noop"
	"github.com/bobmcallan/vire-options/internal/suggestions"
	"github.com/bobmcallan/vire-options/internal/tracing"
)

// newRootCmd creates the root command.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vire-suggest",
		Short: "Options trading suggestions from Alpha Vantage market data",
		Long: `vire-suggest analyzes a stock's recent price trend and news sentiment
and prints a short-term options strategy suggestion.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringSlice("config", nil, "Configuration file path (repeatable)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log at debug level to stderr")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newAnalyzeCmd creates the analyze command.
func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze SYMBOL",
		Short: "Generate a trading suggestion for a stock symbol",
		Long: `Fetch daily prices and news sentiment for SYMBOL and print a suggestion.
Example: vire-suggest analyze IBM --risk high`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, _ := cmd.Flags().GetStringSlice("config")
			debug, _ := cmd.Flags().GetBool("debug")
			risk, _ := cmd.Flags().GetString("risk")
			outputSize, _ := cmd.Flags().GetString("output-size")
			newsLimit, _ := cmd.Flags().GetInt("news-limit")
			asJSON, _ := cmd.Flags().GetBool("json")

			req := models.SuggestionRequest{
				StockSymbol:   args[0],
				RiskTolerance: risk,
				OutputSize:    outputSize,
				NewsLimit:     newsLimit,
			}
			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), paths, debug, req, asJSON)
		},
	}

	cmd.Flags().String("risk", "", "Risk tolerance: low, moderate or high (config default if empty)")
	cmd.Flags().String("output-size", "", "Price history size: compact or full (config default if empty)")
	cmd.Flags().Int("news-limit", 0, "Number of news articles to score (config default if 0)")
	cmd.Flags().Bool("json", false, "Print the raw JSON response")

	return cmd
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vire-suggest %s (build %s, commit %s)\n",
				config.GetVersion(), config.GetBuild(), config.GetGitCommit())
		},
	}
}

// runAnalyze builds a storage-less pipeline and prints one suggestion.
func runAnalyze(ctx context.Context, out io.Writer, paths []string, debug bool, req models.SuggestionRequest, asJSON bool) error {
	_ = godotenv.Load()

	cfg, err := config.LoadFromFiles(paths...)
	if err != nil {
		return err
	}
	if strings.TrimSpace(cfg.AlphaVantage.APIKey) == "" {
		return fmt.Errorf("no Alpha Vantage API key: set ALPHA_VANTAGE_API_KEY or alphavantage.api_key")
	}

	logger := common.NewCLILogger(debug)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	av := client.NewAlphaVantageClient(cfg.AlphaVantage, cache.New(cfg.AlphaVantage.CacheTTL(), cfg.AlphaVantage.CacheMaxEntries), logger)
	svc := suggestions.NewService(av, noop.NewManager().HistoryStorage(), tracing.Disabled(), logger, cfg.Suggestions)

	resp, err := svc.Generate(ctx, req)
	if err != nil {
		_, msg := suggestions.Classify(err)
		return fmt.Errorf("%s", msg)
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Fprintln(out, renderReport(resp))
	return nil
}
