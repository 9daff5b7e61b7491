// Command vire-mcp serves the suggestion tools over MCP stdio for desktop
// clients. The HTTP server exposes the same tools on /mcp.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/vire-options/internal/app"
	"github.com/bobmcallan/vire-options/internal/common"
	"github.com/bobmcallan/vire-options/internal/config"
)

func main() {
	configFile := flag.String("config", "", "Path to config file")
	flag.Parse()

	config.LoadVersionFromFile()
	_ = godotenv.Load()

	cfg, err := config.LoadFromFile(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if issues := cfg.Validate(); len(issues) > 0 {
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "config: %s\n", issue)
		}
		os.Exit(1)
	}

	logger := common.NewStdioLogger(loggingConfig(cfg.Logging))

	application, err := app.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize application: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	logger.Info().Msg("serving MCP over stdio")

	if err := server.ServeStdio(application.MCPHandler.MCPServer()); err != nil {
		fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
		os.Exit(1)
	}
}

// loggingConfig maps the [logging] section onto the common logger config.
func loggingConfig(cfg config.LoggingConfig) common.LoggingConfig {
	return common.LoggingConfig{
		Level:      cfg.Level,
		Outputs:    cfg.Outputs,
		FilePath:   cfg.FilePath,
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}
}
