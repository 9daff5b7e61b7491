package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/vire-options/internal/common"
	"github.com/bobmcallan/vire-options/internal/models"
	"github.com/bobmcallan/vire-options/internal/suggestions"
)

const maxHistoryLimit = 200

// RegisterTools adds the suggestion tools to s and returns how many were added.
func RegisterTools(s *server.MCPServer, service SuggestionService, logger *common.Logger) int {
	s.AddTool(SuggestionsTool(), SuggestionsToolHandler(service, logger))
	s.AddTool(HistoryTool(), HistoryToolHandler(service, logger))
	s.AddTool(VersionTool(), VersionToolHandler())
	return 3
}

// SuggestionsTool returns the get_trading_suggestions tool definition.
func SuggestionsTool() mcp.Tool {
	return mcp.NewTool("get_trading_suggestions",
		mcp.WithDescription("Analyze a stock's recent price trend and news sentiment and suggest an options strategy (educational, not financial advice)."),
		mcp.WithString("stock_symbol",
			mcp.Required(),
			mcp.Description("Ticker symbol, e.g. IBM"),
		),
		mcp.WithString("risk_tolerance",
			mcp.Description("low, moderate or high (default moderate)"),
			mcp.Enum("low", "moderate", "high"),
		),
		mcp.WithString("output_size",
			mcp.Description("compact (latest 100 days) or full history"),
			mcp.Enum(models.OutputSizeCompact, models.OutputSizeFull),
		),
		mcp.WithNumber("news_limit",
			mcp.Description(fmt.Sprintf("Number of news articles to score, 1-%d (default 50)", models.MaxNewsLimit)),
		),
	)
}

// SuggestionsToolHandler runs the suggestion pipeline for a tool call.
// Failures carry the same messages as the HTTP endpoint.
func SuggestionsToolHandler(service SuggestionService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req := models.SuggestionRequest{
			StockSymbol:   r.GetString("stock_symbol", ""),
			RiskTolerance: r.GetString("risk_tolerance", ""),
			OutputSize:    r.GetString("output_size", ""),
			NewsLimit:     r.GetInt("news_limit", 0),
		}

		resp, err := service.Generate(ctx, req)
		if err != nil {
			status, msg := suggestions.Classify(err)
			logger.Warn().Err(err).Int("status", status).Str("symbol", req.StockSymbol).Msg("MCP suggestion failed")
			return errorResult(msg), nil
		}
		return jsonResult(resp), nil
	}
}

// HistoryTool returns the get_suggestion_history tool definition.
func HistoryTool() mcp.Tool {
	return mcp.NewTool("get_suggestion_history",
		mcp.WithDescription("List previously generated trading suggestions, newest first."),
		mcp.WithString("stock_symbol",
			mcp.Description("Only return suggestions for this symbol"),
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum records to return, 1-%d (default 20)", maxHistoryLimit)),
		),
	)
}

// HistoryToolHandler lists recorded suggestions.
func HistoryToolHandler(service SuggestionService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol := strings.ToUpper(strings.TrimSpace(r.GetString("stock_symbol", "")))
		limit := r.GetInt("limit", 20)
		if limit < 1 || limit > maxHistoryLimit {
			return errorResult(fmt.Sprintf("Invalid limit. Must be between 1 and %d.", maxHistoryLimit)), nil
		}

		records, err := service.History(ctx, symbol, limit)
		if err != nil {
			logger.Error().Err(err).Str("symbol", symbol).Msg("MCP history lookup failed")
			return errorResult(suggestions.GenericErrorMessage), nil
		}
		return jsonResult(records), nil
	}
}
