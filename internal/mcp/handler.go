package mcp

import (
	"context"
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/vire-options/internal/common"
	"github.com/bobmcallan/vire-options/internal/config"
	"github.com/bobmcallan/vire-options/internal/models"
)

// SuggestionService is the part of the suggestion pipeline exposed as tools.
type SuggestionService interface {
	Generate(ctx context.Context, req models.SuggestionRequest) (*models.SuggestionResponse, error)
	History(ctx context.Context, symbol string, limit int) ([]models.SuggestionRecord, error)
}

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	mcpServer  *mcpserver.MCPServer
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
}

// NewHandler creates an MCP handler exposing the suggestion tools.
func NewHandler(service SuggestionService, logger *common.Logger) *Handler {
	mcpSrv := mcpserver.NewMCPServer(
		"vire-options",
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
	)

	count := RegisterTools(mcpSrv, service, logger)

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().Int("tools", count).Msg("MCP handler initialized")

	return &Handler{
		mcpServer:  mcpSrv,
		streamable: streamable,
		logger:     logger,
	}
}

// MCPServer returns the underlying MCP server.
func (h *Handler) MCPServer() *mcpserver.MCPServer {
	return h.mcpServer
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
