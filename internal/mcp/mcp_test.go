package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/vire-options/internal/client"
	"github.com/bobmcallan/vire-options/internal/common"
	"github.com/bobmcallan/vire-options/internal/models"
	"github.com/bobmcallan/vire-options/internal/suggestions"
)

type stubService struct {
	resp      *models.SuggestionResponse
	err       error
	gotReq    models.SuggestionRequest
	records   []models.SuggestionRecord
	gotSymbol string
	gotLimit  int
}

func (s *stubService) Generate(_ context.Context, req models.SuggestionRequest) (*models.SuggestionResponse, error) {
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func (s *stubService) History(_ context.Context, symbol string, limit int) ([]models.SuggestionRecord, error) {
	s.gotSymbol, s.gotLimit = symbol, limit
	return s.records, nil
}

func testLogger() *common.Logger {
	return common.NewSilentLogger()
}

func newTestMCPServer(svc SuggestionService) *mcpserver.MCPServer {
	return NewHandler(svc, testLogger()).MCPServer()
}

// listTools calls tools/list on the MCPServer and returns the tools.
func listTools(t *testing.T, s *mcpserver.MCPServer) []mcpgo.Tool {
	t.Helper()

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
	result := s.HandleMessage(t.Context(), msg)

	resp, ok := result.(mcpgo.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse, got %T", result)
	}

	resultJSON, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var toolsResult mcpgo.ListToolsResult
	if err := json.Unmarshal(resultJSON, &toolsResult); err != nil {
		t.Fatalf("failed to unmarshal ListToolsResult: %v", err)
	}
	return toolsResult.Tools
}

// callTool calls a tool on the MCPServer and returns the result.
func callTool(t *testing.T, s *mcpserver.MCPServer, name string, args map[string]interface{}) *mcpgo.CallToolResult {
	t.Helper()

	paramsJSON, _ := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":` + string(paramsJSON) + `}`)
	result := s.HandleMessage(t.Context(), msg)

	resp, ok := result.(mcpgo.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse, got %T", result)
	}

	resultJSON, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var toolResult mcpgo.CallToolResult
	if err := json.Unmarshal(resultJSON, &toolResult); err != nil {
		t.Fatalf("failed to unmarshal CallToolResult: %v", err)
	}
	return &toolResult
}

// extractText extracts the text field from an MCP content block.
func extractText(t *testing.T, content mcpgo.Content) string {
	t.Helper()
	contentJSON, _ := json.Marshal(content)
	var tc struct {
		Text string `json:"text"`
	}
	json.Unmarshal(contentJSON, &tc)
	return tc.Text
}

func TestListTools(t *testing.T) {
	s := newTestMCPServer(&stubService{})

	tools := listTools(t, s)
	if len(tools) != 3 {
		t.Fatalf("expected 3 tools, got %d", len(tools))
	}

	names := map[string]mcpgo.Tool{}
	for _, tool := range tools {
		names[tool.Name] = tool
	}
	for _, want := range []string{"get_trading_suggestions", "get_suggestion_history", "get_version"} {
		if _, ok := names[want]; !ok {
			t.Errorf("missing tool %s", want)
		}
	}

	required := names["get_trading_suggestions"].InputSchema.Required
	if len(required) != 1 || required[0] != "stock_symbol" {
		t.Errorf("expected stock_symbol to be required, got %v", required)
	}
}

func TestGetTradingSuggestions_Success(t *testing.T) {
	svc := &stubService{resp: &models.SuggestionResponse{RequestID: "req-1", StockSymbol: "IBM", CurrentPrice: 106}}
	s := newTestMCPServer(svc)

	result := callTool(t, s, "get_trading_suggestions", map[string]interface{}{
		"stock_symbol":   "ibm",
		"risk_tolerance": "low",
		"news_limit":     10,
	})
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", extractText(t, result.Content[0]))
	}

	if svc.gotReq.StockSymbol != "ibm" || svc.gotReq.RiskTolerance != "low" || svc.gotReq.NewsLimit != 10 {
		t.Errorf("unexpected request %+v", svc.gotReq)
	}

	var resp models.SuggestionResponse
	if err := json.Unmarshal([]byte(extractText(t, result.Content[0])), &resp); err != nil {
		t.Fatalf("failed to unmarshal tool output: %v", err)
	}
	if resp.RequestID != "req-1" || resp.CurrentPrice != 106 {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestGetTradingSuggestions_Errors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"validation", &models.ValidationError{Message: "stock_symbol is required."}, "stock_symbol is required."},
		{"not found", &suggestions.SymbolError{Symbol: "XYZ", Err: suggestions.ErrNoHistoricalData}, "Could not fetch historical data for XYZ."},
		{"api", &client.APIError{Kind: "Error", Message: "bad"}, "External API error: Alpha Vantage API Error: bad"},
		{"unexpected", errors.New("boom"), suggestions.GenericErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestMCPServer(&stubService{err: tt.err})

			result := callTool(t, s, "get_trading_suggestions", map[string]interface{}{"stock_symbol": "XYZ"})
			if !result.IsError {
				t.Fatal("expected error result")
			}
			if text := extractText(t, result.Content[0]); !strings.HasPrefix(text, tt.wantMsg) {
				t.Errorf("expected %q prefix, got %q", tt.wantMsg, text)
			}
		})
	}
}

func TestGetSuggestionHistory(t *testing.T) {
	svc := &stubService{records: []models.SuggestionRecord{{RequestID: "a", Symbol: "IBM"}}}
	s := newTestMCPServer(svc)

	result := callTool(t, s, "get_suggestion_history", map[string]interface{}{"stock_symbol": "ibm"})
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", extractText(t, result.Content[0]))
	}
	if svc.gotSymbol != "IBM" || svc.gotLimit != 20 {
		t.Errorf("expected IBM/20, got %s/%d", svc.gotSymbol, svc.gotLimit)
	}

	var records []models.SuggestionRecord
	if err := json.Unmarshal([]byte(extractText(t, result.Content[0])), &records); err != nil {
		t.Fatalf("failed to unmarshal tool output: %v", err)
	}
	if len(records) != 1 || records[0].RequestID != "a" {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestGetSuggestionHistory_InvalidLimit(t *testing.T) {
	s := newTestMCPServer(&stubService{})

	result := callTool(t, s, "get_suggestion_history", map[string]interface{}{"limit": 500})
	if !result.IsError {
		t.Error("expected error result for limit 500")
	}
}

func TestGetVersion(t *testing.T) {
	s := newTestMCPServer(&stubService{})

	result := callTool(t, s, "get_version", map[string]interface{}{})
	if result.IsError {
		t.Fatal("unexpected tool error")
	}

	var info map[string]versionInfo
	if err := json.Unmarshal([]byte(extractText(t, result.Content[0])), &info); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if _, ok := info["vire_options"]; !ok {
		t.Error("missing vire_options in response")
	}
}
