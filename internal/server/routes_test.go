package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bobmcallan/vire-options/internal/app"
	"github.com/bobmcallan/vire-options/internal/common"
	"github.com/bobmcallan/vire-options/internal/config"
	"github.com/bobmcallan/vire-options/internal/models"
)

const upstreamSeries = `{
  "Time Series (Daily)": {
    "2023-11-17": {"4. close": "106.00"},
    "2023-11-16": {"4. close": "104.00"}
  }
}`

const upstreamNews = `{
  "items": "2",
  "feed": [
    {"title": "IBM beats", "url": "https://example.com/a", "time_published": "20231117T120000", "overall_sentiment_score": 0.4},
    {"title": "IBM flat", "url": "https://example.com/b", "time_published": "20231117T110000", "overall_sentiment_score": "0.1"}
  ]
}`

// newUpstream fakes the Alpha Vantage query endpoint.
func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			w.WriteHeader(http.StatusOK)
			return
		}
		switch r.URL.Query().Get("function") {
		case "TIME_SERIES_DAILY_ADJUSTED":
			w.Write([]byte(upstreamSeries))
		case "NEWS_SENTIMENT":
			w.Write([]byte(upstreamNews))
		default:
			w.Write([]byte(`{"Error Message": "Invalid API call."}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T) *app.App {
	t.Helper()

	upstream := newUpstream(t)

	cfg := config.NewDefaultConfig()
	cfg.Storage.Badger.Path = t.TempDir()
	cfg.AlphaVantage.APIKey = "test-key"
	cfg.AlphaVantage.BaseURL = upstream.URL
	cfg.AlphaVantage.TimeoutSeconds = 2

	application, err := app.New(cfg, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("failed to create test app: %v", err)
	}

	t.Cleanup(func() {
		application.Close()
	})

	return application
}

func TestRoutes_HealthEndpoint(t *testing.T) {
	srv := New(newTestApp(t))

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %s", body["status"])
	}
}

func TestRoutes_VersionEndpoint(t *testing.T) {
	srv := New(newTestApp(t))

	req := httptest.NewRequest("GET", "/api/version", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["service"] != "vire-options" {
		t.Errorf("expected service vire-options, got %s", body["service"])
	}
}

func TestRoutes_APINotFound(t *testing.T) {
	srv := New(newTestApp(t))

	req := httptest.NewRequest("GET", "/nonexistent", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "The requested endpoint does not exist") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}
}

func TestRoutes_MiddlewareApplied(t *testing.T) {
	srv := New(newTestApp(t))

	req := httptest.NewRequest("GET", "/api/health", nil)
	req.Header.Set("X-Request-ID", "routes-test")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Header().Get("X-Correlation-ID") != "routes-test" {
		t.Errorf("expected correlation ID routes-test, got %s", w.Header().Get("X-Correlation-ID"))
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers")
	}
}

func TestRoutes_SuggestionsWrongMethod(t *testing.T) {
	srv := New(newTestApp(t))

	req := httptest.NewRequest("GET", "/v1/trading-suggestions", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
	if w.Header().Get("Allow") != "POST" {
		t.Errorf("expected Allow POST, got %q", w.Header().Get("Allow"))
	}
}

func TestRoutes_SuggestionsEndToEnd(t *testing.T) {
	srv := New(newTestApp(t))

	req := httptest.NewRequest("POST", "/v1/trading-suggestions", strings.NewReader(`{"stock_symbol": " ibm "}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp models.SuggestionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if resp.StockSymbol != "IBM" {
		t.Errorf("expected symbol IBM, got %s", resp.StockSymbol)
	}
	if resp.RequestID == "" {
		t.Error("expected request_id")
	}
	if resp.CurrentPrice != 106 {
		t.Errorf("expected current price 106, got %v", resp.CurrentPrice)
	}
	if resp.TrendAnalysis.Direction != models.TrendUp {
		t.Errorf("expected UP trend, got %s", resp.TrendAnalysis.Direction)
	}
	if len(resp.SuggestedOptionsStrategies) == 0 {
		t.Error("expected at least one strategy")
	}
	if resp.Disclaimer != models.Disclaimer {
		t.Errorf("unexpected disclaimer %q", resp.Disclaimer)
	}

	// The served suggestion shows up in history.
	hreq := httptest.NewRequest("GET", "/api/suggestions/history?symbol=IBM", nil)
	hw := httptest.NewRecorder()
	srv.Handler().ServeHTTP(hw, hreq)

	if hw.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", hw.Code)
	}

	var history struct {
		Status string                    `json:"status"`
		Data   []models.SuggestionRecord `json:"data"`
	}
	if err := json.Unmarshal(hw.Body.Bytes(), &history); err != nil {
		t.Fatalf("failed to unmarshal history: %v", err)
	}
	if len(history.Data) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(history.Data))
	}
	if history.Data[0].RequestID != resp.RequestID {
		t.Errorf("expected request_id %s, got %s", resp.RequestID, history.Data[0].RequestID)
	}
}

func TestRoutes_SuggestionsValidationError(t *testing.T) {
	srv := New(newTestApp(t))

	req := httptest.NewRequest("POST", "/v1/trading-suggestions", strings.NewReader(`{"stock_symbol": ""}`))
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestRoutes_HistoryWrongMethod(t *testing.T) {
	srv := New(newTestApp(t))

	req := httptest.NewRequest("DELETE", "/api/suggestions/history", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestRoutes_UpstreamHealth(t *testing.T) {
	srv := New(newTestApp(t))

	req := httptest.NewRequest("GET", "/api/upstream-health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %s", body["status"])
	}
}
