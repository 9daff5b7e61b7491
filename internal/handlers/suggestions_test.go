package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bobmcallan/vire-options/internal/client"
	"github.com/bobmcallan/vire-options/internal/common"
	"github.com/bobmcallan/vire-options/internal/models"
	"github.com/bobmcallan/vire-options/internal/suggestions"
)

type stubGenerator struct {
	resp       *models.SuggestionResponse
	err        error
	gotReq     models.SuggestionRequest
	records    []models.SuggestionRecord
	historyErr error
	gotSymbol  string
	gotLimit   int
}

func (s *stubGenerator) Generate(_ context.Context, req models.SuggestionRequest) (*models.SuggestionResponse, error) {
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func (s *stubGenerator) History(_ context.Context, symbol string, limit int) ([]models.SuggestionRecord, error) {
	s.gotSymbol, s.gotLimit = symbol, limit
	return s.records, s.historyErr
}

func postSuggestion(h *SuggestionsHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/v1/trading-suggestions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.HandleGenerate(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal error body %q: %v", w.Body.String(), err)
	}
	return body["error"]
}

func TestSuggestionsHandler_Success(t *testing.T) {
	target := 109.18
	stub := &stubGenerator{resp: &models.SuggestionResponse{
		RequestID:             "req-1",
		StockSymbol:           "IBM",
		CurrentPrice:          106,
		PredictedPriceTargets: models.PriceTargets{ShortTermTarget: &target, ChangePercent: 3.0},
		Disclaimer:            models.Disclaimer,
	}}
	h := NewSuggestionsHandler(common.NewSilentLogger(), stub)

	w := postSuggestion(h, `{"stock_symbol": "ibm", "risk_tolerance": "High", "news_limit": 10}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if stub.gotReq.StockSymbol != "ibm" || stub.gotReq.RiskTolerance != "High" || stub.gotReq.NewsLimit != 10 {
		t.Errorf("unexpected request passed to service: %+v", stub.gotReq)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["request_id"] != "req-1" {
		t.Errorf("expected request_id req-1, got %v", body["request_id"])
	}
	targets, ok := body["predicted_price_targets"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected predicted_price_targets object, got %v", body["predicted_price_targets"])
	}
	if targets["short_term_target"] != 109.18 {
		t.Errorf("expected short_term_target 109.18, got %v", targets["short_term_target"])
	}
}

func TestSuggestionsHandler_MalformedJSON(t *testing.T) {
	h := NewSuggestionsHandler(common.NewSilentLogger(), &stubGenerator{})

	w := postSuggestion(h, `{"stock_symbol": `)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
	if msg := errorBody(t, w); msg != "Invalid or malformed JSON payload." {
		t.Errorf("unexpected error %q", msg)
	}
}

func TestSuggestionsHandler_EmptyBody(t *testing.T) {
	h := NewSuggestionsHandler(common.NewSilentLogger(), &stubGenerator{})

	for _, body := range []string{"", "  ", "null"} {
		w := postSuggestion(h, body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected status 400, got %d", body, w.Code)
		}
		if msg := errorBody(t, w); msg != "Empty JSON payload or incorrect Content-Type." {
			t.Errorf("body %q: unexpected error %q", body, msg)
		}
	}
}

func TestSuggestionsHandler_RejectsGET(t *testing.T) {
	h := NewSuggestionsHandler(common.NewSilentLogger(), &stubGenerator{})

	req := httptest.NewRequest("GET", "/v1/trading-suggestions", nil)
	w := httptest.NewRecorder()
	h.HandleGenerate(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestSuggestionsHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantPrefix string
	}{
		{"validation", &models.ValidationError{Message: "stock_symbol is required."}, http.StatusBadRequest, "stock_symbol is required."},
		{"not found", &suggestions.SymbolError{Symbol: "XYZ", Err: suggestions.ErrNoHistoricalData}, http.StatusNotFound, "Could not fetch historical data for XYZ."},
		{"no price", &suggestions.SymbolError{Symbol: "XYZ", Err: suggestions.ErrPriceUnavailable}, http.StatusInternalServerError, "Analysis could not be performed for XYZ."},
		{"api", &client.APIError{Kind: "Error", Message: "Invalid API call."}, http.StatusBadGateway, "External API error: Alpha Vantage API Error"},
		{"connection", &client.ConnectionError{Err: errors.New("refused")}, http.StatusServiceUnavailable, "Could not connect to external data provider:"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "An unexpected internal server error occurred."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSuggestionsHandler(common.NewSilentLogger(), &stubGenerator{err: tt.err})

			w := postSuggestion(h, `{"stock_symbol": "XYZ"}`)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if msg := errorBody(t, w); !strings.HasPrefix(msg, tt.wantPrefix) {
				t.Errorf("expected error starting with %q, got %q", tt.wantPrefix, msg)
			}
		})
	}
}

func TestSuggestionsHandler_BodyTooLarge(t *testing.T) {
	h := NewSuggestionsHandler(common.NewSilentLogger(), &stubGenerator{})

	req := httptest.NewRequest("POST", "/v1/trading-suggestions", strings.NewReader(`{"stock_symbol": "`+strings.Repeat("A", 64)+`"}`))
	w := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(w, req.Body, 16)
	h.HandleGenerate(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected status 413, got %d", w.Code)
	}
}

func TestHistoryHandler_Defaults(t *testing.T) {
	stub := &stubGenerator{records: []models.SuggestionRecord{{RequestID: "a", Symbol: "IBM"}}}
	h := NewSuggestionsHandler(common.NewSilentLogger(), stub)

	req := httptest.NewRequest("GET", "/api/suggestions/history?symbol=ibm", nil)
	w := httptest.NewRecorder()
	h.HandleHistory(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if stub.gotSymbol != "IBM" || stub.gotLimit != 20 {
		t.Errorf("expected IBM/20, got %s/%d", stub.gotSymbol, stub.gotLimit)
	}

	var body struct {
		Status string                    `json:"status"`
		Data   []models.SuggestionRecord `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body.Status != "ok" || len(body.Data) != 1 || body.Data[0].RequestID != "a" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestHistoryHandler_InvalidLimit(t *testing.T) {
	h := NewSuggestionsHandler(common.NewSilentLogger(), &stubGenerator{})

	for _, limit := range []string{"0", "201", "abc"} {
		req := httptest.NewRequest("GET", "/api/suggestions/history?limit="+limit, nil)
		w := httptest.NewRecorder()
		h.HandleHistory(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("limit %s: expected status 400, got %d", limit, w.Code)
		}
	}
}

func TestHistoryHandler_StorageError(t *testing.T) {
	h := NewSuggestionsHandler(common.NewSilentLogger(), &stubGenerator{historyErr: errors.New("db closed")})

	req := httptest.NewRequest("GET", "/api/suggestions/history", nil)
	w := httptest.NewRecorder()
	h.HandleHistory(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
}
