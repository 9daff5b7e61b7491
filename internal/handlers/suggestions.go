package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/bobmcallan/vire-options/internal/common"
	"github.com/bobmcallan/vire-options/internal/models"
	"github.com/bobmcallan/vire-options/internal/suggestions"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

// SuggestionGenerator produces a suggestion response for a request.
type SuggestionGenerator interface {
	Generate(ctx context.Context, req models.SuggestionRequest) (*models.SuggestionResponse, error)
	History(ctx context.Context, symbol string, limit int) ([]models.SuggestionRecord, error)
}

// SuggestionsHandler serves trading suggestions and their history.
type SuggestionsHandler struct {
	logger  *common.Logger
	service SuggestionGenerator
}

// NewSuggestionsHandler creates a new suggestions handler.
func NewSuggestionsHandler(logger *common.Logger, service SuggestionGenerator) *SuggestionsHandler {
	return &SuggestionsHandler{logger: logger, service: service}
}

// HandleGenerate handles POST /v1/trading-suggestions.
func (h *SuggestionsHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large.")
			return
		}
		h.logger.Warn().Err(err).Msg("Failed to read request body")
		WriteError(w, http.StatusBadRequest, "Invalid or malformed JSON payload.")
		return
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		WriteError(w, http.StatusBadRequest, "Empty JSON payload or incorrect Content-Type.")
		return
	}

	var req models.SuggestionRequest
	if err := json.Unmarshal(trimmed, &req); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to parse JSON payload")
		WriteError(w, http.StatusBadRequest, "Invalid or malformed JSON payload.")
		return
	}

	resp, err := h.service.Generate(r.Context(), req)
	if err != nil {
		status, msg := suggestions.Classify(err)
		evt := h.logger.Warn()
		if status >= http.StatusInternalServerError {
			evt = h.logger.Error()
		}
		evt.Err(err).Str("symbol", strings.ToUpper(strings.TrimSpace(req.StockSymbol))).Int("status", status).Msg("Suggestion request failed")
		WriteError(w, status, msg)
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}

// HandleHistory handles GET /api/suggestions/history?symbol=&limit=.
func (h *SuggestionsHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			WriteError(w, http.StatusBadRequest, "Invalid limit. Must be between 1 and "+strconv.Itoa(maxHistoryLimit)+".")
			return
		}
		limit = n
	}

	records, err := h.service.History(r.Context(), symbol, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("symbol", symbol).Msg("Failed to list suggestion history")
		WriteError(w, http.StatusInternalServerError, suggestions.GenericErrorMessage)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   records,
	})
}
