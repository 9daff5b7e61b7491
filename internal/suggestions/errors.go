package suggestions

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/vire-options/internal/client"
	"github.com/bobmcallan/vire-options/internal/models"
)

// GenericErrorMessage is returned for failures with no client-safe detail.
const GenericErrorMessage = "An unexpected internal server error occurred."

// Classify maps a Generate error to an HTTP status and the message shown to
// callers.
func Classify(err error) (int, string) {
	var (
		validationErr *models.ValidationError
		symbolErr     *SymbolError
		apiErr        *client.APIError
		connErr       *client.ConnectionError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Message
	case errors.Is(err, ErrNoHistoricalData) && errors.As(err, &symbolErr):
		return http.StatusNotFound, "Could not fetch historical data for " + symbolErr.Symbol + ". It might be an invalid symbol or no data available."
	case errors.Is(err, ErrPriceUnavailable) && errors.As(err, &symbolErr):
		return http.StatusInternalServerError, "Analysis could not be performed for " + symbolErr.Symbol + ". Current price might be unavailable."
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, "External API error: " + apiErr.Error()
	case errors.As(err, &connErr):
		return http.StatusServiceUnavailable, "Could not connect to external data provider: " + connErr.Error()
	default:
		return http.StatusInternalServerError, GenericErrorMessage
	}
}
