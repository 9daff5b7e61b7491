package interfaces

import (
	"context"

	"github.com/bobmcallan/vire-options/internal/models"
)

// StorageManager provides access to domain-specific storage interfaces.
// Implementations can be swapped (BadgerDB now, centralised DB later).
type StorageManager interface {
	HistoryStorage() HistoryStorage
	Close() error
}

// HistoryStorage persists a summary of each served suggestion.
type HistoryStorage interface {
	Record(ctx context.Context, rec *models.SuggestionRecord) error
	// List returns records newest first. An empty symbol lists all symbols.
	List(ctx context.Context, symbol string, limit int) ([]models.SuggestionRecord, error)
}
