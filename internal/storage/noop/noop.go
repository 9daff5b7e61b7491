// Package noop provides storage that records nothing, used when persistence
// is disabled (the CLI, or storage.badger.enabled = false).
package noop

import (
	"context"

	"github.com/bobmcallan/vire-options/internal/interfaces"
	"github.com/bobmcallan/vire-options/internal/models"
)

type Manager struct{}

func NewManager() *Manager { return &Manager{} }

func (m *Manager) HistoryStorage() interfaces.HistoryStorage { return history{} }
func (m *Manager) Close() error                              { return nil }

type history struct{}

func (history) Record(context.Context, *models.SuggestionRecord) error { return nil }

func (history) List(context.Context, string, int) ([]models.SuggestionRecord, error) {
	return []models.SuggestionRecord{}, nil
}
