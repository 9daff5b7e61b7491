package badger

import (
	"context"
	"fmt"

	"github.com/bobmcallan/vire-options/internal/common"
	"github.com/bobmcallan/vire-options/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// HistoryStorage implements interfaces.HistoryStorage using BadgerDB.
type HistoryStorage struct {
	db     *BadgerDB
	logger *common.Logger
}

// NewHistoryStorage creates suggestion history storage backed by BadgerDB.
func NewHistoryStorage(db *BadgerDB, logger *common.Logger) *HistoryStorage {
	return &HistoryStorage{
		db:     db,
		logger: logger,
	}
}

// Record stores rec under its request ID, replacing any previous record.
func (s *HistoryStorage) Record(_ context.Context, rec *models.SuggestionRecord) error {
	if rec.RequestID == "" {
		return fmt.Errorf("suggestion record has no request id")
	}
	if err := s.db.Store().Upsert(rec.RequestID, rec); err != nil {
		return fmt.Errorf("failed to record suggestion %s: %w", rec.RequestID, err)
	}
	return nil
}

// List returns up to limit records, newest first, optionally for one symbol.
func (s *HistoryStorage) List(_ context.Context, symbol string, limit int) ([]models.SuggestionRecord, error) {
	var query *badgerhold.Query
	if symbol != "" {
		query = badgerhold.Where("Symbol").Eq(symbol)
	} else {
		query = &badgerhold.Query{}
	}
	query = query.SortBy("CreatedUnix").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []models.SuggestionRecord
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to list suggestion history: %w", err)
	}
	if records == nil {
		records = []models.SuggestionRecord{}
	}
	return records, nil
}
