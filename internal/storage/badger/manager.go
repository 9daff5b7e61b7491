package badger

import (
	"github.com/bobmcallan/vire-options/internal/common"
	"github.com/bobmcallan/vire-options/internal/config"
	"github.com/bobmcallan/vire-options/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger.
type Manager struct {
	db      *BadgerDB
	history *HistoryStorage
	logger  *common.Logger
}

// NewManager creates a new Badger storage manager.
func NewManager(logger *common.Logger, cfg *config.BadgerConfig) (*Manager, error) {
	db, err := NewBadgerDB(logger, cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug().Msg("Badger storage manager initialized")

	return &Manager{
		db:      db,
		history: NewHistoryStorage(db, logger),
		logger:  logger,
	}, nil
}

// HistoryStorage returns the suggestion history storage.
func (m *Manager) HistoryStorage() interfaces.HistoryStorage {
	return m.history
}

// Close closes the database connection.
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
