package storage

import (
	"github.com/bobmcallan/vire-options/internal/common"
	"github.com/bobmcallan/vire-options/internal/config"
	"github.com/bobmcallan/vire-options/internal/interfaces"
	"github.com/bobmcallan/vire-options/internal/storage/badger"
	"github.com/bobmcallan/vire-options/internal/storage/noop"
)

// NewStorageManager creates a new storage manager based on config.
func NewStorageManager(logger *common.Logger, cfg *config.Config) (interfaces.StorageManager, error) {
	if !cfg.Storage.Badger.Enabled {
		logger.Info().Msg("Suggestion history disabled")
		return noop.NewManager(), nil
	}
	return badger.NewManager(logger, &cfg.Storage.Badger)
}
