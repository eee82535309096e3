package storage

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/maadv/parecer/internal/common"
	"github.com/maadv/parecer/internal/interfaces"
	"github.com/maadv/parecer/internal/storage/badger"
	"github.com/maadv/parecer/internal/storage/memory"
)

// NewJobStore creates the job store selected by configuration.
// "memory" is the default; "badger" persists jobs across restarts.
func NewJobStore(config *common.Config, logger arbor.ILogger) (interfaces.JobStore, error) {
	switch config.Storage.Type {
	case "memory":
		logger.Debug().Msg("Using in-memory job store")
		return memory.NewJobStore(), nil

	case "badger":
		db, err := badger.NewBadgerDB(logger, &config.Storage.Badger)
		if err != nil {
			return nil, fmt.Errorf("failed to open badger store: %w", err)
		}
		logger.Debug().Str("path", config.Storage.Badger.Path).Msg("Using badger job store")
		return badger.NewJobStore(db, logger), nil

	default:
		return nil, fmt.Errorf("unknown storage type: %s", config.Storage.Type)
	}
}
