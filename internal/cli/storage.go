package cli

import (
	"fmt"
	"path/filepath"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/persist"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/store/sqlitestore"
)

// openSlot returns the storage slot selected by cfg.
func openSlot(cfg *config.Config) (persist.Slot, error) {
	switch cfg.Backend {
	case config.BackendJSON:
		return jsonstore.New(cfg.DataDir, cfg.Slot)
	case config.BackendSQLite:
		return sqlitestore.Open(filepath.Join(cfg.DataDir, sqlitestore.DBFileName), cfg.Slot)
	case config.BackendMemory:
		return persist.NewMemorySlot(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
