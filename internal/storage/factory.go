package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/spice-ledger/internal/category"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/config"
	"github.com/Veraticus/spice-ledger/internal/service"
)

// Open creates the user store selected by cfg, running migrations where the backend needs them.
func Open(ctx context.Context, cfg config.StorageConfig, registry *category.Registry) (service.UserStore, error) {
	switch cfg.Backend {
	case config.BackendJSON, "":
		return NewJSONStore(cfg.Path, registry)
	case config.BackendSQLite:
		store, err := NewSQLiteStorage(cfg.Path, registry)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: storage backend %q", common.ErrInvalidConfig, cfg.Backend)
	}
}
