package storage

import (
	"context"
	"fmt"
	"log/slog"

	"xtor/internal/config"
	"xtor/internal/logging"
)

// Store is a durable string key-value store.
type Store interface {
	// Get returns the value stored under key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Open builds the backend selected by cfg.Storage.
func Open(cfg *config.Config, logger *slog.Logger) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage: config is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "storage")

	switch cfg.Storage.Backend {
	case config.StorageBackendSQLite:
		store, err := OpenSQLite(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		logger.Debug("opened sqlite store", logging.String("path", cfg.Storage.Path))
		return store, nil
	case config.StorageBackendFile, "":
		logger.Debug("opened file store", logging.String("path", cfg.Storage.Path))
		return NewFileStore(cfg.Storage.Path), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Storage.Backend)
	}
}
