package config

import (
	"fmt"
	"io/fs"
	"os"

	"task-manager/internal/logging"
	"task-manager/internal/repository/sqlite"
	"task-manager/internal/storage"
)

// ClosableStore is a store that may hold resources until closed.
type ClosableStore interface {
	storage.Store
	Close() error
}

// fileStore adapts a FileStore, which holds nothing open, to ClosableStore.
type fileStore struct {
	*storage.FileStore
}

func (fileStore) Close() error { return nil }

// CreateStore creates the task store selected by the configuration
func CreateStore(config *Config) (ClosableStore, error) {
	format, err := storage.ParseFormat(config.Storage.Format)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(config.Storage.Dir, fs.FileMode(config.Storage.DirPermissions)); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	path := config.GetStoragePath()

	if format == storage.FormatSQLite {
		store, err := sqlite.NewStore(path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return store, nil
	}

	store, err := storage.NewFileStore(path, format)
	if err != nil {
		return nil, err
	}
	return fileStore{store}, nil
}

// CreateTestStore creates an in-memory SQLite store for testing
func CreateTestStore() (ClosableStore, error) {
	store, err := sqlite.NewStore(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}
	return store, nil
}

// CreateLogger builds the application logger from the logging configuration
func CreateLogger(config *Config) (*logging.Logger, error) {
	return logging.New(logging.Options{
		Level:  config.Logging.Level,
		Format: config.Logging.Format,
		Output: config.Logging.Output,
	})
}
