package main

import (
	"fmt"
	"os"
	"path/filepath"

	"task-manager/internal/cli"
	"task-manager/internal/config"
)

// Environment represents the current environment
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// newAppFactory returns the AppFactory for env
func newAppFactory(env Environment) cli.AppFactory {
	switch env {
	case Development:
		return createDevelopmentApp
	case Testing:
		return createTestingApp
	default:
		return cli.NewAppFromConfig // Default to production
	}
}

// createDevelopmentApp keeps tasks in a text file in the working directory
// and logs at debug level
func createDevelopmentApp(cfg *config.Config) (*cli.App, error) {
	dev := *cfg
	dev.SetStoragePath(filepath.Join(".tm-dev", cfg.Storage.Filename))
	dev.Logging.Level = "debug"

	app, err := cli.NewAppFromConfig(&dev)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize development store: %w", err)
	}
	return app, nil
}

// createTestingApp uses an in-memory SQLite store that vanishes on exit
func createTestingApp(cfg *config.Config) (*cli.App, error) {
	store, err := config.CreateTestStore()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize testing store: %w", err)
	}
	return cli.NewAppWithStore(cfg, store)
}

// getEnvironment determines the current environment from TM_ENV
func getEnvironment() Environment {
	switch env := Environment(os.Getenv("TM_ENV")); env {
	case Development, Testing, Production:
		return env
	default:
		// Default to production for safety
		return Production
	}
}
