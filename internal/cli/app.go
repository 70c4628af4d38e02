package cli

import (
	"context"
	"io"
	"os"
	"time"

	"task-manager/internal/config"
	"task-manager/internal/logging"
	"task-manager/internal/services"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// App represents the CLI application: the services a command works with and where it writes
type App struct {
	services *services.ServiceContainer
	config   *config.Config
	logger   *logging.Logger
	in       io.Reader
	out      io.Writer
	closers  []func() error
}

// AppFactory builds the application once flags have been applied to the configuration
type AppFactory func(cfg *config.Config) (*App, error)

// NewApp creates a new CLI application instance with dependency injection
func NewApp(container *services.ServiceContainer, cfg *config.Config, logger *logging.Logger, out io.Writer) *App {
	if logger == nil {
		logger = logging.Nop()
	}
	if out == nil {
		out = os.Stdout
	}
	return &App{
		services: container,
		config:   cfg,
		logger:   logger,
		in:       os.Stdin,
		out:      out,
	}
}

// NewAppFromConfig creates the production application: the configured store,
// logger and services writing to stdout
func NewAppFromConfig(cfg *config.Config) (*App, error) {
	store, err := config.CreateStore(cfg)
	if err != nil {
		return nil, err
	}
	return NewAppWithStore(cfg, store)
}

// NewAppWithStore creates an application persisting to store. The store is
// closed with the application, or right away when the logger cannot be built.
func NewAppWithStore(cfg *config.Config, store config.ClosableStore) (*App, error) {
	logger, err := config.CreateLogger(cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	logger.Debugw("Store opened", "location", store.Location(), "format", cfg.Storage.Format)

	container := services.NewServiceContainer(store, logger, timeNow, cfg.Time.DisplayFormat)
	app := NewApp(container, cfg, logger, os.Stdout)
	app.closers = append(app.closers, store.Close, func() error {
		// Syncing a console stderr fails on some platforms; nothing is lost.
		_ = logger.Close()
		return nil
	})
	return app, nil
}

// Load reads the stored task list into memory
func (a *App) Load(ctx context.Context) error {
	return a.services.TaskService.Load(ctx)
}

// Close releases the store and flushes the logger. The first error wins.
func (a *App) Close() error {
	var first error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
