package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"task-manager/internal/notify"
)

// WatchOptions holds the flags of the watch command
type WatchOptions struct {
	// Reload re-reads the store at this period so edits made by other
	// tm invocations are picked up. Zero disables reloading.
	Reload time.Duration
}

// WatchCommand handles the watch command
type WatchCommand struct {
	app          *App
	opts         WatchOptions
	errorHandler *ErrorHandler
}

// NewWatchCommand creates a new watch command handler
func NewWatchCommand(app *App, opts WatchOptions) *WatchCommand {
	return &WatchCommand{
		app:          app,
		opts:         opts,
		errorHandler: NewErrorHandler(),
	}
}

// Execute prints a notification for every occurrence until ctx is cancelled
func (c *WatchCommand) Execute(ctx context.Context, args []string) error {
	list := c.app.services.TaskService.TaskList()
	logger := c.app.logger.WithComponent("notify")

	poller := notify.NewPoller(list, notify.WriterNotifier{W: c.app.out},
		notify.WithInterval(c.app.config.Notify.Interval),
		notify.WithClock(timeNow),
		notify.WithLogger(logger),
	)

	fmt.Fprintf(c.app.out, "Watching %d tasks, press Ctrl+C to stop\n", list.Size())

	var wg sync.WaitGroup
	if c.opts.Reload > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.reload(ctx)
		}()
	}

	err := poller.Run(ctx)
	wg.Wait()
	if err != nil {
		return c.errorHandler.Handle("watch tasks", err)
	}
	return nil
}

// reload refreshes the list from the store until ctx is done. Failed loads
// keep the current list.
func (c *WatchCommand) reload(ctx context.Context) {
	ticker := time.NewTicker(c.opts.Reload)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.app.services.TaskService.Load(ctx); err != nil && ctx.Err() == nil {
				c.app.logger.Warnw("Reload failed", "error", err)
			}
		}
	}
}
