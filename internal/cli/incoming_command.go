package cli

import (
	"context"
	"fmt"
)

// IncomingCommand handles the incoming command
type IncomingCommand struct {
	app          *App
	opts         WindowOptions
	errorHandler *ErrorHandler
}

// NewIncomingCommand creates a new incoming command handler
func NewIncomingCommand(app *App, opts WindowOptions) *IncomingCommand {
	return &IncomingCommand{
		app:          app,
		opts:         opts,
		errorHandler: NewErrorHandler(),
	}
}

// Execute lists the tasks that fire at least once inside the window
func (c *IncomingCommand) Execute(ctx context.Context, args []string) error {
	timeService := c.app.services.TimeService
	window, err := c.opts.resolve(timeService, c.app.config.Display.IncomingWindow)
	if err != nil {
		return c.errorHandler.Handle("list incoming tasks", err)
	}

	tasks, err := c.app.services.ReportingService.Incoming(ctx, *window)
	if err != nil {
		return c.errorHandler.Handle("list incoming tasks", err)
	}

	if len(tasks) == 0 {
		fmt.Fprintf(c.app.out, "No tasks between %s and %s\n",
			timeService.FormatInstant(window.Start), timeService.FormatInstant(window.End))
		return nil
	}
	for _, task := range tasks {
		fmt.Fprintln(c.app.out, task)
	}
	return nil
}
