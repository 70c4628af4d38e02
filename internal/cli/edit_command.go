package cli

import (
	"context"
	"fmt"
	"strconv"

	"task-manager/internal/errors"
	"task-manager/internal/services"
)

// EditOptions holds the flags of the edit command. Nil fields were not given.
type EditOptions struct {
	ScheduleOptions
	Title  *string
	Active *bool
}

// EditCommand handles the edit command
type EditCommand struct {
	app          *App
	opts         EditOptions
	errorHandler *ErrorHandler
}

// NewEditCommand creates a new edit command handler
func NewEditCommand(app *App, opts EditOptions) *EditCommand {
	return &EditCommand{
		app:          app,
		opts:         opts,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the edit command on the task numbered by the single argument
func (c *EditCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "edit",
			"usage: tm edit INDEX [--title T] [--at TIME | --from TIME --to TIME --every INTERVAL] [--active=true|false]")
	}
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}

	spec := services.TaskSpec{Title: c.opts.Title, Active: c.opts.Active}
	if err := c.opts.toSpec(c.app.services.TimeService, &spec); err != nil {
		return c.errorHandler.Handle("edit task", err)
	}

	view, err := c.app.services.TaskService.EditTask(ctx, index, spec)
	if err != nil {
		return c.errorHandler.Handle("edit task", err)
	}

	fmt.Fprintf(c.app.out, "Updated task %d: %s\n", view.Index, view.Task)
	return nil
}

// parseIndex reads a 1-based task number
func parseIndex(text string) (int, error) {
	index, err := strconv.Atoi(text)
	if err != nil || index < 1 {
		return 0, errors.NewInvalidInputError("index", text, "task numbers start at 1")
	}
	return index, nil
}
