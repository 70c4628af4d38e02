package cli

import (
	"context"
	"fmt"

	"task-manager/internal/errors"
)

// RemoveCommand handles the remove command
type RemoveCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewRemoveCommand creates a new remove command handler
func NewRemoveCommand(app *App) *RemoveCommand {
	return &RemoveCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
	}
}

// Execute removes every task numbered in args. Nothing is removed when any number is invalid.
func (c *RemoveCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("command", "remove", "usage: tm remove INDEX...")
	}

	indexes := make([]int, 0, len(args))
	for _, arg := range args {
		index, err := parseIndex(arg)
		if err != nil {
			return err
		}
		indexes = append(indexes, index)
	}

	removed, err := c.app.services.TaskService.RemoveTasks(ctx, indexes)
	if err != nil {
		return c.errorHandler.Handle("remove tasks", err)
	}

	for _, task := range removed {
		fmt.Fprintf(c.app.out, "Removed %s\n", task)
	}
	return nil
}
