package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"task-manager/internal/errors"
	"task-manager/internal/services"
)

// ScheduleOptions are the schedule flags shared by add and edit
type ScheduleOptions struct {
	At    string
	From  string
	To    string
	Every string
}

// toSpec parses the non-empty flags into spec
func (o ScheduleOptions) toSpec(timeService services.TimeService, spec *services.TaskSpec) error {
	parse := func(text string) (*time.Time, error) {
		if text == "" {
			return nil, nil
		}
		t, err := timeService.ParseInstant(text)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}

	var err error
	if spec.At, err = parse(o.At); err != nil {
		return err
	}
	if spec.From, err = parse(o.From); err != nil {
		return err
	}
	if spec.To, err = parse(o.To); err != nil {
		return err
	}
	if o.Every != "" {
		every, err := timeService.ParseInterval(o.Every)
		if err != nil {
			return err
		}
		spec.Every = &every
	}
	return nil
}

// AddOptions holds the flags of the add command
type AddOptions struct {
	ScheduleOptions
	Active bool
}

// AddCommand handles the add command
type AddCommand struct {
	app          *App
	opts         AddOptions
	errorHandler *ErrorHandler
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App, opts AddOptions) *AddCommand {
	return &AddCommand{
		app:          app,
		opts:         opts,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the add command. The arguments form the title.
func (c *AddCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.NewInvalidInputError("command", "add",
			`usage: tm add "title" --at TIME | --from TIME --to TIME --every INTERVAL`)
	}
	title := strings.Join(args, " ")

	spec := services.TaskSpec{Title: &title}
	if c.opts.Active {
		spec.Active = &c.opts.Active
	}
	if err := c.opts.toSpec(c.app.services.TimeService, &spec); err != nil {
		return c.errorHandler.Handle("add task", err)
	}

	view, err := c.app.services.TaskService.AddTask(ctx, spec)
	if err != nil {
		return c.errorHandler.Handle("add task", err)
	}

	fmt.Fprintf(c.app.out, "Added task %d: %s\n", view.Index, view.Task)
	return nil
}
