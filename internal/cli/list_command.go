package cli

import (
	"context"
	"strings"

	"task-manager/internal/domain"
	"task-manager/internal/services"
)

// ListOptions holds the flags of the list command
type ListOptions struct {
	Format     string
	ActiveOnly bool
	Search     string
	Kind       string
	Sort       string
}

// ListCommand handles the list command
type ListCommand struct {
	app          *App
	opts         ListOptions
	errorHandler *ErrorHandler
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App, opts ListOptions) *ListCommand {
	return &ListCommand{
		app:          app,
		opts:         opts,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the list command. Arguments, when given, are joined into a title search.
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	criteria := services.SearchCriteria{
		TextFilter: c.opts.Search,
		ActiveOnly: c.opts.ActiveOnly,
	}
	if len(args) > 0 {
		criteria.TextFilter = strings.Join(args, " ")
	}
	switch c.opts.Kind {
	case "":
	case domain.KindOneShot.String():
		kind := domain.KindOneShot
		criteria.Kind = &kind
	case domain.KindRecurring.String():
		kind := domain.KindRecurring
		criteria.Kind = &kind
	default:
		return c.errorHandler.HandleSimple(invalidChoice("kind", c.opts.Kind, "one-shot, recurring"))
	}

	switch services.SortOrder(c.opts.Sort) {
	case "", services.SortByPosition, services.SortByNext, services.SortByTitle:
	default:
		return c.errorHandler.HandleSimple(invalidChoice("sort", c.opts.Sort, "position, next, title"))
	}

	views, err := c.app.services.SearchService.SearchTasks(ctx, criteria)
	if err != nil {
		return c.errorHandler.Handle("list tasks", err)
	}
	views = c.app.services.SearchService.SortTasks(views, services.SortOrder(c.opts.Sort))

	format := c.opts.Format
	if format == "" {
		format = c.app.config.Display.ListFormat
	}
	st := newStyles(c.app.config.Display.NoColor)
	if err := writeTasks(c.app.out, format, views, c.app.services.TimeService, st); err != nil {
		return c.errorHandler.Handle("list tasks", err)
	}
	return nil
}
