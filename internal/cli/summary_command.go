package cli

import (
	"context"
	"fmt"
)

// SummaryCommand handles the summary command
type SummaryCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewSummaryCommand creates a new summary command handler
func NewSummaryCommand(app *App) *SummaryCommand {
	return &SummaryCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
	}
}

// Execute prints task counts and the next upcoming task
func (c *SummaryCommand) Execute(ctx context.Context, args []string) error {
	summary, err := c.app.services.ReportingService.Summary(ctx)
	if err != nil {
		return c.errorHandler.Handle("summarize tasks", err)
	}

	st := newStyles(c.app.config.Display.NoColor)
	out := c.app.out
	fmt.Fprintln(out, st.header.Render("Task Summary"))
	fmt.Fprintln(out, "========================================")
	fmt.Fprintf(out, "Tasks:      %d\n", summary.Total)
	fmt.Fprintf(out, "Active:     %d\n", summary.Active)
	fmt.Fprintf(out, "One-shot:   %d\n", summary.OneShot)
	fmt.Fprintf(out, "Recurring:  %d\n", summary.Recurring)
	if summary.Next != nil {
		fmt.Fprintf(out, "Next:       %s (task %d) at %s\n",
			summary.Next.Task.Title(), summary.Next.Index,
			c.app.services.TimeService.FormatInstant(*summary.Next.Next))
	} else {
		fmt.Fprintln(out, "Next:       none")
	}
	fmt.Fprintf(out, "Stored in:  %s\n", c.app.config.GetStoragePath())
	return nil
}
