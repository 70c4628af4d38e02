package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"task-manager/internal/calendar"
	"task-manager/internal/services"
)

const (
	dayLayout  = "Mon 2006-01-02"
	timeLayout = "15:04:05"
)

// WindowOptions select the time window of calendar and incoming
type WindowOptions struct {
	From string
	To   string
	For  string
}

func (o WindowOptions) resolve(timeService services.TimeService, defaultSpan time.Duration) (*services.TimeRange, error) {
	return timeService.ParseWindow(o.From, o.To, o.For, defaultSpan)
}

// CalendarCommand handles the calendar command
type CalendarCommand struct {
	app          *App
	opts         WindowOptions
	errorHandler *ErrorHandler
}

// NewCalendarCommand creates a new calendar command handler
func NewCalendarCommand(app *App, opts WindowOptions) *CalendarCommand {
	return &CalendarCommand{
		app:          app,
		opts:         opts,
		errorHandler: NewErrorHandler(),
	}
}

// Execute prints every occurrence inside the window grouped by day
func (c *CalendarCommand) Execute(ctx context.Context, args []string) error {
	timeService := c.app.services.TimeService
	window, err := c.opts.resolve(timeService, c.app.config.Display.CalendarWindow)
	if err != nil {
		return c.errorHandler.Handle("build calendar", err)
	}

	schedule, err := c.app.services.ReportingService.Calendar(ctx, *window)
	if err != nil {
		return c.errorHandler.Handle("build calendar", err)
	}

	if schedule.Len() == 0 {
		fmt.Fprintf(c.app.out, "No tasks between %s and %s\n",
			timeService.FormatInstant(window.Start), timeService.FormatInstant(window.End))
		return nil
	}
	writeAgenda(c.app.out, schedule, newStyles(c.app.config.Display.NoColor))
	return nil
}

// writeAgenda prints a day header followed by one line per instant
func writeAgenda(w io.Writer, schedule *calendar.Schedule, st styles) {
	var day string
	for at, tasks := range schedule.All() {
		if d := at.Format(dayLayout); d != day {
			if day != "" {
				fmt.Fprintln(w)
			}
			day = d
			fmt.Fprintln(w, st.date.Render(day))
		}

		titles := make([]string, 0, len(tasks))
		for _, task := range tasks {
			titles = append(titles, st.title.Render(task.Title()))
		}
		fmt.Fprintf(w, "  %s  %s\n", st.time.Render(at.Format(timeLayout)), strings.Join(titles, ", "))
	}
}
