package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "task-manager/internal/errors"
	"task-manager/internal/storage"
)

func TestAddCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		opts    AddOptions
		want    string
		wantErr apperrors.ErrorType
	}{
		{
			name: "one-shot task stays inactive by default",
			args: []string{"Call", "mom"},
			opts: AddOptions{ScheduleOptions: ScheduleOptions{At: "2024-01-02 18:00"}},
			want: `Added task 1: Task "Call mom" is inactive`,
		},
		{
			name: "active one-shot task",
			args: []string{"Dentist"},
			opts: AddOptions{ScheduleOptions: ScheduleOptions{At: "2024-01-02 14:30"}, Active: true},
			want: `Added task 1: Task "Dentist" at 2024-01-02 14:30:00.000`,
		},
		{
			name: "recurring task with a go duration",
			args: []string{"Stretch"},
			opts: AddOptions{
				ScheduleOptions: ScheduleOptions{From: "2024-01-01 09:00", To: "2024-01-01 17:00", Every: "90m"},
				Active:          true,
			},
			want: `Added task 1: Task "Stretch" from 2024-01-01 09:00:00.000 to 2024-01-01 17:00:00.000 every 5400s`,
		},
		{
			name:    "no schedule",
			args:    []string{"Nothing"},
			wantErr: apperrors.ErrorTypeValidation,
		},
		{
			name:    "unparseable time",
			args:    []string{"Broken"},
			opts:    AddOptions{ScheduleOptions: ScheduleOptions{At: "tomorrow"}},
			wantErr: apperrors.ErrorTypeInvalidInput,
		},
		{
			name: "incomplete recurring schedule",
			args: []string{"Half"},
			opts: AddOptions{ScheduleOptions: ScheduleOptions{From: "2024-01-01", Every: "1 day"}},
			wantErr: apperrors.ErrorTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupTestApp(t)

			err := NewAddCommand(app.App, tt.opts).Execute(context.Background(), tt.args)
			if tt.want == "" {
				require.Error(t, err)
				assert.True(t, apperrors.IsErrorType(err, tt.wantErr), "unexpected error %v", err)
				assert.Equal(t, 0, app.services.TaskService.TaskList().Size())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", app.output())
			assert.Equal(t, 1, app.services.TaskService.TaskList().Size())
		})
	}
}

func TestAddCommand_PersistsImmediately(t *testing.T) {
	app := setupTestApp(t)
	app.seed(t, oneShot("Call mom", "2024-01-02 18:00", true))

	data, err := os.ReadFile(app.path)
	require.NoError(t, err)
	assert.Equal(t, `"Call mom" at [2024-01-02 18:00:00.000].`, string(data))
}

func TestAddCommand_NoArgs(t *testing.T) {
	app := setupTestApp(t)
	err := NewAddCommand(app.App, AddOptions{}).Execute(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage: tm add")
}

func TestAddCommand_SaveFailure(t *testing.T) {
	app := setupTestAppWithStore(t, newTestConfig(t), failingStore{})

	err := NewAddCommand(app.App, AddOptions{ScheduleOptions: ScheduleOptions{At: "2024-01-02"}}).
		Execute(context.Background(), []string{"Lost"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to add task")
	assert.Equal(t, ExitFailure, NewErrorHandler().ExitCode(err))
}

func TestEditCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("renames a task", func(t *testing.T) {
		app := setupTestApp(t)
		app.seed(t, oneShot("Call mom", "2024-01-02 18:00", true))

		title := "Call dad"
		err := NewEditCommand(app.App, EditOptions{Title: &title}).Execute(ctx, []string{"1"})
		require.NoError(t, err)
		assert.Equal(t, "Updated task 1: Task \"Call dad\" at 2024-01-02 18:00:00.000\n", app.output())
	})

	t.Run("new schedule deactivates", func(t *testing.T) {
		app := setupTestApp(t)
		app.seed(t, oneShot("Call mom", "2024-01-02 18:00", true))

		err := NewEditCommand(app.App, EditOptions{ScheduleOptions: ScheduleOptions{At: "2024-01-03"}}).
			Execute(ctx, []string{"1"})
		require.NoError(t, err)
		assert.Equal(t, "Updated task 1: Task \"Call mom\" is inactive\n", app.output())
	})

	t.Run("interval change keeps the window", func(t *testing.T) {
		app := setupTestApp(t)
		app.seed(t, recurring("Standup", "2024-01-01 09:00", "2024-01-05 09:00", "1 day", true))

		active := true
		err := NewEditCommand(app.App, EditOptions{
			ScheduleOptions: ScheduleOptions{Every: "2 days"},
			Active:          &active,
		}).Execute(ctx, []string{"1"})
		require.NoError(t, err)

		task, err := app.services.TaskService.TaskList().Get(0)
		require.NoError(t, err)
		assert.Equal(t, uint32(172800), task.Interval())
		assert.True(t, task.IsActive())
		assert.Equal(t, time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC), task.EndTime())
	})

	t.Run("index out of range", func(t *testing.T) {
		app := setupTestApp(t)
		app.seed(t, oneShot("Only", "2024-01-02", false))

		title := "Other"
		err := NewEditCommand(app.App, EditOptions{Title: &title}).Execute(ctx, []string{"2"})
		require.Error(t, err)
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeIndexOutOfBounds))
		assert.Contains(t, err.Error(), "index: 2, size: 1")
	})

	t.Run("index must be a positive number", func(t *testing.T) {
		app := setupTestApp(t)
		title := "Other"
		for _, arg := range []string{"0", "-1", "first"} {
			err := NewEditCommand(app.App, EditOptions{Title: &title}).Execute(ctx, []string{arg})
			require.Error(t, err, arg)
			assert.Equal(t, ExitUserError, NewErrorHandler().ExitCode(err), arg)
		}
	})

	t.Run("nothing to change", func(t *testing.T) {
		app := setupTestApp(t)
		app.seed(t, oneShot("Only", "2024-01-02", false))

		err := NewEditCommand(app.App, EditOptions{}).Execute(ctx, []string{"1"})
		require.Error(t, err)
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
	})
}

func TestRemoveCommand(t *testing.T) {
	ctx := context.Background()
	seed := []seedTask{
		oneShot("First", "2024-01-02", false),
		oneShot("Second", "2024-01-03", false),
		oneShot("Third", "2024-01-04", false),
	}

	tests := []struct {
		name      string
		args      []string
		wantErr   bool
		remaining []string
	}{
		{name: "single", args: []string{"2"}, remaining: []string{"First", "Third"}},
		{name: "several in any order", args: []string{"1", "3"}, remaining: []string{"Second"}},
		{name: "duplicates count once", args: []string{"3", "3"}, remaining: []string{"First", "Second"}},
		{name: "any bad index removes nothing", args: []string{"1", "4"}, wantErr: true, remaining: []string{"First", "Second", "Third"}},
		{name: "not a number", args: []string{"x"}, wantErr: true, remaining: []string{"First", "Second", "Third"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupTestApp(t)
			app.seed(t, seed...)

			err := NewRemoveCommand(app.App).Execute(ctx, tt.args)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Contains(t, app.output(), "Removed Task")
			}

			var titles []string
			for task := range app.services.TaskService.TaskList().All() {
				titles = append(titles, task.Title())
			}
			assert.Equal(t, tt.remaining, titles)
		})
	}
}

func TestCalendarCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("groups occurrences by day", func(t *testing.T) {
		app := setupTestApp(t)
		app.seed(t,
			recurring("Standup", "2024-01-01 09:00", "2024-01-02 09:00", "1 day", true),
			oneShot("Lunch", "2024-01-01 12:30", true),
			oneShot("Hidden", "2024-01-01 10:00", false),
		)

		err := NewCalendarCommand(app.App, WindowOptions{For: "2d"}).Execute(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, "Mon 2024-01-01\n"+
			"  09:00:00  Standup\n"+
			"  12:30:00  Lunch\n"+
			"\n"+
			"Tue 2024-01-02\n"+
			"  09:00:00  Standup\n", app.output())
	})

	t.Run("same instant lists every task", func(t *testing.T) {
		app := setupTestApp(t)
		app.seed(t,
			oneShot("A", "2024-01-01 08:00", true),
			oneShot("B", "2024-01-01 08:00", true),
		)

		err := NewCalendarCommand(app.App, WindowOptions{From: "2024-01-01", To: "2024-01-02"}).Execute(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, "Mon 2024-01-01\n  08:00:00  A, B\n", app.output())
	})

	t.Run("empty window", func(t *testing.T) {
		app := setupTestApp(t)
		err := NewCalendarCommand(app.App, WindowOptions{For: "1d"}).Execute(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, "No tasks between 2024-01-01 00:00:00.000 and 2024-01-02 00:00:00.000\n", app.output())
	})

	t.Run("end before start", func(t *testing.T) {
		app := setupTestApp(t)
		err := NewCalendarCommand(app.App, WindowOptions{From: "2024-01-05", To: "2024-01-01"}).Execute(ctx, nil)
		require.Error(t, err)
		assert.Equal(t, ExitUserError, NewErrorHandler().ExitCode(err))
	})
}

func TestIncomingCommand(t *testing.T) {
	ctx := context.Background()
	app := setupTestApp(t)
	app.seed(t,
		oneShot("Soon", "2024-01-01 06:00", true),
		oneShot("Later", "2024-01-03 06:00", true),
		recurring("Hourly", "2023-12-31 00:00", "2024-01-10 00:00", "1 hour", true),
	)

	err := NewIncomingCommand(app.App, WindowOptions{For: "1d"}).Execute(ctx, nil)
	require.NoError(t, err)

	out := app.output()
	assert.Contains(t, out, `Task "Soon"`)
	assert.Contains(t, out, `Task "Hourly"`)
	assert.NotContains(t, out, `Task "Later"`)

	err = NewIncomingCommand(app.App, WindowOptions{From: "2025-01-01", For: "1d"}).Execute(ctx, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(app.output(), "No tasks between 2025-01-01"))
}

func TestExportImportCommands(t *testing.T) {
	ctx := context.Background()

	for _, format := range []string{"text", "binary"} {
		t.Run(format, func(t *testing.T) {
			src := setupTestApp(t)
			src.seed(t,
				oneShot("Call mom", "2024-01-02 18:00", true),
				recurring("Standup", "2024-01-01 09:00", "2024-01-05 09:00", "1 day", false),
			)

			path := filepath.Join(t.TempDir(), "export."+format)
			err := NewExportCommand(src.App, TransferOptions{Format: format, Out: path}).Execute(ctx, nil)
			require.NoError(t, err)
			assert.Equal(t, "Exported 2 tasks to "+path+"\n", src.output())

			dst := setupTestApp(t)
			dst.seed(t, oneShot("Existing", "2024-02-01", false))
			err = NewImportCommand(dst.App, TransferOptions{Format: format}).Execute(ctx, []string{path})
			require.NoError(t, err)
			assert.Equal(t, "Imported 2 tasks\n", dst.output())

			list := dst.services.TaskService.TaskList()
			require.Equal(t, 3, list.Size())
			for i, want := range []string{"Existing", "Call mom", "Standup"} {
				task, err := list.Get(i)
				require.NoError(t, err)
				assert.Equal(t, want, task.Title())
			}
		})
	}
}

func TestExportCommand_Stdout(t *testing.T) {
	app := setupTestApp(t)
	app.seed(t, oneShot("Call mom", "2024-01-02 18:00", false))

	err := NewExportCommand(app.App, TransferOptions{Out: stdio}).Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, `"Call mom" at [2024-01-02 18:00:00.000] inactive.`, app.output())
}

func TestExportCommand_SQLiteIsNotAStream(t *testing.T) {
	app := setupTestApp(t)
	err := NewExportCommand(app.App, TransferOptions{Format: string(storage.FormatSQLite)}).Execute(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format")
}

func TestImportCommand_Stdin(t *testing.T) {
	app := setupTestApp(t)
	app.in = strings.NewReader("\"A\" at [2024-01-02 10:00:00.000];\n\"B\" at [2024-01-03 10:00:00.000] inactive.")

	err := NewImportCommand(app.App, TransferOptions{}).Execute(context.Background(), []string{stdio})
	require.NoError(t, err)
	assert.Equal(t, "Imported 2 tasks\n", app.output())
	assert.Equal(t, 2, app.services.TaskService.TaskList().Size())
}

func TestImportCommand_MalformedAddsNothing(t *testing.T) {
	app := setupTestApp(t)
	app.in = strings.NewReader("\"A\" at [2024-01-02 10:00:00.000];\n\"B\" sometime.")

	err := NewImportCommand(app.App, TransferOptions{}).Execute(context.Background(), []string{stdio})
	require.Error(t, err)
	assert.Equal(t, ExitUserError, NewErrorHandler().ExitCode(err))
	assert.Equal(t, 0, app.services.TaskService.TaskList().Size())
}

func TestImportCommand_MissingFile(t *testing.T) {
	app := setupTestApp(t)
	err := NewImportCommand(app.App, TransferOptions{}).
		Execute(context.Background(), []string{filepath.Join(t.TempDir(), "missing.txt")})
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeIO))
}

func TestSummaryCommand(t *testing.T) {
	app := setupTestApp(t)
	app.seed(t,
		oneShot("Call mom", "2024-01-02 18:00", true),
		recurring("Standup", "2024-01-01 09:00", "2024-01-05 09:00", "1 day", true),
		oneShot("Someday", "2024-06-01", false),
	)

	require.NoError(t, NewSummaryCommand(app.App).Execute(context.Background(), nil))

	out := app.output()
	assert.Contains(t, out, "Task Summary")
	assert.Contains(t, out, "Tasks:      3\n")
	assert.Contains(t, out, "Active:     2\n")
	assert.Contains(t, out, "One-shot:   2\n")
	assert.Contains(t, out, "Recurring:  1\n")
	assert.Contains(t, out, "Next:       Standup (task 2) at 2024-01-01 09:00:00.000\n")
	assert.Contains(t, out, "Stored in:  "+app.path+"\n")
}

func TestSummaryCommand_Empty(t *testing.T) {
	app := setupTestApp(t)
	require.NoError(t, NewSummaryCommand(app.App).Execute(context.Background(), nil))

	out := app.output()
	assert.Contains(t, out, "Tasks:      0\n")
	assert.Contains(t, out, "Next:       none\n")
}

func TestWatchCommand(t *testing.T) {
	app := setupTestApp(t)
	app.seed(t,
		oneShot("Now", "2024-01-01 00:00", true),
		oneShot("Muted", "2024-01-01 00:00", false),
		oneShot("Tomorrow", "2024-01-02 00:00", true),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, NewWatchCommand(app.App, WatchOptions{}).Execute(ctx, nil))

	out := app.output()
	assert.True(t, strings.HasPrefix(out, "Watching 3 tasks, press Ctrl+C to stop\n"))
	assert.Contains(t, out, "NOTIFICATION 2024-01-01 00:00:00.000")
	assert.Contains(t, out, `Task "Now"`)
	assert.NotContains(t, out, "Muted")
	assert.NotContains(t, out, "Tomorrow")
	assert.Equal(t, 1, strings.Count(out, "NOTIFICATION"))
}

func TestWatchCommand_Reload(t *testing.T) {
	app := setupTestApp(t)
	app.seed(t, oneShot("Stored", "2024-03-01", true))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, NewWatchCommand(app.App, WatchOptions{Reload: 5 * time.Millisecond}).Execute(ctx, nil))
	assert.Equal(t, 1, app.services.TaskService.TaskList().Size())
}
