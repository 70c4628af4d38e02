package cli

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"task-manager/internal/codec"
	"task-manager/internal/config"
	"task-manager/internal/domain"
	apperrors "task-manager/internal/errors"
	"task-manager/internal/logging"
	"task-manager/internal/services"
	"task-manager/internal/storage"
)

var fixedNow = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// testApp bundles an App with the buffer it writes to
type testApp struct {
	*App
	buf  *bytes.Buffer
	path string
}

// output returns and clears everything written so far
func (a *testApp) output() string {
	out := a.buf.String()
	a.buf.Reset()
	return out
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Storage.Dir = t.TempDir()
	cfg.Display.NoColor = true
	cfg.Display.ListFormat = FormatText
	cfg.Notify.Interval = 10 * time.Millisecond
	return cfg
}

// setupTestApp creates an App over a text file store in a temporary
// directory, with the clock fixed at fixedNow.
func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := newTestConfig(t)
	store, err := storage.NewFileStore(cfg.GetStoragePath(), storage.FormatText)
	require.NoError(t, err)
	return setupTestAppWithStore(t, cfg, store)
}

func setupTestAppWithStore(t *testing.T, cfg *config.Config, store storage.Store) *testApp {
	t.Helper()
	restore := timeNow
	timeNow = fixedClock
	t.Cleanup(func() { timeNow = restore })

	buf := &bytes.Buffer{}
	container := services.NewServiceContainer(store, logging.Nop(), fixedClock, cfg.Time.DisplayFormat)
	app := NewApp(container, cfg, logging.Nop(), buf)
	app.in = strings.NewReader("")
	require.NoError(t, app.Load(context.Background()))
	return &testApp{App: app, buf: buf, path: cfg.GetStoragePath()}
}

// seed adds tasks through the add command and discards its output
func (a *testApp) seed(t *testing.T, tasks ...seedTask) {
	t.Helper()
	for _, task := range tasks {
		require.NoError(t, NewAddCommand(a.App, task.opts).Execute(context.Background(), []string{task.title}))
	}
	a.buf.Reset()
}

type seedTask struct {
	title string
	opts  AddOptions
}

func oneShot(title, at string, active bool) seedTask {
	return seedTask{title: title, opts: AddOptions{ScheduleOptions: ScheduleOptions{At: at}, Active: active}}
}

func recurring(title, from, to, every string, active bool) seedTask {
	return seedTask{title: title, opts: AddOptions{
		ScheduleOptions: ScheduleOptions{From: from, To: to, Every: every},
		Active:          active,
	}}
}

// failingStore loads nothing and refuses every save
type failingStore struct{}

func (failingStore) Load(context.Context, codec.Sink) error { return nil }

func (failingStore) Save(context.Context, iter.Seq[*domain.Task]) error {
	return apperrors.NewIOError("write tasks", errors.New("disk full"))
}

func (failingStore) Location() string { return filepath.Join("nowhere", "tasks.txt") }
