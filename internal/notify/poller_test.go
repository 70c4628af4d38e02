package notify

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/domain"
	"task-manager/internal/tasklist"
)

type recorded struct {
	at     time.Time
	titles []string
}

type recorder struct {
	mu    sync.Mutex
	calls []recorded
}

func (r *recorder) Notify(_ context.Context, at time.Time, tasks []*domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var titles []string
	for _, task := range tasks {
		titles = append(titles, task.Title())
	}
	r.calls = append(r.calls, recorded{at: at, titles: titles})
	return nil
}

func (r *recorder) snapshot() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.calls...)
}

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func base() time.Time {
	return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
}

func activate(t *testing.T) func(*domain.Task, error) *domain.Task {
	return func(task *domain.Task, err error) *domain.Task {
		t.Helper()
		require.NoError(t, err)
		task.SetActive(true)
		return task
	}
}

func TestPoller_TickReportsEachOccurrenceOnce(t *testing.T) {
	l := tasklist.New()
	require.NoError(t, l.Add(activate(t)(domain.NewRecurringTask("Every 2s", base(), base().Add(10*time.Second), 2))))
	require.NoError(t, l.Add(activate(t)(domain.NewOneShotTask("Once", base().Add(1500*time.Millisecond)))))

	rec := &recorder{}
	clk := &clock{t: base()}
	p := NewPoller(l, rec, WithClock(clk.now), WithInterval(time.Second))

	for i := 0; i < 5; i++ {
		require.NoError(t, p.Tick(context.Background()))
		clk.t = clk.t.Add(time.Second)
	}

	calls := rec.snapshot()
	require.Len(t, calls, 4)
	assert.Equal(t, base(), calls[0].at)
	assert.Equal(t, []string{"Every 2s"}, calls[0].titles)
	assert.Equal(t, base().Add(1500*time.Millisecond), calls[1].at)
	assert.Equal(t, []string{"Once"}, calls[1].titles)
	assert.Equal(t, base().Add(2*time.Second), calls[2].at)
	assert.Equal(t, base().Add(4*time.Second), calls[3].at)
}

func TestPoller_LateTickKeepsWindowsAdjacent(t *testing.T) {
	tests := []struct {
		name   string
		offset time.Duration
		late   time.Duration
	}{
		{name: "just past the horizon", offset: 1001 * time.Millisecond, late: 1003 * time.Millisecond},
		{name: "several intervals late", offset: 2500 * time.Millisecond, late: 4 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tasklist.New()
			require.NoError(t, l.Add(activate(t)(domain.NewOneShotTask("Gap", base().Add(tt.offset)))))

			rec := &recorder{}
			clk := &clock{t: base()}
			p := NewPoller(l, rec, WithClock(clk.now), WithInterval(time.Second))

			require.NoError(t, p.Tick(context.Background()))
			clk.t = base().Add(tt.late)
			require.NoError(t, p.Tick(context.Background()))

			calls := rec.snapshot()
			require.Len(t, calls, 1)
			assert.Equal(t, base().Add(tt.offset), calls[0].at)
		})
	}
}

func TestPoller_ClockJumpRestartsAtNow(t *testing.T) {
	l := tasklist.New()
	require.NoError(t, l.Add(activate(t)(domain.NewOneShotTask("Skipped", base().Add(3*time.Second)))))
	require.NoError(t, l.Add(activate(t)(domain.NewOneShotTask("Soon", base().Add(time.Hour+500*time.Millisecond)))))

	rec := &recorder{}
	clk := &clock{t: base()}
	p := NewPoller(l, rec, WithClock(clk.now), WithInterval(time.Second))

	require.NoError(t, p.Tick(context.Background()))
	clk.t = base().Add(time.Hour)
	require.NoError(t, p.Tick(context.Background()))

	calls := rec.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"Soon"}, calls[0].titles)
}

func TestPoller_IgnoresInactive(t *testing.T) {
	l := tasklist.New()
	task, err := domain.NewOneShotTask("Off", base().Add(500*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, l.Add(task))

	rec := &recorder{}
	p := NewPoller(l, rec, WithClock(func() time.Time { return base() }))
	require.NoError(t, p.Tick(context.Background()))
	assert.Empty(t, rec.snapshot())
}

func TestPoller_SeesChangesOnNextTick(t *testing.T) {
	l := tasklist.New()
	rec := &recorder{}
	clk := &clock{t: base()}
	p := NewPoller(l, rec, WithClock(clk.now))

	require.NoError(t, p.Tick(context.Background()))
	require.NoError(t, l.Add(activate(t)(domain.NewOneShotTask("Late", base().Add(1800*time.Millisecond)))))

	clk.t = clk.t.Add(time.Second)
	require.NoError(t, p.Tick(context.Background()))

	calls := rec.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"Late"}, calls[0].titles)
}

func TestPoller_RunStopsOnCancel(t *testing.T) {
	l := tasklist.New()
	require.NoError(t, l.Add(activate(t)(domain.NewOneShotTask("Soon", time.Now().Add(20*time.Millisecond)))))

	rec := &recorder{}
	p := NewPoller(l, rec, WithInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestWriterNotifier(t *testing.T) {
	task, err := domain.NewOneShotTask("Call", base())
	require.NoError(t, err)
	task.SetActive(true)

	var buf bytes.Buffer
	require.NoError(t, WriterNotifier{W: &buf}.Notify(context.Background(), base(), []*domain.Task{task}))

	out := buf.String()
	assert.Contains(t, out, "NOTIFICATION 2024-01-01 09:00:00.000")
	assert.Contains(t, out, `Task "Call" at 2024-01-01 09:00:00.000`)
}
