// Package notify reports tasks shortly before they fire.
package notify

import (
	"context"
	"slices"
	"time"

	"task-manager/internal/calendar"
	"task-manager/internal/domain"
	"task-manager/internal/logging"
	"task-manager/internal/tasklist"
)

// DefaultInterval is the polling period.
const DefaultInterval = time.Second

// Source provides consistent views of the task list.
type Source interface {
	Snapshot() tasklist.Snapshot
	Changes() <-chan struct{}
}

// Notifier delivers the tasks due at one instant.
type Notifier interface {
	Notify(ctx context.Context, at time.Time, tasks []*domain.Task) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, at time.Time, tasks []*domain.Task) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, at time.Time, tasks []*domain.Task) error {
	return f(ctx, at, tasks)
}

// jumpAfterIntervals is how far, in intervals, now may run past the covered
// horizon before Tick treats it as a clock jump instead of a late tick.
const jumpAfterIntervals = 5

// Poller scans the task list every interval and notifies about occurrences
// falling before the next scan. Consecutive scans cover adjacent windows, so
// an occurrence is reported once.
type Poller struct {
	source   Source
	notifier Notifier
	interval time.Duration
	now      func() time.Time
	logger   *logging.Logger

	// covered is the end of the last scanned window.
	covered time.Time
	version uint64
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval sets the polling period.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Poller) { p.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Poller) { p.logger = l }
}

// NewPoller creates a poller over source.
func NewPoller(source Source, notifier Notifier, opts ...Option) *Poller {
	p := &Poller{
		source:   source,
		notifier: notifier,
		interval: DefaultInterval,
		now:      time.Now,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run scans immediately, then on every tick and whenever the list changes,
// until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	if err := p.Tick(ctx); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case <-p.source.Changes():
		}
		if err := p.Tick(ctx); err != nil {
			return err
		}
	}
}

// Tick scans the window from the end of the previous scan up to one interval
// past now and notifies every instant found in it. A late tick still starts
// at the previous horizon. Notifier errors are logged
// and do not stop the poller.
func (p *Poller) Tick(ctx context.Context) error {
	now := domain.NormalizeInstant(p.now())
	horizon := now.Add(p.interval)

	from := p.covered
	if from.IsZero() || now.Sub(from) > jumpAfterIntervals*p.interval {
		// First scan, or the clock jumped ahead: restart the window at now.
		// The window is open at its start, so step back to include now itself.
		from = now.Add(-time.Millisecond)
	}
	if !horizon.After(from) {
		return nil
	}

	snap := p.source.Snapshot()
	if snap.Version != p.version {
		p.logger.Debugw("Task list changed", "version", snap.Version)
		p.version = snap.Version
	}

	due, err := calendar.Calendar(slices.Values(snap.Tasks), from, horizon)
	if err != nil {
		return err
	}
	p.covered = horizon

	for at, tasks := range due.All() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if err := p.notifier.Notify(ctx, at, tasks); err != nil {
			p.logger.Errorw("Notification failed", "at", domain.FormatInstant(at), "error", err)
		}
	}
	return nil
}
