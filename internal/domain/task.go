package domain

import (
	"fmt"
	"strings"
	"time"

	"task-manager/internal/errors"
	"task-manager/internal/validation"
)

var (
	titleValidator    = validation.NewTaskValidator()
	scheduleValidator = validation.NewScheduleValidator()
)

// Task is a titled item scheduled either once or at a fixed interval.
// A Task is a plain value; collections holding shared tasks are responsible
// for synchronizing access to them.
type Task struct {
	title    string
	active   bool
	schedule Schedule
}

// NewTask creates an inactive task with a validated title and schedule.
func NewTask(title string, schedule Schedule) (*Task, error) {
	t := &Task{}
	if err := t.SetTitle(title); err != nil {
		return nil, err
	}
	if err := t.SetSchedule(schedule); err != nil {
		return nil, err
	}
	return t, nil
}

// NewOneShotTask creates an inactive task firing once at the given instant.
func NewOneShotTask(title string, at time.Time) (*Task, error) {
	return NewTask(title, OneShot(at))
}

// NewRecurringTask creates an inactive task firing every intervalSeconds from start through end.
func NewRecurringTask(title string, start, end time.Time, intervalSeconds uint32) (*Task, error) {
	return NewTask(title, Recurring(start, end, intervalSeconds))
}

// Title returns the task title.
func (t *Task) Title() string {
	return t.title
}

// SetTitle replaces the title. The title must not be blank and must not contain line breaks.
func (t *Task) SetTitle(title string) error {
	if err := titleValidator.ValidateTitle(title); err != nil {
		return invalid("invalid task title", err)
	}
	t.title = title
	return nil
}

// IsActive reports whether the task takes part in occurrence queries.
func (t *Task) IsActive() bool {
	return t.active
}

// SetActive toggles the active flag.
func (t *Task) SetActive(active bool) {
	t.active = active
}

// Schedule returns a copy of the task schedule.
func (t *Task) Schedule() Schedule {
	return t.schedule
}

// SetSchedule validates s and replaces the schedule, deactivating the task.
func (t *Task) SetSchedule(s Schedule) error {
	switch s.Kind {
	case KindOneShot:
		return t.SetOneShot(s.At)
	case KindRecurring:
		return t.SetRecurring(s.Start, s.End, s.IntervalSeconds)
	default:
		return errors.NewValidationError(fmt.Sprintf("unknown schedule kind %d", s.Kind), nil)
	}
}

// SetOneShot makes the task fire once at the given instant and deactivates it.
func (t *Task) SetOneShot(at time.Time) error {
	at = NormalizeInstant(at)
	if err := scheduleValidator.ValidateOneShot(at); err != nil {
		return invalid("invalid one-shot schedule", err)
	}
	t.schedule = Schedule{Kind: KindOneShot, At: at}
	t.active = false
	return nil
}

// SetRecurring makes the task fire every intervalSeconds from start through end and deactivates it.
func (t *Task) SetRecurring(start, end time.Time, intervalSeconds uint32) error {
	start, end = NormalizeInstant(start), NormalizeInstant(end)
	if err := scheduleValidator.ValidateRecurring(start, end, intervalSeconds); err != nil {
		return invalid("invalid recurring schedule", err)
	}
	t.schedule = Schedule{
		Kind:            KindRecurring,
		Start:           start,
		End:             end,
		IntervalSeconds: intervalSeconds,
	}
	t.active = false
	return nil
}

// IsRecurring reports whether the task repeats.
func (t *Task) IsRecurring() bool {
	return t.schedule.IsRecurring()
}

// Time returns the one-shot instant, or the start of a recurring task.
func (t *Task) Time() time.Time {
	return t.schedule.FirstTime()
}

// StartTime returns the first instant the task fires at.
func (t *Task) StartTime() time.Time {
	return t.schedule.FirstTime()
}

// EndTime returns the end of a recurring task, or the one-shot instant.
func (t *Task) EndTime() time.Time {
	return t.schedule.LastTime()
}

// Interval returns the repeat interval in seconds, zero for one-shot tasks.
func (t *Task) Interval() uint32 {
	if !t.IsRecurring() {
		return 0
	}
	return t.schedule.IntervalSeconds
}

// Equal reports whether both tasks have the same title, active flag and schedule.
func (t *Task) Equal(other *Task) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.title == other.title &&
		t.active == other.active &&
		t.schedule.Equal(other.schedule)
}

// Clone returns an independent copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	return &c
}

// String describes the task for humans.
func (t *Task) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task %q ", t.title)
	if !t.active {
		b.WriteString("is inactive")
		return b.String()
	}
	b.WriteString(t.schedule.String())
	return b.String()
}

// invalid wraps a field validation failure into an AppError carrying its message.
func invalid(what string, err error) error {
	if ve, ok := validation.AsValidationError(err); ok {
		return errors.NewValidationError(fmt.Sprintf("%s: %s", what, ve.GetUserFriendlyMessage()), ve)
	}
	return errors.NewValidationError(what, err)
}
