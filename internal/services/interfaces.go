package services

import (
	"context"
	"io"
	"time"

	"task-manager/internal/calendar"
	"task-manager/internal/domain"
	"task-manager/internal/storage"
	"task-manager/internal/tasklist"
)

// TimeRange represents a time period with start and end times
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// TaskView is a task together with its position in the list and its next occurrence
type TaskView struct {
	Index int          `json:"index"` // 1-based position in the list
	Task  *domain.Task `json:"-"`
	Next  *time.Time   `json:"next,omitempty"`
}

// TaskSpec carries the fields of an add or edit request. Nil fields are left unchanged on edit.
type TaskSpec struct {
	Title  *string
	At     *time.Time
	From   *time.Time
	To     *time.Time
	Every  *uint32
	Active *bool
}

// HasSchedule reports whether any schedule field is set.
func (s TaskSpec) HasSchedule() bool {
	return s.At != nil || s.From != nil || s.To != nil || s.Every != nil
}

// SearchCriteria represents criteria for selecting tasks
type SearchCriteria struct {
	TextFilter string               `json:"text_filter,omitempty"`
	ActiveOnly bool                 `json:"active_only,omitempty"`
	Kind       *domain.ScheduleKind `json:"kind,omitempty"`
	TimeRange  *TimeRange           `json:"time_range,omitempty"`
}

// SortOrder defines how task results should be sorted
type SortOrder string

const (
	SortByPosition SortOrder = "position" // List order (default)
	SortByNext     SortOrder = "next"     // Soonest next occurrence first
	SortByTitle    SortOrder = "title"    // Alphabetical by title
)

// Summary counts the tasks of the list.
type Summary struct {
	Total     int       `json:"total"`
	Active    int       `json:"active"`
	OneShot   int       `json:"one_shot"`
	Recurring int       `json:"recurring"`
	Next      *TaskView `json:"next,omitempty"`
}

// TimeService parses and formats the time values accepted on the command line
type TimeService interface {
	Now() time.Time
	ParseInstant(text string) (time.Time, error)
	FormatInstant(t time.Time) string
	ParseInterval(text string) (uint32, error)
	ParseSpan(text string) (time.Duration, error)
	// ParseWindow resolves optional from/to/span arguments into a range.
	// Missing from means now; missing to means from plus span (or defaultSpan).
	ParseWindow(from, to, span string, defaultSpan time.Duration) (*TimeRange, error)
}

// TaskService handles the task list lifecycle: loading, mutating and persisting it
type TaskService interface {
	Load(ctx context.Context) error
	Save(ctx context.Context) error

	AddTask(ctx context.Context, spec TaskSpec) (*TaskView, error)
	EditTask(ctx context.Context, index int, spec TaskSpec) (*TaskView, error)
	// RemoveTasks removes the tasks at the given 1-based indexes. Either all
	// indexes are valid and every task is removed, or nothing changes.
	RemoveTasks(ctx context.Context, indexes []int) ([]*domain.Task, error)
	GetTask(index int) (*TaskView, error)
	ListTasks() []*TaskView

	Import(ctx context.Context, r io.Reader, format storage.Format) (int, error)
	Export(ctx context.Context, w io.Writer, format storage.Format) (int, error)

	TaskList() *tasklist.List
}

// SearchService handles search and ordering of tasks
type SearchService interface {
	SearchTasks(ctx context.Context, criteria SearchCriteria) ([]*TaskView, error)
	SortTasks(views []*TaskView, order SortOrder) []*TaskView
}

// ReportingService builds the date-oriented views of the list
type ReportingService interface {
	Calendar(ctx context.Context, window TimeRange) (*calendar.Schedule, error)
	Incoming(ctx context.Context, window TimeRange) ([]*domain.Task, error)
	Summary(ctx context.Context) (*Summary, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TimeService      TimeService
	TaskService      TaskService
	SearchService    SearchService
	ReportingService ReportingService
}
