package domain

import (
	"strings"
	"time"
)

// Filter represents selection criteria for listing tasks.
// Nil fields are not applied.
type Filter struct {
	TitleContains *string
	ActiveOnly    bool
	Kind          *ScheduleKind
	// Tasks must have an occurrence window overlapping [From, To].
	From *time.Time
	To   *time.Time
}

// Matches reports whether the task satisfies every criterion of the filter.
func (f Filter) Matches(t *Task) bool {
	if t == nil {
		return false
	}
	if f.ActiveOnly && !t.IsActive() {
		return false
	}
	if f.TitleContains != nil &&
		!strings.Contains(strings.ToLower(t.Title()), strings.ToLower(*f.TitleContains)) {
		return false
	}
	if f.Kind != nil && t.Schedule().Kind != *f.Kind {
		return false
	}
	if f.From != nil && t.EndTime().Before(NormalizeInstant(*f.From)) {
		return false
	}
	if f.To != nil && t.StartTime().After(NormalizeInstant(*f.To)) {
		return false
	}
	return true
}

// IsEmpty reports whether the filter selects every task.
func (f Filter) IsEmpty() bool {
	return f.TitleContains == nil && !f.ActiveOnly && f.Kind == nil && f.From == nil && f.To == nil
}
