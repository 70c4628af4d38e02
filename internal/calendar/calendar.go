// Package calendar groups task occurrences within a time window by instant.
package calendar

import (
	"iter"
	"slices"
	"time"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
)

// Entry is one instant of a calendar with the tasks firing at it.
type Entry struct {
	At    time.Time
	Tasks []*domain.Task
}

// Schedule is an ordered mapping from instants to the distinct tasks firing at them.
type Schedule struct {
	entries []Entry
	index   map[int64]int
}

func newSchedule() *Schedule {
	return &Schedule{index: make(map[int64]int)}
}

func (s *Schedule) add(at time.Time, task *domain.Task) {
	key := at.UnixMilli()
	i, ok := s.index[key]
	if !ok {
		s.index[key] = len(s.entries)
		s.entries = append(s.entries, Entry{At: at, Tasks: []*domain.Task{task}})
		return
	}
	if slices.ContainsFunc(s.entries[i].Tasks, task.Equal) {
		return
	}
	s.entries[i].Tasks = append(s.entries[i].Tasks, task)
}

func (s *Schedule) sort() {
	slices.SortFunc(s.entries, func(a, b Entry) int {
		return a.At.Compare(b.At)
	})
	for i, e := range s.entries {
		s.index[e.At.UnixMilli()] = i
	}
}

// Len returns the number of distinct instants.
func (s *Schedule) Len() int {
	return len(s.entries)
}

// Dates returns the instants in ascending order.
func (s *Schedule) Dates() []time.Time {
	dates := make([]time.Time, len(s.entries))
	for i, e := range s.entries {
		dates[i] = e.At
	}
	return dates
}

// At returns the tasks firing at the instant, or nil.
func (s *Schedule) At(t time.Time) []*domain.Task {
	i, ok := s.index[domain.NormalizeInstant(t).UnixMilli()]
	if !ok {
		return nil
	}
	return s.entries[i].Tasks
}

// Entries returns the calendar in ascending order of instant.
func (s *Schedule) Entries() []Entry {
	return s.entries
}

// All iterates the calendar in ascending order of instant.
func (s *Schedule) All() iter.Seq2[time.Time, []*domain.Task] {
	return func(yield func(time.Time, []*domain.Task) bool) {
		for _, e := range s.entries {
			if !yield(e.At, e.Tasks) {
				return
			}
		}
	}
}

// Calendar collects every occurrence of the active tasks in the window (from, to].
// Each instant lists the tasks firing at it once, in input order.
func Calendar(tasks iter.Seq[*domain.Task], from, to time.Time) (*Schedule, error) {
	from, to = domain.NormalizeInstant(from), domain.NormalizeInstant(to)
	if to.Before(from) {
		return nil, errors.NewRangeError(domain.FormatInstant(from), domain.FormatInstant(to))
	}

	schedule := newSchedule()
	for task := range tasks {
		if task == nil || !task.IsActive() || !task.EndTime().After(from) {
			continue
		}
		occurrences, err := task.Occurrences(from, to)
		if err != nil {
			return nil, err
		}
		for _, at := range occurrences {
			schedule.add(at, task)
		}
	}
	schedule.sort()
	return schedule, nil
}

// Incoming returns the tasks firing at least once in the window (from, to], in input order.
func Incoming(tasks iter.Seq[*domain.Task], from, to time.Time) ([]*domain.Task, error) {
	from, to = domain.NormalizeInstant(from), domain.NormalizeInstant(to)
	if to.Before(from) {
		return nil, errors.NewRangeError(domain.FormatInstant(from), domain.FormatInstant(to))
	}

	var out []*domain.Task
	for task := range tasks {
		if task == nil || !task.IsActive() {
			continue
		}
		next, ok, err := task.NextOccurrenceAfter(from)
		if err != nil {
			return nil, err
		}
		if ok && !next.After(to) {
			out = append(out, task)
		}
	}
	return out, nil
}
