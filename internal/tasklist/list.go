// Package tasklist holds the ordered, shared collection of tasks.
package tasklist

import (
	"iter"
	"sync"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
)

// List is an ordered task collection safe for concurrent use.
// Every mutation bumps the version and signals Changes.
type List struct {
	mu      sync.RWMutex
	tasks   []*domain.Task
	version uint64
	changes chan struct{}
}

// Snapshot is a consistent copy of the list taken at one version.
type Snapshot struct {
	Tasks   []*domain.Task
	Version uint64
}

// New creates an empty list.
func New() *List {
	return &List{changes: make(chan struct{}, 1)}
}

// Add appends a task. Nil tasks and tasks without a title are rejected.
func (l *List) Add(task *domain.Task) error {
	if task == nil {
		return errors.NewValidationError("task is required", nil)
	}
	if task.Title() == "" {
		return errors.NewValidationError("task title is required", nil)
	}

	l.mu.Lock()
	l.tasks = append(l.tasks, task)
	l.changedLocked()
	l.mu.Unlock()
	return nil
}

// Get returns the task at index i.
func (l *List) Get(i int) (*domain.Task, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i < 0 || i >= len(l.tasks) {
		return nil, errors.NewIndexOutOfBoundsError(i, len(l.tasks))
	}
	return l.tasks[i], nil
}

// Remove deletes and returns the task at index i, keeping the order of the rest.
func (l *List) Remove(i int) (*domain.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i < 0 || i >= len(l.tasks) {
		return nil, errors.NewIndexOutOfBoundsError(i, len(l.tasks))
	}
	removed := l.tasks[i]
	l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
	l.changedLocked()
	return removed, nil
}

// RemoveTask deletes the first task equal to task and reports whether one was found.
func (l *List) RemoveTask(task *domain.Task) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, t := range l.tasks {
		if t.Equal(task) {
			l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
			l.changedLocked()
			return true
		}
	}
	return false
}

// Update runs fn on the task at index i under the write lock.
// The list counts as changed only when fn succeeds.
func (l *List) Update(i int, fn func(task *domain.Task) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i < 0 || i >= len(l.tasks) {
		return errors.NewIndexOutOfBoundsError(i, len(l.tasks))
	}
	// fn works on a copy so a failing edit leaves the stored task untouched.
	edited := l.tasks[i].Clone()
	if err := fn(edited); err != nil {
		return err
	}
	l.tasks[i] = edited
	l.changedLocked()
	return nil
}

// Replace swaps the whole content of the list.
func (l *List) Replace(tasks []*domain.Task) error {
	for _, task := range tasks {
		if task == nil || task.Title() == "" {
			return errors.NewValidationError("task is required", nil)
		}
	}

	l.mu.Lock()
	l.tasks = append([]*domain.Task(nil), tasks...)
	l.changedLocked()
	l.mu.Unlock()
	return nil
}

// Size returns the number of tasks.
func (l *List) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.tasks)
}

// All iterates the tasks in order over a copy taken when iteration starts.
func (l *List) All() iter.Seq[*domain.Task] {
	return func(yield func(*domain.Task) bool) {
		l.mu.RLock()
		tasks := append([]*domain.Task(nil), l.tasks...)
		l.mu.RUnlock()

		for _, task := range tasks {
			if !yield(task) {
				return
			}
		}
	}
}

// Snapshot returns cloned tasks together with the version they were read at.
func (l *List) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	tasks := make([]*domain.Task, len(l.tasks))
	for i, task := range l.tasks {
		tasks[i] = task.Clone()
	}
	return Snapshot{Tasks: tasks, Version: l.version}
}

// Version returns the mutation counter.
func (l *List) Version() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

// Changes signals after mutations. Signals coalesce: a receiver that falls
// behind sees one pending signal, not one per mutation.
func (l *List) Changes() <-chan struct{} {
	return l.changes
}

func (l *List) changedLocked() {
	l.version++
	select {
	case l.changes <- struct{}{}:
	default:
	}
}
