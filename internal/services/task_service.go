package services

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"task-manager/internal/codec"
	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/logging"
	"task-manager/internal/storage"
	"task-manager/internal/tasklist"
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	list        *tasklist.List
	store       storage.Store
	timeService TimeService
	logger      *logging.Logger
}

// NewTaskService creates a new TaskService instance working on list and persisting to store
func NewTaskService(list *tasklist.List, store storage.Store, timeService TimeService, logger *logging.Logger) TaskService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &taskServiceImpl{
		list:        list,
		store:       store,
		timeService: timeService,
		logger:      logger.WithComponent("tasks"),
	}
}

// TaskList returns the in-memory list the service works on
func (s *taskServiceImpl) TaskList() *tasklist.List {
	return s.list
}

// Load replaces the list with the stored tasks. On error the list is left unchanged.
func (s *taskServiceImpl) Load(ctx context.Context) error {
	var tasks []*domain.Task
	err := s.store.Load(ctx, codec.SinkFunc(func(task *domain.Task) error {
		tasks = append(tasks, task)
		return nil
	}))
	s.logger.LogStoreOperation("load", s.store.Location(), len(tasks), err)
	if err != nil {
		return err
	}
	return s.list.Replace(tasks)
}

// Save writes the whole list to the store
func (s *taskServiceImpl) Save(ctx context.Context) error {
	err := s.store.Save(ctx, s.list.All())
	s.logger.LogStoreOperation("save", s.store.Location(), s.list.Size(), err)
	return err
}

// AddTask creates a task from spec, appends it and persists the list
func (s *taskServiceImpl) AddTask(ctx context.Context, spec TaskSpec) (*TaskView, error) {
	if spec.Title == nil {
		return nil, errors.NewValidationError("task title is required", nil)
	}
	schedule, err := buildSchedule(spec, nil)
	if err != nil {
		return nil, err
	}

	task, err := domain.NewTask(*spec.Title, schedule)
	if err != nil {
		return nil, err
	}
	if spec.Active != nil {
		task.SetActive(*spec.Active)
	}

	before := s.current()
	if err := s.list.Add(task); err != nil {
		return nil, err
	}
	if err := s.commit(ctx, before); err != nil {
		return nil, err
	}
	return s.view(s.list.Size(), task), nil
}

// EditTask applies spec to the task at the 1-based index and persists the list.
// Changing the schedule deactivates the task unless spec sets Active.
func (s *taskServiceImpl) EditTask(ctx context.Context, index int, spec TaskSpec) (*TaskView, error) {
	if spec.Title == nil && spec.Active == nil && !spec.HasSchedule() {
		return nil, errors.NewValidationError("nothing to change", nil)
	}

	before := s.current()
	var edited *domain.Task
	err := s.list.Update(index-1, func(task *domain.Task) error {
		if spec.Title != nil {
			if err := task.SetTitle(*spec.Title); err != nil {
				return err
			}
		}
		if spec.HasSchedule() {
			current := task.Schedule()
			schedule, err := buildSchedule(spec, &current)
			if err != nil {
				return err
			}
			if err := task.SetSchedule(schedule); err != nil {
				return err
			}
		}
		if spec.Active != nil {
			task.SetActive(*spec.Active)
		}
		edited = task
		return nil
	})
	if err != nil {
		return nil, oneBased(err, index, s.list.Size())
	}

	if err := s.commit(ctx, before); err != nil {
		return nil, err
	}
	return s.view(index, edited), nil
}

// RemoveTasks removes the tasks at the given 1-based indexes, all or nothing
func (s *taskServiceImpl) RemoveTasks(ctx context.Context, indexes []int) ([]*domain.Task, error) {
	if len(indexes) == 0 {
		return nil, errors.NewValidationError("no task selected", nil)
	}

	size := s.list.Size()
	positions := make([]int, 0, len(indexes))
	for _, index := range indexes {
		if index < 1 || index > size {
			return nil, errors.NewIndexOutOfBoundsError(index, size).
				WithContext("indexes", fmt.Sprint(indexes))
		}
		if !slices.Contains(positions, index-1) {
			positions = append(positions, index-1)
		}
	}

	// Highest first so earlier removals do not shift the remaining positions.
	slices.Sort(positions)
	slices.Reverse(positions)

	before := s.current()
	removed := make([]*domain.Task, 0, len(positions))
	for _, pos := range positions {
		task, err := s.list.Remove(pos)
		if err != nil {
			return nil, err
		}
		removed = append(removed, task)
	}
	slices.Reverse(removed)

	if err := s.commit(ctx, before); err != nil {
		return nil, err
	}
	s.logger.Infow("Tasks removed", "count", len(removed))
	return removed, nil
}

// GetTask returns the task at the 1-based index
func (s *taskServiceImpl) GetTask(index int) (*TaskView, error) {
	task, err := s.list.Get(index - 1)
	if err != nil {
		return nil, oneBased(err, index, s.list.Size())
	}
	return s.view(index, task), nil
}

// ListTasks returns every task in list order
func (s *taskServiceImpl) ListTasks() []*TaskView {
	snapshot := s.list.Snapshot()
	now := s.timeService.Now()

	views := make([]*TaskView, 0, len(snapshot.Tasks))
	for i, task := range snapshot.Tasks {
		views = append(views, newView(i+1, task, now))
	}
	return views
}

// Import decodes a stream and appends its tasks. A malformed stream adds nothing.
func (s *taskServiceImpl) Import(ctx context.Context, r io.Reader, format storage.Format) (int, error) {
	var tasks []*domain.Task
	err := storage.Decode(r, format, codec.SinkFunc(func(task *domain.Task) error {
		tasks = append(tasks, task)
		return nil
	}))
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	before := s.current()
	for _, task := range tasks {
		if err := s.list.Add(task); err != nil {
			s.rollback(before)
			return 0, err
		}
	}
	if err := s.commit(ctx, before); err != nil {
		return 0, err
	}
	s.logger.Infow("Tasks imported", "count", len(tasks), "format", format)
	return len(tasks), nil
}

// Export writes the whole list to w
func (s *taskServiceImpl) Export(ctx context.Context, w io.Writer, format storage.Format) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	snapshot := s.list.Snapshot()
	if err := storage.Encode(w, format, slices.Values(snapshot.Tasks)); err != nil {
		return 0, err
	}
	return len(snapshot.Tasks), nil
}

// current returns the tasks held by the list. Mutations never change a held
// task in place (Update edits a clone), so the slice is a restorable state.
func (s *taskServiceImpl) current() []*domain.Task {
	return slices.Collect(s.list.All())
}

// commit saves the list and, when the save fails, restores before so the
// list keeps matching what the store holds.
func (s *taskServiceImpl) commit(ctx context.Context, before []*domain.Task) error {
	err := s.Save(ctx)
	if err != nil {
		s.rollback(before)
	}
	return err
}

func (s *taskServiceImpl) rollback(before []*domain.Task) {
	if err := s.list.Replace(before); err != nil {
		s.logger.Errorw("Could not restore task list", "error", err)
	}
}

func (s *taskServiceImpl) view(index int, task *domain.Task) *TaskView {
	return newView(index, task, s.timeService.Now())
}

func newView(index int, task *domain.Task, now time.Time) *TaskView {
	v := &TaskView{Index: index, Task: task}
	if next, ok, err := task.NextOccurrenceAfter(now); err == nil && ok {
		v.Next = &next
	}
	return v
}

// buildSchedule turns the schedule fields of spec into a schedule. When
// current is given, missing recurring fields are taken from it.
func buildSchedule(spec TaskSpec, current *domain.Schedule) (domain.Schedule, error) {
	if spec.At != nil {
		if spec.From != nil || spec.To != nil || spec.Every != nil {
			return domain.Schedule{}, errors.NewValidationError("a task is either at a time or from/to/every, not both", nil)
		}
		return domain.OneShot(*spec.At), nil
	}

	from, to, every := spec.From, spec.To, spec.Every
	if current != nil && current.IsRecurring() {
		if from == nil {
			from = &current.Start
		}
		if to == nil {
			to = &current.End
		}
		if every == nil {
			every = &current.IntervalSeconds
		}
	}

	switch {
	case from == nil && to == nil && every == nil:
		return domain.Schedule{}, errors.NewValidationError("a time or a from/to/every schedule is required", nil)
	case from == nil || to == nil || every == nil:
		return domain.Schedule{}, errors.NewValidationError("a recurring task needs from, to and every", nil)
	}
	return domain.Recurring(*from, *to, *every), nil
}

// oneBased restates a list index error in the 1-based numbering users see.
func oneBased(err error, index, size int) error {
	if errors.IsErrorType(err, errors.ErrorTypeIndexOutOfBounds) {
		return errors.NewIndexOutOfBoundsError(index, size)
	}
	return err
}
