package sqlite

import (
	"fmt"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
)

// ToRecord converts a domain task into a row at the given position.
func ToRecord(task *domain.Task, position int) *TaskRecord {
	s := task.Schedule()
	rec := &TaskRecord{
		Position: position,
		Title:    task.Title(),
		Active:   task.IsActive(),
	}
	if s.IsRecurring() {
		start, end := s.Start, s.End
		rec.Kind = KindRecurring
		rec.Start = &start
		rec.End = &end
		rec.IntervalSeconds = s.IntervalSeconds
	} else {
		at := s.At
		rec.Kind = KindOneShot
		rec.At = &at
	}
	return rec
}

// ToDomain rebuilds a validated domain task from a row.
func ToDomain(rec *TaskRecord) (*domain.Task, error) {
	var schedule domain.Schedule
	switch rec.Kind {
	case KindOneShot:
		if rec.At == nil {
			return nil, corrupt(rec, "one-shot task without an instant")
		}
		schedule = domain.OneShot(*rec.At)
	case KindRecurring:
		if rec.Start == nil || rec.End == nil {
			return nil, corrupt(rec, "recurring task without bounds")
		}
		schedule = domain.Recurring(*rec.Start, *rec.End, rec.IntervalSeconds)
	default:
		return nil, corrupt(rec, fmt.Sprintf("unknown kind %q", rec.Kind))
	}

	task, err := domain.NewTask(rec.Title, schedule)
	if err != nil {
		return nil, errors.NewDatabaseError(fmt.Sprintf("decode task %d", rec.ID), err)
	}
	task.SetActive(rec.Active)
	return task, nil
}

// ToRecords converts tasks in order, numbering positions from zero.
func ToRecords(tasks []*domain.Task) []*TaskRecord {
	records := make([]*TaskRecord, len(tasks))
	for i, task := range tasks {
		records[i] = ToRecord(task, i)
	}
	return records
}

func corrupt(rec *TaskRecord, reason string) error {
	return errors.NewDatabaseError(fmt.Sprintf("decode task %d", rec.ID), fmt.Errorf("%s", reason))
}
