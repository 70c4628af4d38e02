package domain

import (
	"time"
)

// NextOccurrenceAfter returns the first instant strictly after t at which the
// task fires. The boolean is false when the task is inactive or never fires
// after t. A pre-epoch t is rejected with a validation error.
func (t *Task) NextOccurrenceAfter(after time.Time) (time.Time, bool, error) {
	after = NormalizeInstant(after)
	if err := scheduleValidator.ValidateQueryInstant(after); err != nil {
		return time.Time{}, false, invalid("invalid occurrence query", err)
	}
	if !t.active {
		return time.Time{}, false, nil
	}

	s := t.schedule
	if !s.IsRecurring() {
		if s.At.After(after) {
			return s.At, true, nil
		}
		return time.Time{}, false, nil
	}

	if s.Start.After(after) {
		return s.Start, true, nil
	}

	start := s.Start.UnixMilli()
	end := s.End.UnixMilli()
	step := int64(s.IntervalSeconds) * 1000

	last := start + (after.UnixMilli()-start)/step*step
	if last >= end {
		return time.Time{}, false, nil
	}
	next := last + step
	if next > end {
		return time.Time{}, false, nil
	}
	return fromMillis(next), true, nil
}

// OccursAt reports whether the task fires exactly at the instant. A one-shot
// task compares its time; a recurring task always matches its start and end.
// Grid instants between them match only while the task is active, since an
// inactive task has no next occurrence to step through.
func (t *Task) OccursAt(instant time.Time) bool {
	instant = NormalizeInstant(instant)

	s := t.schedule
	if !s.IsRecurring() {
		return s.At.Equal(instant)
	}
	if instant.Equal(s.Start) || instant.Equal(s.End) {
		return true
	}
	if !t.active || instant.Before(s.Start) || instant.After(s.End) {
		return false
	}
	step := int64(s.IntervalSeconds) * 1000
	return (instant.UnixMilli()-s.Start.UnixMilli())%step == 0
}

// Occurrences returns every instant in (from, to] at which the task fires, in ascending order.
func (t *Task) Occurrences(from, to time.Time) ([]time.Time, error) {
	var out []time.Time
	cursor := from
	for {
		next, ok, err := t.NextOccurrenceAfter(cursor)
		if err != nil {
			return nil, err
		}
		if !ok || next.After(NormalizeInstant(to)) {
			return out, nil
		}
		out = append(out, next)
		if !t.IsRecurring() {
			return out, nil
		}
		cursor = next
	}
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
