package domain

import (
	"fmt"
	"time"
)

// ScheduleKind discriminates the two schedule variants.
type ScheduleKind int

const (
	KindOneShot ScheduleKind = iota
	KindRecurring
)

// String returns the name of the schedule kind
func (k ScheduleKind) String() string {
	switch k {
	case KindOneShot:
		return "one-shot"
	case KindRecurring:
		return "recurring"
	default:
		return "unknown"
	}
}

// Schedule is the tagged variant describing when a task fires.
// For KindOneShot only At is meaningful; for KindRecurring Start, End and
// IntervalSeconds are.
type Schedule struct {
	Kind            ScheduleKind
	At              time.Time
	Start           time.Time
	End             time.Time
	IntervalSeconds uint32
}

// OneShot builds a one-shot schedule firing at the given instant.
func OneShot(at time.Time) Schedule {
	return Schedule{Kind: KindOneShot, At: NormalizeInstant(at)}
}

// Recurring builds a schedule firing every intervalSeconds from start through end.
func Recurring(start, end time.Time, intervalSeconds uint32) Schedule {
	return Schedule{
		Kind:            KindRecurring,
		Start:           NormalizeInstant(start),
		End:             NormalizeInstant(end),
		IntervalSeconds: intervalSeconds,
	}
}

// IsRecurring reports whether the schedule repeats.
func (s Schedule) IsRecurring() bool {
	return s.Kind == KindRecurring
}

// FirstTime returns the first instant the schedule fires at.
func (s Schedule) FirstTime() time.Time {
	if s.IsRecurring() {
		return s.Start
	}
	return s.At
}

// LastTime returns the instant after which the schedule never fires.
// A one-shot schedule ends at its only instant.
func (s Schedule) LastTime() time.Time {
	if s.IsRecurring() {
		return s.End
	}
	return s.At
}

// Interval returns the repeat interval, zero for one-shot schedules.
func (s Schedule) Interval() time.Duration {
	if !s.IsRecurring() {
		return 0
	}
	return time.Duration(s.IntervalSeconds) * time.Second
}

// Equal compares variant and every field of the variant.
func (s Schedule) Equal(other Schedule) bool {
	if s.Kind != other.Kind {
		return false
	}
	if s.IsRecurring() {
		return s.Start.Equal(other.Start) &&
			s.End.Equal(other.End) &&
			s.IntervalSeconds == other.IntervalSeconds
	}
	return s.At.Equal(other.At)
}

// String renders the schedule for log output.
func (s Schedule) String() string {
	if s.IsRecurring() {
		return fmt.Sprintf("from %s to %s every %ds", FormatInstant(s.Start), FormatInstant(s.End), s.IntervalSeconds)
	}
	return fmt.Sprintf("at %s", FormatInstant(s.At))
}

// InstantLayout is the millisecond-precision layout used for naive local timestamps.
const InstantLayout = "2006-01-02 15:04:05.000"

// NormalizeInstant drops the zone of t, keeping its wall clock reading, and
// truncates it to millisecond resolution. Instants are naive local timestamps,
// so they are carried in UTC to keep arithmetic free of DST shifts.
func NormalizeInstant(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(),
		t.Nanosecond()/int(time.Millisecond)*int(time.Millisecond), time.UTC)
}

// FormatInstant renders an instant with InstantLayout.
func FormatInstant(t time.Time) string {
	return t.Format(InstantLayout)
}
