package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/errors"
)

func at(s string) time.Time {
	t, err := time.Parse(InstantLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNewTask(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		schedule Schedule
		wantErr  bool
	}{
		{
			name:     "creates one-shot task",
			title:    "Dentist",
			schedule: OneShot(at("2024-03-05 14:30:00.000")),
		},
		{
			name:     "creates recurring task",
			title:    "Standup",
			schedule: Recurring(at("2024-01-01 09:00:00.000"), at("2024-02-01 09:00:00.000"), 86400),
		},
		{
			name:     "keeps surrounding whitespace",
			title:    "  padded  ",
			schedule: OneShot(at("2024-03-05 14:30:00.000")),
		},
		{
			name:     "rejects empty title",
			title:    "",
			schedule: OneShot(at("2024-03-05 14:30:00.000")),
			wantErr:  true,
		},
		{
			name:     "rejects blank title",
			title:    " \t ",
			schedule: OneShot(at("2024-03-05 14:30:00.000")),
			wantErr:  true,
		},
		{
			name:     "rejects line feed in title",
			title:    "two\nlines",
			schedule: OneShot(at("2024-03-05 14:30:00.000")),
			wantErr:  true,
		},
		{
			name:     "rejects carriage return in title",
			title:    "two\rlines",
			schedule: OneShot(at("2024-03-05 14:30:00.000")),
			wantErr:  true,
		},
		{
			name:     "rejects pre-epoch instant",
			title:    "Old",
			schedule: OneShot(at("1969-12-31 23:59:59.999")),
			wantErr:  true,
		},
		{
			name:     "rejects end equal to start",
			title:    "Flat",
			schedule: Recurring(at("2024-01-01 09:00:00.000"), at("2024-01-01 09:00:00.000"), 60),
			wantErr:  true,
		},
		{
			name:     "rejects zero interval",
			title:    "Zero",
			schedule: Recurring(at("2024-01-01 09:00:00.000"), at("2024-01-02 09:00:00.000"), 0),
			wantErr:  true,
		},
		{
			name:     "rejects zero schedule",
			title:    "Nothing",
			schedule: Schedule{},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := NewTask(tt.title, tt.schedule)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
				assert.Nil(t, task)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.title, task.Title())
			assert.True(t, tt.schedule.Equal(task.Schedule()))
			assert.False(t, task.IsActive())
		})
	}
}

func TestNewTask_LongTitle(t *testing.T) {
	title := strings.Repeat("x", 1025)
	task, err := NewOneShotTask(title, at("2024-01-01 00:00:00.000"))
	require.NoError(t, err)
	assert.Equal(t, title, task.Title())
}

func TestTask_SettersDoNotPartiallyMutate(t *testing.T) {
	task, err := NewOneShotTask("Keep", at("2024-03-05 14:30:00.000"))
	require.NoError(t, err)
	task.SetActive(true)
	before := task.Clone()

	assert.Error(t, task.SetTitle("bad\ntitle"))
	assert.Error(t, task.SetOneShot(at("1960-01-01 00:00:00.000")))
	assert.Error(t, task.SetRecurring(at("2024-01-02 00:00:00.000"), at("2024-01-01 00:00:00.000"), 60))

	assert.True(t, before.Equal(task))
	assert.True(t, task.IsActive())
}

func TestTask_ScheduleChangeResetsActive(t *testing.T) {
	task, err := NewOneShotTask("Switch", at("2024-03-05 14:30:00.000"))
	require.NoError(t, err)

	task.SetActive(true)
	require.NoError(t, task.SetRecurring(at("2024-03-05 00:00:00.000"), at("2024-03-06 00:00:00.000"), 3600))
	assert.False(t, task.IsActive())
	assert.True(t, task.IsRecurring())
	assert.Equal(t, uint32(3600), task.Interval())

	task.SetActive(true)
	require.NoError(t, task.SetOneShot(at("2024-03-07 10:00:00.000")))
	assert.False(t, task.IsActive())
	assert.False(t, task.IsRecurring())
	assert.Equal(t, uint32(0), task.Interval())
	assert.Equal(t, at("2024-03-07 10:00:00.000"), task.EndTime())
}

func TestTask_Queries(t *testing.T) {
	start := at("2024-01-01 09:00:00.000")
	end := at("2024-01-10 09:00:00.000")
	task, err := NewRecurringTask("Water plants", start, end, 86400)
	require.NoError(t, err)

	assert.Equal(t, start, task.Time())
	assert.Equal(t, start, task.StartTime())
	assert.Equal(t, end, task.EndTime())
	assert.Equal(t, 24*time.Hour, task.Schedule().Interval())
}

func TestTask_Equal(t *testing.T) {
	base, err := NewOneShotTask("Same", at("2024-03-05 14:30:00.000"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		mutate   func(*Task)
		expected bool
	}{
		{name: "identical copy", mutate: func(*Task) {}, expected: true},
		{name: "different title", mutate: func(t *Task) { _ = t.SetTitle("Other") }, expected: false},
		{name: "different active flag", mutate: func(t *Task) { t.SetActive(true) }, expected: false},
		{
			name:     "different instant",
			mutate:   func(t *Task) { _ = t.SetOneShot(at("2024-03-05 14:30:00.001")) },
			expected: false,
		},
		{
			name: "different variant",
			mutate: func(t *Task) {
				_ = t.SetRecurring(at("2024-03-05 14:30:00.000"), at("2024-03-06 14:30:00.000"), 60)
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base.Clone()
			tt.mutate(other)
			assert.Equal(t, tt.expected, base.Equal(other))
		})
	}

	assert.False(t, base.Equal(nil))
}

func TestTask_Clone(t *testing.T) {
	task, err := NewOneShotTask("Original", at("2024-03-05 14:30:00.000"))
	require.NoError(t, err)

	clone := task.Clone()
	require.NoError(t, clone.SetTitle("Changed"))

	assert.Equal(t, "Original", task.Title())
	assert.Equal(t, "Changed", clone.Title())
}

func TestTask_String(t *testing.T) {
	oneShot, err := NewOneShotTask("Call mom", at("2024-03-05 14:30:00.000"))
	require.NoError(t, err)
	recurring, err := NewRecurringTask("Gym", at("2024-01-01 07:00:00.000"), at("2024-01-31 07:00:00.000"), 172800)
	require.NoError(t, err)

	assert.Equal(t, `Task "Call mom" is inactive`, oneShot.String())

	oneShot.SetActive(true)
	assert.Equal(t, `Task "Call mom" at 2024-03-05 14:30:00.000`, oneShot.String())

	recurring.SetActive(true)
	assert.Equal(t, `Task "Gym" from 2024-01-01 07:00:00.000 to 2024-01-31 07:00:00.000 every 172800s`, recurring.String())
}

func TestNormalizeInstant(t *testing.T) {
	zone := time.FixedZone("UTC+3", 3*60*60)
	in := time.Date(2024, 5, 6, 7, 8, 9, 123456789, zone)

	got := NormalizeInstant(in)

	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, "2024-05-06 07:08:09.123", FormatInstant(got))
	assert.Equal(t, 123000000, got.Nanosecond())
}
