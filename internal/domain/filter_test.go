package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Matches(t *testing.T) {
	once, err := NewOneShotTask("Buy Milk", at("2024-03-05 14:30:00.000"))
	require.NoError(t, err)
	weekly, err := NewRecurringTask("Team sync", at("2024-01-01 10:00:00.000"), at("2024-06-01 10:00:00.000"), 7*86400)
	require.NoError(t, err)
	weekly.SetActive(true)

	search := "milk"
	recurring := KindRecurring
	from := at("2024-04-01 00:00:00.000")
	to := at("2023-12-01 00:00:00.000")

	tests := []struct {
		name   string
		filter Filter
		task   *Task
		want   bool
	}{
		{name: "empty filter matches", filter: Filter{}, task: once, want: true},
		{name: "case-insensitive title search", filter: Filter{TitleContains: &search}, task: once, want: true},
		{name: "title search misses", filter: Filter{TitleContains: &search}, task: weekly, want: false},
		{name: "active only excludes inactive", filter: Filter{ActiveOnly: true}, task: once, want: false},
		{name: "active only keeps active", filter: Filter{ActiveOnly: true}, task: weekly, want: true},
		{name: "kind filter", filter: Filter{Kind: &recurring}, task: once, want: false},
		{name: "ended before from", filter: Filter{From: &from}, task: once, want: false},
		{name: "still running at from", filter: Filter{From: &from}, task: weekly, want: true},
		{name: "starts after to", filter: Filter{To: &to}, task: weekly, want: false},
		{name: "nil task", filter: Filter{}, task: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(tt.task))
		})
	}

	assert.True(t, Filter{}.IsEmpty())
	assert.False(t, Filter{ActiveOnly: true}.IsEmpty())
}
