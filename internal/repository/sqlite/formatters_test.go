package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatInstantForDB(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected int64
	}{
		{name: "epoch", input: time.Unix(0, 0).UTC(), expected: 0},
		{name: "millisecond precision", input: time.Date(1970, 1, 1, 0, 0, 1, 500_000_000, time.UTC), expected: 1500},
		{name: "drops sub-millisecond", input: time.Date(1970, 1, 1, 0, 0, 0, 1_999_999, time.UTC), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatInstantForDB(tt.input))
		})
	}
}

func TestFormatInstantPtrForDB(t *testing.T) {
	assert.Nil(t, FormatInstantPtrForDB(nil))

	v := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, v.UnixMilli(), FormatInstantPtrForDB(&v))
}

func TestParseInstantFromDB(t *testing.T) {
	v := time.Date(2024, 3, 5, 14, 30, 0, 123_000_000, time.UTC)
	got := ParseInstantFromDB(FormatInstantForDB(v))
	assert.True(t, v.Equal(got))
	assert.Equal(t, time.UTC, got.Location())
}
