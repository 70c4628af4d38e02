package sqlite

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScanner implements the Scanner interface for testing
type TestScanner struct {
	data []interface{}
	err  error
}

func (ts *TestScanner) Scan(dest ...interface{}) error {
	if ts.err != nil {
		return ts.err
	}

	if len(dest) != len(ts.data) {
		return errors.New("mismatch in number of destinations")
	}

	for i, d := range dest {
		switch v := d.(type) {
		case *int64:
			*v = ts.data[i].(int64)
		case *int:
			*v = ts.data[i].(int)
		case *bool:
			*v = ts.data[i].(bool)
		case *string:
			*v = ts.data[i].(string)
		case *sql.NullInt64:
			*v = ts.data[i].(sql.NullInt64)
		}
	}

	return nil
}

// TestRows replays scanners as rows
type TestRows struct {
	rows []*TestScanner
	pos  int
	err  error
}

func (tr *TestRows) Next() bool {
	if tr.pos >= len(tr.rows) {
		return false
	}
	tr.pos++
	return true
}

func (tr *TestRows) Scan(dest ...interface{}) error {
	return tr.rows[tr.pos-1].Scan(dest...)
}

func (tr *TestRows) Err() error {
	return tr.err
}

func oneShotRow(id int64, ms int64) *TestScanner {
	return &TestScanner{data: []interface{}{
		id, 0, "Call", true, KindOneShot,
		sql.NullInt64{Int64: ms, Valid: true}, sql.NullInt64{}, sql.NullInt64{}, int64(0),
	}}
}

func TestScanTask(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		scanner     *TestScanner
		expected    *TaskRecord
		expectError bool
	}{
		{
			name:    "one-shot row",
			scanner: oneShotRow(1, start.UnixMilli()),
			expected: &TaskRecord{
				ID: 1, Title: "Call", Active: true, Kind: KindOneShot, At: &start,
			},
		},
		{
			name: "recurring row",
			scanner: &TestScanner{data: []interface{}{
				int64(2), 3, "Standup", false, KindRecurring,
				sql.NullInt64{},
				sql.NullInt64{Int64: start.UnixMilli(), Valid: true},
				sql.NullInt64{Int64: end.UnixMilli(), Valid: true},
				int64(86400),
			}},
			expected: &TaskRecord{
				ID: 2, Position: 3, Title: "Standup", Kind: KindRecurring,
				Start: &start, End: &end, IntervalSeconds: 86400,
			},
		},
		{
			name:        "scan error",
			scanner:     &TestScanner{err: sql.ErrNoRows},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScanTask(tt.scanner)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestScanTasks(t *testing.T) {
	t.Run("scans every row", func(t *testing.T) {
		rows := &TestRows{rows: []*TestScanner{oneShotRow(1, 0), oneShotRow(2, 1000)}}
		got, err := ScanTasks(rows)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, int64(2), got[1].ID)
	})

	t.Run("propagates row error", func(t *testing.T) {
		rows := &TestRows{err: errors.New("cursor broken")}
		_, err := ScanTasks(rows)
		assert.EqualError(t, err, "cursor broken")
	})

	t.Run("propagates scan error", func(t *testing.T) {
		rows := &TestRows{rows: []*TestScanner{{err: errors.New("bad column")}}}
		_, err := ScanTasks(rows)
		assert.EqualError(t, err, "bad column")
	})
}
