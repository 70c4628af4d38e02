package sqlite

import (
	"database/sql"
	"time"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

const taskColumns = `id, position, title, active, kind, at_ms, start_ms, end_ms, interval_seconds`

// ScanTask scans a single task row selected with taskColumns
func ScanTask(scanner Scanner) (*TaskRecord, error) {
	rec := &TaskRecord{}
	var at, start, end sql.NullInt64
	var interval int64

	err := scanner.Scan(
		&rec.ID,
		&rec.Position,
		&rec.Title,
		&rec.Active,
		&rec.Kind,
		&at,
		&start,
		&end,
		&interval,
	)
	if err != nil {
		return nil, err
	}

	rec.At = nullInstant(at)
	rec.Start = nullInstant(start)
	rec.End = nullInstant(end)
	rec.IntervalSeconds = uint32(interval)
	return rec, nil
}

// ScanTasks scans multiple task rows
func ScanTasks(rows Rows) ([]*TaskRecord, error) {
	var tasks []*TaskRecord
	for rows.Next() {
		task, err := ScanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

func nullInstant(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := ParseInstantFromDB(v.Int64)
	return &t
}
