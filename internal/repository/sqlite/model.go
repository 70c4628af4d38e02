package sqlite

import "time"

// Schedule kinds as stored in the kind column.
const (
	KindOneShot   = "one-shot"
	KindRecurring = "recurring"
)

// TaskRecord is one row of the tasks table.
// Instants are nil when the column does not apply to the kind.
type TaskRecord struct {
	ID              int64
	Position        int
	Title           string
	Active          bool
	Kind            string
	At              *time.Time
	Start           *time.Time
	End             *time.Time
	IntervalSeconds uint32
}

// SearchOptions narrows ListTasks results. Nil fields are not applied.
type SearchOptions struct {
	TitleContains *string
	ActiveOnly    bool
	Kind          *string
}
