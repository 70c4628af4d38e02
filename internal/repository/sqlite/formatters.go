package sqlite

import (
	"time"
)

// FormatInstantForDB stores an instant as milliseconds since the epoch of its wall clock
func FormatInstantForDB(t time.Time) int64 {
	return t.UnixMilli()
}

// FormatInstantPtrForDB formats a *time.Time, returning nil for NULL
func FormatInstantPtrForDB(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return FormatInstantForDB(*t)
}

// ParseInstantFromDB restores an instant stored by FormatInstantForDB
func ParseInstantFromDB(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
