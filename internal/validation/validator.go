package validation

import (
	"strings"
	"time"
)

// Validator provides the primitive checks shared by the task validators
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// ContainsLineBreak reports whether s would break the one-task-per-line file layout
func (v *Validator) ContainsLineBreak(s string) bool {
	return strings.ContainsAny(s, "\n\r")
}

// IsNonNegativeInstant rejects instants before the Unix epoch
func (v *Validator) IsNonNegativeInstant(t time.Time) bool {
	return t.UnixMilli() >= 0
}

// IsValidTimeRange checks if start time is strictly before end time
func (v *Validator) IsValidTimeRange(start, end time.Time) bool {
	return end.After(start)
}

// IsValidInterval checks that a repeat interval is positive
func (v *Validator) IsValidInterval(seconds uint32) bool {
	return seconds > 0
}
