package validation

import (
	"time"
)

// ScheduleValidator validates one-shot and recurring schedule bounds
type ScheduleValidator struct {
	validator *Validator
}

// NewScheduleValidator creates a new schedule validator
func NewScheduleValidator() *ScheduleValidator {
	return &ScheduleValidator{
		validator: NewValidator(),
	}
}

// ValidateOneShot validates the instant of a one-shot schedule
func (sv *ScheduleValidator) ValidateOneShot(at time.Time) error {
	validationError := NewValidationError()

	if !sv.validator.IsNonNegativeInstant(at) {
		validationError.AddInvalidValueError(FieldTime, at, "must not be before 1970-01-01")
	}

	return validationError.OrNil()
}

// ValidateRecurring validates the bounds and interval of a recurring schedule
func (sv *ScheduleValidator) ValidateRecurring(start, end time.Time, intervalSeconds uint32) error {
	validationError := NewValidationError()

	if !sv.validator.IsNonNegativeInstant(start) {
		validationError.AddInvalidValueError(FieldStart, start, "must not be before 1970-01-01")
	}

	if !sv.validator.IsValidTimeRange(start, end) {
		validationError.AddInvalidRangeError(FieldEnd, map[string]time.Time{
			"start": start,
			"end":   end,
		}, "must be after start")
	}

	if !sv.validator.IsValidInterval(intervalSeconds) {
		validationError.AddInvalidValueError(FieldInterval, intervalSeconds, "must be greater than zero")
	}

	return validationError.OrNil()
}

// ValidateQueryInstant validates an instant passed to an occurrence query
func (sv *ScheduleValidator) ValidateQueryInstant(t time.Time) error {
	validationError := NewValidationError()

	if !sv.validator.IsNonNegativeInstant(t) {
		validationError.AddInvalidValueError(FieldTime, t, "must not be before 1970-01-01")
	}

	return validationError.OrNil()
}
