package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationErrorType represents the type of validation error
type ValidationErrorType string

const (
	ErrorTypeRequired         ValidationErrorType = "required"
	ErrorTypeInvalidValue     ValidationErrorType = "invalid_value"
	ErrorTypeInvalidRange     ValidationErrorType = "invalid_range"
	ErrorTypeInvalidCharacter ValidationErrorType = "invalid_character"
)

// Field names reported in FieldError.Field.
const (
	FieldTitle    = "title"
	FieldTime     = "time"
	FieldStart    = "start"
	FieldEnd      = "end"
	FieldInterval = "interval"
)

// FieldError is one rejected field
type FieldError struct {
	Field   string
	Type    ValidationErrorType
	Message string
	Value   any
}

func (fe *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", fe.Field, fe.Message)
}

// ValidationError collects every field rejected by one validation pass
type ValidationError struct {
	Errors []FieldError
}

// NewValidationError creates an empty ValidationError
func NewValidationError() *ValidationError {
	return &ValidationError{}
}

func (ve *ValidationError) Error() string {
	if len(ve.Errors) == 0 {
		return "validation failed"
	}
	return "validation failed: " + ve.join("; ", (*FieldError).Error)
}

// IsValidationError reports whether err's chain holds a ValidationError
func IsValidationError(err error) bool {
	_, ok := AsValidationError(err)
	return ok
}

// AsValidationError finds the first ValidationError in err's chain
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// HasErrors returns true if the ValidationError has any errors
func (ve *ValidationError) HasErrors() bool {
	return len(ve.Errors) > 0
}

// OrNil returns ve when it holds errors and nil otherwise.
func (ve *ValidationError) OrNil() error {
	if ve.HasErrors() {
		return ve
	}
	return nil
}

// AddError records a rejected field
func (ve *ValidationError) AddError(field string, errorType ValidationErrorType, message string, value any) {
	ve.Errors = append(ve.Errors, FieldError{Field: field, Type: errorType, Message: message, Value: value})
}

func (ve *ValidationError) AddRequiredError(field string) {
	ve.AddError(field, ErrorTypeRequired, field+" is required", nil)
}

func (ve *ValidationError) AddInvalidValueError(field string, value any, reason string) {
	ve.AddError(field, ErrorTypeInvalidValue, field+" "+reason, value)
}

func (ve *ValidationError) AddInvalidRangeError(field string, value any, reason string) {
	ve.AddError(field, ErrorTypeInvalidRange, field+" "+reason, value)
}

func (ve *ValidationError) AddInvalidCharacterError(field string, value any, reason string) {
	ve.AddError(field, ErrorTypeInvalidCharacter, fmt.Sprintf("%s: %s", field, reason), value)
}

// GetFieldErrors returns all errors for a specific field
func (ve *ValidationError) GetFieldErrors(field string) []FieldError {
	var out []FieldError
	for _, fe := range ve.Errors {
		if fe.Field == field {
			out = append(out, fe)
		}
	}
	return out
}

// GetUserFriendlyMessage joins the field messages for display
func (ve *ValidationError) GetUserFriendlyMessage() string {
	if len(ve.Errors) == 0 {
		return "invalid task"
	}
	return ve.join(", ", func(fe *FieldError) string { return fe.Message })
}

func (ve *ValidationError) join(sep string, render func(*FieldError) string) string {
	parts := make([]string, len(ve.Errors))
	for i := range ve.Errors {
		parts[i] = render(&ve.Errors[i])
	}
	return strings.Join(parts, sep)
}
