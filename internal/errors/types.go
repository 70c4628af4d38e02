package errors

import (
	"fmt"
	"strings"
)

// ErrorType represents the category of error
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeDatabase
	ErrorTypeInvalidInput
	ErrorTypeTimeout
	ErrorTypeParse
	ErrorTypeIO
	ErrorTypeRange
	ErrorTypeIndexOutOfBounds
)

type typeInfo struct {
	name string
	code string
	// user marks mistakes in the command line or task data, as opposed to
	// failures of the system underneath
	user bool
}

var types = map[ErrorType]typeInfo{
	ErrorTypeValidation:       {"validation", "VALIDATION_FAILED", true},
	ErrorTypeNotFound:         {"not_found", "NOT_FOUND", true},
	ErrorTypeDatabase:         {"database", "DATABASE_ERROR", false},
	ErrorTypeInvalidInput:     {"invalid_input", "INVALID_INPUT", true},
	ErrorTypeTimeout:          {"timeout", "TIMEOUT", false},
	ErrorTypeParse:            {"parse", "PARSE_ERROR", true},
	ErrorTypeIO:               {"io", "IO_ERROR", false},
	ErrorTypeRange:            {"range", "INVALID_RANGE", true},
	ErrorTypeIndexOutOfBounds: {"index_out_of_bounds", "INDEX_OUT_OF_BOUNDS", true},
}

// String returns the name of the error type
func (et ErrorType) String() string {
	if info, ok := types[et]; ok {
		return info.name
	}
	return "unknown"
}

// Code returns the default error code of the type
func (et ErrorType) Code() string {
	if info, ok := types[et]; ok {
		return info.code
	}
	return strings.ToUpper(et.String())
}

// IsUserError reports whether errors of this type are caused by user input
func (et ErrorType) IsUserError() bool {
	return types[et].user
}

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType
	Message string
	Code    string
	Cause   error
	Context map[string]any
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError of the same type and code
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.Type == t.Type && e.Code == t.Code
}

// IsType checks if this error is of the specified type
func (e *AppError) IsType(errorType ErrorType) bool {
	return e.Type == errorType
}

// WithContext records key on the error and returns it
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// GetContext returns the value recorded under key
func (e *AppError) GetContext(key string) (any, bool) {
	value, ok := e.Context[key]
	return value, ok
}
