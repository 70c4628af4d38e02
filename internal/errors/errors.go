package errors

import (
	"errors"
	"fmt"
)

// newError builds an AppError of type t. kv lists context keys and values in pairs.
func newError(t ErrorType, message string, cause error, kv ...any) *AppError {
	e := &AppError{
		Type:    t,
		Message: message,
		Code:    t.Code(),
		Cause:   cause,
		Context: make(map[string]any, len(kv)/2),
	}
	for i := 0; i+1 < len(kv); i += 2 {
		e.Context[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return e
}

// NewValidationError reports a value rejected by a setter or constructor
func NewValidationError(message string, cause error) *AppError {
	return newError(ErrorTypeValidation, message, cause)
}

// NewNotFoundError reports a missing stored entity
func NewNotFoundError(resource string, identifier string) *AppError {
	return newError(ErrorTypeNotFound, fmt.Sprintf("%s not found: %s", resource, identifier), nil,
		"resource", resource, "identifier", identifier)
}

// NewDatabaseError wraps a failed SQL operation
func NewDatabaseError(operation string, cause error) *AppError {
	return newError(ErrorTypeDatabase, "database operation failed: "+operation, cause,
		"operation", operation)
}

// NewInvalidInputError reports a command line value that cannot be used
func NewInvalidInputError(field string, value any, reason string) *AppError {
	return newError(ErrorTypeInvalidInput, fmt.Sprintf("invalid input for %s: %s", field, reason), nil,
		"field", field, "value", value, "reason", reason)
}

// NewParseError creates an error for a malformed persisted line.
// lineNumber is 1-based; offset is the byte offset within the line, or -1 when unknown.
func NewParseError(line string, lineNumber int, offset int, reason string, cause error) *AppError {
	return newError(ErrorTypeParse, fmt.Sprintf("line %d: %s: %q", lineNumber, reason, line), cause,
		"line", line, "line_number", lineNumber, "offset", offset, "reason", reason)
}

// NewIOError wraps an underlying stream failure
func NewIOError(operation string, cause error) *AppError {
	return newError(ErrorTypeIO, "i/o failure during "+operation, cause, "operation", operation)
}

// NewRangeError creates an error for an inverted query window
func NewRangeError(from, to any) *AppError {
	return newError(ErrorTypeRange, fmt.Sprintf("window end %v is before start %v", to, from), nil,
		"from", from, "to", to)
}

// NewIndexOutOfBoundsError creates an error for an index outside the collection
func NewIndexOutOfBoundsError(index, size int) *AppError {
	return newError(ErrorTypeIndexOutOfBounds, fmt.Sprintf("index: %d, size: %d", index, size), nil,
		"index", index, "size", size)
}

// WrapError gives err an application type and message
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return newError(errorType, message, err)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// AsAppError finds the first AppError in err's chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.IsType(errorType)
}

// IsUserError reports whether err was caused by user input rather than the system
func IsUserError(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Type.IsUserError()
}

// GetUserMessage returns the message shown to the user for err. User errors
// show their own message; system errors a generic one.
func GetUserMessage(err error) string {
	appErr, ok := AsAppError(err)
	if !ok {
		return err.Error()
	}
	if appErr.Type.IsUserError() {
		return appErr.Message
	}
	switch appErr.Type {
	case ErrorTypeDatabase:
		return "A database error occurred. Please try again."
	case ErrorTypeTimeout:
		return "The operation timed out. Please try again."
	case ErrorTypeIO:
		if appErr.Cause != nil {
			return fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
		}
		return appErr.Message
	default:
		return "An unexpected error occurred. Please try again."
	}
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}
