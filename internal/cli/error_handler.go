package cli

import (
	"context"
	stderrors "errors"
	"fmt"

	"task-manager/internal/errors"
	"task-manager/internal/validation"
)

// Process exit codes.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitUserError = 2
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", operation, eh.HandleSimple(err))
}

// HandleSimple provides user-friendly error messages without operation context.
// The original error stays reachable through errors.Unwrap.
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}
	if validationErr, ok := validation.AsValidationError(err); ok {
		return &userError{message: validationErr.GetUserFriendlyMessage(), cause: err}
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return &userError{message: "the operation timed out", cause: err}
	}
	if _, ok := errors.AsAppError(err); ok {
		return &userError{message: errors.GetUserMessage(err), cause: err}
	}
	return err
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	return validation.IsValidationError(err) || errors.IsErrorType(err, errors.ErrorTypeValidation)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}

// ExitCode maps an error to the process exit status. Mistakes in the
// command line or task file exit with ExitUserError.
func (eh *ErrorHandler) ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case validation.IsValidationError(err), errors.IsUserError(err):
		return ExitUserError
	default:
		return ExitFailure
	}
}

// userError carries the message shown to the user in place of the wrapped error's text.
type userError struct {
	message string
	cause   error
}

func (e *userError) Error() string { return e.message }

func (e *userError) Unwrap() error { return e.cause }
