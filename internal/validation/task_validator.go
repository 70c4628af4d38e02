package validation

// TaskValidator validates task titles
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// ValidateTitle validates a task title.
// Titles are stored verbatim, so surrounding whitespace is allowed but a blank title is not.
// Length is not limited.
func (tv *TaskValidator) ValidateTitle(title string) error {
	validationError := NewValidationError()

	if !tv.validator.IsNonEmptyString(title) {
		validationError.AddRequiredError(FieldTitle)
		return validationError
	}

	if tv.validator.ContainsLineBreak(title) {
		validationError.AddInvalidCharacterError(FieldTitle, title, "line breaks are not allowed")
	}

	return validationError.OrNil()
}
