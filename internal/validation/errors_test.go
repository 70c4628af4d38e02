package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Messages(t *testing.T) {
	tests := []struct {
		name     string
		build    func(ve *ValidationError)
		err      string
		friendly string
	}{
		{
			name:     "empty",
			build:    func(*ValidationError) {},
			err:      "validation failed",
			friendly: "invalid task",
		},
		{
			name:     "required",
			build:    func(ve *ValidationError) { ve.AddRequiredError(FieldTitle) },
			err:      "validation failed: title: title is required",
			friendly: "title is required",
		},
		{
			name: "several fields",
			build: func(ve *ValidationError) {
				ve.AddInvalidRangeError(FieldEnd, nil, "must be after start")
				ve.AddInvalidValueError(FieldInterval, uint32(0), "must be greater than zero")
			},
			err:      "validation failed: end: end must be after start; interval: interval must be greater than zero",
			friendly: "end must be after start, interval must be greater than zero",
		},
		{
			name:     "character",
			build:    func(ve *ValidationError) { ve.AddInvalidCharacterError(FieldTitle, "a\nb", "line breaks are not allowed") },
			err:      "validation failed: title: title: line breaks are not allowed",
			friendly: "title: line breaks are not allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := NewValidationError()
			tt.build(ve)
			assert.Equal(t, tt.err, ve.Error())
			assert.Equal(t, tt.friendly, ve.GetUserFriendlyMessage())
		})
	}
}

func TestValidationError_Collects(t *testing.T) {
	ve := NewValidationError()
	assert.False(t, ve.HasErrors())
	assert.NoError(t, ve.OrNil())

	ve.AddRequiredError(FieldTitle)
	ve.AddInvalidValueError(FieldInterval, uint32(0), "must be greater than zero")
	ve.AddInvalidRangeError(FieldEnd, nil, "must be after start")
	ve.AddInvalidCharacterError(FieldTitle, "a\nb", "line breaks are not allowed")

	require.True(t, ve.HasErrors())
	assert.Same(t, ve, ve.OrNil())
	assert.Len(t, ve.Errors, 4)

	title := ve.GetFieldErrors(FieldTitle)
	require.Len(t, title, 2)
	assert.Equal(t, []ValidationErrorType{ErrorTypeRequired, ErrorTypeInvalidCharacter},
		[]ValidationErrorType{title[0].Type, title[1].Type})
	assert.Equal(t, "a\nb", title[1].Value)
	assert.Empty(t, ve.GetFieldErrors("missing"))
}

func TestAsValidationError(t *testing.T) {
	ve := NewValidationError()
	ve.AddRequiredError(FieldTitle)

	got, ok := AsValidationError(fmt.Errorf("set title: %w", ve))
	assert.True(t, ok)
	assert.Same(t, ve, got)
	assert.True(t, IsValidationError(ve))

	assert.False(t, IsValidationError(fmt.Errorf("plain")))
	assert.False(t, IsValidationError(nil))
}
