package cli

import (
	"errors"
	"testing"

	apperrors "shift-clock/internal/errors"
	"shift-clock/internal/validation"

	"github.com/stretchr/testify/assert"
)

func TestErrorHandler_Handle(t *testing.T) {
	eh := NewErrorHandler()

	rawValidation := validation.NewValidationError()
	rawValidation.AddRequiredError("event_id")

	tests := []struct {
		name      string
		operation string
		err       error
		expected  string
	}{
		{
			name:      "validation error",
			operation: "clock in",
			err:       apperrors.NewValidationError("invalid input", nil),
			expected:  "failed to clock in: invalid input",
		},
		{
			name:      "raw validation error",
			operation: "clock in",
			err:       rawValidation,
			expected:  "failed to clock in: " + rawValidation.GetUserFriendlyMessage(),
		},
		{
			name:      "state error",
			operation: "start break",
			err:       apperrors.NewAlreadyOnBreakError("user-1"),
			expected:  "failed to start break: already on break",
		},
		{
			name:      "not found error",
			operation: "get entry",
			err:       apperrors.NewNotFoundError("time entry", "e1"),
			expected:  "failed to get entry: time entry not found: e1",
		},
		{
			name:      "database error",
			operation: "clock out",
			err:       apperrors.NewDatabaseError("update", errors.New("locked")),
			expected:  "failed to clock out: A database error occurred. Please try again.",
		},
		{
			name:      "regular error",
			operation: "process",
			err:       errors.New("regular error"),
			expected:  "failed to process: regular error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, eh.Handle(tt.operation, tt.err), tt.expected)
		})
	}
}

func TestErrorHandler_HandleKeepsCause(t *testing.T) {
	cause := errors.New("regular error")
	assert.ErrorIs(t, NewErrorHandler().Handle("process", cause), cause)
}
