package errors

import (
	"fmt"
	"time"
)

// Codes for rejected clock actions and billing conditions.
const (
	CodeAlreadyClockedIn = "ALREADY_CLOCKED_IN"
	CodeNotClockedIn     = "NOT_CLOCKED_IN"
	CodeAlreadyOnBreak   = "ALREADY_ON_BREAK"
	CodeNotOnBreak       = "NOT_ON_BREAK"
	CodeInvalidRate      = "INVALID_RATE"
	CodeStaleSession     = "STALE_SESSION_EXCEEDED_24H"
	CodeDuplicateClockIn = "DUPLICATE_CLOCK_IN"
)

// Sentinels for errors.Is. They are never returned directly; use the
// constructors below so callers can attach context without sharing state.
var (
	ErrAlreadyClockedIn = &AppError{Type: ErrorTypeState, Code: CodeAlreadyClockedIn}
	ErrNotClockedIn     = &AppError{Type: ErrorTypeState, Code: CodeNotClockedIn}
	ErrAlreadyOnBreak   = &AppError{Type: ErrorTypeState, Code: CodeAlreadyOnBreak}
	ErrNotOnBreak       = &AppError{Type: ErrorTypeState, Code: CodeNotOnBreak}
	ErrInvalidRate      = &AppError{Type: ErrorTypeValidation, Code: CodeInvalidRate}
	ErrStaleSession     = &AppError{Type: ErrorTypeState, Code: CodeStaleSession}
	ErrDuplicateClockIn = &AppError{Type: ErrorTypeState, Code: CodeDuplicateClockIn}
)

func newStateError(code, message, userID string) *AppError {
	return &AppError{
		Type:    ErrorTypeState,
		Message: message,
		Code:    code,
		Context: map[string]interface{}{
			"user_id": userID,
		},
	}
}

// NewAlreadyClockedInError is returned when a user with an active entry clocks in again.
func NewAlreadyClockedInError(userID string) *AppError {
	return newStateError(CodeAlreadyClockedIn, "already clocked in", userID)
}

// NewNotClockedInError is returned when an action needs an active entry and there is none.
func NewNotClockedInError(userID string) *AppError {
	return newStateError(CodeNotClockedIn, "not clocked in", userID)
}

// NewAlreadyOnBreakError is returned when a break is started while another is open.
func NewAlreadyOnBreakError(userID string) *AppError {
	return newStateError(CodeAlreadyOnBreak, "already on break", userID)
}

// NewNotOnBreakError is returned when ending a break that was never started.
func NewNotOnBreakError(userID string) *AppError {
	return newStateError(CodeNotOnBreak, "not on break", userID)
}

// NewDuplicateClockInError is returned when the user already has a session on
// the event that started at the same instant.
func NewDuplicateClockInError(userID, eventID string) *AppError {
	return newStateError(CodeDuplicateClockIn, "a session on this event already started at this time, try again shortly", userID).
		WithContext("event_id", eventID)
}

// NewStaleSessionError describes a session that stayed open longer than allowed.
// It is reported as a warning: the clock-out it accompanies is still honored.
func NewStaleSessionError(userID string, openFor, limit time.Duration) *AppError {
	msg := fmt.Sprintf("session was open for %s, longer than the %s limit, and needs review", openFor.Round(time.Minute), limit)
	return newStateError(CodeStaleSession, msg, userID).
		WithContext("open_for", openFor).
		WithContext("limit", limit)
}

// NewInvalidRateError is reported for billing lines with a non-positive hourly rate.
func NewInvalidRateError(rate float64) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: fmt.Sprintf("hourly rate must be positive, got %.2f", rate),
		Code:    CodeInvalidRate,
		Context: map[string]interface{}{
			"rate": rate,
		},
	}
}
