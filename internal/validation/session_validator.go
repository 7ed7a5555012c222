package validation

import (
	"fmt"
	"time"

	"shift-clock/internal/domain"
)

// SessionValidator validates the inputs of clock actions and queries
type SessionValidator struct {
	validator *Validator
}

// NewSessionValidator creates a new session validator
func NewSessionValidator() *SessionValidator {
	return &SessionValidator{validator: NewValidator()}
}

func (sv *SessionValidator) checkIdentifier(ve *ValidationError, field, value string) {
	trimmed := sv.validator.TrimAndValidateString(value)
	switch {
	case !sv.validator.IsNonEmptyString(trimmed):
		ve.AddRequiredError(field)
	case len(trimmed) > MaxIdentifierLength:
		ve.AddInvalidLengthError(field, value, MaxIdentifierLength)
	case !sv.validator.HasNoControlCharacters(trimmed):
		ve.AddInvalidCharacterError(field, value)
	}
}

// ValidateUserID validates the identity every clock action is keyed by
func (sv *SessionValidator) ValidateUserID(userID string) error {
	ve := NewValidationError()
	sv.checkIdentifier(ve, "user_id", userID)
	return ve.ErrOrNil()
}

// ValidateUserAndEvent validates a (user, event) pair
func (sv *SessionValidator) ValidateUserAndEvent(userID, eventID string) error {
	ve := NewValidationError()
	sv.checkIdentifier(ve, "user_id", userID)
	sv.checkIdentifier(ve, "event_id", eventID)
	return ve.ErrOrNil()
}

// ValidateDate parses a YYYY-MM-DD string in loc
func (sv *SessionValidator) ValidateDate(date string, loc *time.Location) (time.Time, error) {
	day, err := sv.validator.ParseDate(date, loc)
	if err != nil {
		ve := NewValidationError()
		ve.AddInvalidFormatError("date", date, DateLayout)
		return time.Time{}, ve.ErrOrNil()
	}
	return day, nil
}

// ValidateRate checks an hourly rate supplied by a caller
func (sv *SessionValidator) ValidateRate(rate float64) error {
	if !sv.validator.IsValidRate(rate) {
		ve := NewValidationError()
		ve.AddInvalidValueError("rate", rate, "must be a positive number")
		return ve.ErrOrNil()
	}
	return nil
}

// ValidateTimeEntry checks the ordering rules a stored entry must satisfy:
// clock-out after clock-in, breaks inside the session, closed breaks not
// ending before they start, and breaks not overlapping.
func (sv *SessionValidator) ValidateTimeEntry(entry domain.TimeEntry) error {
	ve := NewValidationError()
	sv.checkIdentifier(ve, "user_id", entry.UserID)
	sv.checkIdentifier(ve, "event_id", entry.EventID)

	if entry.ClockInTime.IsZero() {
		ve.AddRequiredError("clock_in_time")
	}
	if !sv.validator.IsValidTimeRange(entry.ClockInTime, entry.ClockOutTime) {
		ve.AddInvalidRangeError("clock_out_time", *entry.ClockOutTime, "clock-out must not precede clock-in")
	}

	for i, b := range entry.Breaks {
		field := fmt.Sprintf("breaks[%d]", i)
		if b.StartTime.Before(entry.ClockInTime) {
			ve.AddInvalidRangeError(field, b.StartTime, "break starts before clock-in")
		}
		if entry.ClockOutTime != nil && b.StartTime.After(*entry.ClockOutTime) {
			ve.AddInvalidRangeError(field, b.StartTime, "break starts after clock-out")
		}
		if !sv.validator.IsValidTimeRange(b.StartTime, b.EndTime) {
			ve.AddInvalidRangeError(field, *b.EndTime, "break ends before it starts")
		}
		if b.EndTime == nil && i < len(entry.Breaks)-1 {
			ve.AddInvalidValueError(field, b.StartTime, "only the last break may be open")
		}
		if i > 0 {
			if prev := entry.Breaks[i-1].EndTime; prev != nil && b.StartTime.Before(*prev) {
				ve.AddInvalidRangeError(field, b.StartTime, "break overlaps the previous break")
			}
		}
	}

	return ve.ErrOrNil()
}
