package domain

import (
	"time"

	"shift-clock/internal/errors"
)

// SessionState is the clock state of a TimeEntry. It is derived from the
// entry's clock-out time and breaks and never stored on its own.
type SessionState int

const (
	StateNotClockedIn SessionState = iota
	StateWorking
	StateOnBreak
)

func (s SessionState) String() string {
	switch s {
	case StateWorking:
		return "working"
	case StateOnBreak:
		return "on_break"
	default:
		return "not_clocked_in"
	}
}

func (s SessionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// BreakPeriod is a pause inside a TimeEntry. It has no lifecycle of its own.
type BreakPeriod struct {
	ID        string     `json:"id"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}

// IsOpen reports whether the break has not ended yet.
func (b BreakPeriod) IsOpen() bool {
	return b.EndTime == nil
}

// Duration returns the length of a closed break. Open breaks count as zero,
// as do closed breaks whose end precedes their start.
func (b BreakPeriod) Duration() time.Duration {
	if b.EndTime == nil {
		return 0
	}
	return max(0, b.EndTime.Sub(b.StartTime))
}

// TimeEntry is one clock-in to clock-out session of a user on an event.
type TimeEntry struct {
	ID           string        `json:"id"`
	UserID       string        `json:"userId"`
	EventID      string        `json:"eventId"`
	ClockInTime  time.Time     `json:"clockInTime"`
	ClockOutTime *time.Time    `json:"clockOutTime,omitempty"`
	Breaks       []BreakPeriod `json:"breaks"`
	// NeedsReview is set when the session was closed after running past the
	// maximum session duration.
	NeedsReview bool `json:"needsReview"`
}

// NewTimeEntry creates a new, working TimeEntry for the given user and event.
func NewTimeEntry(userID, eventID string, clockIn time.Time) TimeEntry {
	return TimeEntry{
		UserID:      userID,
		EventID:     eventID,
		ClockInTime: clockIn,
	}
}

// State derives the session state from the clock-out time and the last break.
func (te TimeEntry) State() SessionState {
	if te.ClockOutTime != nil {
		return StateNotClockedIn
	}
	if n := len(te.Breaks); n > 0 && te.Breaks[n-1].IsOpen() {
		return StateOnBreak
	}
	return StateWorking
}

// IsClockedIn returns true while the entry has no clock-out time.
func (te TimeEntry) IsClockedIn() bool {
	return te.State() != StateNotClockedIn
}

// IsOnBreak returns true while the last break is open.
func (te TimeEntry) IsOnBreak() bool {
	return te.State() == StateOnBreak
}

// OpenBreak returns the break currently in progress, if any.
func (te TimeEntry) OpenBreak() (BreakPeriod, bool) {
	if te.State() != StateOnBreak {
		return BreakPeriod{}, false
	}
	return te.Breaks[len(te.Breaks)-1], true
}

// StartBreak appends a new open break at the given instant.
func (te TimeEntry) StartBreak(at time.Time) (TimeEntry, error) {
	switch te.State() {
	case StateNotClockedIn:
		return te, errors.NewNotClockedInError(te.UserID)
	case StateOnBreak:
		return te, errors.NewAlreadyOnBreakError(te.UserID)
	}
	if at.Before(te.ClockInTime) {
		return te, errors.NewInvalidInputError("break_start_time", at, "break cannot start before clock-in")
	}
	if n := len(te.Breaks); n > 0 && at.Before(*te.Breaks[n-1].EndTime) {
		return te, errors.NewInvalidInputError("break_start_time", at, "break cannot start before the previous break ended")
	}

	te.Breaks = append(cloneBreaks(te.Breaks), BreakPeriod{StartTime: at})
	return te, nil
}

// EndBreak closes the open break at the given instant.
func (te TimeEntry) EndBreak(at time.Time) (TimeEntry, error) {
	switch te.State() {
	case StateNotClockedIn:
		return te, errors.NewNotClockedInError(te.UserID)
	case StateWorking:
		return te, errors.NewNotOnBreakError(te.UserID)
	}
	last := len(te.Breaks) - 1
	if at.Before(te.Breaks[last].StartTime) {
		return te, errors.NewInvalidInputError("break_end_time", at, "break cannot end before it started")
	}

	te.Breaks = cloneBreaks(te.Breaks)
	te.Breaks[last].EndTime = &at
	return te, nil
}

// ClockOut closes the session at the given instant. A break still open is
// closed at the same instant.
func (te TimeEntry) ClockOut(at time.Time) (TimeEntry, error) {
	if te.State() == StateNotClockedIn {
		return te, errors.NewNotClockedInError(te.UserID)
	}
	if at.Before(te.ClockInTime) {
		return te, errors.NewInvalidInputError("clock_out_time", at, "clock-out cannot precede clock-in")
	}
	if b, ok := te.OpenBreak(); ok && at.Before(b.StartTime) {
		return te, errors.NewInvalidInputError("clock_out_time", at, "clock-out cannot precede the open break")
	}

	te.Breaks = cloneBreaks(te.Breaks)
	if n := len(te.Breaks); n > 0 && te.Breaks[n-1].IsOpen() {
		te.Breaks[n-1].EndTime = &at
	}
	te.ClockOutTime = &at
	return te, nil
}

// End returns the clock-out time, or now while the session is still open.
func (te TimeEntry) End(now time.Time) time.Time {
	if te.ClockOutTime != nil {
		return *te.ClockOutTime
	}
	return now
}

// WorkedDuration is the span from clock-in to clock-out (or now), never negative.
func (te TimeEntry) WorkedDuration(now time.Time) time.Duration {
	return max(0, te.End(now).Sub(te.ClockInTime))
}

// BreakDuration sums all closed breaks.
func (te TimeEntry) BreakDuration() time.Duration {
	var total time.Duration
	for _, b := range te.Breaks {
		total += b.Duration()
	}
	return total
}

// IsStale reports whether the session has run, or ran, longer than limit.
func (te TimeEntry) IsStale(now time.Time, limit time.Duration) bool {
	return te.WorkedDuration(now) > limit
}

func cloneBreaks(breaks []BreakPeriod) []BreakPeriod {
	if len(breaks) == 0 {
		return nil
	}
	out := make([]BreakPeriod, len(breaks), len(breaks)+1)
	copy(out, breaks)
	return out
}
