package sqlite

import "time"

// TimeEntry is a row of time_entries together with its break_periods rows.
type TimeEntry struct {
	ID           string
	UserID       string
	EventID      string
	ClockInTime  time.Time
	ClockOutTime *time.Time // NULL while the session is active
	NeedsReview  bool
	Breaks       []BreakPeriod
}

// BreakPeriod is a row of break_periods.
type BreakPeriod struct {
	ID          string
	TimeEntryID string
	StartTime   time.Time
	EndTime     *time.Time
}

// SearchOptions contains all possible search parameters.
// From and To match entries clocked in or out within [From, To).
type SearchOptions struct {
	UserID  *string
	EventID *string
	From    *time.Time
	To      *time.Time
}
