package domain

import (
	"time"

	"shift-clock/internal/repository/sqlite"
)

// SearchOptions selects time entries. Nil fields are not filtered on.
// From and To bound the clock-in or clock-out instant to [From, To).
type SearchOptions struct {
	UserID  *string
	EventID *string
	From    *time.Time
	To      *time.Time
}

// TimeEntryMapper handles conversion between domain and database TimeEntry models.
type TimeEntryMapper struct{}

// NewTimeEntryMapper creates a new TimeEntryMapper instance.
func NewTimeEntryMapper() *TimeEntryMapper {
	return &TimeEntryMapper{}
}

// ToDatabase converts a domain TimeEntry to a database TimeEntry.
func (m *TimeEntryMapper) ToDatabase(entry TimeEntry) sqlite.TimeEntry {
	var breaks []sqlite.BreakPeriod
	if len(entry.Breaks) > 0 {
		breaks = make([]sqlite.BreakPeriod, len(entry.Breaks))
	}
	for i, b := range entry.Breaks {
		breaks[i] = sqlite.BreakPeriod{
			ID:          b.ID,
			TimeEntryID: entry.ID,
			StartTime:   b.StartTime,
			EndTime:     b.EndTime,
		}
	}
	return sqlite.TimeEntry{
		ID:           entry.ID,
		UserID:       entry.UserID,
		EventID:      entry.EventID,
		ClockInTime:  entry.ClockInTime,
		ClockOutTime: entry.ClockOutTime,
		NeedsReview:  entry.NeedsReview,
		Breaks:       breaks,
	}
}

// FromDatabase converts a database TimeEntry to a domain TimeEntry.
func (m *TimeEntryMapper) FromDatabase(row sqlite.TimeEntry) TimeEntry {
	var breaks []BreakPeriod
	if len(row.Breaks) > 0 {
		breaks = make([]BreakPeriod, len(row.Breaks))
	}
	for i, b := range row.Breaks {
		breaks[i] = BreakPeriod{
			ID:        b.ID,
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
		}
	}
	return TimeEntry{
		ID:           row.ID,
		UserID:       row.UserID,
		EventID:      row.EventID,
		ClockInTime:  row.ClockInTime,
		ClockOutTime: row.ClockOutTime,
		Breaks:       breaks,
		NeedsReview:  row.NeedsReview,
	}
}

// SearchOptionsMapper handles conversion between domain and database SearchOptions.
type SearchOptionsMapper struct{}

// NewSearchOptionsMapper creates a new SearchOptionsMapper instance.
func NewSearchOptionsMapper() *SearchOptionsMapper {
	return &SearchOptionsMapper{}
}

// ToDatabase converts domain SearchOptions to database SearchOptions.
func (m *SearchOptionsMapper) ToDatabase(opts SearchOptions) sqlite.SearchOptions {
	return sqlite.SearchOptions{
		UserID:  opts.UserID,
		EventID: opts.EventID,
		From:    opts.From,
		To:      opts.To,
	}
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	TimeEntry     *TimeEntryMapper
	SearchOptions *SearchOptionsMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		TimeEntry:     NewTimeEntryMapper(),
		SearchOptions: NewSearchOptionsMapper(),
	}
}
