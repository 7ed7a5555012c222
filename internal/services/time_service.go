package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shift-clock/internal/clock"
	"shift-clock/internal/domain"
	"shift-clock/internal/repository/sqlite"
)

// timeServiceImpl implements the TimeService interface
type timeServiceImpl struct {
	entryReader
	clock     clock.Clock
	opts      Options
}

// NewTimeService creates a new TimeService instance
func NewTimeService(repo sqlite.Repository, clk clock.Clock, opts Options) TimeService {
	return &timeServiceImpl{
		entryReader: newEntryReader(repo),
		clock:       clk,
		opts:        opts.withDefaults(),
	}
}

// GetHistory merges the clock and break events of every session that was
// clocked in or out on date (YYYY-MM-DD in the configured location, today
// when empty). Events of a matching session outside the day are included.
func (t *timeServiceImpl) GetHistory(ctx context.Context, userID, date string) (domain.Timeline, error) {
	if err := t.validator.ValidateUserID(userID); err != nil {
		return nil, err
	}

	day := t.clock.Now().In(t.opts.Location)
	if date != "" {
		parsed, err := t.validator.ValidateDate(date, t.opts.Location)
		if err != nil {
			return nil, err
		}
		day = parsed
	}

	from, to := t.DayRange(day)
	user := strings.TrimSpace(userID)
	entries, err := t.search(ctx, domain.SearchOptions{UserID: &user, From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	values := make([]domain.TimeEntry, len(entries))
	for i, e := range entries {
		values[i] = *e
	}
	return domain.MergeTimeline(values), nil
}

// GetEventTimeEntries lists a user's sessions on an event, oldest first.
func (t *timeServiceImpl) GetEventTimeEntries(ctx context.Context, eventID, userID string) ([]*domain.TimeEntry, error) {
	if err := t.validator.ValidateUserAndEvent(userID, eventID); err != nil {
		return nil, err
	}

	user, event := strings.TrimSpace(userID), strings.TrimSpace(eventID)
	return t.search(ctx, domain.SearchOptions{UserID: &user, EventID: &event})
}

// DayRange returns [midnight, next midnight) of day in the configured location.
func (t *timeServiceImpl) DayRange(day time.Time) (time.Time, time.Time) {
	day = day.In(t.opts.Location)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, t.opts.Location)
	return start, start.AddDate(0, 0, 1)
}

// FormatDuration formats a duration into human-readable string
func FormatDuration(duration time.Duration) string {
	if duration < 0 {
		return "0m"
	}

	hours := int(duration.Hours())
	minutes := int(duration.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
