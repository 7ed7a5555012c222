package sqlite

import (
	"database/sql"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

const timeEntryColumns = "id, user_id, event_id, clock_in_time, clock_out_time, needs_review"

const breakPeriodColumns = "id, time_entry_id, break_start_time, break_end_time"

// ScanTimeEntry scans a single time entry from a database row. Breaks are loaded separately.
func ScanTimeEntry(scanner Scanner) (*TimeEntry, error) {
	entry := &TimeEntry{}
	var clockIn string
	var clockOut sql.NullString

	err := scanner.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.EventID,
		&clockIn,
		&clockOut,
		&entry.NeedsReview,
	)
	if err != nil {
		return nil, err
	}

	if entry.ClockInTime, err = ParseTimeFromDB(clockIn); err != nil {
		return nil, err
	}
	if entry.ClockOutTime, err = ParseNullTimeFromDB(clockOut); err != nil {
		return nil, err
	}

	return entry, nil
}

// ScanTimeEntries scans multiple time entries from database rows
func ScanTimeEntries(rows Rows) ([]*TimeEntry, error) {
	var entries []*TimeEntry
	for rows.Next() {
		entry, err := ScanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// ScanBreakPeriod scans a single break period from a database row
func ScanBreakPeriod(scanner Scanner) (*BreakPeriod, error) {
	period := &BreakPeriod{}
	var start string
	var end sql.NullString

	if err := scanner.Scan(&period.ID, &period.TimeEntryID, &start, &end); err != nil {
		return nil, err
	}

	var err error
	if period.StartTime, err = ParseTimeFromDB(start); err != nil {
		return nil, err
	}
	if period.EndTime, err = ParseNullTimeFromDB(end); err != nil {
		return nil, err
	}

	return period, nil
}

// ScanBreakPeriods scans multiple break periods from database rows
func ScanBreakPeriods(rows Rows) ([]*BreakPeriod, error) {
	var periods []*BreakPeriod
	for rows.Next() {
		period, err := ScanBreakPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return periods, nil
}
