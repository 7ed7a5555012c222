package migrations

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"shift-clock/internal/logging"
)

func init() {
	RegisterGoMigration(3, Up_000003_normalize_clock_times_to_utc, Down_000003_normalize_clock_times_to_utc)
}

type timeColumn struct {
	table  string
	column string
}

var clockTimeColumns = []timeColumn{
	{"time_entries", "clock_in_time"},
	{"time_entries", "clock_out_time"},
	{"break_periods", "break_start_time"},
	{"break_periods", "break_end_time"},
}

// Up_000003_normalize_clock_times_to_utc rewrites every stored clock and break
// time as UTC RFC3339. Rows imported with zone offsets, zone names or Go's
// default time.String layout otherwise sort out of order in range queries.
func Up_000003_normalize_clock_times_to_utc(tx *sql.Tx) error {
	for _, col := range clockTimeColumns {
		updated, skipped, err := normalizeColumn(tx, col)
		if err != nil {
			return err
		}
		logging.Debugf("normalized %s.%s: updated %d values, skipped %d\n", col.table, col.column, updated, skipped)
	}
	return nil
}

// Down_000003_normalize_clock_times_to_utc is a no-op: UTC RFC3339 values are
// already valid input for every earlier schema version.
func Down_000003_normalize_clock_times_to_utc(tx *sql.Tx) error {
	return nil
}

func normalizeColumn(tx *sql.Tx, col timeColumn) (updated, skipped int, err error) {
	// Read all rows into memory first to avoid locking issues
	type row struct {
		id    string
		value string
	}
	var rows []row

	query := fmt.Sprintf("SELECT id, %s FROM %s WHERE %s IS NOT NULL", col.column, col.table, col.column)
	result, err := tx.Query(query)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query %s: %w", col.table, err)
	}
	for result.Next() {
		var r row
		if err := result.Scan(&r.id, &r.value); err != nil {
			result.Close()
			return 0, 0, fmt.Errorf("failed to scan %s row: %w", col.table, err)
		}
		rows = append(rows, r)
	}
	if err := result.Err(); err != nil {
		result.Close()
		return 0, 0, fmt.Errorf("error iterating %s: %w", col.table, err)
	}
	result.Close()

	stmt, err := tx.Prepare(fmt.Sprintf("UPDATE %s SET %s = ? WHERE id = ?", col.table, col.column))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to prepare %s update: %w", col.column, err)
	}
	defer stmt.Close()

	for _, r := range rows {
		normalized, err := parseTimeToUTC(r.value)
		if err != nil {
			logging.Debugf("could not parse %s for id %s: %v\n", col.column, r.id, err)
			skipped++
			continue
		}
		if normalized == r.value {
			continue
		}
		if _, err := stmt.Exec(normalized, r.id); err != nil {
			return updated, skipped, fmt.Errorf("failed to update %s for id %s: %w", col.column, r.id, err)
		}
		updated++
	}
	return updated, skipped, nil
}

// parseTimeToUTC parses RFC3339 and the common Go time layouts and returns the
// instant formatted as UTC RFC3339. Values without a zone are read as UTC.
func parseTimeToUTC(timeStr string) (string, error) {
	timeStr = stripMonotonicSuffix(strings.TrimSpace(timeStr))

	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999 -0700 MST",
		"2006-01-02 15:04:05.999999999 -0700",
		"2006-01-02 15:04:05 -0700 MST",
		"2006-01-02 15:04:05 -0700",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, timeStr); err == nil {
			return t.UTC().Truncate(time.Second).Format(time.RFC3339), nil
		}
	}

	return "", fmt.Errorf("could not parse time format: %s", timeStr)
}

// stripMonotonicSuffix removes the monotonic clock reading that time.Time.String appends.
func stripMonotonicSuffix(timeStr string) string {
	if idx := strings.Index(timeStr, " m="); idx != -1 {
		return timeStr[:idx]
	}
	return timeStr
}
