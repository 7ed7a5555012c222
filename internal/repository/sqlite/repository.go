package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"shift-clock/internal/errors"
	"shift-clock/internal/repository/sqlite/migrations"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Repository defines the interface for time entry storage
type Repository interface {
	// Create operations
	CreateTimeEntry(ctx context.Context, entry *TimeEntry) error
	OpenBreak(ctx context.Context, userID, entryID string, start time.Time) (*BreakPeriod, error)

	// Read operations
	GetTimeEntry(ctx context.Context, id string) (*TimeEntry, error)
	FindActiveTimeEntry(ctx context.Context, userID string) (*TimeEntry, error)
	SearchTimeEntries(ctx context.Context, opts SearchOptions) ([]*TimeEntry, error)
	ListActiveTimeEntriesBefore(ctx context.Context, clockedInBefore time.Time) ([]*TimeEntry, error)

	// Update operations
	CloseBreak(ctx context.Context, userID, entryID string, end time.Time) error
	CloseTimeEntry(ctx context.Context, userID, entryID string, clockOut time.Time, needsReview bool) error

	// Utility
	Close() error
}

// Options bounds how long a single statement may run.
type Options struct {
	QueryTimeout time.Duration
	WriteTimeout time.Duration
}

// DefaultOptions returns the timeouts used when none are configured.
func DefaultOptions() Options {
	return Options{QueryTimeout: 10 * time.Second, WriteTimeout: 5 * time.Second}
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db   *sql.DB
	opts Options
}

// New creates a new SQLite repository instance with default timeouts
func New(dbPath string) (*SQLiteRepository, error) {
	return NewWithOptions(dbPath, DefaultOptions())
}

// NewWithOptions opens the database at dbPath, enables foreign keys and
// applies pending migrations.
func NewWithOptions(dbPath string, opts Options) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}
	// one connection so pragmas and :memory: databases are shared by every statement
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("enable foreign keys", err)
	}

	// Run migrations
	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db, opts: opts}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.opts.QueryTimeout)
}

func (r *SQLiteRepository) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.WriteTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.opts.WriteTimeout)
}

// CreateTimeEntry inserts a new active entry and assigns its ID. The partial
// unique index on active entries rejects a second one for the same user. A
// closed entry with the same user, event and clock-in time is reported as a
// duplicate clock-in instead.
func (r *SQLiteRepository) CreateTimeEntry(ctx context.Context, entry *TimeEntry) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	query := `
	INSERT INTO time_entries (id, user_id, event_id, clock_in_time, clock_out_time, needs_review)
	VALUES (?, ?, ?, ?, ?, ?)`

	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, query, id, entry.UserID, entry.EventID,
		FormatTimeForDB(entry.ClockInTime), FormatTimePtrForDB(entry.ClockOutTime), entry.NeedsReview)
	if err != nil {
		if IsUniqueViolation(err) {
			return r.uniqueViolationOnCreate(ctx, entry)
		}
		return HandleDatabaseError("create time entry", err)
	}

	entry.ID = id
	return nil
}

func (r *SQLiteRepository) uniqueViolationOnCreate(ctx context.Context, entry *TimeEntry) error {
	var active int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM time_entries WHERE user_id = ? AND clock_out_time IS NULL`,
		entry.UserID).Scan(&active)
	if err != nil {
		return HandleDatabaseError("check active time entry", err)
	}
	if active > 0 {
		return errors.NewAlreadyClockedInError(entry.UserID)
	}
	return errors.NewDuplicateClockInError(entry.UserID, entry.EventID)
}

// GetTimeEntry retrieves a time entry and its breaks by ID
func (r *SQLiteRepository) GetTimeEntry(ctx context.Context, id string) (*TimeEntry, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE id = ?`

	entry, err := QuerySingle(ctx, r.db, query, ScanTimeEntry, "time entry", id, id)
	if err != nil {
		return nil, err
	}
	if err := r.loadBreaks(ctx, []*TimeEntry{entry}); err != nil {
		return nil, err
	}
	return entry, nil
}

// FindActiveTimeEntry returns the user's entry that has not been clocked out.
// It returns a not found error when the user is not clocked in.
func (r *SQLiteRepository) FindActiveTimeEntry(ctx context.Context, userID string) (*TimeEntry, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `SELECT ` + timeEntryColumns + `
	FROM time_entries
	WHERE user_id = ? AND clock_out_time IS NULL`

	entry, err := QuerySingle(ctx, r.db, query, ScanTimeEntry, "active time entry", userID, userID)
	if err != nil {
		return nil, err
	}
	if err := r.loadBreaks(ctx, []*TimeEntry{entry}); err != nil {
		return nil, err
	}
	return entry, nil
}

// SearchTimeEntries searches for time entries based on the provided options
func (r *SQLiteRepository) SearchTimeEntries(ctx context.Context, opts SearchOptions) ([]*TimeEntry, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	var conditions []string
	var args []interface{}

	if opts.UserID != nil {
		conditions = append(conditions, "user_id = ?")
		args = append(args, *opts.UserID)
	}
	if opts.EventID != nil {
		conditions = append(conditions, "event_id = ?")
		args = append(args, *opts.EventID)
	}

	// Build time range conditions on either end of the session
	if opts.From != nil || opts.To != nil {
		var inBounds []string
		for _, column := range []string{"clock_in_time", "clock_out_time"} {
			var bounds []string
			if opts.From != nil {
				bounds = append(bounds, column+" >= ?")
				args = append(args, FormatTimePtrForDB(opts.From))
			}
			if opts.To != nil {
				bounds = append(bounds, column+" < ?")
				args = append(args, FormatTimePtrForDB(opts.To))
			}
			inBounds = append(inBounds, "("+strings.Join(bounds, " AND ")+")")
		}
		conditions = append(conditions, "("+strings.Join(inBounds, " OR ")+")")
	}

	query := `SELECT ` + timeEntryColumns + ` FROM time_entries`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY clock_in_time ASC, rowid ASC"

	entries, err := QueryMultiple(ctx, r.db, query, ScanTimeEntries, "time entries", args...)
	if err != nil {
		return nil, err
	}
	if err := r.loadBreaks(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListActiveTimeEntriesBefore returns every entry still open that was clocked
// in before the cutoff.
func (r *SQLiteRepository) ListActiveTimeEntriesBefore(ctx context.Context, clockedInBefore time.Time) ([]*TimeEntry, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `SELECT ` + timeEntryColumns + `
	FROM time_entries
	WHERE clock_out_time IS NULL AND clock_in_time < ?
	ORDER BY clock_in_time ASC`

	entries, err := QueryMultiple(ctx, r.db, query, ScanTimeEntries, "time entries", FormatTimeForDB(clockedInBefore))
	if err != nil {
		return nil, err
	}
	if err := r.loadBreaks(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// OpenBreak starts a break on an active entry. A closed entry yields a not
// clocked in error; a second open break trips the partial unique index and
// yields an already on break error.
func (r *SQLiteRepository) OpenBreak(ctx context.Context, userID, entryID string, start time.Time) (*BreakPeriod, error) {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	query := `
	INSERT INTO break_periods (id, time_entry_id, break_start_time)
	SELECT ?, id, ? FROM time_entries
	WHERE id = ? AND clock_out_time IS NULL`

	period := &BreakPeriod{ID: uuid.NewString(), TimeEntryID: entryID, StartTime: start}
	inserted, err := ExecuteConditional(ctx, r.db, query, period.ID, FormatTimeForDB(start), entryID)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, errors.NewAlreadyOnBreakError(userID)
		}
		return nil, HandleDatabaseError("open break", err)
	}
	if !inserted {
		return nil, errors.NewNotClockedInError(userID)
	}
	return period, nil
}

// CloseBreak ends the open break of an entry.
func (r *SQLiteRepository) CloseBreak(ctx context.Context, userID, entryID string, end time.Time) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	query := `
	UPDATE break_periods
	SET break_end_time = ?
	WHERE time_entry_id = ? AND break_end_time IS NULL`

	updated, err := ExecuteConditional(ctx, r.db, query, FormatTimeForDB(end), entryID)
	if err != nil {
		return HandleDatabaseError("close break", err)
	}
	if !updated {
		return errors.NewNotOnBreakError(userID)
	}
	return nil
}

// CloseTimeEntry clocks an active entry out. Any open break is closed at the
// same instant in the same transaction.
func (r *SQLiteRepository) CloseTimeEntry(ctx context.Context, userID, entryID string, clockOut time.Time, needsReview bool) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError("begin clock out", err)
	}
	defer tx.Rollback()

	closed, err := ExecuteConditional(ctx, tx, `
	UPDATE time_entries
	SET clock_out_time = ?, needs_review = ?
	WHERE id = ? AND clock_out_time IS NULL`, FormatTimeForDB(clockOut), needsReview, entryID)
	if err != nil {
		return HandleDatabaseError("close time entry", err)
	}
	if !closed {
		return errors.NewNotClockedInError(userID)
	}

	if _, err := tx.ExecContext(ctx, `
	UPDATE break_periods
	SET break_end_time = ?
	WHERE time_entry_id = ? AND break_end_time IS NULL`, FormatTimeForDB(clockOut), entryID); err != nil {
		return HandleDatabaseError("close open break", err)
	}

	if err := tx.Commit(); err != nil {
		return HandleDatabaseError("commit clock out", err)
	}
	return nil
}

// loadBreaks attaches break periods to entries in insertion order.
func (r *SQLiteRepository) loadBreaks(ctx context.Context, entries []*TimeEntry) error {
	if len(entries) == 0 {
		return nil
	}

	byID := make(map[string]*TimeEntry, len(entries))
	placeholders := make([]string, len(entries))
	args := make([]interface{}, len(entries))
	for i, entry := range entries {
		byID[entry.ID] = entry
		placeholders[i] = "?"
		args[i] = entry.ID
	}

	query := fmt.Sprintf(`SELECT %s FROM break_periods
	WHERE time_entry_id IN (%s)
	ORDER BY break_start_time ASC, rowid ASC`, breakPeriodColumns, strings.Join(placeholders, ", "))

	periods, err := QueryMultiple(ctx, r.db, query, ScanBreakPeriods, "break periods", args...)
	if err != nil {
		return err
	}
	for _, period := range periods {
		if entry, ok := byID[period.TimeEntryID]; ok {
			entry.Breaks = append(entry.Breaks, *period)
		}
	}
	return nil
}
