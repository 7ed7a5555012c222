package migrations

import (
	"database/sql"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunMigrations_CreatesSchema(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, RunMigrations(db))
	// running twice is a no-op
	require.NoError(t, RunMigrations(db))

	for _, table := range []string{"time_entries", "break_periods"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, table)
	}

	var versions []int
	rows, err := db.Query("SELECT version FROM migrations WHERE dirty = FALSE ORDER BY version")
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var v int
		require.NoError(t, rows.Scan(&v))
		versions = append(versions, v)
	}
	assert.Equal(t, []int{1, 2, 3}, versions)
}

func TestRunMigrations_ActiveEntryIsUniquePerUser(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, RunMigrations(db))

	insert := `INSERT INTO time_entries (id, user_id, event_id, clock_in_time, clock_out_time) VALUES (?, ?, ?, ?, ?)`
	_, err := db.Exec(insert, "a", "u1", "e1", "2024-05-06T09:00:00Z", nil)
	require.NoError(t, err)

	_, err = db.Exec(insert, "b", "u1", "e2", "2024-05-06T10:00:00Z", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE constraint failed")

	// closed entries do not count
	_, err = db.Exec(insert, "c", "u1", "e3", "2024-05-05T09:00:00Z", "2024-05-05T17:00:00Z")
	require.NoError(t, err)
}

func TestNormalizeClockTimesMigration(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`CREATE TABLE time_entries (id TEXT PRIMARY KEY, clock_in_time TEXT, clock_out_time TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE break_periods (id TEXT PRIMARY KEY, break_start_time TEXT, break_end_time TEXT)`)
	require.NoError(t, err)

	_, err = db.Exec(`
		INSERT INTO time_entries (id, clock_in_time, clock_out_time) VALUES
		('1', '2025-06-23 11:47:24.890799237 +0100 BST m=+0.002409088', NULL),
		('2', '2025-06-23 11:20:10.149658307 +0100 BST', '2025-06-23T18:00:00+01:00'),
		('3', '2025-06-23 11:20:10', NULL),
		('4', '2025-06-23T10:20:10Z', NULL)
	`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO break_periods (id, break_start_time, break_end_time) VALUES ('b', '2025-06-23T13:00:00+01:00', NULL)`)
	require.NoError(t, err)

	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	require.NoError(t, Up_000003_normalize_clock_times_to_utc(tx))
	require.NoError(t, tx.Commit())

	utc := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`)
	expected := map[string]string{
		"1": "2025-06-23T10:47:24Z",
		"2": "2025-06-23T10:20:10Z",
		"3": "2025-06-23T11:20:10Z",
		"4": "2025-06-23T10:20:10Z",
	}

	rows, err := db.Query("SELECT id, clock_in_time FROM time_entries ORDER BY id")
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var id, clockIn string
		require.NoError(t, rows.Scan(&id, &clockIn))
		assert.Truef(t, utc.MatchString(clockIn), "not UTC RFC3339: %s", clockIn)
		assert.Equal(t, expected[id], clockIn)
	}

	var clockOut, breakStart string
	require.NoError(t, db.QueryRow("SELECT clock_out_time FROM time_entries WHERE id = '2'").Scan(&clockOut))
	assert.Equal(t, "2025-06-23T17:00:00Z", clockOut)
	require.NoError(t, db.QueryRow("SELECT break_start_time FROM break_periods WHERE id = 'b'").Scan(&breakStart))
	assert.Equal(t, "2025-06-23T12:00:00Z", breakStart)
}

func TestParseTimeToUTC_Invalid(t *testing.T) {
	_, err := parseTimeToUTC("yesterday-ish")
	assert.Error(t, err)
}

func TestRunMigrations_DirtyDatabase(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	// Create migrations table
	_, err = db.Exec(`
		CREATE TABLE migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			dirty BOOLEAN DEFAULT FALSE
		)
	`)
	if err != nil {
		t.Fatalf("failed to create migrations table: %v", err)
	}

	// Mark a migration as dirty
	_, err = db.Exec("INSERT INTO migrations (version, dirty) VALUES (1, TRUE)")
	if err != nil {
		t.Fatalf("failed to insert dirty migration: %v", err)
	}

	// Try to run migrations - should fail due to dirty state
	err = RunMigrations(db)
	if err == nil {
		t.Fatal("expected RunMigrations to fail on dirty database, but it succeeded")
	}

	if !strings.Contains(err.Error(), "database is in a dirty state") {
		t.Errorf("expected error to mention dirty state, got: %v", err)
	}

	if !strings.Contains(err.Error(), "failed migration(s): [1]") {
		t.Errorf("expected error to mention failed migration version 1, got: %v", err)
	}
}

func TestApplyMigration_FailureLeavesDirtyMark(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, createMigrationsTable(db))

	err := applyMigration(db, Migration{Version: 42, Up: "CREATE TABLE broken ("})
	require.Error(t, err)

	dirty, err := getDirtyMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, []int{42}, dirty)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE name = 'broken'").Scan(&count))
	assert.Zero(t, count)
}

func TestRunMigrations_PreservesExistingData(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`CREATE TABLE test_data (id INTEGER PRIMARY KEY, value TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO test_data (value) VALUES ('original data')`)
	require.NoError(t, err)

	require.NoError(t, RunMigrations(db))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM test_data").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestRegisterGoMigration_DuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		RegisterGoMigration(3, func(*sql.Tx) error { return nil }, nil)
	})
}
