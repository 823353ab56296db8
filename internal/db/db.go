package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB represents the history database with separate read/write pools
type DB struct {
	write *sql.DB
	read  *sql.DB
	path  string
}

// New creates a new database instance with separate read/write pools
func New(ctx context.Context, dbPath string) (*DB, error) {
	// Connection string with pragmas
	connStr := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)

	// Write pool: MUST be 1 connection only
	write, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open write connection: %w", err)
	}
	write.SetMaxOpenConns(1)
	write.SetMaxIdleConns(1)
	write.SetConnMaxIdleTime(time.Minute)
	write.SetConnMaxLifetime(time.Hour)

	// Read pool: Can have multiple connections
	read, err := sql.Open("sqlite", connStr)
	if err != nil {
		write.Close()
		return nil, fmt.Errorf("open read connection: %w", err)
	}
	read.SetMaxOpenConns(4)
	read.SetMaxIdleConns(2)
	read.SetConnMaxIdleTime(time.Minute)
	read.SetConnMaxLifetime(time.Hour)

	db := &DB{
		write: write,
		read:  read,
		path:  dbPath,
	}

	if err := db.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return db, nil
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// Close closes both database connections
func (db *DB) Close() error {
	writeErr := db.write.Close()
	readErr := db.read.Close()
	if writeErr != nil {
		return writeErr
	}
	return readErr
}

// initSchema creates the schema if it doesn't exist
func (db *DB) initSchema(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS checks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    checked_at DATETIME NOT NULL,
    distro TEXT NOT NULL,
    status TEXT NOT NULL,
    update_count INTEGER NOT NULL DEFAULT 0,
    listing TEXT NOT NULL DEFAULT '',
    message TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_checks_checked_at ON checks(checked_at);

CREATE TABLE IF NOT EXISTS installs (
    session_id TEXT PRIMARY KEY,
    distro TEXT NOT NULL,
    command TEXT NOT NULL,
    started_at DATETIME NOT NULL,
    finished_at DATETIME,
    exit_code INTEGER,
    reboot_requested INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_installs_started_at ON installs(started_at);
	`

	if _, err := db.write.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}

// Check is one recorded update check
type Check struct {
	ID        int64
	CheckedAt time.Time
	Distro    string
	Status    string
	Count     int
	Listing   string
	Message   string
}

// Install is one recorded install session
type Install struct {
	SessionID       string
	Distro          string
	Command         string
	StartedAt       time.Time
	FinishedAt      *time.Time
	ExitCode        *int
	RebootRequested bool
}

// ErrNotFound is returned when no row matches
var ErrNotFound = errors.New("record not found")

// RecordCheck appends a check result
func (db *DB) RecordCheck(ctx context.Context, check *Check) error {
	query := `
INSERT INTO checks (checked_at, distro, status, update_count, listing, message)
VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := db.write.ExecContext(ctx, query,
		check.CheckedAt.UTC(),
		check.Distro,
		check.Status,
		check.Count,
		check.Listing,
		check.Message,
	)
	if err != nil {
		return fmt.Errorf("insert check: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("read check id: %w", err)
	}
	check.ID = id
	return nil
}

// ListChecks returns the most recent checks, newest first
func (db *DB) ListChecks(ctx context.Context, limit int) ([]Check, error) {
	query := `
SELECT id, checked_at, distro, status, update_count, listing, message
FROM checks ORDER BY checked_at DESC, id DESC LIMIT ?
	`

	rows, err := db.read.QueryContext(ctx, query, limitOrAll(limit))
	if err != nil {
		return nil, fmt.Errorf("query checks: %w", err)
	}
	defer rows.Close()

	var checks []Check
	for rows.Next() {
		var c Check
		if err := rows.Scan(&c.ID, &c.CheckedAt, &c.Distro, &c.Status, &c.Count, &c.Listing, &c.Message); err != nil {
			return nil, fmt.Errorf("scan check: %w", err)
		}
		checks = append(checks, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return checks, nil
}

// LastCheck returns the newest check with the given status
func (db *DB) LastCheck(ctx context.Context, status string) (*Check, error) {
	query := `
SELECT id, checked_at, distro, status, update_count, listing, message
FROM checks WHERE status = ? ORDER BY checked_at DESC, id DESC LIMIT 1
	`

	var c Check
	err := db.read.QueryRowContext(ctx, query, status).Scan(
		&c.ID, &c.CheckedAt, &c.Distro, &c.Status, &c.Count, &c.Listing, &c.Message,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query check: %w", err)
	}
	return &c, nil
}

// StartInstall records a newly launched session
func (db *DB) StartInstall(ctx context.Context, install *Install) error {
	query := `
INSERT INTO installs (session_id, distro, command, started_at)
VALUES (?, ?, ?, ?)
	`

	_, err := db.write.ExecContext(ctx, query,
		install.SessionID,
		install.Distro,
		install.Command,
		install.StartedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert install: %w", err)
	}
	return nil
}

// FinishInstall stores the outcome of a session
func (db *DB) FinishInstall(ctx context.Context, sessionID string, finishedAt time.Time, exitCode int, rebootRequested bool) error {
	query := `
UPDATE installs SET finished_at = ?, exit_code = ?, reboot_requested = ?
WHERE session_id = ?
	`

	result, err := db.write.ExecContext(ctx, query, finishedAt.UTC(), exitCode, rebootRequested, sessionID)
	if err != nil {
		return fmt.Errorf("update install: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("install %s: %w", sessionID, ErrNotFound)
	}
	return nil
}

// ListInstalls returns the most recent sessions, newest first
func (db *DB) ListInstalls(ctx context.Context, limit int) ([]Install, error) {
	query := `
SELECT session_id, distro, command, started_at, finished_at, exit_code, reboot_requested
FROM installs ORDER BY started_at DESC LIMIT ?
	`

	rows, err := db.read.QueryContext(ctx, query, limitOrAll(limit))
	if err != nil {
		return nil, fmt.Errorf("query installs: %w", err)
	}
	defer rows.Close()

	var installs []Install
	for rows.Next() {
		var (
			in         Install
			finishedAt sql.NullTime
			exitCode   sql.NullInt64
		)
		if err := rows.Scan(&in.SessionID, &in.Distro, &in.Command, &in.StartedAt, &finishedAt, &exitCode, &in.RebootRequested); err != nil {
			return nil, fmt.Errorf("scan install: %w", err)
		}
		if finishedAt.Valid {
			t := finishedAt.Time
			in.FinishedAt = &t
		}
		if exitCode.Valid {
			code := int(exitCode.Int64)
			in.ExitCode = &code
		}
		installs = append(installs, in)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return installs, nil
}

func limitOrAll(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
