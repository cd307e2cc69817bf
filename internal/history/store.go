// Package history persists one record per build so the daemon status
// endpoint can report past outcomes across restarts.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNoBuilds is returned by Latest when nothing has been recorded yet.
var ErrNoBuilds = errors.New("no builds recorded")

// Record is a single completed build.
type Record struct {
	BuildID    string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcome    string
	ReportJSON []byte
}

// Store is a SQLite-backed build history.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore opens (and initializes) the history database.
// Use ":memory:" for an in-memory database, or a file path for persistence.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		report BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_builds_build_id ON builds(build_id);
	CREATE INDEX IF NOT EXISTS idx_builds_started_at ON builds(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records a completed build.
func (s *Store) Append(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (build_id, started_at, finished_at, outcome, report) VALUES (?, ?, ?, ?, ?)",
		rec.BuildID, rec.StartedAt.Unix(), rec.FinishedAt.Unix(), rec.Outcome, rec.ReportJSON,
	)
	if err != nil {
		return fmt.Errorf("insert build record: %w", err)
	}
	return nil
}

// Latest returns the most recently recorded build.
func (s *Store) Latest(ctx context.Context) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT build_id, started_at, finished_at, outcome, report FROM builds ORDER BY id DESC LIMIT 1")

	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoBuilds
	}
	if err != nil {
		return nil, fmt.Errorf("query latest build: %w", err)
	}
	return rec, nil
}

// Recent returns up to limit builds, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT build_id, started_at, finished_at, outcome, report FROM builds ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query recent builds: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan build record: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func scanRecord(scan func(dest ...any) error) (*Record, error) {
	var rec Record
	var started, finished int64
	if err := scan(&rec.BuildID, &started, &finished, &rec.Outcome, &rec.ReportJSON); err != nil {
		return nil, err
	}
	rec.StartedAt = time.Unix(started, 0)
	rec.FinishedAt = time.Unix(finished, 0)
	return &rec, nil
}
