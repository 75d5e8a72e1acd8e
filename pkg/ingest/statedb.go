package ingest

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one row from the ingest_runs table: the latest outcome of loading
// a given file through a given source.
type Run struct {
	SourceID    string
	Path        string
	RecordCount int
	LastRun     int64
	LastStatus  string
	LastError   *string
}

// StateDB tracks ingest runs in SQLite so repeated batches can report what
// was loaded when, and skip nothing silently.
type StateDB struct {
	db *sql.DB
}

// OpenStateDB opens (or creates) the SQLite database at path and ensures the
// ingest_runs table exists.
func OpenStateDB(path string) (*StateDB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}

	const ddl = `CREATE TABLE IF NOT EXISTS ingest_runs (
		source_id    TEXT NOT NULL,
		path         TEXT NOT NULL,
		record_count INTEGER NOT NULL DEFAULT 0,
		last_run     INTEGER NOT NULL,
		last_status  TEXT NOT NULL,
		last_error   TEXT,
		PRIMARY KEY (source_id, path)
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create ingest_runs table: %w", err)
	}

	return &StateDB{db: db}, nil
}

// Close closes the underlying SQLite connection.
func (s *StateDB) Close() error {
	return s.db.Close()
}

// RecordRun upserts the outcome of loading path through sourceID.
func (s *StateDB) RecordRun(sourceID, path string, count int, runErr error) error {
	status := "ok"
	var errPtr *string
	if runErr != nil {
		status = "error"
		msg := runErr.Error()
		errPtr = &msg
	}

	const q = `INSERT INTO ingest_runs (source_id, path, record_count, last_run, last_status, last_error)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (source_id, path) DO UPDATE SET
			record_count = excluded.record_count,
			last_run     = excluded.last_run,
			last_status  = excluded.last_status,
			last_error   = excluded.last_error`
	if _, err := s.db.Exec(q, sourceID, path, count, time.Now().Unix(), status, errPtr); err != nil {
		return fmt.Errorf("record run %s %s: %w", sourceID, path, err)
	}
	return nil
}

// ListRuns returns all rows from ingest_runs ordered by source then path.
func (s *StateDB) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(`SELECT source_id, path, record_count, last_run, last_status, last_error
		FROM ingest_runs ORDER BY source_id, path`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.SourceID, &r.Path, &r.RecordCount, &r.LastRun, &r.LastStatus, &r.LastError); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
