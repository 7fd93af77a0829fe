package cspreports

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS csp_reports (
	id TEXT PRIMARY KEY,
	received_at TIMESTAMP NOT NULL,
	client_ip TEXT,
	document_uri TEXT,
	referrer TEXT,
	violated_directive TEXT,
	effective_directive TEXT,
	original_policy TEXT,
	blocked_uri TEXT,
	status_code INTEGER
);

CREATE INDEX IF NOT EXISTS idx_csp_reports_received_at ON csp_reports(received_at);

CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY
);
`

// Store persists Reports to a SQLite file, driven by the pure-Go
// modernc.org/sqlite driver so the proxy needs no cgo toolchain for a
// single small log table.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the SQLite database at path and ensures
// its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cspreports: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("cspreports: enable WAL: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cspreports: create schema: %w", err)
	}
	if _, err := db.Exec("INSERT OR IGNORE INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("cspreports: record schema version: %w", err)
	}

	return &Store{db: db}, nil
}

// Insert appends r to the log.
func (s *Store) Insert(ctx context.Context, r *Report) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO csp_reports (
			id, received_at, client_ip, document_uri, referrer,
			violated_directive, effective_directive, original_policy,
			blocked_uri, status_code
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ReceivedAt, r.ClientIP, r.DocumentURI, r.Referrer,
		r.ViolatedDirective, r.EffectiveDirective, r.OriginalPolicy,
		r.BlockedURI, r.StatusCode,
	)
	if err != nil {
		return fmt.Errorf("cspreports: insert: %w", err)
	}
	return nil
}

// Prune deletes reports received before cutoff and returns how many rows
// were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM csp_reports WHERE received_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("cspreports: prune: %w", err)
	}
	return result.RowsAffected()
}

// Count returns the total number of reports currently stored.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM csp_reports").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("cspreports: count: %w", err)
	}
	return n, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
