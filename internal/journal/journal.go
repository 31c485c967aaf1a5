// Package journal records every committed review decision in a SQLite
// database alongside the ledger. The ledger holds only the latest label
// per segment; the journal keeps the full history: which action was taken,
// what the label was before and after, and when. Journal writes are
// best-effort from the session's point of view: a failure is logged and
// review continues.
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

const journalFileName = "journal.db"

// Decision is one committed terminal review action.
type Decision struct {
	ID          int64
	UID         string
	RecordingID string
	SequenceID  int
	Action      string
	PrevLabel   string
	NewLabel    string
	DecidedAt   time.Time
}

// Store manages journal persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database in the qc directory.
func Open(qcDir string) (*Store, error) {
	dbPath := filepath.Join(qcDir, journalFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the journal database path.
func (s *Store) Path() string {
	return s.path
}

// Record appends a decision. DecidedAt defaults to now when zero.
func (s *Store) Record(ctx context.Context, d Decision) error {
	when := d.DecidedAt
	if when.IsZero() {
		when = time.Now().UTC()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO decisions (uid, recording_id, sequence_id, action, prev_label, new_label, decided_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.UID,
		d.RecordingID,
		d.SequenceID,
		d.Action,
		d.PrevLabel,
		d.NewLabel,
		when.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// Recent returns the latest n decisions, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Decision, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, uid, recording_id, sequence_id, action, prev_label, new_label, decided_at
         FROM decisions ORDER BY id DESC LIMIT ?`,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var out []Decision
	for rows.Next() {
		var d Decision
		var decidedAt string
		if err := rows.Scan(&d.ID, &d.UID, &d.RecordingID, &d.SequenceID, &d.Action, &d.PrevLabel, &d.NewLabel, &decidedAt); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		if parsed, parseErr := time.Parse(time.RFC3339Nano, decidedAt); parseErr == nil {
			d.DecidedAt = parsed
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Stats returns the number of recorded decisions per action.
func (s *Store) Stats(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT action, COUNT(1) FROM decisions GROUP BY action`)
	if err != nil {
		return nil, fmt.Errorf("query decision stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var action string
		var count int
		if err := rows.Scan(&action, &count); err != nil {
			return nil, fmt.Errorf("scan decision stats: %w", err)
		}
		stats[action] = count
	}
	return stats, rows.Err()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}
