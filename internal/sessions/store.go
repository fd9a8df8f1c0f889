package sessions

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"gymforge/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the
// schema changes; stale databases must be recreated.
const schemaVersion = 1

// ErrNotFound indicates the requested session does not exist.
var ErrNotFound = errors.New("session not found")

// ErrSchemaMismatch indicates the database schema version doesn't match
// the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store manages session persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the sessions database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "sessions.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
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

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
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

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to recreate)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// Add inserts a new session in pending state.
func (s *Store) Add(ctx context.Context, id, title string, kind Kind) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("session id required")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, title, kind, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		id, strings.TrimSpace(title), string(kind), string(StatusPending), timestamp, timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return s.Get(ctx, id)
}

// Get fetches one session by id.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, kind, status, created_at, updated_at, dataset_path,
                event_count, message_count, token_count, error_message
         FROM sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return session, err
}

// List returns sessions ordered by creation time, optionally filtered
// by status.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Session, error) {
	query := `SELECT id, title, kind, status, created_at, updated_at, dataset_path,
                     event_count, message_count, token_count, error_message
              FROM sessions`
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		query += " WHERE status IN (" + strings.Join(placeholders, ",") + ")"
	}
	query += " ORDER BY created_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var result []*Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, session)
	}
	return result, rows.Err()
}

// MarkProcessing transitions a session into the processing state.
func (s *Store) MarkProcessing(ctx context.Context, id string) error {
	return s.update(ctx, id,
		"status = ?, error_message = ''",
		string(StatusProcessing))
}

// MarkCompleted records a finished run and its dataset statistics.
func (s *Store) MarkCompleted(ctx context.Context, id, datasetPath string, eventCount, messageCount, tokenCount int) error {
	return s.update(ctx, id,
		"status = ?, dataset_path = ?, event_count = ?, message_count = ?, token_count = ?, error_message = ''",
		string(StatusCompleted), datasetPath, eventCount, messageCount, tokenCount)
}

// MarkFailed records a failed run with its terminal error.
func (s *Store) MarkFailed(ctx context.Context, id string, cause error) error {
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	return s.update(ctx, id, "status = ?, error_message = ?", string(StatusFailed), message)
}

// Reset returns a session to pending so it can be reprocessed.
func (s *Store) Reset(ctx context.Context, id string) error {
	return s.update(ctx, id,
		"status = ?, dataset_path = '', event_count = 0, message_count = 0, token_count = 0, error_message = ''",
		string(StatusPending))
}

// CreatedAtMillis returns the session's creation time as Unix
// milliseconds. The application event extractor uses this as the
// timestamp anchor when the event log lacks one.
func (s *Store) CreatedAtMillis(ctx context.Context, id string) (int64, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return session.CreatedAt.UnixMilli(), nil
}

func (s *Store) update(ctx context.Context, id, setClause string, args ...any) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	args = append(args, now, id)
	res, err := s.db.ExecContext(ctx,
		"UPDATE sessions SET "+setClause+", updated_at = ? WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update session %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var session Session
	var kind, status, createdAt, updatedAt string
	err := row.Scan(&session.ID, &session.Title, &kind, &status, &createdAt, &updatedAt,
		&session.DatasetPath, &session.EventCount, &session.MessageCount, &session.TokenCount,
		&session.ErrorMessage)
	if err != nil {
		return nil, err
	}
	session.Kind = Kind(kind)
	session.Status = Status(status)
	if session.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if session.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &session, nil
}
