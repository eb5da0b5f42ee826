// Package store persists checklists and templates in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound indicates the requested checklist or template does not exist.
	ErrNotFound = errors.New("not found")
	// ErrLocked indicates another broom process is writing to the database.
	ErrLocked = errors.New("database is locked by another process")
	// ErrSchemaVersion indicates the database was written by a newer broom.
	ErrSchemaVersion = errors.New("database schema is newer than this binary")
)

const (
	// DefaultLockTimeout bounds how long a write waits on another process.
	DefaultLockTimeout = 2 * time.Second
	lockRetryDelay     = 25 * time.Millisecond
)

// CurrentSchemaVersion is the schema version written to the meta table.
// v1: checklists and templates stored as JSON documents
// v2: client_address column for listing without decoding bodies
const CurrentSchemaVersion = 2

// Store is the database handle. It is safe for use by one process at a time
// for writes; reads are unrestricted.
type Store struct {
	db     *sql.DB
	path   string
	lock   *flock.Flock
	logger *slog.Logger
	now    func() time.Time

	lockTimeout time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithLogger routes store diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source (for tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLockTimeout sets how long writes retry the database lock before
// failing with ErrLocked.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// Open opens or creates the database at path.
func Open(path string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := newStore(db, path, opts)
	s.lock = flock.New(path + ".lock")
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Debug("database opened", "path", path, "schema_version", CurrentSchemaVersion)
	return s, nil
}

// OpenInMemory opens an in-memory database (for testing).
func OpenInMemory(opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every pooled connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	s := newStore(db, ":memory:", opts)
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func newStore(db *sql.DB, path string, opts []Option) *Store {
	s := &Store{
		db:     db,
		path:   path,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,

		lockTimeout: DefaultLockTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the database file path (":memory:" for in-memory stores).
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// initialize creates the schema and migrates older versions in place.
func (s *Store) initialize() error {
	schema := `
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
		PRAGMA foreign_keys = ON;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS checklists (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			client_name TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			template_id TEXT,
			body TEXT NOT NULL,          -- JSON-encoded model.Checklist
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS templates (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			body TEXT NOT NULL,          -- JSON-encoded model.Template
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_checklists_status ON checklists(status);
		CREATE INDEX IF NOT EXISTS idx_checklists_updated ON checklists(updated_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	version, err := s.schemaVersion()
	if err != nil {
		return err
	}
	if version > CurrentSchemaVersion {
		return fmt.Errorf("%w: %d > %d", ErrSchemaVersion, version, CurrentSchemaVersion)
	}
	if version < 2 {
		if err := s.migrateV2(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('version', ?)`,
		strconv.Itoa(CurrentSchemaVersion))
	if err != nil {
		return fmt.Errorf("failed to set database version: %w", err)
	}
	return nil
}

// schemaVersion returns the stored version, or 0 for a fresh database.
func (s *Store) schemaVersion() (int, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'version'`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read database version: %w", err)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid database version %q: %w", raw, err)
	}
	return v, nil
}

func (s *Store) migrateV2() error {
	has, err := s.hasColumn("checklists", "client_address")
	if err != nil || has {
		return err
	}
	if _, err := s.db.Exec(`ALTER TABLE checklists ADD COLUMN client_address TEXT NOT NULL DEFAULT ''`); err != nil {
		return fmt.Errorf("failed to migrate checklists table: %w", err)
	}
	_, err = s.db.Exec(`UPDATE checklists SET client_address = COALESCE(json_extract(body, '$.client.address'), '')`)
	if err != nil {
		return fmt.Errorf("failed to backfill client_address: %w", err)
	}
	s.logger.Info("database migrated", "to", 2)
	return nil
}

func (s *Store) hasColumn(table, column string) (bool, error) {
	rows, err := s.db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var cid, notNull, pk int
		var name, colType string
		var dflt any
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// withWriteLock serializes writers across processes sharing the database file.
func (s *Store) withWriteLock(fn func(tx *sql.Tx) error) error {
	if s.lock != nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.lockTimeout)
		ok, err := s.lock.TryLockContext(ctx, lockRetryDelay)
		cancel()
		if errors.Is(err, context.DeadlineExceeded) || (err == nil && !ok) {
			s.logger.Debug("database lock wait timed out", "path", s.lock.Path(), "timeout", s.lockTimeout)
			return ErrLocked
		}
		if err != nil {
			return fmt.Errorf("failed to acquire database lock: %w", err)
		}
		defer func() {
			if err := s.lock.Unlock(); err != nil {
				s.logger.Warn("failed to release database lock", "error", err)
			}
		}()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Stats summarizes database contents.
type Stats struct {
	Checklists int            `json:"checklists"`
	Templates  int            `json:"templates"`
	ByStatus   map[string]int `json:"by_status"`
}

// Stats returns counts of stored records.
func (s *Store) Stats() (*Stats, error) {
	st := &Stats{ByStatus: make(map[string]int)}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM checklists`).Scan(&st.Checklists); err != nil {
		return nil, err
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM templates`).Scan(&st.Templates); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM checklists GROUP BY status`)
	if err != nil {
		return nil, err
	}
	counts, err := scanRows(rows, func(r *sql.Rows) (statusCount, error) {
		var sc statusCount
		err := r.Scan(&sc.status, &sc.n)
		return sc, err
	})
	if err != nil {
		return nil, err
	}
	for _, sc := range counts {
		st.ByStatus[sc.status] = sc.n
	}
	return st, nil
}

type statusCount struct {
	status string
	n      int
}

// scanRows drains rows through scan and closes them.
func scanRows[T any](rows *sql.Rows, scan func(*sql.Rows) (T, error)) ([]T, error) {
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
