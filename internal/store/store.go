// Package store is the SQLite persistence layer. All entity queries are
// owner-scoped; rows are soft-deactivated through the is_active flag and
// only hard-deleted by the explicit delete operations.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
// The pool is pinned to a single connection so the overlap validation in
// CreateCycle/UpdateCycle is serialized with respect to concurrent writers.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS users (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		public_id   TEXT NOT NULL UNIQUE,
		username    TEXT NOT NULL UNIQUE,
		token       TEXT NOT NULL UNIQUE,
		is_active   INTEGER NOT NULL DEFAULT 1,
		created_on  TEXT NOT NULL,
		modified_on TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS projects (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		public_id   TEXT NOT NULL UNIQUE,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		is_active   INTEGER NOT NULL DEFAULT 1,
		created_by  INTEGER NOT NULL REFERENCES users(id),
		modified_by INTEGER NOT NULL REFERENCES users(id),
		created_on  TEXT NOT NULL,
		modified_on TEXT NOT NULL,
		UNIQUE(created_by, name)
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		public_id   TEXT NOT NULL UNIQUE,
		project_id  INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name        TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		is_active   INTEGER NOT NULL DEFAULT 1,
		created_by  INTEGER NOT NULL REFERENCES users(id),
		modified_by INTEGER NOT NULL REFERENCES users(id),
		created_on  TEXT NOT NULL,
		modified_on TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cycles (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		public_id   TEXT NOT NULL UNIQUE,
		task_id     INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		dt_start    TEXT NOT NULL,
		dt_end      TEXT,
		is_active   INTEGER NOT NULL DEFAULT 1,
		created_by  INTEGER NOT NULL REFERENCES users(id),
		modified_by INTEGER NOT NULL REFERENCES users(id),
		created_on  TEXT NOT NULL,
		modified_on TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_project  ON tasks(project_id);
	CREATE INDEX IF NOT EXISTS idx_cycles_task    ON cycles(task_id);
	CREATE INDEX IF NOT EXISTS idx_cycles_owner   ON cycles(created_by);
	CREATE INDEX IF NOT EXISTS idx_cycles_start   ON cycles(dt_start);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/tasktime/tasktime.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "tasktime", "tasktime.db"), nil
}

// Timestamps are stored as RFC3339 UTC strings.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t := parseTime(s.String)
	return &t
}
