package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DefaultSQLiteName is the name of the SQLite preferences database inside the state directory.
const DefaultSQLiteName = "prefs.db"

const sqliteSchema = `CREATE TABLE IF NOT EXISTS prefs (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLiteStore keeps preferences in a single-table SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	log *slog.Logger
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("prefs: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("prefs: open: %w", err)
	}
	// One connection keeps ":memory:" databases coherent and serializes writers.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("prefs: %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("prefs: exec schema: %w", err)
	}

	return &SQLiteStore{db: db, log: logger}, nil
}

func (s *SQLiteStore) Get(key, def string) string {
	var value string
	err := s.db.QueryRow(`SELECT value FROM prefs WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.log.Warn("prefs: sqlite read failed", "key", key, "error", err)
		}
		return def
	}
	return value
}

func (s *SQLiteStore) Put(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO prefs (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("prefs: put %s: %w", key, err)
	}
	return nil
}

// Update runs the read and the write inside one IMMEDIATE transaction, which
// takes the database write lock up front.
func (s *SQLiteStore) Update(key string, fn func(current string) (string, error)) (err error) {
	ctx := context.Background()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("prefs: conn: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `BEGIN IMMEDIATE`); err != nil {
		return fmt.Errorf("prefs: begin: %w", err)
	}
	defer func() {
		if err != nil {
			conn.ExecContext(ctx, `ROLLBACK`)
		}
	}()

	var current string
	err = conn.QueryRowContext(ctx, `SELECT value FROM prefs WHERE key = ?`, key).Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("prefs: read %s: %w", key, err)
	}

	value, err := fn(current)
	if err != nil {
		return err
	}
	if _, err = conn.ExecContext(ctx,
		`INSERT INTO prefs (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	); err != nil {
		return fmt.Errorf("prefs: put %s: %w", key, err)
	}
	if _, err = conn.ExecContext(ctx, `COMMIT`); err != nil {
		return fmt.Errorf("prefs: commit: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Dump() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM prefs`)
	if err != nil {
		return nil, fmt.Errorf("prefs: dump: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("prefs: dump scan: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Replace(values map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("prefs: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM prefs`); err != nil {
		return fmt.Errorf("prefs: clear: %w", err)
	}
	for k, v := range values {
		if _, err := tx.Exec(`INSERT INTO prefs (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("prefs: insert %s: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("prefs: commit: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
