package kv

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// SQLiteFile is the database file name used by the sqlite backend.
const SQLiteFile = "luna.db"

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	previous   BLOB,
	updated_at INTEGER NOT NULL
);`

// SQLiteStore keeps every key as a row of a single table. The row also holds
// the value it replaced, which backs Previous.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// One writer; SQLite serializes anyway and this avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Get returns the stored bytes for key.
func (s *SQLiteStore) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return value, nil
}

// Put upserts key, moving the old value into the previous column.
func (s *SQLiteStore) Put(key string, value []byte) error {
	_, err := s.db.Exec(`
INSERT INTO kv (key, value, previous, updated_at) VALUES (?, ?, NULL, ?)
ON CONFLICT(key) DO UPDATE SET
	previous   = kv.value,
	value      = excluded.value,
	updated_at = excluded.updated_at`,
		key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Previous returns the value key held before its last write.
func (s *SQLiteStore) Previous(key string) ([]byte, error) {
	var prev []byte
	err := s.db.QueryRow(`SELECT previous FROM kv WHERE key = ?`, key).Scan(&prev)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && prev == nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select previous %s: %w", key, err)
	}
	return prev, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var (
	_ Store     = (*SQLiteStore)(nil)
	_ Recoverer = (*SQLiteStore)(nil)
)
