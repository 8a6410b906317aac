// Package journal keeps a small sqlite audit log of engine operations
// (saves, backups, restores, merges). It is strictly best-effort: the
// primary data lives in the JSON store files, and a journal failure must
// never fail the operation it describes.
package journal

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS operations (
	id TEXT PRIMARY KEY,
	op TEXT NOT NULL,
	detail TEXT NOT NULL DEFAULT '',
	at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_operations_at ON operations(at);
`

// Entry is one recorded operation.
type Entry struct {
	ID     string    `json:"id"`
	Op     string    `json:"op"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// Journal is the sqlite-backed operation log.
type Journal struct {
	db     *sql.DB
	logger *log.Logger
}

// Open opens (or creates) the journal database at path.
func Open(path string, logger *log.Logger) (*Journal, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("journal mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("journal open: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal schema: %w", err)
	}
	return &Journal{db: db, logger: logger}, nil
}

// Record implements app.OperationLog. Failures are logged and swallowed.
func (j *Journal) Record(op, detail string) {
	if j == nil || j.db == nil {
		return
	}
	_, err := j.db.Exec(
		"INSERT INTO operations (id, op, detail, at) VALUES (?, ?, ?, ?)",
		uuid.NewString(), op, detail, time.Now().Format(time.RFC3339Nano),
	)
	if err != nil {
		j.logger.Printf("Warning: journal record %s: %v", op, err)
	}
}

// Recent returns the latest n entries, newest first.
func (j *Journal) Recent(n int) ([]Entry, error) {
	if n <= 0 {
		n = 20
	}
	rows, err := j.db.Query(
		"SELECT id, op, detail, at FROM operations ORDER BY at DESC LIMIT ?", n,
	)
	if err != nil {
		return nil, fmt.Errorf("journal query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var at string
		if err := rows.Scan(&e.ID, &e.Op, &e.Detail, &at); err != nil {
			return nil, fmt.Errorf("journal scan: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("journal: parse timestamp %q: %w", at, err)
		}
		e.At = t
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the database connection. Call on shutdown for clean exit.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}
