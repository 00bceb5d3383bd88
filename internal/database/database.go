package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// History manages the SQLite database recording every deletion the engine
// performed or attempted.
type History struct {
	db *sql.DB
}

// Record is a single deletion event.
type Record struct {
	ID         int64
	Timestamp  time.Time
	Action     string // DELETE, DRY_RUN, MISSING, ERROR
	Path       string
	ObjectType string // file or folder
	Phase      string // resolve or delete
	Error      string
}

// Actions recorded in the history table.
const (
	ActionDelete  = "DELETE"
	ActionDryRun  = "DRY_RUN"
	ActionMissing = "MISSING"
	ActionError   = "ERROR"
)

// Open creates the database file (and parent directory) if needed and
// initializes the schema. WAL mode keeps concurrent per-item writes cheap.
func Open(dbPath string) (*History, error) {
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_loc=auto")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set synchronous mode: %w", err)
	}

	h := &History{db: db}
	if err := h.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

func (h *History) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS deletions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		action TEXT NOT NULL,
		path TEXT NOT NULL,
		object_type TEXT NOT NULL,
		phase TEXT NOT NULL,
		error_message TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_deletions_timestamp ON deletions(timestamp);
	CREATE INDEX IF NOT EXISTS idx_deletions_action ON deletions(action);
	CREATE INDEX IF NOT EXISTS idx_deletions_path ON deletions(path);
	`
	_, err := h.db.Exec(schema)
	return err
}

// RecordDeletion inserts one deletion event. Called concurrently from the
// deletion fan-out; sqlite serializes the writes.
func (h *History) RecordDeletion(action, path, objectType, phase, errMsg string) error {
	_, err := h.db.Exec(
		`INSERT INTO deletions (timestamp, action, path, object_type, phase, error_message)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		time.Now().UTC(), action, path, objectType, phase, errMsg,
	)
	if err != nil {
		return fmt.Errorf("record deletion of %s: %w", path, err)
	}
	return nil
}

// Filter narrows a Query. Zero values mean "no constraint".
type Filter struct {
	Since  time.Time
	Action string
	Limit  int
}

// Query returns deletion events, most recent first.
func (h *History) Query(f Filter) ([]Record, error) {
	var conds []string
	var args []interface{}

	if !f.Since.IsZero() {
		conds = append(conds, "timestamp >= ?")
		args = append(args, f.Since.UTC())
	}
	if f.Action != "" {
		conds = append(conds, "action = ?")
		args = append(args, f.Action)
	}

	query := `SELECT id, timestamp, action, path, object_type, phase, COALESCE(error_message, '')
	          FROM deletions`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY timestamp DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query deletions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Action, &r.Path, &r.ObjectType, &r.Phase, &r.Error); err != nil {
			return nil, fmt.Errorf("scan deletion record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the underlying database connection.
func (h *History) Close() error {
	return h.db.Close()
}
