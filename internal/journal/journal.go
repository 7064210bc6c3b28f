// Package journal persists a history of tally mutations to SQLite. The
// backup registers only hold the latest values; the journal is what lets the
// status page answer "what happened and when". Journal failures never affect
// tracker state — callers log and move on.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sweeney/tally-tracker/internal/face"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	ts       TEXT    NOT NULL,
	type     TEXT    NOT NULL,
	tally_a  INTEGER NOT NULL,
	tally_b  INTEGER NOT NULL,
	goal_a   INTEGER NOT NULL,
	goal_b   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_ts ON events(ts);
`

// Journal is an append-only SQLite event log.
type Journal struct {
	db *sql.DB
}

// Entry is one journaled mutation.
type Entry struct {
	ID        int64
	Timestamp time.Time
	Type      face.EventType
	TallyA    uint16
	TallyB    uint16
	GoalA     uint16
	GoalB     uint16
}

// Open creates a Journal at the given database path.
// Use ":memory:" for in-memory databases (useful for testing).
func Open(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open journal database: %w", err)
	}

	// SQLite only allows one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// WAL keeps the 1 Hz writer from blocking status page reads
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Append records one mutation event.
func (j *Journal) Append(ev face.Event) error {
	_, err := j.db.Exec(
		`INSERT INTO events (ts, type, tally_a, tally_b, goal_a, goal_b) VALUES (?, ?, ?, ?, ?, ?)`,
		ev.Timestamp.UTC().Format(time.RFC3339),
		string(ev.Type),
		ev.TallyA, ev.TallyB, ev.GoalA, ev.GoalB,
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (j *Journal) Recent(n int) ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT id, ts, type, tally_a, tally_b, goal_a, goal_b FROM events ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts, typ string
		if err := rows.Scan(&e.ID, &ts, &typ, &e.TallyA, &e.TallyB, &e.GoalA, &e.GoalB); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("parse event timestamp %q: %w", ts, err)
		}
		e.Timestamp = t
		e.Type = face.EventType(typ)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return entries, nil
}

// Count returns the total number of journaled events.
func (j *Journal) Count() (int64, error) {
	var n int64
	if err := j.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}
