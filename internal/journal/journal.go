// Package journal is an append-only SQLite transcript of deliberation
// calls. It is audit output only: nothing in it is ever loaded back into
// a live session.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// timeNow is replaced in tests for deterministic timestamps.
var timeNow = time.Now

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 50

// Entry is one recorded call.
type Entry struct {
	ID            int64    `json:"id"`
	SessionID     string   `json:"session_id"`
	ThoughtNumber int      `json:"thought_number"`
	TotalThoughts int      `json:"total_thoughts"`
	BranchID      *string  `json:"branch_id,omitempty"`
	Role          *string  `json:"role,omitempty"`
	Thought       string   `json:"thought"`
	Bullets       []string `json:"bullets"`
	CreatedAt     string   `json:"created_at"`
}

// SessionSummary is a session with its entry count.
type SessionSummary struct {
	SessionID string `json:"session_id"`
	Entries   int    `json:"entries"`
	StartedAt string `json:"started_at"`
	LastAt    string `json:"last_at"`
}

// ListOptions filters List.
type ListOptions struct {
	SessionID string
	Limit     int
}

// Config holds journal settings.
type Config struct {
	DataDir string
}

// Store is the journal database.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) journal.db under cfg.DataDir.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("journal: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "journal.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("journal: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: migration: %w", err)
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id     TEXT    NOT NULL,
			thought_number INTEGER NOT NULL,
			total_thoughts INTEGER NOT NULL,
			branch_id      TEXT,
			role           TEXT,
			thought        TEXT    NOT NULL,
			bullets        TEXT    NOT NULL DEFAULT '[]',
			created_at     TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_entries_session ON entries(session_id, id);
	`)
	return err
}

// Record appends e and returns its row id. CreatedAt is set by the store.
func (s *Store) Record(ctx context.Context, e Entry) (int64, error) {
	bullets := e.Bullets
	if bullets == nil {
		bullets = []string{}
	}
	data, err := json.Marshal(bullets)
	if err != nil {
		return 0, fmt.Errorf("journal: encode bullets: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (session_id, thought_number, total_thoughts, branch_id, role, thought, bullets, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.ThoughtNumber, e.TotalThoughts, e.BranchID, e.Role, e.Thought, string(data),
		timeNow().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("journal: insert entry: %w", err)
	}
	return res.LastInsertId()
}

// List returns entries oldest first. With a SessionID only that session's
// entries are returned; Limit keeps the most recent N.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `SELECT id, session_id, thought_number, total_thoughts, branch_id, role, thought, bullets, created_at
		FROM entries`
	args := []any{}
	if opts.SessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, opts.SessionID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: list entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			bullets string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.ThoughtNumber, &e.TotalThoughts,
			&e.BranchID, &e.Role, &e.Thought, &bullets, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("journal: scan entry: %w", err)
		}
		if err := json.Unmarshal([]byte(bullets), &e.Bullets); err != nil {
			return nil, fmt.Errorf("journal: decode bullets for entry %d: %w", e.ID, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest-first from the query; callers read transcripts top to bottom.
	slices.Reverse(out)
	return out, nil
}

// Sessions lists every recorded session, most recent first.
func (s *Store) Sessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, COUNT(*), MIN(created_at), MAX(created_at)
		FROM entries
		GROUP BY session_id
		ORDER BY MAX(id) DESC`)
	if err != nil {
		return nil, fmt.Errorf("journal: list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var ss SessionSummary
		if err := rows.Scan(&ss.SessionID, &ss.Entries, &ss.StartedAt, &ss.LastAt); err != nil {
			return nil, fmt.Errorf("journal: scan session: %w", err)
		}
		out = append(out, ss)
	}
	return out, rows.Err()
}
