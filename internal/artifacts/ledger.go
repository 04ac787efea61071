// Package artifacts keeps a SQLite ledger of everything the engine
// produced for a project: specifications, plans, task boards, reports.
// The ledger is append-only and independent of the JSON state store, so
// a corrupt or deleted state file never loses the audit trail.
package artifacts

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// timeNow is swapped in tests for deterministic timestamps.
var timeNow = time.Now

// LedgerFile is the database file name under the project's .sdd
// directory.
const LedgerFile = "artifacts.db"

// Entry is one recorded artifact.
type Entry struct {
	ID        int64  `json:"id"`
	Phase     string `json:"phase"`
	Kind      string `json:"kind"`
	Ref       string `json:"ref"`
	CreatedAt string `json:"createdAt"`
}

// Ledger is the append-only artifact log backed by SQLite.
type Ledger struct {
	db *sql.DB
}

// Open creates the ledger database under dir, creating the directory
// and schema as needed.
func Open(dir string) (*Ledger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := openDB("sqlite", filepath.Join(dir, LedgerFile))
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", p, err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS artifacts (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			phase      TEXT NOT NULL,
			kind       TEXT NOT NULL,
			ref        TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_artifacts_phase ON artifacts(phase);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating ledger schema: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Record appends one artifact entry. Ref is whatever locates the
// artifact: a file path for reports, a logical name for state
// sections.
func (l *Ledger) Record(phase, kind, ref string) error {
	createdAt := timeNow().UTC().Format(time.RFC3339)
	_, err := l.db.Exec(
		"INSERT INTO artifacts (phase, kind, ref, created_at) VALUES (?, ?, ?, ?)",
		phase, kind, ref, createdAt,
	)
	if err != nil {
		return fmt.Errorf("recording artifact: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first. A limit of zero
// or less means everything.
func (l *Ledger) List(limit int) ([]Entry, error) {
	query := "SELECT id, phase, kind, ref, created_at FROM artifacts ORDER BY id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing artifacts: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Phase, &e.Kind, &e.Ref, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning artifact row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating artifact rows: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}
