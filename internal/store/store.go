// Package store provides a SQLite-backed history of coverage report
// snapshots.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/phobologic/docsteward/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS report_history (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	created  INTEGER NOT NULL,
	files    INTEGER NOT NULL,
	coverage REAL    NOT NULL,
	payload  TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_created ON report_history(created);
`

// History records coverage report snapshots across runs.
type History struct {
	mu sync.Mutex
	db *sql.DB
}

// Snapshot is one recorded coverage run.
type Snapshot struct {
	ID       int64
	Created  time.Time
	Files    int
	Coverage float64
	Payload  string
}

// Open creates or opens the history database at the given path.
func Open(dbPath string) (*History, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	// SQLite pragmas for performance.
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &History{db: db}, nil
}

// Close closes the database. Safe on a nil receiver.
func (h *History) Close() error {
	if h == nil {
		return nil
	}
	return h.db.Close()
}

// Record stores one report snapshot. No-op on nil receiver; a failed
// insert is logged, not fatal, since history is an auxiliary record.
func (h *History) Record(r *model.CoverageReport) {
	if h == nil {
		return
	}
	payload, err := json.Marshal(r)
	if err != nil {
		log.Warn().Err(err).Msg("failed to encode report snapshot")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err = h.db.Exec(
		"INSERT INTO report_history (created, files, coverage, payload) VALUES (?, ?, ?, ?)",
		time.Now().Unix(), r.FilesAnalyzed, r.OverallCoverage, string(payload),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to record report snapshot")
	}
}

// Recent returns up to n snapshots, newest first. Safe on a nil
// receiver (returns none).
func (h *History) Recent(n int) ([]Snapshot, error) {
	if h == nil {
		return nil, nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	rows, err := h.db.Query(
		"SELECT id, created, files, coverage, payload FROM report_history ORDER BY created DESC, id DESC LIMIT ?",
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var s Snapshot
		var created int64
		if err := rows.Scan(&s.ID, &created, &s.Files, &s.Coverage, &s.Payload); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		s.Created = time.Unix(created, 0)
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}
