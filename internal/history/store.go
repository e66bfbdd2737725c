package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ItemStatus records the outcome of one sheet row in a run.
type ItemStatus string

const (
	StatusPublished ItemStatus = "published"
	StatusFailed    ItemStatus = "failed"
)

// Run is one recorded publishing run.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Published  int
	Failed     int
	DryRun     bool
}

// ItemRecord is one sheet row processed during a run.
type ItemRecord struct {
	RunID      string
	RowIndex   int
	Slug       string
	DocID      string
	Status     ItemStatus
	Error      string
	URL        string
	WordCount  int
	ImageCount int
	RecordedAt time.Time
}

// Store persists publishing history in SQLite. It answers two
// questions: what happened on previous runs, and has this row already
// been published.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates or opens a history database. Use ":memory:" in tests.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		published INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		dry_run INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		row_index INTEGER NOT NULL,
		slug TEXT NOT NULL,
		doc_id TEXT NOT NULL,
		status TEXT NOT NULL,
		error TEXT,
		url TEXT,
		word_count INTEGER NOT NULL,
		image_count INTEGER NOT NULL,
		recorded_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_items_run_id ON items(run_id);
	CREATE INDEX IF NOT EXISTS idx_items_slug ON items(slug);
	CREATE INDEX IF NOT EXISTS idx_items_doc_id ON items(doc_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordRun stores the summary of a completed run.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (id, started_at, finished_at, published, failed, dry_run) VALUES (?, ?, ?, ?, ?, ?)",
		run.ID, run.StartedAt.Unix(), run.FinishedAt.Unix(), run.Published, run.Failed, boolToInt(run.DryRun),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordItem stores the outcome of one processed row.
func (s *Store) RecordItem(ctx context.Context, item ItemRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.RecordedAt.IsZero() {
		item.RecordedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO items (run_id, row_index, slug, doc_id, status, error, url, word_count, image_count, recorded_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		item.RunID, item.RowIndex, item.Slug, item.DocID, string(item.Status),
		item.Error, item.URL, item.WordCount, item.ImageCount, item.RecordedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// WasPublished reports whether a document has a published record from
// any earlier run.
func (s *Store) WasPublished(ctx context.Context, docID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM items WHERE doc_id = ? AND status = ?",
		docID, string(StatusPublished),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query published items: %w", err)
	}
	return count > 0, nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, started_at, finished_at, published, failed, dry_run FROM runs ORDER BY started_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started, finished, dryRun int64
		if err := rows.Scan(&run.ID, &started, &finished, &run.Published, &run.Failed, &dryRun); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = time.Unix(started, 0)
		run.FinishedAt = time.Unix(finished, 0)
		run.DryRun = dryRun != 0
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return runs, nil
}

// ItemsForRun returns all item records for a run in processing order.
func (s *Store) ItemsForRun(ctx context.Context, runID string) ([]ItemRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT run_id, row_index, slug, doc_id, status, error, url, word_count, image_count, recorded_at FROM items WHERE run_id = ? ORDER BY id",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []ItemRecord
	for rows.Next() {
		var item ItemRecord
		var status string
		var recorded int64
		err := rows.Scan(&item.RunID, &item.RowIndex, &item.Slug, &item.DocID, &status,
			&item.Error, &item.URL, &item.WordCount, &item.ImageCount, &recorded)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		item.Status = ItemStatus(status)
		item.RecordedAt = time.Unix(recorded, 0)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return items, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
