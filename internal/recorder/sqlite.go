package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const dateFormat = "2006-01-02"

// SQLiteRecorder persists the fetch journal to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the journal stays readable while a run is writing.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS fetches (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			symbol    TEXT NOT NULL,
			status    TEXT NOT NULL,
			records   INTEGER,
			min_date  TEXT,
			max_date  TEXT,
			detail    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetches_ts ON fetches(timestamp)`,

		`CREATE TABLE IF NOT EXISTS runs (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp         INTEGER NOT NULL,
			duration_ms       INTEGER,
			tickers_requested INTEGER,
			tickers_fetched   INTEGER,
			quota_exhausted   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordFetch(rec *FetchRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var minDate, maxDate string
	if !rec.MinDate.IsZero() {
		minDate = rec.MinDate.Format(dateFormat)
	}
	if !rec.MaxDate.IsZero() {
		maxDate = rec.MaxDate.Format(dateFormat)
	}

	_, err := r.db.Exec(`INSERT INTO fetches
		(timestamp, symbol, status, records, min_date, max_date, detail)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.Symbol, rec.Status, rec.Records,
		minDate, maxDate, rec.Detail,
	)
	return err
}

func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	quota := 0
	if rec.QuotaExhausted {
		quota = 1
	}

	_, err := r.db.Exec(`INSERT INTO runs
		(timestamp, duration_ms, tickers_requested, tickers_fetched, quota_exhausted)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), rec.Duration.Milliseconds(),
		rec.TickersRequested, rec.TickersFetched, quota,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
