package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/netkeeper/internal/filex"
	"github.com/dmitrijs2005/netkeeper/internal/journal/migrations"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// timestamps are stored as fixed-width UTC text so they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// RunMigrations brings the history schema up to date.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to migrate history database: %w", err)
	}
	return nil
}

// SQLiteStore is a Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an already migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// OpenSQLite opens (creating if needed) the history database at path and
// applies migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn, err := filex.EnsureParentDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare history path: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQLiteStore(db), nil
}

// Save inserts entries for runID in one transaction. Entries already stored
// for the same (run, seq) are ignored.
func (s *SQLiteStore) Save(ctx context.Context, runID string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	err := withTx(ctx, s.db, func(ctx context.Context, tx execer) error {
		for _, e := range entries {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO log_entries (run_id, seq, severity, text, created_at)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT(run_id, seq) DO NOTHING
			`, runID, e.ID, string(e.Severity), e.Text, e.At.UTC().Format(timeLayout))
			if err != nil {
				return fmt.Errorf("failed to insert log entry %d: %w", e.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// Recent returns up to limit newest records, oldest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seq, severity, text, created_at
		FROM log_entries
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r   Record
			sev string
			at  string
		)
		if err := rows.Scan(&r.RunID, &r.ID, &sev, &r.Text, &at); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		r.Severity = Severity(sev)
		if r.At, err = time.Parse(timeLayout, at); err != nil {
			return nil, fmt.Errorf("failed to parse history timestamp: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history rows: %w", err)
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// ListRuns returns every recorded run, oldest first.
func (s *SQLiteStore) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, MIN(created_at), COUNT(*)
		FROM log_entries
		GROUP BY run_id
		ORDER BY MIN(id)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r  Run
			at string
		)
		if err := rows.Scan(&r.ID, &at, &r.Entries); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		if r.StartedAt, err = time.Parse(timeLayout, at); err != nil {
			return nil, fmt.Errorf("failed to parse run timestamp: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate run rows: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
