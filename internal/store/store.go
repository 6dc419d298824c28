package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/valpere/tmtune/internal"
)

var ErrRunNotFound = errors.New("run not found")

const (
	StatusWritten = "written"
	StatusEmpty   = "empty"
	StatusFailed  = "failed"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversion_runs (
		id TEXT PRIMARY KEY,
		format TEXT NOT NULL,
		input_file TEXT NOT NULL,
		output_file TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		source_key TEXT NOT NULL,
		target_key TEXT NOT NULL,
		pair_count INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- run_pairs keeps the deduplicated pairs of each run in output order
	CREATE TABLE IF NOT EXISTS run_pairs (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		source_text TEXT NOT NULL,
		target_text TEXT NOT NULL,
		PRIMARY KEY (run_id, seq),
		FOREIGN KEY (run_id) REFERENCES conversion_runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON conversion_runs(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Run is one recorded conversion. SourceKey and TargetKey hold the language
// codes of a TMX run or the column names of an XLSX run.
type Run struct {
	ID         string
	Format     string
	InputFile  string
	OutputFile string
	SourceLang string
	TargetLang string
	SourceKey  string
	TargetKey  string
	PairCount  int
	Status     string
	CreatedAt  time.Time
}

// SaveRun stores run together with its pairs and returns the run ID. A new
// UUID is assigned when run.ID is empty.
func (s *Store) SaveRun(ctx context.Context, run Run, pairs []internal.Pair) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	if run.Status == "" {
		run.Status = StatusWritten
		if len(pairs) == 0 {
			run.Status = StatusEmpty
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO conversion_runs (id, format, input_file, output_file, source_lang, target_lang, source_key, target_key, pair_count, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Format, run.InputFile, run.OutputFile, run.SourceLang, run.TargetLang, run.SourceKey, run.TargetKey, len(pairs), run.Status, run.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_pairs (run_id, seq, source_text, target_text) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for i, p := range pairs {
		if _, err := stmt.ExecContext(ctx, run.ID, i, p.Source, p.Target); err != nil {
			return "", fmt.Errorf("failed to save pair %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return run.ID, nil
}

const runColumns = `id, format, input_file, output_file, source_lang, target_lang, source_key, target_key, pair_count, status, created_at`

func scanRun(row interface{ Scan(...any) error }) (Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.Format, &r.InputFile, &r.OutputFile, &r.SourceLang, &r.TargetLang,
		&r.SourceKey, &r.TargetKey, &r.PairCount, &r.Status, &r.CreatedAt)
	return r, err
}

// ListRuns returns all runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM conversion_runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM conversion_runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRunPairs returns the pairs of a run in their original order.
func (s *Store) GetRunPairs(ctx context.Context, id string) ([]internal.Pair, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_text, target_text FROM run_pairs WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []internal.Pair
	for rows.Next() {
		var p internal.Pair
		if err := rows.Scan(&p.Source, &p.Target); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

// DeleteRun removes a run and its pairs.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_pairs WHERE run_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM conversion_runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return tx.Commit()
}

// ClearRuns removes every run and returns how many were deleted.
func (s *Store) ClearRuns(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_pairs`); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM conversion_runs`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

// Stats summarises the recorded history.
type Stats struct {
	TotalRuns     int
	EmptyRuns     int
	TotalPairs    int
	DistinctPairs int
}

func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(pair_count), 0)
		FROM conversion_runs`, StatusEmpty).Scan(
		&stats.TotalRuns,
		&stats.EmptyRuns,
		&stats.TotalPairs,
	)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM (SELECT DISTINCT source_text, target_text FROM run_pairs)`).Scan(&stats.DistinctPairs)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
