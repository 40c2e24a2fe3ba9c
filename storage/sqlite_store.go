package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var ErrRunNotFound = errors.New("run not found")

// Run is one generate invocation.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Source     string
	Template   string
	OutputDir  string
	Entities   int
	Documents  int
	Failures   int
}

// EntityOutcome is the result of one entity within a run. Path is empty when
// no document was written.
type EntityOutcome struct {
	RunID     string
	Entity    string
	Written   int
	Unmatched int
	Path      string
	Error     string
}

type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	source TEXT NOT NULL,
	template TEXT NOT NULL,
	output_dir TEXT NOT NULL,
	entities INTEGER NOT NULL CHECK(entities >= 0),
	documents INTEGER NOT NULL CHECK(documents >= 0),
	failures INTEGER NOT NULL CHECK(failures >= 0)
);
CREATE TABLE IF NOT EXISTS run_entities (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	entity TEXT NOT NULL,
	written INTEGER NOT NULL,
	unmatched INTEGER NOT NULL,
	path TEXT NOT NULL DEFAULT '',
	error TEXT NOT NULL DEFAULT '',
	PRIMARY KEY(run_id, position)
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// RecordRun stores a run and its entity outcomes in one transaction. A run
// without an ID gets a new one; the stored run is returned.
func (s *SQLiteStore) RecordRun(run Run, outcomes []EntityOutcome) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Run{}, fmt.Errorf("begin transaction: %w", err)
	}

	const insertRun = `
INSERT INTO runs (
	id,
	started_at,
	finished_at,
	source,
	template,
	output_dir,
	entities,
	documents,
	failures
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`

	if _, err := tx.Exec(
		insertRun,
		run.ID,
		run.StartedAt.Format(time.RFC3339),
		run.FinishedAt.Format(time.RFC3339),
		run.Source,
		run.Template,
		run.OutputDir,
		run.Entities,
		run.Documents,
		run.Failures,
	); err != nil {
		_ = tx.Rollback()
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	const insertEntity = `
INSERT INTO run_entities (
	run_id,
	position,
	entity,
	written,
	unmatched,
	path,
	error
) VALUES (?, ?, ?, ?, ?, ?, ?);`

	stmt, err := tx.Prepare(insertEntity)
	if err != nil {
		_ = tx.Rollback()
		return Run{}, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for i, outcome := range outcomes {
		if _, err := stmt.Exec(
			run.ID,
			i,
			outcome.Entity,
			outcome.Written,
			outcome.Unmatched,
			outcome.Path,
			outcome.Error,
		); err != nil {
			_ = tx.Rollback()
			return Run{}, fmt.Errorf("insert run entity %q: %w", outcome.Entity, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit transaction: %w", err)
	}

	return run, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all runs.
func (s *SQLiteStore) ListRuns(limit int) ([]Run, error) {
	query := `
SELECT
	id,
	started_at,
	finished_at,
	source,
	template,
	output_dir,
	entities,
	documents,
	failures
FROM runs
ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query+";", args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0, 16)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// GetRun returns one run by ID.
func (s *SQLiteStore) GetRun(id string) (Run, error) {
	const query = `
SELECT
	id,
	started_at,
	finished_at,
	source,
	template,
	output_dir,
	entities,
	documents,
	failures
FROM runs
WHERE id = ?;
`
	run, err := scanRun(s.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// ListRunEntities returns the entity outcomes of a run in processing order.
func (s *SQLiteStore) ListRunEntities(runID string) ([]EntityOutcome, error) {
	if _, err := s.GetRun(runID); err != nil {
		return nil, err
	}

	const query = `
SELECT
	run_id,
	entity,
	written,
	unmatched,
	path,
	error
FROM run_entities
WHERE run_id = ?
ORDER BY position;
`
	rows, err := s.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("query run entities: %w", err)
	}
	defer rows.Close()

	outcomes := make([]EntityOutcome, 0, 64)
	for rows.Next() {
		var outcome EntityOutcome
		if err := rows.Scan(
			&outcome.RunID,
			&outcome.Entity,
			&outcome.Written,
			&outcome.Unmatched,
			&outcome.Path,
			&outcome.Error,
		); err != nil {
			return nil, fmt.Errorf("scan run entity: %w", err)
		}
		outcomes = append(outcomes, outcome)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run entities: %w", err)
	}

	return outcomes, nil
}

// DeleteRun removes a run and its entity outcomes.
func (s *SQLiteStore) DeleteRun(id string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM run_entities WHERE run_id = ?;`, id); err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("delete run entities %s: %w", id, err)
	}
	res, err := tx.Exec(`DELETE FROM runs WHERE id = ?;`, id)
	if err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("delete run %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete transaction: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read deleted row count: %w", err)
	}
	return rowsAffected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run         Run
		startedRaw  string
		finishedRaw string
	)
	if err := row.Scan(
		&run.ID,
		&startedRaw,
		&finishedRaw,
		&run.Source,
		&run.Template,
		&run.OutputDir,
		&run.Entities,
		&run.Documents,
		&run.Failures,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	var err error
	run.StartedAt, err = time.Parse(time.RFC3339, startedRaw)
	if err != nil {
		return Run{}, fmt.Errorf("parse started_at %q: %w", startedRaw, err)
	}
	run.FinishedAt, err = time.Parse(time.RFC3339, finishedRaw)
	if err != nil {
		return Run{}, fmt.Errorf("parse finished_at %q: %w", finishedRaw, err)
	}
	return run, nil
}
