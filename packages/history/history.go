package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/unitspec/packages/core/runner"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

var ErrRunNotFound = errors.New("run not found")

// timeLayout is fixed width so started_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  TEXT NOT NULL,
	duration_us INTEGER NOT NULL,
	mode        TEXT NOT NULL,
	total       INTEGER NOT NULL,
	passed      INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	skipped     INTEGER NOT NULL,
	aborted     INTEGER NOT NULL,
	p95_us      INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS tests (
	run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	suite       TEXT NOT NULL,
	name        TEXT NOT NULL,
	passed      INTEGER NOT NULL,
	duration_us INTEGER NOT NULL,
	failures    INTEGER NOT NULL,
	detail      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS tests_by_name ON tests(suite, name);
`

// Run is one recorded run.
type Run struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Mode      string
	Total     int
	Passed    int
	Failed    int
	Skipped   int
	Aborted   bool
	P95       time.Duration
}

// TestRecord is one test of a recorded run.
type TestRecord struct {
	Suite    string
	Name     string
	Passed   bool
	Duration time.Duration
	Failures int
	Detail   string // first failure detail
}

// Flaky is a test that has both passed and failed in the recorded runs.
type Flaky struct {
	Suite  string
	Name   string
	Passed int
	Failed int
}

// Store keeps run results in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path. Accepted forms are a file
// path, sqlite://path and sqlite:path.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn, err := parseDSN(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// one writer; SQLite serialises anyway
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db, path: dsn}, nil
}

// parseDSN strips the sqlite:// or sqlite: prefix and enables foreign keys.
func parseDSN(path string) (string, error) {
	path = strings.TrimSpace(path)
	switch {
	case strings.HasPrefix(path, "sqlite://"):
		path = strings.TrimPrefix(path, "sqlite://")
	case strings.HasPrefix(path, "sqlite:"):
		path = strings.TrimPrefix(path, "sqlite:")
	}
	if path == "" {
		return "", errors.New("empty history database path")
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on", nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores a run and its tests in one transaction.
func (s *Store) Record(ctx context.Context, r *runner.RunResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, duration_us, mode, total, passed, failed, skipped, aborted, p95_us)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UTC().Format(timeLayout), r.Duration.Microseconds(), r.Mode.String(),
		r.Total, r.Passed, r.Failed, r.Skipped, r.Aborted, r.Timing.P95.Microseconds(),
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", r.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tests (run_id, suite, name, passed, duration_us, failures, detail) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing test insert: %w", err)
	}
	defer stmt.Close()

	for _, sr := range r.Suites {
		for _, tr := range sr.Tests {
			detail := ""
			if len(tr.Failures) > 0 {
				detail = tr.Failures[0].Detail
			}
			if _, err := stmt.ExecContext(ctx, r.ID, tr.Suite, tr.Name, tr.Passed,
				tr.Duration.Microseconds(), len(tr.Failures), detail); err != nil {
				return fmt.Errorf("recording test %s/%s: %w", tr.Suite, tr.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Runs returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, started_at, duration_us, mode, total, passed, failed, skipped, aborted, p95_us
		FROM runs ORDER BY started_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return runs, nil
}

// Run returns one run with its tests.
func (s *Store) Run(ctx context.Context, id string) (*Run, []TestRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, duration_us, mode, total, passed, failed, skipped, aborted, p95_us
		 FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT suite, name, passed, duration_us, failures, detail FROM tests WHERE run_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var tests []TestRecord
	for rows.Next() {
		var tr TestRecord
		var us int64
		if err := rows.Scan(&tr.Suite, &tr.Name, &tr.Passed, &us, &tr.Failures, &tr.Detail); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}
		tr.Duration = time.Duration(us) * time.Microsecond
		tests = append(tests, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("row iteration error: %w", err)
	}
	return &run, tests, nil
}

// Flaky lists tests that have both passed and failed, most failures first.
func (s *Store) Flaky(ctx context.Context) ([]Flaky, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT suite, name, SUM(passed), SUM(1 - passed)
		FROM tests
		GROUP BY suite, name
		HAVING SUM(passed) > 0 AND SUM(1 - passed) > 0
		ORDER BY SUM(1 - passed) DESC, suite, name`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var out []Flaky
	for rows.Next() {
		var f Flaky
		if err := rows.Scan(&f.Suite, &f.Name, &f.Passed, &f.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}

// Prune deletes all but the newest keep runs and returns how many were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM runs WHERE id NOT IN (
			SELECT id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune failed: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var run Run
	var started string
	var durUs, p95Us int64
	err := sc.Scan(&run.ID, &started, &durUs, &run.Mode, &run.Total, &run.Passed,
		&run.Failed, &run.Skipped, &run.Aborted, &p95Us)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return run, err
		}
		return run, fmt.Errorf("failed to scan row: %w", err)
	}
	run.StartedAt, err = time.Parse(timeLayout, started)
	if err != nil {
		return run, fmt.Errorf("bad started_at %q: %w", started, err)
	}
	run.Duration = time.Duration(durUs) * time.Microsecond
	run.P95 = time.Duration(p95Us) * time.Microsecond
	return run, nil
}
