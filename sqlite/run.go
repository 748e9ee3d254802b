package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/docvec"
	"github.com/google/uuid"
)

// runTimeFormat is RFC 3339 with fixed-width nanoseconds so that stored
// timestamps sort lexically.
const runTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Compile-time interface verification.
var _ docvec.RunService = (*RunService)(nil)

// RunService implements docvec.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun stores a report and its failures in one transaction.
func (s *RunService) CreateRun(ctx context.Context, report *docvec.Report) error {
	if report == nil {
		return docvec.Errorf(docvec.EINVALID, "report required")
	}
	if report.RunID == "" {
		report.RunID = uuid.New().String()
	}
	if report.StartedAt.IsZero() {
		report.StartedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, source, attempted, succeeded, failed, started_at, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, report.RunID, report.Source, report.Attempted, report.Succeeded, report.Failed,
		report.StartedAt.UTC().Format(runTimeFormat), int64(report.Duration)); err != nil {
		return err
	}

	for i, f := range report.Failures {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO run_failures (run_id, position, document_id, title, error)
			VALUES (?, ?, ?, ?, ?)
		`, report.RunID, i, f.ID, f.Title, f.Error); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindRunByID retrieves a report with its failures.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*docvec.Report, error) {
	report, err := scanRun(s.db.QueryRowContext(ctx, `
		SELECT id, source, attempted, succeeded, failed, started_at, duration_ns
		FROM runs
		WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, docvec.Errorf(docvec.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, title, error FROM run_failures WHERE run_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var f docvec.Failure
		if err := rows.Scan(&f.ID, &f.Title, &f.Error); err != nil {
			return nil, err
		}
		report.Failures = append(report.Failures, f)
	}
	return report, rows.Err()
}

// FindRuns retrieves reports matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter docvec.RunFilter) ([]*docvec.Report, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source, attempted, succeeded, failed, started_at, duration_ns FROM runs WHERE 1=1")
	if filter.Source != nil {
		query.WriteString(" AND source = ?")
		args = append(args, *filter.Source)
	}
	query.WriteString(" ORDER BY started_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*docvec.Report
	for rows.Next() {
		report, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*docvec.Report, error) {
	var (
		report    docvec.Report
		startedAt string
		duration  int64
	)
	if err := row.Scan(&report.RunID, &report.Source, &report.Attempted, &report.Succeeded,
		&report.Failed, &startedAt, &duration); err != nil {
		return nil, err
	}

	t, err := parseRFC3339(startedAt, "started_at")
	if err != nil {
		return nil, err
	}
	report.StartedAt = t
	report.Duration = time.Duration(duration)
	return &report, nil
}
