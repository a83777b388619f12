package status

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	// ErrNoJurisdiction is returned when a run is recorded without a
	// jurisdiction.
	ErrNoJurisdiction = errors.New("run needs a jurisdiction")

	// ErrInvalidOutcome is returned when a run is recorded with an
	// outcome that isn't one of the defined Outcome values.
	ErrInvalidOutcome = errors.New("run outcome must be success or failure")
)

// Repository provides access to stored runs. It embeds the database
// connection and is the receiver for every query the status page and
// reporting API need.
type Repository struct {
	dbConn *sqlx.DB
}

// NewRepository returns a Repository using the passed connection.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{dbConn: db}
}

// Close terminates the database connection.
func (repo *Repository) Close() error {
	if err := repo.dbConn.Close(); err != nil {
		return fmt.Errorf("closing repo: %w", err)
	}
	return nil
}

// RecordRun stores run. A zero run ID is filled in with a fresh one;
// timestamps are stored in UTC.
func (repo *Repository) RecordRun(ctx context.Context, run *Run) error {
	if run.Jurisdiction == "" {
		return ErrNoJurisdiction
	}
	if !run.Outcome.Valid() {
		return ErrInvalidOutcome
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	run.StartedAt = run.StartedAt.UTC()
	run.FinishedAt = run.FinishedAt.UTC()
	_, err := repo.dbConn.NamedExecContext(ctx, `
		INSERT INTO runs (id, jurisdiction, outcome, detail, started_at, finished_at)
		VALUES (:id, :jurisdiction, :outcome, :detail, :started_at, :finished_at)`, run)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// LatestRuns returns the most recently finished run for each
// jurisdiction, ordered by jurisdiction.
func (repo *Repository) LatestRuns(ctx context.Context) ([]Run, error) {
	var runs []Run
	err := repo.dbConn.SelectContext(ctx, &runs, `
		SELECT r.id, r.jurisdiction, r.outcome, r.detail, r.started_at, r.finished_at
		FROM runs r
		JOIN (
			SELECT jurisdiction, MAX(finished_at) AS finished_at
			FROM runs
			GROUP BY jurisdiction
		) latest ON r.jurisdiction = latest.jurisdiction AND r.finished_at = latest.finished_at
		ORDER BY r.jurisdiction`)
	if err != nil {
		return nil, fmt.Errorf("selecting latest runs: %w", err)
	}
	return runs, nil
}

// RunsFor returns every stored run for jurisdiction, newest first.
func (repo *Repository) RunsFor(ctx context.Context, jurisdiction string) ([]Run, error) {
	var runs []Run
	err := repo.dbConn.SelectContext(ctx, &runs, `
		SELECT id, jurisdiction, outcome, detail, started_at, finished_at
		FROM runs
		WHERE jurisdiction = ?
		ORDER BY finished_at DESC`, jurisdiction)
	if err != nil {
		return nil, fmt.Errorf("selecting runs for %q: %w", jurisdiction, err)
	}
	return runs, nil
}
