// Package store implements the application repository directly against the
// backend's PostgreSQL database using pgx.
//
// It is an alternative to the REST client in package backend for deployments
// that run next to the database. Both satisfy core.Repository.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/jobtracker/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of pgx shared by pools, connections and transactions.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store reads and writes job applications in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// New wraps an open pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, now: time.Now}
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const schema = `
CREATE TABLE IF NOT EXISTS job_applications (
	id             BIGSERIAL PRIMARY KEY,
	company        TEXT NOT NULL,
	role           TEXT NOT NULL,
	status         VARCHAR(20) NOT NULL,
	priority       VARCHAR(20) NOT NULL DEFAULT 'MEDIUM',
	applied_date   DATE,
	follow_up_date DATE,
	salary         VARCHAR(100),
	job_url        VARCHAR(500),
	notes          TEXT,
	updated_at     TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS status_history (
	id             BIGSERIAL PRIMARY KEY,
	application_id BIGINT NOT NULL REFERENCES job_applications(id) ON DELETE CASCADE,
	from_status    VARCHAR(50),
	to_status      VARCHAR(50) NOT NULL,
	changed_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_job_applications_status ON job_applications (status);
CREATE INDEX IF NOT EXISTS idx_job_applications_follow_up ON job_applications (follow_up_date);
CREATE INDEX IF NOT EXISTS idx_status_history_application ON status_history (application_id, changed_at DESC);
`

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const selectColumns = `id, company, role, status, priority, applied_date, follow_up_date, salary, job_url, notes`

// scanApplication reads one row selected with selectColumns.
func scanApplication(row pgx.Row) (core.Application, error) {
	var (
		app      core.Application
		status   string
		priority string
		rec      appRecord
	)
	err := row.Scan(
		&app.ID,
		&app.Company,
		&app.Role,
		&status,
		&priority,
		&rec.AppliedDate,
		&rec.FollowUpDate,
		&rec.Salary,
		&rec.JobURL,
		&rec.Notes,
	)
	if err != nil {
		return core.Application{}, err
	}

	app.Status = core.Status(status)
	app.Priority = core.Priority(priority)
	app.AppliedDate = fromPgDate(rec.AppliedDate)
	app.FollowUpDate = fromPgDate(rec.FollowUpDate)
	app.Salary = fromPgText(rec.Salary)
	app.JobURL = fromPgText(rec.JobURL)
	app.Notes = fromPgText(rec.Notes)
	return app, nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return core.ErrNotFound
	}
	return err
}

// withTx runs fn in a transaction, committing on success.
func (s *Store) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, s.pool, fn)
}
