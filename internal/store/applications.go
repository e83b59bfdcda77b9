package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/jobtracker/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// appRecord holds the nullable columns of a job_applications row.
type appRecord struct {
	Priority     string
	AppliedDate  pgtype.Date
	FollowUpDate pgtype.Date
	Salary       pgtype.Text
	JobURL       pgtype.Text
	Notes        pgtype.Text
}

func newRecord(app core.NewApplication) appRecord {
	priority := app.Priority
	if !priority.Valid() {
		priority = core.PriorityMedium
	}
	applied := app.AppliedDate
	return appRecord{
		Priority:     string(priority),
		AppliedDate:  toPgDate(&applied),
		FollowUpDate: toPgDate(app.FollowUpDate),
		Salary:       toPgText(app.Salary),
		JobURL:       toPgText(app.JobURL),
		Notes:        toPgText(app.Notes),
	}
}

// Create inserts an application and records its initial status.
func (s *Store) Create(ctx context.Context, app core.NewApplication) (core.Application, error) {
	if err := validate(app); err != nil {
		return core.Application{}, err
	}
	rec := newRecord(app)

	var created core.Application
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var err error
		created, err = scanApplication(tx.QueryRow(ctx, `
			INSERT INTO job_applications
				(company, role, status, priority, applied_date, follow_up_date, salary, job_url, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING `+selectColumns,
			app.Company, app.Role, string(app.Status), rec.Priority,
			rec.AppliedDate, rec.FollowUpDate, rec.Salary, rec.JobURL, rec.Notes,
		))
		if err != nil {
			return fmt.Errorf("insert application: %w", err)
		}
		return recordStatusChange(ctx, tx, created.ID, "", app.Status)
	})
	if err != nil {
		return core.Application{}, err
	}
	return created, nil
}

// ListPage returns one page of applications, optionally filtered by status
// and follow-up date.
func (s *Store) ListPage(ctx context.Context, req core.PageRequest) (core.Page, error) {
	if req.Size <= 0 {
		req.Size = core.DefaultExportPageSize
	}
	if req.Page < 0 {
		req.Page = 0
	}
	order, err := orderBy(req.Sort)
	if err != nil {
		return core.Page{}, err
	}

	where, args := listFilter(req, core.Today(s.now()))

	var total int64
	if err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM job_applications`+where,
		args...,
	).Scan(&total); err != nil {
		return core.Page{}, fmt.Errorf("count applications: %w", err)
	}

	n := len(args)
	rows, err := s.pool.Query(ctx,
		`SELECT `+selectColumns+` FROM job_applications`+where+`
		ORDER BY `+order+fmt.Sprintf(`
		LIMIT $%d OFFSET $%d`, n+1, n+2),
		append(args, req.Size, req.Page*req.Size)...,
	)
	if err != nil {
		return core.Page{}, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	content := make([]core.Application, 0, req.Size)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return core.Page{}, fmt.Errorf("scan application: %w", err)
		}
		content = append(content, app)
	}
	if err := rows.Err(); err != nil {
		return core.Page{}, fmt.Errorf("list applications: %w", err)
	}

	return buildPage(content, total, req), nil
}

// listFilter builds the WHERE clause and arguments shared by the count and
// page queries. today is YYYY-MM-DD. An overdue filter wins over a due filter,
// and applications without a follow-up date never match either.
func listFilter(req core.PageRequest, today string) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if req.Status != "" {
		args = append(args, string(req.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	switch {
	case req.FollowUpOverdue:
		args = append(args, toPgDate(&today))
		conds = append(conds, fmt.Sprintf("follow_up_date < $%d", len(args)))
	case req.FollowUpDue:
		args = append(args, toPgDate(&today))
		conds = append(conds, fmt.Sprintf("follow_up_date <= $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Get returns one application.
func (s *Store) Get(ctx context.Context, id int64) (core.Application, error) {
	app, err := scanApplication(s.pool.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM job_applications WHERE id = $1`, id,
	))
	if err != nil {
		return core.Application{}, notFound(err)
	}
	return app, nil
}

// StatusHistory lists the status changes of an application, newest first.
func (s *Store) StatusHistory(ctx context.Context, id int64) ([]core.StatusChange, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM job_applications WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check application: %w", err)
	}
	if !exists {
		return nil, core.ErrNotFound
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, from_status, to_status, changed_at
		FROM status_history
		WHERE application_id = $1
		ORDER BY changed_at DESC, id DESC`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	defer rows.Close()

	history := []core.StatusChange{}
	for rows.Next() {
		var (
			changeID int64
			from     pgtype.Text
			to       string
			at       pgtype.Timestamptz
		)
		if err := rows.Scan(&changeID, &from, &to, &at); err != nil {
			return nil, fmt.Errorf("scan status change: %w", err)
		}
		history = append(history, newStatusChange(changeID, from, to, at))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	return history, nil
}

// buildPage fills in the paging metadata the backend returns with each page.
func buildPage(content []core.Application, total int64, req core.PageRequest) core.Page {
	pages := int((total + int64(req.Size) - 1) / int64(req.Size))
	return core.Page{
		Content:          content,
		TotalElements:    total,
		TotalPages:       pages,
		Number:           req.Page,
		Size:             req.Size,
		First:            req.Page == 0,
		Last:             req.Page+1 >= pages,
		Empty:            len(content) == 0,
		NumberOfElements: len(content),
	}
}

// Update replaces every field of an application.
func (s *Store) Update(ctx context.Context, id int64, app core.NewApplication) (core.Application, error) {
	if err := validate(app); err != nil {
		return core.Application{}, err
	}
	rec := newRecord(app)

	var updated core.Application
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		previous, err := currentStatus(ctx, tx, id)
		if err != nil {
			return err
		}

		updated, err = scanApplication(tx.QueryRow(ctx, `
			UPDATE job_applications SET
				company = $2, role = $3, status = $4, priority = $5,
				applied_date = $6, follow_up_date = $7, salary = $8, job_url = $9, notes = $10,
				updated_at = now()
			WHERE id = $1
			RETURNING `+selectColumns,
			id, app.Company, app.Role, string(app.Status), rec.Priority,
			rec.AppliedDate, rec.FollowUpDate, rec.Salary, rec.JobURL, rec.Notes,
		))
		if err != nil {
			return notFound(err)
		}

		if previous != app.Status {
			return recordStatusChange(ctx, tx, id, previous, app.Status)
		}
		return nil
	})
	if err != nil {
		return core.Application{}, err
	}
	return updated, nil
}

// PatchStatus changes only the status of an application.
func (s *Store) PatchStatus(ctx context.Context, id int64, status core.Status) (core.Application, error) {
	if !status.Valid() {
		return core.Application{}, fmt.Errorf("%w: invalid status %q", core.ErrInvalidApplication, status)
	}

	var updated core.Application
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		previous, err := currentStatus(ctx, tx, id)
		if err != nil {
			return err
		}

		updated, err = scanApplication(tx.QueryRow(ctx,
			`UPDATE job_applications SET status = $2, updated_at = now() WHERE id = $1 RETURNING `+selectColumns,
			id, string(status),
		))
		if err != nil {
			return notFound(err)
		}

		if previous != status {
			return recordStatusChange(ctx, tx, id, previous, status)
		}
		return nil
	})
	if err != nil {
		return core.Application{}, err
	}
	return updated, nil
}

// Delete removes an application and its status history.
func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM job_applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func currentStatus(ctx context.Context, db DBTX, id int64) (core.Status, error) {
	var status string
	err := db.QueryRow(ctx, `SELECT status FROM job_applications WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if err != nil {
		return "", notFound(err)
	}
	return core.Status(status), nil
}

func recordStatusChange(ctx context.Context, db DBTX, id int64, from, to core.Status) error {
	var fromStatus pgtype.Text
	if from != "" {
		fromStatus = pgtype.Text{String: string(from), Valid: true}
	}
	_, err := db.Exec(ctx,
		`INSERT INTO status_history (application_id, from_status, to_status) VALUES ($1, $2, $3)`,
		id, fromStatus, string(to),
	)
	if err != nil {
		return fmt.Errorf("record status change: %w", err)
	}
	return nil
}

// validate applies the backend's constraints on a creation payload.
func validate(app core.NewApplication) error {
	switch {
	case app.Company == "":
		return fmt.Errorf("%w: company is required", core.ErrInvalidApplication)
	case app.Role == "":
		return fmt.Errorf("%w: role is required", core.ErrInvalidApplication)
	case !app.Status.Valid():
		return fmt.Errorf("%w: invalid status %q", core.ErrInvalidApplication, app.Status)
	}
	return nil
}

var _ core.Repository = (*Store)(nil)
