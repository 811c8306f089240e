package applications

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new application.
func (r *PGRepo) Create(ctx context.Context, application Application) error {
	const query = `
INSERT INTO job_applications (
    id, user_id, company_name, job_title, status, applied_date, notes, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.DB.ExecContext(ctx, query,
		application.ID,
		application.UserID,
		application.CompanyName,
		application.JobTitle,
		application.Status,
		nullTime(application.AppliedDate),
		nullString(application.Notes),
		application.CreatedAt,
		application.UpdatedAt,
	)
	return err
}

// GetByID returns a live application owned by the user.
func (r *PGRepo) GetByID(ctx context.Context, userID, applicationID string) (Application, error) {
	const query = `
SELECT id, user_id, company_name, job_title, status, applied_date, notes, created_at, updated_at
FROM job_applications
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, applicationID, userID)
	application, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	return application, nil
}

// ListByUser lists live applications, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Application, error) {
	const query = `
SELECT id, user_id, company_name, job_title, status, applied_date, notes, created_at, updated_at
FROM job_applications
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		application, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, application)
	}
	return out, rows.Err()
}

// Update rewrites a live application's mutable fields.
func (r *PGRepo) Update(ctx context.Context, application Application) error {
	const query = `
UPDATE job_applications
SET company_name = $1, job_title = $2, status = $3, applied_date = $4, notes = $5, updated_at = $6
WHERE id = $7 AND user_id = $8 AND deleted_at IS NULL`

	res, err := r.DB.ExecContext(ctx, query,
		application.CompanyName,
		application.JobTitle,
		application.Status,
		nullTime(application.AppliedDate),
		nullString(application.Notes),
		application.UpdatedAt,
		application.ID,
		application.UserID,
	)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete tombstones the application.
func (r *PGRepo) SoftDelete(ctx context.Context, userID, applicationID string) error {
	const query = `
UPDATE job_applications
SET deleted_at = $1
WHERE id = $2 AND user_id = $3 AND deleted_at IS NULL`

	res, err := r.DB.ExecContext(ctx, query, time.Now().UTC(), applicationID, userID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (Application, error) {
	var application Application
	var appliedDate sql.NullTime
	var notes sql.NullString
	if err := row.Scan(
		&application.ID,
		&application.UserID,
		&application.CompanyName,
		&application.JobTitle,
		&application.Status,
		&appliedDate,
		&notes,
		&application.CreatedAt,
		&application.UpdatedAt,
	); err != nil {
		return Application{}, err
	}
	if appliedDate.Valid {
		t := appliedDate.Time
		application.AppliedDate = &t
	}
	if notes.Valid {
		application.Notes = notes.String
	}
	return application, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
