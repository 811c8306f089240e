package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"jobtracker-backend/resume/model"
)

const uniqueViolation = "23505"

// PGRepo implements Repo using Postgres. A unique index on
// (user_id, name, version) makes version claims race-safe.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new resume record.
func (r *PGRepo) Create(ctx context.Context, record ResumeRecord) error {
	const query = `
INSERT INTO resumes (
    id, user_id, template_id, application_id, name, description,
    resume_data, storage_key, file_format, version, generated_at, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	body, err := json.Marshal(record.Data)
	if err != nil {
		return fmt.Errorf("marshal resume data: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		record.TemplateID,
		nullString(record.ApplicationID),
		record.Name,
		nullString(record.Description),
		body,
		record.StorageKey,
		record.FileFormat,
		record.Version,
		record.GeneratedAt,
		record.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrVersionConflict
	}
	return err
}

// NextVersion returns max(version)+1 for the lineage, counting tombstones.
func (r *PGRepo) NextVersion(ctx context.Context, userID, name string) (int, error) {
	const query = `
SELECT COALESCE(MAX(version), 0) + 1
FROM resumes
WHERE user_id = $1 AND name = $2`

	var next int
	if err := r.DB.QueryRowContext(ctx, query, userID, name).Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}

// GetByID returns a live record owned by the user.
func (r *PGRepo) GetByID(ctx context.Context, userID, resumeID string) (ResumeRecord, error) {
	const query = selectColumns + `
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, resumeID, userID)
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ResumeRecord{}, ErrNotFound
		}
		return ResumeRecord{}, err
	}
	return record, nil
}

// ListByUser lists live records, newest generation first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]ResumeRecord, error) {
	const query = selectColumns + `
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY generated_at DESC`
	return r.queryRecords(ctx, query, userID)
}

// ListByApplication lists live records linked to a job application.
func (r *PGRepo) ListByApplication(ctx context.Context, userID, applicationID string) ([]ResumeRecord, error) {
	const query = selectColumns + `
WHERE user_id = $1 AND application_id = $2 AND deleted_at IS NULL
ORDER BY generated_at DESC`
	return r.queryRecords(ctx, query, userID, applicationID)
}

// ListByTemplate lists live records generated from a template.
func (r *PGRepo) ListByTemplate(ctx context.Context, userID, templateID string) ([]ResumeRecord, error) {
	const query = selectColumns + `
WHERE user_id = $1 AND template_id = $2 AND deleted_at IS NULL
ORDER BY generated_at DESC`
	return r.queryRecords(ctx, query, userID, templateID)
}

// UpdateMetadata renames a live record or rewrites its description.
func (r *PGRepo) UpdateMetadata(ctx context.Context, userID, resumeID, name, description string) error {
	const query = `
UPDATE resumes
SET name = $1, description = $2
WHERE id = $3 AND user_id = $4 AND deleted_at IS NULL`

	res, err := r.DB.ExecContext(ctx, query, name, nullString(description), resumeID, userID)
	if isUniqueViolation(err) {
		return ErrVersionConflict
	}
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete tombstones the record. The version number stays claimed.
func (r *PGRepo) SoftDelete(ctx context.Context, userID, resumeID string) error {
	const query = `
UPDATE resumes
SET deleted_at = $1
WHERE id = $2 AND user_id = $3 AND deleted_at IS NULL`

	res, err := r.DB.ExecContext(ctx, query, time.Now().UTC(), resumeID, userID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// TemplateInUse reports whether any record references the template.
func (r *PGRepo) TemplateInUse(ctx context.Context, templateID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM resumes WHERE template_id = $1)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, templateID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

const selectColumns = `
SELECT id, user_id, template_id, application_id, name, description,
       resume_data, storage_key, file_format, version, generated_at, created_at
FROM resumes`

func (r *PGRepo) queryRecords(ctx context.Context, query string, args ...any) ([]ResumeRecord, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ResumeRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (ResumeRecord, error) {
	var record ResumeRecord
	var applicationID, description sql.NullString
	var body []byte
	if err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.TemplateID,
		&applicationID,
		&record.Name,
		&description,
		&body,
		&record.StorageKey,
		&record.FileFormat,
		&record.Version,
		&record.GeneratedAt,
		&record.CreatedAt,
	); err != nil {
		return ResumeRecord{}, err
	}
	if applicationID.Valid {
		record.ApplicationID = applicationID.String
	}
	if description.Valid {
		record.Description = description.String
	}
	var data model.TemplateData
	if err := json.Unmarshal(body, &data); err != nil {
		return ResumeRecord{}, fmt.Errorf("unmarshal resume data: %w", err)
	}
	record.Data = data
	return record, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
