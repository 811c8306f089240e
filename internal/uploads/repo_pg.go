package uploads

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

// Create inserts a new upload record.
func (r *PGRepo) Create(ctx context.Context, upload Upload) error {
	const query = `
INSERT INTO uploads (
    id, user_id, application_id, file_name, mime_type, size_bytes, storage_key, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.DB.ExecContext(ctx, query,
		upload.ID,
		upload.UserID,
		nullString(upload.ApplicationID),
		upload.FileName,
		upload.MimeType,
		upload.SizeBytes,
		upload.StorageKey,
		upload.CreatedAt,
	)
	return err
}

// GetByID returns a live upload owned by the user.
func (r *PGRepo) GetByID(ctx context.Context, userID, uploadID string) (Upload, error) {
	const query = selectColumns + `
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, uploadID, userID)
	upload, err := scanUpload(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Upload{}, ErrNotFound
		}
		return Upload{}, err
	}
	return upload, nil
}

// ListByUser lists live uploads, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Upload, error) {
	const query = selectColumns + `
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC`
	return r.queryUploads(ctx, query, userID)
}

// ListByApplication lists live uploads linked to a job application.
func (r *PGRepo) ListByApplication(ctx context.Context, userID, applicationID string) ([]Upload, error) {
	const query = selectColumns + `
WHERE user_id = $1 AND application_id = $2 AND deleted_at IS NULL
ORDER BY created_at DESC`
	return r.queryUploads(ctx, query, userID, applicationID)
}

// SoftDelete tombstones the upload.
func (r *PGRepo) SoftDelete(ctx context.Context, userID, uploadID string) error {
	const query = `
UPDATE uploads
SET deleted_at = $1
WHERE id = $2 AND user_id = $3 AND deleted_at IS NULL`

	res, err := r.DB.ExecContext(ctx, query, time.Now().UTC(), uploadID, userID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

const selectColumns = `
SELECT id, user_id, application_id, file_name, mime_type, size_bytes, storage_key, created_at
FROM uploads`

func (r *PGRepo) queryUploads(ctx context.Context, query string, args ...any) ([]Upload, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Upload
	for rows.Next() {
		upload, err := scanUpload(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, upload)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUpload(row rowScanner) (Upload, error) {
	var upload Upload
	var applicationID sql.NullString
	if err := row.Scan(
		&upload.ID,
		&upload.UserID,
		&applicationID,
		&upload.FileName,
		&upload.MimeType,
		&upload.SizeBytes,
		&upload.StorageKey,
		&upload.CreatedAt,
	); err != nil {
		return Upload{}, err
	}
	if applicationID.Valid {
		upload.ApplicationID = applicationID.String
	}
	return upload, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
