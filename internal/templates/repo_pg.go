package templates

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jobtracker-backend/resume/model"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new template. The data payload is stored as its canonical
// JSON body.
func (r *PGRepo) Create(ctx context.Context, template Template) error {
	const query = `
INSERT INTO resume_templates (
    id, user_id, name, description, template_data, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	body, err := json.Marshal(template.Data)
	if err != nil {
		return fmt.Errorf("marshal template data: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, query,
		template.ID,
		template.UserID,
		template.Name,
		nullString(template.Description),
		body,
		template.CreatedAt,
		template.UpdatedAt,
	)
	return err
}

// GetByID returns a live template owned by the user. Templates belonging to
// another user are reported as not found.
func (r *PGRepo) GetByID(ctx context.Context, userID, templateID string) (Template, error) {
	const query = `
SELECT id, user_id, name, description, template_data, created_at, updated_at
FROM resume_templates
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, templateID, userID)
	template, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Template{}, ErrNotFound
		}
		return Template{}, err
	}
	return template, nil
}

// ListByUser lists live templates ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Template, error) {
	const query = `
SELECT id, user_id, name, description, template_data, created_at, updated_at
FROM resume_templates
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, template)
	}
	return out, rows.Err()
}

// Update rewrites the template's name, description and data body in place.
func (r *PGRepo) Update(ctx context.Context, template Template) error {
	const query = `
UPDATE resume_templates
SET name = $1, description = $2, template_data = $3, updated_at = $4
WHERE id = $5 AND user_id = $6 AND deleted_at IS NULL`

	body, err := json.Marshal(template.Data)
	if err != nil {
		return fmt.Errorf("marshal template data: %w", err)
	}

	res, err := r.DB.ExecContext(ctx, query,
		template.Name,
		nullString(template.Description),
		body,
		template.UpdatedAt,
		template.ID,
		template.UserID,
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

// NameExistsForUser reports whether a live template with the name exists for
// the user, optionally excluding one template id (used on rename).
func (r *PGRepo) NameExistsForUser(ctx context.Context, userID, name, excludeID string) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1 FROM resume_templates
    WHERE user_id = $1 AND name = $2 AND deleted_at IS NULL AND ($3 = '' OR id <> $3)
)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, userID, name, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// SoftDelete tombstones the template unless any resume record references it.
func (r *PGRepo) SoftDelete(ctx context.Context, userID, templateID string) error {
	const query = `
UPDATE resume_templates
SET deleted_at = $1
WHERE id = $2 AND user_id = $3 AND deleted_at IS NULL
  AND NOT EXISTS (SELECT 1 FROM resumes WHERE template_id = $2)`

	res, err := r.DB.ExecContext(ctx, query, time.Now().UTC(), templateID, userID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 1 {
		return nil
	}

	// Distinguish a missing template from a restricted delete.
	const existsQuery = `
SELECT EXISTS (
    SELECT 1 FROM resume_templates
    WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, existsQuery, templateID, userID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrTemplateInUse
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (Template, error) {
	var template Template
	var description sql.NullString
	var body []byte
	if err := row.Scan(
		&template.ID,
		&template.UserID,
		&template.Name,
		&description,
		&body,
		&template.CreatedAt,
		&template.UpdatedAt,
	); err != nil {
		return Template{}, err
	}
	if description.Valid {
		template.Description = description.String
	}
	var data model.TemplateData
	if err := json.Unmarshal(body, &data); err != nil {
		return Template{}, fmt.Errorf("unmarshal template data: %w", err)
	}
	template.Data = data
	return template, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
