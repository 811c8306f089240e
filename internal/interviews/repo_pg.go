package interviews

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

const selectColumns = `
SELECT id, user_id, application_id, interview_date, interview_type,
       stage, interviewer, outcome, notes, created_at, updated_at
FROM interviews`

// Create inserts a new interview.
func (r *PGRepo) Create(ctx context.Context, interview Interview) error {
	const query = `
INSERT INTO interviews (
    id, user_id, application_id, interview_date, interview_type,
    stage, interviewer, outcome, notes, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.DB.ExecContext(ctx, query,
		interview.ID,
		interview.UserID,
		interview.ApplicationID,
		interview.InterviewDate,
		interview.InterviewType,
		nullString(interview.Stage),
		nullString(interview.Interviewer),
		interview.Outcome,
		nullString(interview.Notes),
		interview.CreatedAt,
		interview.UpdatedAt,
	)
	return err
}

// GetByID returns a live interview owned by the user.
func (r *PGRepo) GetByID(ctx context.Context, userID, interviewID string) (Interview, error) {
	const query = selectColumns + `
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, interviewID, userID)
	interview, err := scanInterview(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Interview{}, ErrNotFound
		}
		return Interview{}, err
	}
	return interview, nil
}

// ListByApplication lists live interviews for an application, soonest first.
func (r *PGRepo) ListByApplication(ctx context.Context, userID, applicationID string) ([]Interview, error) {
	const query = selectColumns + `
WHERE user_id = $1 AND application_id = $2 AND deleted_at IS NULL
ORDER BY interview_date ASC`
	return r.queryInterviews(ctx, query, userID, applicationID)
}

// ListUpcoming lists live, non-cancelled interviews inside [from, to).
func (r *PGRepo) ListUpcoming(ctx context.Context, userID string, from, to time.Time) ([]Interview, error) {
	const query = selectColumns + `
WHERE user_id = $1 AND deleted_at IS NULL
  AND interview_date >= $2 AND interview_date < $3
  AND outcome <> $4
ORDER BY interview_date ASC`
	return r.queryInterviews(ctx, query, userID, from, to, OutcomeCancelled)
}

// Update rewrites a live interview's mutable fields.
func (r *PGRepo) Update(ctx context.Context, interview Interview) error {
	const query = `
UPDATE interviews
SET interview_date = $1, interview_type = $2, stage = $3, interviewer = $4,
    outcome = $5, notes = $6, updated_at = $7
WHERE id = $8 AND user_id = $9 AND deleted_at IS NULL`

	res, err := r.DB.ExecContext(ctx, query,
		interview.InterviewDate,
		interview.InterviewType,
		nullString(interview.Stage),
		nullString(interview.Interviewer),
		interview.Outcome,
		nullString(interview.Notes),
		interview.UpdatedAt,
		interview.ID,
		interview.UserID,
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

// SoftDelete tombstones the interview.
func (r *PGRepo) SoftDelete(ctx context.Context, userID, interviewID string) error {
	const query = `
UPDATE interviews
SET deleted_at = $1
WHERE id = $2 AND user_id = $3 AND deleted_at IS NULL`

	res, err := r.DB.ExecContext(ctx, query, time.Now().UTC(), interviewID, userID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// HasConflict checks for another live interview inside a one-hour window
// around at. Interviews are assumed to run one hour.
func (r *PGRepo) HasConflict(ctx context.Context, userID string, at time.Time, excludeID string) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1 FROM interviews
    WHERE user_id = $1 AND deleted_at IS NULL
      AND id <> $2
      AND interview_date < $3
      AND interview_date + interval '1 hour' > $4
)`
	var exists bool
	end := at.Add(time.Hour)
	if err := r.DB.QueryRowContext(ctx, query, userID, excludeID, end, at).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PGRepo) queryInterviews(ctx context.Context, query string, args ...any) ([]Interview, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Interview
	for rows.Next() {
		interview, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, interview)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInterview(row rowScanner) (Interview, error) {
	var interview Interview
	var stage, interviewer, notes sql.NullString
	if err := row.Scan(
		&interview.ID,
		&interview.UserID,
		&interview.ApplicationID,
		&interview.InterviewDate,
		&interview.InterviewType,
		&stage,
		&interviewer,
		&interview.Outcome,
		&notes,
		&interview.CreatedAt,
		&interview.UpdatedAt,
	); err != nil {
		return Interview{}, err
	}
	if stage.Valid {
		interview.Stage = stage.String
	}
	if interviewer.Valid {
		interview.Interviewer = interviewer.String
	}
	if notes.Valid {
		interview.Notes = notes.String
	}
	return interview, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
