package templates

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"jobtracker-backend/resume/model"
)

func newMock(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateStoresJSONBody(t *testing.T) {
	repo, mock := newMock(t)

	now := time.Now().UTC()
	template := Template{
		ID:     "tpl-1",
		UserID: "user-1",
		Name:   "Backend",
		Data: model.TemplateData{
			Contact: model.Contact{FullName: "Jane Doe", Email: "jane@example.com"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	body, _ := json.Marshal(template.Data)

	mock.ExpectExec("INSERT INTO resume_templates").
		WithArgs(
			template.ID,
			template.UserID,
			template.Name,
			nil, // empty description stored as NULL
			body,
			template.CreatedAt,
			template.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), template); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT id, user_id, name, description, template_data").
		WithArgs("tpl-missing", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "name", "description", "template_data", "created_at", "updated_at",
		}))

	_, err := repo.GetByID(context.Background(), "user-1", "tpl-missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoSoftDeleteRestricted(t *testing.T) {
	repo, mock := newMock(t)

	// The guarded UPDATE matches no rows because a resume references the
	// template, then the existence probe confirms the template is live.
	mock.ExpectExec("UPDATE resume_templates").
		WithArgs(sqlmock.AnyArg(), "tpl-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("tpl-1", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := repo.SoftDelete(context.Background(), "user-1", "tpl-1")
	if !errors.Is(err, ErrTemplateInUse) {
		t.Fatalf("expected ErrTemplateInUse, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSoftDeleteMissing(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("UPDATE resume_templates").
		WithArgs(sqlmock.AnyArg(), "tpl-404", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("tpl-404", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := repo.SoftDelete(context.Background(), "user-1", "tpl-404")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
