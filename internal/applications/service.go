package applications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobtracker-backend/internal/shared/telemetry"
)

// Service contains business logic for job applications.
type Service struct {
	Repo Repo
}

// Create records a new tracked application. Status defaults to "saved".
func (s *Service) Create(ctx context.Context, userID, companyName, jobTitle, status, notes string, appliedDate *time.Time) (Application, error) {
	companyName = strings.TrimSpace(companyName)
	jobTitle = strings.TrimSpace(jobTitle)
	if userID == "" || companyName == "" || jobTitle == "" {
		return Application{}, ErrInvalidInput
	}
	if status == "" {
		status = StatusSaved
	}
	if !ValidStatus(status) {
		return Application{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	now := time.Now().UTC()
	application := Application{
		ID:          uuid.NewString(),
		UserID:      userID,
		CompanyName: companyName,
		JobTitle:    jobTitle,
		Status:      status,
		AppliedDate: appliedDate,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, application); err != nil {
		return Application{}, err
	}

	telemetry.Info("application.created", map[string]any{
		"application_id": application.ID,
		"user_id":        userID,
		"status":         application.Status,
	})
	return application, nil
}

// Get returns an application by id for the user.
func (s *Service) Get(ctx context.Context, userID, applicationID string) (Application, error) {
	if userID == "" || applicationID == "" {
		return Application{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID, applicationID)
}

// List returns the user's live applications, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Application, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID)
}

// Update rewrites an application's mutable fields.
func (s *Service) Update(ctx context.Context, userID, applicationID, companyName, jobTitle, status, notes string, appliedDate *time.Time) (Application, error) {
	companyName = strings.TrimSpace(companyName)
	jobTitle = strings.TrimSpace(jobTitle)
	if userID == "" || applicationID == "" || companyName == "" || jobTitle == "" {
		return Application{}, ErrInvalidInput
	}
	if !ValidStatus(status) {
		return Application{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	existing, err := s.Repo.GetByID(ctx, userID, applicationID)
	if err != nil {
		return Application{}, err
	}

	existing.CompanyName = companyName
	existing.JobTitle = jobTitle
	existing.Status = status
	existing.AppliedDate = appliedDate
	existing.Notes = notes
	existing.UpdatedAt = time.Now().UTC()

	if err := s.Repo.Update(ctx, existing); err != nil {
		return Application{}, err
	}
	return existing, nil
}

// Delete tombstones an application. Generated resumes that reference it
// survive the delete; their application summary simply stops resolving.
func (s *Service) Delete(ctx context.Context, userID, applicationID string) error {
	if userID == "" || applicationID == "" {
		return ErrInvalidInput
	}
	return s.Repo.SoftDelete(ctx, userID, applicationID)
}
