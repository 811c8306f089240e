package templates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobtracker-backend/internal/shared/telemetry"
	"jobtracker-backend/resume/model"
)

const maxNameLength = 200

// Service contains business logic for resume templates.
type Service struct {
	Repo Repo
}

// Create stores a new template after checking the per-user name uniqueness.
func (s *Service) Create(ctx context.Context, userID, name, description string, data model.TemplateData) (Template, error) {
	name = strings.TrimSpace(name)
	if userID == "" || name == "" {
		return Template{}, ErrInvalidInput
	}
	if len(name) > maxNameLength {
		return Template{}, fmt.Errorf("%w: name exceeds %d characters", ErrInvalidInput, maxNameLength)
	}
	if err := data.Validate(); err != nil {
		return Template{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	exists, err := s.Repo.NameExistsForUser(ctx, userID, name, "")
	if err != nil {
		return Template{}, err
	}
	if exists {
		return Template{}, fmt.Errorf("%w: %q", ErrConflict, name)
	}

	now := time.Now().UTC()
	template := Template{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Description: description,
		Data:        data.Clone(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, template); err != nil {
		return Template{}, err
	}

	telemetry.Info("template.created", map[string]any{
		"template_id": template.ID,
		"user_id":     userID,
		"name":        template.Name,
	})
	return template, nil
}

// Get returns a template by id for the user.
func (s *Service) Get(ctx context.Context, userID, templateID string) (Template, error) {
	if userID == "" || templateID == "" {
		return Template{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID, templateID)
}

// List returns the user's live templates, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Template, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID)
}

// Update renames or rewrites a template in place. A rename re-checks name
// uniqueness, excluding the template itself.
func (s *Service) Update(ctx context.Context, userID, templateID, name, description string, data model.TemplateData) (Template, error) {
	name = strings.TrimSpace(name)
	if userID == "" || templateID == "" || name == "" {
		return Template{}, ErrInvalidInput
	}
	if err := data.Validate(); err != nil {
		return Template{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	existing, err := s.Repo.GetByID(ctx, userID, templateID)
	if err != nil {
		return Template{}, err
	}

	if name != existing.Name {
		exists, err := s.Repo.NameExistsForUser(ctx, userID, name, templateID)
		if err != nil {
			return Template{}, err
		}
		if exists {
			return Template{}, fmt.Errorf("%w: %q", ErrConflict, name)
		}
	}

	existing.Name = name
	existing.Description = description
	existing.Data = data.Clone()
	existing.UpdatedAt = time.Now().UTC()

	if err := s.Repo.Update(ctx, existing); err != nil {
		return Template{}, err
	}
	return existing, nil
}

// Clone deep-copies a template under a new, unused name.
func (s *Service) Clone(ctx context.Context, userID, templateID, newName string) (Template, error) {
	newName = strings.TrimSpace(newName)
	if userID == "" || templateID == "" || newName == "" {
		return Template{}, ErrInvalidInput
	}

	source, err := s.Repo.GetByID(ctx, userID, templateID)
	if err != nil {
		return Template{}, err
	}

	exists, err := s.Repo.NameExistsForUser(ctx, userID, newName, "")
	if err != nil {
		return Template{}, err
	}
	if exists {
		return Template{}, fmt.Errorf("%w: %q", ErrConflict, newName)
	}

	now := time.Now().UTC()
	clone := Template{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        newName,
		Description: clonedDescription(source),
		Data:        source.Data.Clone(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, clone); err != nil {
		return Template{}, err
	}

	telemetry.Info("template.cloned", map[string]any{
		"source_id":   source.ID,
		"template_id": clone.ID,
		"user_id":     userID,
		"name":        clone.Name,
	})
	return clone, nil
}

// Delete tombstones a template. Templates referenced by generated resumes are
// protected; the restricted delete surfaces as ErrTemplateInUse.
func (s *Service) Delete(ctx context.Context, userID, templateID string) error {
	if userID == "" || templateID == "" {
		return ErrInvalidInput
	}
	return s.Repo.SoftDelete(ctx, userID, templateID)
}

// clonedDescription intentionally replaces the source description with a
// provenance marker, and only when the source had a description at all.
// A clone of an undescribed template stays undescribed.
func clonedDescription(source Template) string {
	if source.Description == "" {
		return ""
	}
	return "Cloned from: " + source.Name
}
