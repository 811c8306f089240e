package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobtracker-backend/internal/applications"
	"jobtracker-backend/internal/shared/metrics"
	"jobtracker-backend/internal/shared/storage/object"
	"jobtracker-backend/internal/shared/telemetry"
	"jobtracker-backend/internal/shared/util"
	"jobtracker-backend/internal/templates"
	"jobtracker-backend/resume/encode"
	"jobtracker-backend/resume/merge"
	"jobtracker-backend/resume/model"
	"jobtracker-backend/resume/render"
)

const (
	maxNameLength = 200

	// versionAttempts bounds the retry loop when a concurrent generation
	// claims the same version slot.
	versionAttempts = 3
)

// Service orchestrates resume generation: merge, render, encode, store,
// record.
type Service struct {
	Repo         Repo
	Templates    templates.Repo
	Applications applications.Repo
	Merger       merge.Merger
	Encoder      *encode.Encoder
	Store        object.ObjectStore
}

// GenerateParams describes one generation request.
type GenerateParams struct {
	TemplateID    string
	ApplicationID string
	Name          string
	Description   string
	Format        string
	Override      *model.TemplateData
}

// Generate produces a new versioned resume. All validation, the template and
// application lookups included, happens before any artifact is written.
func (s *Service) Generate(ctx context.Context, userID string, params GenerateParams) (ResumeRecord, error) {
	metrics.IncGenerationStarted()
	start := time.Now()

	record, err := s.generate(ctx, userID, params)
	if err != nil {
		metrics.IncGenerationFailed()
		return ResumeRecord{}, err
	}
	metrics.IncGenerationCompleted()
	metrics.ObserveGenerationDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	return record, nil
}

func (s *Service) generate(ctx context.Context, userID string, params GenerateParams) (ResumeRecord, error) {
	name := strings.TrimSpace(params.Name)
	if userID == "" || params.TemplateID == "" || name == "" {
		return ResumeRecord{}, ErrInvalidInput
	}
	if len(name) > maxNameLength {
		return ResumeRecord{}, fmt.Errorf("%w: name exceeds %d characters", ErrInvalidInput, maxNameLength)
	}

	template, err := s.Templates.GetByID(ctx, userID, params.TemplateID)
	if err != nil {
		if errors.Is(err, templates.ErrNotFound) {
			return ResumeRecord{}, ErrTemplateNotFound
		}
		return ResumeRecord{}, err
	}

	if params.ApplicationID != "" {
		if _, err := s.Applications.GetByID(ctx, userID, params.ApplicationID); err != nil {
			if errors.Is(err, applications.ErrNotFound) {
				return ResumeRecord{}, ErrApplicationNotFound
			}
			return ResumeRecord{}, err
		}
	}

	effective, err := s.Merger.Merge(template.Data, params.Override)
	if err != nil {
		if errors.Is(err, merge.ErrInvalidData) {
			return ResumeRecord{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return ResumeRecord{}, err
	}

	document := render.HTML(effective)
	encoded, err := s.Encoder.Encode(ctx, document, params.Format)
	if err != nil {
		if errors.Is(err, encode.ErrUnsupportedFormat) {
			return ResumeRecord{}, fmt.Errorf("%w: format %q", ErrInvalidInput, params.Format)
		}
		return ResumeRecord{}, err
	}

	return s.persist(ctx, userID, name, params, template.ID, effective, encoded)
}

// persist claims a version slot and writes the artifact plus the record.
// When a concurrent generation wins the slot, the orphaned artifact is
// removed and the claim retried with a fresh version number.
func (s *Service) persist(ctx context.Context, userID, name string, params GenerateParams, templateID string, effective model.TemplateData, encoded encode.Result) (ResumeRecord, error) {
	userKey := util.HashUserKey(userID)

	for attempt := 0; attempt < versionAttempts; attempt++ {
		version, err := s.Repo.NextVersion(ctx, userID, name)
		if err != nil {
			return ResumeRecord{}, err
		}

		fileName, err := util.SanitizeFileName(fmt.Sprintf("%s_v%d%s", name, version, encoded.Extension))
		if err != nil {
			return ResumeRecord{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		storageKey := path.Join(userKey, fileName)

		if _, err := s.Store.SaveWithKey(ctx, storageKey, encoded.ContentType, bytes.NewReader(encoded.Bytes)); err != nil {
			return ResumeRecord{}, fmt.Errorf("store artifact: %w", err)
		}

		now := time.Now().UTC()
		record := ResumeRecord{
			ID:            uuid.NewString(),
			UserID:        userID,
			TemplateID:    templateID,
			ApplicationID: params.ApplicationID,
			Name:          name,
			Description:   params.Description,
			Data:          effective,
			StorageKey:    storageKey,
			FileFormat:    encoded.FormatTag,
			Version:       version,
			GeneratedAt:   now,
			CreatedAt:     now,
		}

		err = s.Repo.Create(ctx, record)
		if err == nil {
			telemetry.Info("resume.generated", map[string]any{
				"resume_id":   record.ID,
				"user_id":     userID,
				"template_id": templateID,
				"version":     version,
				"format":      record.FileFormat,
			})
			return record, nil
		}

		// Another generation claimed this version. Drop the orphaned
		// artifact and retry with a fresh number.
		if errors.Is(err, ErrVersionConflict) {
			if delErr := s.Store.Delete(ctx, storageKey); delErr != nil {
				telemetry.Error("resume.orphan_artifact", map[string]any{
					"storage_key": storageKey,
					"err":         delErr.Error(),
				})
			}
			continue
		}

		// Any other insert failure also strands the artifact; clean it up
		// before surfacing the error.
		if delErr := s.Store.Delete(ctx, storageKey); delErr != nil {
			telemetry.Error("resume.orphan_artifact", map[string]any{
				"storage_key": storageKey,
				"err":         delErr.Error(),
			})
		}
		return ResumeRecord{}, err
	}
	return ResumeRecord{}, ErrVersionConflict
}

// PreviewResult is the outcome of a dry-run generation.
type PreviewResult struct {
	HTML         string
	TemplateName string
}

// Preview runs the same merge and render pipeline as Generate but returns
// the HTML without claiming a version or touching storage.
func (s *Service) Preview(ctx context.Context, userID string, params GenerateParams) (PreviewResult, error) {
	if userID == "" || params.TemplateID == "" {
		return PreviewResult{}, ErrInvalidInput
	}

	template, err := s.Templates.GetByID(ctx, userID, params.TemplateID)
	if err != nil {
		if errors.Is(err, templates.ErrNotFound) {
			return PreviewResult{}, ErrTemplateNotFound
		}
		return PreviewResult{}, err
	}

	effective, err := s.Merger.Merge(template.Data, params.Override)
	if err != nil {
		if errors.Is(err, merge.ErrInvalidData) {
			return PreviewResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return PreviewResult{}, err
	}

	return PreviewResult{HTML: render.HTML(effective), TemplateName: template.Name}, nil
}

// Get returns a resume record by id for the user.
func (s *Service) Get(ctx context.Context, userID, resumeID string) (ResumeRecord, error) {
	if userID == "" || resumeID == "" {
		return ResumeRecord{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID, resumeID)
}

// List returns the user's live records, optionally filtered by application
// or source template.
func (s *Service) List(ctx context.Context, userID, applicationID, templateID string) ([]ResumeRecord, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	switch {
	case applicationID != "":
		return s.Repo.ListByApplication(ctx, userID, applicationID)
	case templateID != "":
		return s.Repo.ListByTemplate(ctx, userID, templateID)
	default:
		return s.Repo.ListByUser(ctx, userID)
	}
}

// Rename updates a record's name and description. The stored artifact keeps
// its original file name.
func (s *Service) Rename(ctx context.Context, userID, resumeID, name, description string) (ResumeRecord, error) {
	name = strings.TrimSpace(name)
	if userID == "" || resumeID == "" || name == "" {
		return ResumeRecord{}, ErrInvalidInput
	}
	if err := s.Repo.UpdateMetadata(ctx, userID, resumeID, name, description); err != nil {
		return ResumeRecord{}, err
	}
	return s.Repo.GetByID(ctx, userID, resumeID)
}

// Delete tombstones a record and removes its artifact from storage. The
// version number stays claimed so the lineage never reuses it.
func (s *Service) Delete(ctx context.Context, userID, resumeID string) error {
	if userID == "" || resumeID == "" {
		return ErrInvalidInput
	}

	record, err := s.Repo.GetByID(ctx, userID, resumeID)
	if err != nil {
		return err
	}
	if err := s.Repo.SoftDelete(ctx, userID, resumeID); err != nil {
		return err
	}

	if err := s.Store.Delete(ctx, record.StorageKey); err != nil {
		// The record is already gone; an undeleted artifact is only noise.
		telemetry.Error("resume.orphan_artifact", map[string]any{
			"storage_key": record.StorageKey,
			"err":         err.Error(),
		})
	}
	return nil
}
