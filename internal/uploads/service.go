package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"jobtracker-backend/internal/applications"
	"jobtracker-backend/internal/shared/storage/object"
	"jobtracker-backend/internal/shared/telemetry"
)

const maxUploadBytes = 5 << 20

// Service contains business logic for supporting-document uploads.
type Service struct {
	Repo         Repo
	Applications applications.Repo
	Store        object.ObjectStore
}

// Upload validates the file, saves it to object storage and records it. When
// applicationID is set, the application must exist for the user.
func (s *Service) Upload(ctx context.Context, userID, applicationID, fileName string, r io.Reader) (Upload, error) {
	if userID == "" || fileName == "" {
		return Upload{}, ErrInvalidInput
	}

	if applicationID != "" {
		if _, err := s.Applications.GetByID(ctx, userID, applicationID); err != nil {
			if errors.Is(err, applications.ErrNotFound) {
				return Upload{}, fmt.Errorf("%w: application %s", ErrInvalidInput, applicationID)
			}
			return Upload{}, err
		}
	}

	data, err := io.ReadAll(io.LimitReader(r, maxUploadBytes+1))
	if err != nil {
		return Upload{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > maxUploadBytes {
		return Upload{}, ErrTooLarge
	}
	if len(data) == 0 {
		return Upload{}, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}

	mimeType, err := detectFileType(data)
	if err != nil {
		return Upload{}, err
	}

	storageKey, size, _, err := s.Store.Save(ctx, userID, fileName, bytes.NewReader(data))
	if err != nil {
		return Upload{}, err
	}

	upload := Upload{
		ID:            uuid.NewString(),
		UserID:        userID,
		ApplicationID: applicationID,
		FileName:      fileName,
		MimeType:      mimeType,
		SizeBytes:     size,
		StorageKey:    storageKey,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, upload); err != nil {
		return Upload{}, err
	}

	telemetry.Info("upload.stored", map[string]any{
		"upload_id":  upload.ID,
		"user_id":    userID,
		"mime_type":  mimeType,
		"size_bytes": size,
	})
	return upload, nil
}

// Get returns an upload by id for the user.
func (s *Service) Get(ctx context.Context, userID, uploadID string) (Upload, error) {
	if userID == "" || uploadID == "" {
		return Upload{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID, uploadID)
}

// List returns the user's uploads, optionally filtered by application.
func (s *Service) List(ctx context.Context, userID, applicationID string) ([]Upload, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	if applicationID != "" {
		return s.Repo.ListByApplication(ctx, userID, applicationID)
	}
	return s.Repo.ListByUser(ctx, userID)
}

// Delete tombstones the upload and removes its file from storage.
func (s *Service) Delete(ctx context.Context, userID, uploadID string) error {
	if userID == "" || uploadID == "" {
		return ErrInvalidInput
	}

	upload, err := s.Repo.GetByID(ctx, userID, uploadID)
	if err != nil {
		return err
	}
	if err := s.Repo.SoftDelete(ctx, userID, uploadID); err != nil {
		return err
	}

	if err := s.Store.Delete(ctx, upload.StorageKey); err != nil {
		telemetry.Error("upload.orphan_file", map[string]any{
			"storage_key": upload.StorageKey,
			"err":         err.Error(),
		})
	}
	return nil
}
