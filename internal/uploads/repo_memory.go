package uploads

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores uploads in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Upload
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Upload)}
}

// Create stores the upload.
func (r *MemoryRepo) Create(ctx context.Context, upload Upload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[upload.ID] = upload
	return nil
}

// GetByID returns a live upload owned by the user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, uploadID string) (Upload, error) {
	if err := ctx.Err(); err != nil {
		return Upload{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	upload, ok := r.byID[uploadID]
	if !ok || upload.DeletedAt != nil || upload.UserID != userID {
		return Upload{}, ErrNotFound
	}
	return upload, nil
}

// ListByUser returns live uploads for a user, newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Upload, error) {
	return r.list(ctx, func(upload Upload) bool {
		return upload.UserID == userID
	})
}

// ListByApplication returns live uploads linked to a job application.
func (r *MemoryRepo) ListByApplication(ctx context.Context, userID, applicationID string) ([]Upload, error) {
	return r.list(ctx, func(upload Upload) bool {
		return upload.UserID == userID && upload.ApplicationID == applicationID
	})
}

func (r *MemoryRepo) list(ctx context.Context, keep func(Upload) bool) ([]Upload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Upload
	for _, upload := range r.byID {
		if upload.DeletedAt == nil && keep(upload) {
			out = append(out, upload)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// SoftDelete tombstones the upload.
func (r *MemoryRepo) SoftDelete(ctx context.Context, userID, uploadID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	upload, ok := r.byID[uploadID]
	if !ok || upload.DeletedAt != nil || upload.UserID != userID {
		return ErrNotFound
	}
	now := time.Now().UTC()
	upload.DeletedAt = &now
	r.byID[uploadID] = upload
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
