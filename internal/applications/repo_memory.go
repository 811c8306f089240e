package applications

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores applications in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Application
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Application)}
}

// Create stores the application.
func (r *MemoryRepo) Create(ctx context.Context, application Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[application.ID] = application
	return nil
}

// GetByID returns a live application owned by the user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, applicationID string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	application, ok := r.byID[applicationID]
	if !ok || application.DeletedAt != nil || application.UserID != userID {
		return Application{}, ErrNotFound
	}
	return application, nil
}

// ListByUser returns live applications for a user, newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Application
	for _, application := range r.byID {
		if application.UserID == userID && application.DeletedAt == nil {
			out = append(out, application)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Update rewrites a live application in place.
func (r *MemoryRepo) Update(ctx context.Context, application Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[application.ID]
	if !ok || existing.DeletedAt != nil || existing.UserID != application.UserID {
		return ErrNotFound
	}
	application.CreatedAt = existing.CreatedAt
	r.byID[application.ID] = application
	return nil
}

// SoftDelete tombstones the application.
func (r *MemoryRepo) SoftDelete(ctx context.Context, userID, applicationID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	application, ok := r.byID[applicationID]
	if !ok || application.DeletedAt != nil || application.UserID != userID {
		return ErrNotFound
	}
	now := time.Now().UTC()
	application.DeletedAt = &now
	r.byID[applicationID] = application
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
