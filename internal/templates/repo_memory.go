package templates

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores templates in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Template

	// Refs, when set, enforces the restricted delete against resume records.
	Refs ReferenceChecker
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Template)}
}

// Create stores the template.
func (r *MemoryRepo) Create(ctx context.Context, template Template) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[template.ID] = cloneTemplate(template)
	return nil
}

// GetByID returns a live template owned by the user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, templateID string) (Template, error) {
	if err := ctx.Err(); err != nil {
		return Template{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	template, ok := r.byID[templateID]
	if !ok || template.DeletedAt != nil || template.UserID != userID {
		return Template{}, ErrNotFound
	}
	return cloneTemplate(template), nil
}

// ListByUser returns live templates for a user, newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Template
	for _, template := range r.byID {
		if template.UserID == userID && template.DeletedAt == nil {
			out = append(out, cloneTemplate(template))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Update rewrites a live template in place.
func (r *MemoryRepo) Update(ctx context.Context, template Template) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[template.ID]
	if !ok || existing.DeletedAt != nil || existing.UserID != template.UserID {
		return ErrNotFound
	}
	template.CreatedAt = existing.CreatedAt
	r.byID[template.ID] = cloneTemplate(template)
	return nil
}

// NameExistsForUser reports whether a live template with the name exists.
func (r *MemoryRepo) NameExistsForUser(ctx context.Context, userID, name, excludeID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, template := range r.byID {
		if template.DeletedAt != nil || template.UserID != userID {
			continue
		}
		if template.Name == name && template.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// SoftDelete tombstones the template unless resume records reference it.
func (r *MemoryRepo) SoftDelete(ctx context.Context, userID, templateID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.Refs != nil {
		inUse, err := r.Refs.TemplateInUse(ctx, templateID)
		if err != nil {
			return err
		}
		if inUse {
			// Confirm the template exists before reporting the restriction.
			r.mu.RLock()
			template, ok := r.byID[templateID]
			r.mu.RUnlock()
			if !ok || template.DeletedAt != nil || template.UserID != userID {
				return ErrNotFound
			}
			return ErrTemplateInUse
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	template, ok := r.byID[templateID]
	if !ok || template.DeletedAt != nil || template.UserID != userID {
		return ErrNotFound
	}
	now := time.Now().UTC()
	template.DeletedAt = &now
	r.byID[templateID] = template
	return nil
}

func cloneTemplate(t Template) Template {
	out := t
	out.Data = t.Data.Clone()
	return out
}

var _ Repo = (*MemoryRepo)(nil)
