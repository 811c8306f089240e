package resumes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores resume records in memory and is safe for concurrent use.
// A single mutex covers version assignment, so NextVersion followed by Create
// under concurrent load behaves like the database's unique index.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]ResumeRecord
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]ResumeRecord)}
}

// Create stores the record, rejecting a taken (user, name, version) slot.
func (r *MemoryRepo) Create(ctx context.Context, record ResumeRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.UserID == record.UserID && existing.Name == record.Name && existing.Version == record.Version {
			return ErrVersionConflict
		}
	}
	r.byID[record.ID] = cloneRecord(record)
	return nil
}

// NextVersion returns max(version)+1 for the lineage, counting tombstones.
func (r *MemoryRepo) NextVersion(ctx context.Context, userID, name string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	highest := 0
	for _, record := range r.byID {
		if record.UserID == userID && record.Name == name && record.Version > highest {
			highest = record.Version
		}
	}
	return highest + 1, nil
}

// GetByID returns a live record owned by the user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, resumeID string) (ResumeRecord, error) {
	if err := ctx.Err(); err != nil {
		return ResumeRecord{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.byID[resumeID]
	if !ok || record.DeletedAt != nil || record.UserID != userID {
		return ResumeRecord{}, ErrNotFound
	}
	return cloneRecord(record), nil
}

// ListByUser returns live records for a user, newest generation first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]ResumeRecord, error) {
	return r.list(ctx, func(record ResumeRecord) bool {
		return record.UserID == userID
	})
}

// ListByApplication returns live records linked to a job application.
func (r *MemoryRepo) ListByApplication(ctx context.Context, userID, applicationID string) ([]ResumeRecord, error) {
	return r.list(ctx, func(record ResumeRecord) bool {
		return record.UserID == userID && record.ApplicationID == applicationID
	})
}

// ListByTemplate returns live records generated from a template.
func (r *MemoryRepo) ListByTemplate(ctx context.Context, userID, templateID string) ([]ResumeRecord, error) {
	return r.list(ctx, func(record ResumeRecord) bool {
		return record.UserID == userID && record.TemplateID == templateID
	})
}

func (r *MemoryRepo) list(ctx context.Context, keep func(ResumeRecord) bool) ([]ResumeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []ResumeRecord
	for _, record := range r.byID {
		if record.DeletedAt == nil && keep(record) {
			out = append(out, cloneRecord(record))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].GeneratedAt.After(out[j].GeneratedAt)
	})
	return out, nil
}

// UpdateMetadata renames a live record or rewrites its description.
func (r *MemoryRepo) UpdateMetadata(ctx context.Context, userID, resumeID, name, description string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.byID[resumeID]
	if !ok || record.DeletedAt != nil || record.UserID != userID {
		return ErrNotFound
	}
	if name != record.Name {
		for _, existing := range r.byID {
			if existing.ID != resumeID && existing.UserID == userID && existing.Name == name && existing.Version == record.Version {
				return ErrVersionConflict
			}
		}
	}
	record.Name = name
	record.Description = description
	r.byID[resumeID] = record
	return nil
}

// SoftDelete tombstones the record. The version number stays claimed.
func (r *MemoryRepo) SoftDelete(ctx context.Context, userID, resumeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.byID[resumeID]
	if !ok || record.DeletedAt != nil || record.UserID != userID {
		return ErrNotFound
	}
	now := time.Now().UTC()
	record.DeletedAt = &now
	r.byID[resumeID] = record
	return nil
}

// TemplateInUse reports whether any record references the template.
func (r *MemoryRepo) TemplateInUse(ctx context.Context, templateID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, record := range r.byID {
		if record.TemplateID == templateID {
			return true, nil
		}
	}
	return false, nil
}

func cloneRecord(record ResumeRecord) ResumeRecord {
	out := record
	out.Data = record.Data.Clone()
	return out
}

var _ Repo = (*MemoryRepo)(nil)
