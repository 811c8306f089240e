package interviews

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores interviews in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Interview
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Interview)}
}

// Create stores the interview.
func (r *MemoryRepo) Create(ctx context.Context, interview Interview) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[interview.ID] = interview
	return nil
}

// GetByID returns a live interview owned by the user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, interviewID string) (Interview, error) {
	if err := ctx.Err(); err != nil {
		return Interview{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	interview, ok := r.byID[interviewID]
	if !ok || interview.DeletedAt != nil || interview.UserID != userID {
		return Interview{}, ErrNotFound
	}
	return interview, nil
}

// ListByApplication returns live interviews for an application, soonest first.
func (r *MemoryRepo) ListByApplication(ctx context.Context, userID, applicationID string) ([]Interview, error) {
	return r.list(ctx, func(interview Interview) bool {
		return interview.UserID == userID && interview.ApplicationID == applicationID
	})
}

// ListUpcoming returns live, non-cancelled interviews inside [from, to).
func (r *MemoryRepo) ListUpcoming(ctx context.Context, userID string, from, to time.Time) ([]Interview, error) {
	return r.list(ctx, func(interview Interview) bool {
		return interview.UserID == userID &&
			interview.Outcome != OutcomeCancelled &&
			!interview.InterviewDate.Before(from) &&
			interview.InterviewDate.Before(to)
	})
}

func (r *MemoryRepo) list(ctx context.Context, keep func(Interview) bool) ([]Interview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Interview
	for _, interview := range r.byID {
		if interview.DeletedAt == nil && keep(interview) {
			out = append(out, interview)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].InterviewDate.Before(out[j].InterviewDate)
	})
	return out, nil
}

// Update rewrites a live interview's mutable fields.
func (r *MemoryRepo) Update(ctx context.Context, interview Interview) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[interview.ID]
	if !ok || existing.DeletedAt != nil || existing.UserID != interview.UserID {
		return ErrNotFound
	}
	interview.CreatedAt = existing.CreatedAt
	r.byID[interview.ID] = interview
	return nil
}

// SoftDelete tombstones the interview.
func (r *MemoryRepo) SoftDelete(ctx context.Context, userID, interviewID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	interview, ok := r.byID[interviewID]
	if !ok || interview.DeletedAt != nil || interview.UserID != userID {
		return ErrNotFound
	}
	now := time.Now().UTC()
	interview.DeletedAt = &now
	r.byID[interviewID] = interview
	return nil
}

// HasConflict checks for another live interview inside a one-hour window
// around at.
func (r *MemoryRepo) HasConflict(ctx context.Context, userID string, at time.Time, excludeID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	end := at.Add(time.Hour)
	for _, interview := range r.byID {
		if interview.DeletedAt != nil || interview.UserID != userID || interview.ID == excludeID {
			continue
		}
		if interview.InterviewDate.Before(end) && interview.InterviewDate.Add(time.Hour).After(at) {
			return true, nil
		}
	}
	return false, nil
}

var _ Repo = (*MemoryRepo)(nil)
