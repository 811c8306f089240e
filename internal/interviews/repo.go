package interviews

import (
	"context"
	"time"
)

// Repo is the storage interface for scheduled interviews.
type Repo interface {
	Create(ctx context.Context, interview Interview) error
	GetByID(ctx context.Context, userID, interviewID string) (Interview, error)
	ListByApplication(ctx context.Context, userID, applicationID string) ([]Interview, error)

	// ListUpcoming returns live, non-cancelled interviews scheduled inside
	// [from, to), soonest first.
	ListUpcoming(ctx context.Context, userID string, from, to time.Time) ([]Interview, error)

	Update(ctx context.Context, interview Interview) error
	SoftDelete(ctx context.Context, userID, interviewID string) error

	// HasConflict reports whether another live interview for the user falls
	// inside a one-hour window around at. excludeID skips the interview
	// being rescheduled.
	HasConflict(ctx context.Context, userID string, at time.Time, excludeID string) (bool, error)
}
