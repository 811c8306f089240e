package applications

import "context"

// Repo is the storage interface for job applications.
type Repo interface {
	Create(ctx context.Context, application Application) error
	GetByID(ctx context.Context, userID, applicationID string) (Application, error)
	ListByUser(ctx context.Context, userID string) ([]Application, error)
	Update(ctx context.Context, application Application) error
	SoftDelete(ctx context.Context, userID, applicationID string) error
}
