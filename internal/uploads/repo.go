package uploads

import "context"

// Repo is the storage interface for uploaded documents.
type Repo interface {
	Create(ctx context.Context, upload Upload) error
	GetByID(ctx context.Context, userID, uploadID string) (Upload, error)
	ListByUser(ctx context.Context, userID string) ([]Upload, error)
	ListByApplication(ctx context.Context, userID, applicationID string) ([]Upload, error)
	SoftDelete(ctx context.Context, userID, uploadID string) error
}
