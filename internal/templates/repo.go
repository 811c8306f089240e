package templates

import "context"

// Repo defines persistence operations for resume templates. Soft-deleted
// templates are excluded from every read.
type Repo interface {
	Create(ctx context.Context, template Template) error
	GetByID(ctx context.Context, userID, templateID string) (Template, error)
	ListByUser(ctx context.Context, userID string) ([]Template, error)
	Update(ctx context.Context, template Template) error
	NameExistsForUser(ctx context.Context, userID, name, excludeID string) (bool, error)
	// SoftDelete tombstones the template. The delete is restricted: it fails
	// with ErrTemplateInUse while any resume record references the template.
	SoftDelete(ctx context.Context, userID, templateID string) error
}

// ReferenceChecker reports whether any resume record references a template.
// The memory repo uses it to enforce the restricted delete; the Postgres repo
// checks within its own statement.
type ReferenceChecker interface {
	TemplateInUse(ctx context.Context, templateID string) (bool, error)
}
