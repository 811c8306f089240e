package resumes

import "context"

// Repo is the storage interface for generated resume records.
type Repo interface {
	// Create inserts a new record. It returns ErrVersionConflict when the
	// (user, name, version) slot is already taken.
	Create(ctx context.Context, record ResumeRecord) error

	// NextVersion returns the next version number for the (user, name)
	// lineage. Soft-deleted records still count.
	NextVersion(ctx context.Context, userID, name string) (int, error)

	GetByID(ctx context.Context, userID, resumeID string) (ResumeRecord, error)
	ListByUser(ctx context.Context, userID string) ([]ResumeRecord, error)
	ListByApplication(ctx context.Context, userID, applicationID string) ([]ResumeRecord, error)
	ListByTemplate(ctx context.Context, userID, templateID string) ([]ResumeRecord, error)
	// UpdateMetadata renames a record or rewrites its description. A rename
	// moves the record into another lineage and returns ErrVersionConflict
	// when its version slot is taken there.
	UpdateMetadata(ctx context.Context, userID, resumeID, name, description string) error
	SoftDelete(ctx context.Context, userID, resumeID string) error

	// TemplateInUse reports whether any record, live or tombstoned, still
	// references the template. Used to restrict template deletion.
	TemplateInUse(ctx context.Context, templateID string) (bool, error)
}
