package resumes

import (
	"time"

	"jobtracker-backend/resume/model"
)

// ResumeRecord is one generated resume: a snapshot of the merged data plus a
// pointer to the rendered artifact in object storage.
//
// Version numbers are assigned per (user, name) lineage and keep counting
// across soft deletes, so a regenerated "Backend" resume never reuses a
// number that once existed.
type ResumeRecord struct {
	ID            string
	UserID        string
	TemplateID    string
	ApplicationID string // optional link to a tracked job application
	Name          string
	Description   string
	Data          model.TemplateData
	StorageKey    string
	FileFormat    string
	Version       int
	GeneratedAt   time.Time
	CreatedAt     time.Time
	DeletedAt     *time.Time
}
