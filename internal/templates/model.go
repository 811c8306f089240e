package templates

import (
	"time"

	"jobtracker-backend/resume/model"
)

// Template is a named, reusable structured resume document owned by a user.
// Names are unique per user among live templates, case-sensitive as persisted.
type Template struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Data        model.TemplateData
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}
