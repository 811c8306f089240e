package applications

import "time"

// Application is a tracked job application.
type Application struct {
	ID          string
	UserID      string
	CompanyName string
	JobTitle    string
	Status      string
	AppliedDate *time.Time
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// Application statuses, in rough pipeline order.
const (
	StatusSaved        = "saved"
	StatusApplied      = "applied"
	StatusInterviewing = "interviewing"
	StatusOffer        = "offer"
	StatusAccepted     = "accepted"
	StatusRejected     = "rejected"
	StatusWithdrawn    = "withdrawn"
)

var validStatuses = map[string]bool{
	StatusSaved:        true,
	StatusApplied:      true,
	StatusInterviewing: true,
	StatusOffer:        true,
	StatusAccepted:     true,
	StatusRejected:     true,
	StatusWithdrawn:    true,
}

// ValidStatus reports whether s is a known application status.
func ValidStatus(s string) bool {
	return validStatuses[s]
}

// Summary is the short label used when an application is referenced from a
// generated resume, e.g. "Backend Engineer at Initech".
func (a Application) Summary() string {
	return a.JobTitle + " at " + a.CompanyName
}
