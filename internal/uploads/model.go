package uploads

import "time"

// Upload is a supporting document attached to the user's account, optionally
// linked to a tracked job application (a cover letter, an old resume, a job
// posting saved as PDF).
type Upload struct {
	ID            string
	UserID        string
	ApplicationID string
	FileName      string
	MimeType      string
	SizeBytes     int64
	StorageKey    string
	CreatedAt     time.Time
	DeletedAt     *time.Time
}
