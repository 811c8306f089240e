package interviews

import "time"

// Interview is a scheduled interview for a tracked job application.
type Interview struct {
	ID            string
	UserID        string
	ApplicationID string
	InterviewDate time.Time
	InterviewType string
	Stage         string
	Interviewer   string
	Outcome       string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

// Interview types.
const (
	TypePhone      = "phone"
	TypeVideo      = "video"
	TypeOnsite     = "onsite"
	TypeTechnical  = "technical"
	TypeBehavioral = "behavioral"
	TypeOther      = "other"
)

var validTypes = map[string]bool{
	TypePhone:      true,
	TypeVideo:      true,
	TypeOnsite:     true,
	TypeTechnical:  true,
	TypeBehavioral: true,
	TypeOther:      true,
}

// ValidType reports whether s is a known interview type.
func ValidType(s string) bool {
	return validTypes[s]
}

// Interview outcomes. A freshly scheduled interview is pending.
const (
	OutcomePending   = "pending"
	OutcomePassed    = "passed"
	OutcomeFailed    = "failed"
	OutcomeNoShow    = "no_show"
	OutcomeCancelled = "cancelled"
)

var validOutcomes = map[string]bool{
	OutcomePending:   true,
	OutcomePassed:    true,
	OutcomeFailed:    true,
	OutcomeNoShow:    true,
	OutcomeCancelled: true,
}

// ValidOutcome reports whether s is a known interview outcome.
func ValidOutcome(s string) bool {
	return validOutcomes[s]
}
