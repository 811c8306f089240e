package interviews

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"jobtracker-backend/internal/applications"
	"jobtracker-backend/internal/shared/telemetry"
)

const (
	maxStageLength       = 100
	maxInterviewerLength = 200
	maxNotesLength       = 2000

	// schedulingGrace lets a just-started interview still be recorded.
	schedulingGrace = 30 * time.Minute

	defaultUpcomingDays = 30
)

// Service contains business logic for interview scheduling.
type Service struct {
	Repo         Repo
	Applications applications.Repo
}

// ScheduleParams describes one interview to create or update.
type ScheduleParams struct {
	ApplicationID string
	InterviewDate time.Time
	InterviewType string
	Stage         string
	Interviewer   string
	Outcome       string
	Notes         string
}

func validateParams(p ScheduleParams) error {
	if p.InterviewDate.IsZero() {
		return fmt.Errorf("%w: interviewDate is required", ErrInvalidInput)
	}
	if !ValidType(p.InterviewType) {
		return fmt.Errorf("%w: unknown interview type %q", ErrInvalidInput, p.InterviewType)
	}
	if len(p.Stage) > maxStageLength {
		return fmt.Errorf("%w: stage exceeds %d characters", ErrInvalidInput, maxStageLength)
	}
	if len(p.Interviewer) > maxInterviewerLength {
		return fmt.Errorf("%w: interviewer exceeds %d characters", ErrInvalidInput, maxInterviewerLength)
	}
	if len(p.Notes) > maxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, maxNotesLength)
	}
	return nil
}

// Create schedules an interview for one of the user's applications. A
// scheduling overlap with another interview is logged but does not block.
// An application still in the applied state moves to interviewing.
func (s *Service) Create(ctx context.Context, userID string, params ScheduleParams) (Interview, error) {
	if userID == "" || params.ApplicationID == "" {
		return Interview{}, ErrInvalidInput
	}
	if err := validateParams(params); err != nil {
		return Interview{}, err
	}
	if params.InterviewDate.Before(time.Now().Add(-schedulingGrace)) {
		return Interview{}, fmt.Errorf("%w: interview date must be in the future", ErrInvalidInput)
	}

	application, err := s.Applications.GetByID(ctx, userID, params.ApplicationID)
	if err != nil {
		if errors.Is(err, applications.ErrNotFound) {
			return Interview{}, ErrApplicationNotFound
		}
		return Interview{}, err
	}

	s.warnOnConflict(ctx, userID, params.InterviewDate, "")

	now := time.Now().UTC()
	interview := Interview{
		ID:            uuid.NewString(),
		UserID:        userID,
		ApplicationID: params.ApplicationID,
		InterviewDate: params.InterviewDate.UTC(),
		InterviewType: params.InterviewType,
		Stage:         params.Stage,
		Interviewer:   params.Interviewer,
		Outcome:       OutcomePending,
		Notes:         params.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Repo.Create(ctx, interview); err != nil {
		return Interview{}, err
	}

	if application.Status == applications.StatusApplied {
		application.Status = applications.StatusInterviewing
		application.UpdatedAt = now
		if err := s.Applications.Update(ctx, application); err != nil {
			telemetry.Error("interview.status_bump_failed", map[string]any{
				"application_id": application.ID,
				"err":            err.Error(),
			})
		}
	}

	telemetry.Info("interview.scheduled", map[string]any{
		"interview_id":   interview.ID,
		"user_id":        userID,
		"application_id": interview.ApplicationID,
		"interview_date": interview.InterviewDate,
	})
	return interview, nil
}

// Get returns an interview by id for the user.
func (s *Service) Get(ctx context.Context, userID, interviewID string) (Interview, error) {
	if userID == "" || interviewID == "" {
		return Interview{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID, interviewID)
}

// ListByApplication returns the interviews scheduled for an application.
func (s *Service) ListByApplication(ctx context.Context, userID, applicationID string) ([]Interview, error) {
	if userID == "" || applicationID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByApplication(ctx, userID, applicationID)
}

// ListUpcoming returns non-cancelled interviews scheduled in the next
// daysAhead days, soonest first. Zero or negative daysAhead means 30.
func (s *Service) ListUpcoming(ctx context.Context, userID string, daysAhead int) ([]Interview, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	if daysAhead <= 0 {
		daysAhead = defaultUpcomingDays
	}
	now := time.Now().UTC()
	return s.Repo.ListUpcoming(ctx, userID, now, now.AddDate(0, 0, daysAhead))
}

// Update reschedules an interview or records its outcome. Recording a passed
// outcome with no further interviews ahead moves the application to offer; a
// failed outcome moves it to rejected.
func (s *Service) Update(ctx context.Context, userID, interviewID string, params ScheduleParams) (Interview, error) {
	if userID == "" || interviewID == "" {
		return Interview{}, ErrInvalidInput
	}
	if err := validateParams(params); err != nil {
		return Interview{}, err
	}
	outcome := params.Outcome
	if outcome == "" {
		outcome = OutcomePending
	}
	if !ValidOutcome(outcome) {
		return Interview{}, fmt.Errorf("%w: unknown outcome %q", ErrInvalidInput, params.Outcome)
	}

	interview, err := s.Repo.GetByID(ctx, userID, interviewID)
	if err != nil {
		return Interview{}, err
	}

	if !interview.InterviewDate.Equal(params.InterviewDate.UTC()) {
		s.warnOnConflict(ctx, userID, params.InterviewDate, interviewID)
	}

	interview.InterviewDate = params.InterviewDate.UTC()
	interview.InterviewType = params.InterviewType
	interview.Stage = params.Stage
	interview.Interviewer = params.Interviewer
	interview.Outcome = outcome
	interview.Notes = params.Notes
	interview.UpdatedAt = time.Now().UTC()

	if err := s.Repo.Update(ctx, interview); err != nil {
		return Interview{}, err
	}

	if err := s.applyOutcome(ctx, interview); err != nil {
		telemetry.Error("interview.status_bump_failed", map[string]any{
			"application_id": interview.ApplicationID,
			"err":            err.Error(),
		})
	}
	return interview, nil
}

// Delete tombstones the interview.
func (s *Service) Delete(ctx context.Context, userID, interviewID string) error {
	if userID == "" || interviewID == "" {
		return ErrInvalidInput
	}
	return s.Repo.SoftDelete(ctx, userID, interviewID)
}

// applyOutcome moves the linked application through the pipeline based on a
// recorded outcome.
func (s *Service) applyOutcome(ctx context.Context, interview Interview) error {
	var next string
	switch interview.Outcome {
	case OutcomePassed:
		remaining, err := s.Repo.ListByApplication(ctx, interview.UserID, interview.ApplicationID)
		if err != nil {
			return err
		}
		for _, other := range remaining {
			if other.ID != interview.ID &&
				other.Outcome != OutcomeCancelled &&
				other.InterviewDate.After(time.Now()) {
				return nil
			}
		}
		next = applications.StatusOffer
	case OutcomeFailed:
		next = applications.StatusRejected
	default:
		return nil
	}

	application, err := s.Applications.GetByID(ctx, interview.UserID, interview.ApplicationID)
	if err != nil {
		return err
	}
	if application.Status == next {
		return nil
	}
	application.Status = next
	application.UpdatedAt = time.Now().UTC()
	return s.Applications.Update(ctx, application)
}

func (s *Service) warnOnConflict(ctx context.Context, userID string, at time.Time, excludeID string) {
	conflict, err := s.Repo.HasConflict(ctx, userID, at, excludeID)
	if err != nil || !conflict {
		return
	}
	telemetry.Info("interview.schedule_overlap", map[string]any{
		"user_id":        userID,
		"interview_date": at.UTC(),
	})
}
