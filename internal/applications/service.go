package applications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobassist-backend/internal/jobs"
	"jobassist-backend/internal/notifications"
	"jobassist-backend/internal/resumes"
	"jobassist-backend/internal/shared/telemetry"
	"jobassist-backend/internal/skills"
)

type ResumeLookup interface {
	Latest(ctx context.Context, userID string) (resumes.Resume, error)
}

type JobLookup interface {
	Get(ctx context.Context, id string) (jobs.Job, error)
}

type Alerts interface {
	Notify(ctx context.Context, userID, title, message string, typ notifications.Type) error
}

type Service struct {
	Repo    Repo
	Resumes ResumeLookup
	Jobs    JobLookup
	Alerts  Alerts
	Now     func() time.Time
}

// Detail is an application with its job, when the job still exists.
type Detail struct {
	Application
	Job *jobs.Job
}

var statusMessages = map[Status]string{
	StatusScreening:    "Your application is being screened",
	StatusInterviewing: "Congratulations! You have an interview",
	StatusOffered:      "Congratulations! You received a job offer",
	StatusRejected:     "Application was not selected",
	StatusWithdrawn:    "Application withdrawn",
}

// Apply records a manual application with the user's latest resume.
func (s *Service) Apply(ctx context.Context, userID, jobID, notes string) (Application, error) {
	if strings.TrimSpace(jobID) == "" {
		return Application{}, fmt.Errorf("%w: jobId is required", ErrInvalidInput)
	}
	job, err := s.Jobs.Get(ctx, jobID)
	if err != nil {
		return Application{}, err
	}
	if _, err := s.Repo.Find(ctx, userID, jobID); err == nil {
		return Application{}, ErrAlreadyApplied
	} else if !errors.Is(err, ErrNotFound) {
		return Application{}, fmt.Errorf("find application: %w", err)
	}
	resume, err := s.Resumes.Latest(ctx, userID)
	if err != nil {
		return Application{}, err
	}

	now := s.now()
	a := Application{
		ID:          uuid.NewString(),
		UserID:      userID,
		JobID:       job.ID,
		ResumeID:    resume.ID,
		Status:      StatusApplied,
		MatchScore:  skills.Score(resume.Skills, job.RequiredSkills),
		Notes:       strings.TrimSpace(notes),
		AppliedDate: now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return Application{}, ErrAlreadyApplied
		}
		return Application{}, fmt.Errorf("create application: %w", err)
	}

	s.alert(ctx, userID, "Application Submitted",
		fmt.Sprintf("Successfully applied to %s at %s. Match score: %d%%", job.Title, job.Company, a.MatchScore),
		notifications.TypeSuccess)
	return a, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (Detail, error) {
	a, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return Detail{}, err
	}
	return s.detail(ctx, a), nil
}

func (s *Service) List(ctx context.Context, userID string, status Status) ([]Detail, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	items, err := s.Repo.List(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	out := make([]Detail, 0, len(items))
	for _, a := range items {
		out = append(out, s.detail(ctx, a))
	}
	return out, nil
}

// Update changes status and/or notes. A status change notifies the user.
func (s *Service) Update(ctx context.Context, userID, id string, status Status, notes *string) (Application, error) {
	if status != "" && !status.Valid() {
		return Application{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	a, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return Application{}, err
	}
	changed := status != "" && status != a.Status
	if changed {
		a.Status = status
	}
	if notes != nil {
		a.Notes = strings.TrimSpace(*notes)
	}
	a.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, a); err != nil {
		return Application{}, err
	}

	if msg, ok := statusMessages[a.Status]; ok && changed {
		typ := notifications.TypeInfo
		switch a.Status {
		case StatusOffered:
			typ = notifications.TypeSuccess
		case StatusRejected:
			typ = notifications.TypeError
		}
		label := a.JobID
		if job, err := s.Jobs.Get(ctx, a.JobID); err == nil {
			label = fmt.Sprintf("%s at %s", job.Title, job.Company)
		}
		s.alert(ctx, userID, "Application Status Updated", fmt.Sprintf("%s: %s", label, msg), typ)
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.Repo.Delete(ctx, userID, id)
}

func (s *Service) detail(ctx context.Context, a Application) Detail {
	d := Detail{Application: a}
	if job, err := s.Jobs.Get(ctx, a.JobID); err == nil {
		d.Job = &job
	}
	return d
}

func (s *Service) alert(ctx context.Context, userID, title, message string, typ notifications.Type) {
	if s.Alerts == nil {
		return
	}
	if err := s.Alerts.Notify(ctx, userID, title, message, typ); err != nil {
		telemetry.Warn("applications.notification.failed", map[string]any{
			"request_id": telemetry.RequestIDFromContext(ctx),
			"user_id":    userID,
			"error":      err,
		})
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
