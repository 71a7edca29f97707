package skillgaps

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"jobassist-backend/internal/jobs"
	"jobassist-backend/internal/notify"
	"jobassist-backend/internal/preferences"
	"jobassist-backend/internal/resumes"
	"jobassist-backend/internal/shared/telemetry"
	"jobassist-backend/internal/skillgaps/gap"
	"jobassist-backend/internal/users"
)

type ResumeLookup interface {
	Latest(ctx context.Context, userID string) (resumes.Resume, error)
}

type JobLookup interface {
	Get(ctx context.Context, id string) (jobs.Job, error)
}

type PreferenceLookup interface {
	Get(ctx context.Context, userID string) (preferences.Preference, error)
}

type UserDirectory interface {
	GetByID(ctx context.Context, userID string) (users.User, error)
}

type Service struct {
	Repo     Repo
	Resumes  ResumeLookup
	Jobs     JobLookup
	Analyzer *gap.Analyzer
	Now      func() time.Time

	// With Prefs, Users and Notifier set, a new analysis with missing skills
	// is emailed to users who keep email alerts on.
	Prefs    PreferenceLookup
	Users    UserDirectory
	Notifier notify.Notifier
	// Dispatch runs the email off the request; nil means a new goroutine.
	Dispatch func(func())
}

// Analyze compares the user's latest resume with jobID and stores the result.
func (s *Service) Analyze(ctx context.Context, userID, jobID string) (Analysis, error) {
	resume, err := s.Resumes.Latest(ctx, userID)
	if err != nil {
		return Analysis{}, err
	}
	job, err := s.Jobs.Get(ctx, jobID)
	if err != nil {
		return Analysis{}, err
	}

	result := s.Analyzer.Analyze(resume.Skills, job.RequiredSkills)
	a := Analysis{
		ID:              uuid.NewString(),
		UserID:          userID,
		JobID:           job.ID,
		MatchingSkills:  result.MatchingSkills,
		MissingSkills:   result.MissingSkills,
		MatchScore:      result.MatchScore,
		Recommendations: result.Recommendations,
		CreatedAt:       s.now(),
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return Analysis{}, fmt.Errorf("create skill gap analysis: %w", err)
	}
	if len(a.Recommendations) > 0 && s.Notifier != nil && s.Prefs != nil && s.Users != nil {
		s.dispatch(telemetry.Detach(ctx), a)
	}
	return a, nil
}

func (s *Service) dispatch(ctx context.Context, a Analysis) {
	run := func() {
		defer func() {
			if r := recover(); r != nil {
				telemetry.Error("skillgaps.email.panic", map[string]any{"user_id": a.UserID, "panic": fmt.Sprint(r)})
			}
		}()
		s.emailRecommendations(ctx, a)
	}
	if s.Dispatch != nil {
		s.Dispatch(run)
		return
	}
	go run()
}

func (s *Service) emailRecommendations(ctx context.Context, a Analysis) {
	fields := map[string]any{
		"request_id":  telemetry.RequestIDFromContext(ctx),
		"user_id":     a.UserID,
		"analysis_id": a.ID,
	}
	pref, err := s.Prefs.Get(ctx, a.UserID)
	if err != nil {
		fields["error"] = err
		telemetry.Warn("skillgaps.email.preferences_failed", fields)
		return
	}
	if !pref.NotificationSettings.EmailAlerts {
		return
	}
	user, err := s.Users.GetByID(ctx, a.UserID)
	if err != nil || user.Email == "" {
		return
	}

	recs := make([]notify.SkillRecommendation, 0, len(a.Recommendations))
	for _, r := range a.Recommendations {
		recs = append(recs, notify.SkillRecommendation{
			Skill:        r.Skill,
			Priority:     r.Priority,
			LearningTime: r.LearningTime,
			Resources:    r.Resources,
		})
	}
	if err := s.Notifier.SendSkillRecommendations(ctx, user.Email, user.FullName, recs); err != nil {
		fields["error"] = err
		telemetry.Warn("skillgaps.email.failed", fields)
	}
}

func (s *Service) History(ctx context.Context, userID string, limit int) ([]Analysis, error) {
	if limit <= 0 || limit > HistoryLimit {
		limit = HistoryLimit
	}
	return s.Repo.List(ctx, userID, limit)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
