// Package autoapply applies a user to their best-matching jobs within a daily
// quota.
package autoapply

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"jobassist-backend/internal/applications"
	"jobassist-backend/internal/customize"
	"jobassist-backend/internal/jobs"
	"jobassist-backend/internal/notifications"
	"jobassist-backend/internal/notify"
	"jobassist-backend/internal/preferences"
	"jobassist-backend/internal/resumes"
	"jobassist-backend/internal/shared/metrics"
	"jobassist-backend/internal/shared/telemetry"
	"jobassist-backend/internal/skillgaps"
	"jobassist-backend/internal/skillgaps/gap"
	"jobassist-backend/internal/skills"
	"jobassist-backend/internal/users"
)

const (
	// CandidateLimit caps how many jobs one run considers.
	CandidateLimit = 100
	// JobAlertLimit caps the matches listed in one job-alert email.
	JobAlertLimit = 5
)

var (
	ErrAutoApplyDisabled = errors.New("auto-apply not enabled")
	ErrNoResumeFound     = errors.New("no resume found")
)

type UserDirectory interface {
	GetByID(ctx context.Context, userID string) (users.User, error)
}

type NotificationSink interface {
	Notify(ctx context.Context, userID, title, message string, typ notifications.Type) error
}

// Engine runs auto-apply for one user at a time. It keeps no state between
// runs; concurrent runs for different users are independent.
type Engine struct {
	Store    Storage
	Users    UserDirectory
	Notifier notify.Notifier
	Alerts   NotificationSink
	// Customizer and Analyzer, when set, record a tailored resume version and
	// a gap analysis for each new application.
	Customizer *customize.Customizer
	Analyzer   *gap.Analyzer
	// Now defaults to time.Now. Its location decides where "today" starts.
	Now func() time.Time
	// Dispatch runs post-apply side effects; nil means a new goroutine.
	Dispatch func(func())
}

// AppliedJob describes one application created by a run.
type AppliedJob struct {
	ApplicationID string `json:"applicationId"`
	JobID         string `json:"jobId"`
	Title         string `json:"title"`
	Company       string `json:"company"`
	MatchScore    int    `json:"matchScore"`
}

// Result reports one run. LimitReached runs are not errors.
type Result struct {
	Success           bool         `json:"success"`
	LimitReached      bool         `json:"limitReached,omitempty"`
	Message           string       `json:"message,omitempty"`
	Applications      int          `json:"applications"`
	TodayTotal        int          `json:"todayTotal"`
	TodayApplications int          `json:"todayApplications"`
	MatchingJobsFound int          `json:"matchingJobsFound"`
	Applied           []AppliedJob `json:"appliedJobs"`
}

type candidate struct {
	job   jobs.Job
	score int
}

// Run applies userID to eligible jobs. It fails only when auto-apply is off,
// there is no resume, or a lookup before the apply loop fails; per-job errors
// are logged and skipped.
func (e *Engine) Run(ctx context.Context, userID string) (Result, error) {
	start := time.Now()
	metrics.IncAutoApplyRun()
	defer func() {
		metrics.ObserveAutoApplyDurationMs(float64(time.Since(start).Milliseconds()))
	}()
	logFields := map[string]any{
		"request_id": telemetry.RequestIDFromContext(ctx),
		"user_id":    userID,
	}

	pref, err := e.Store.FindPreference(ctx, userID)
	if errors.Is(err, preferences.ErrNotFound) {
		return Result{}, ErrAutoApplyDisabled
	}
	if err != nil {
		return Result{}, fmt.Errorf("find preference: %w", err)
	}
	if !pref.AutoApplyEnabled {
		return Result{}, ErrAutoApplyDisabled
	}

	resume, err := e.Store.FindLatestResume(ctx, userID)
	if errors.Is(err, resumes.ErrNotFound) {
		return Result{}, ErrNoResumeFound
	}
	if err != nil {
		return Result{}, fmt.Errorf("find resume: %w", err)
	}

	matching, err := e.matchingJobs(ctx, resume, pref)
	if err != nil {
		return Result{}, err
	}

	now := e.now()
	today, err := e.Store.CountApplicationsSince(ctx, userID, midnight(now))
	if err != nil {
		return Result{}, fmt.Errorf("count applications: %w", err)
	}
	remaining := pref.DailyApplicationLimit - today
	if remaining <= 0 {
		metrics.IncAutoApplyLimitReached()
		telemetry.Info("autoapply.run.limit_reached", merge(logFields, map[string]any{"today": today}))
		return Result{
			LimitReached:      true,
			Message:           "Daily application limit reached",
			TodayTotal:        today,
			TodayApplications: today,
			MatchingJobsFound: len(matching),
			Applied:           []AppliedJob{},
		}, nil
	}

	selected := matching
	if len(selected) > remaining {
		selected = selected[:remaining]
	}

	applied := make([]AppliedJob, 0, len(selected))
	for _, c := range selected {
		if err := ctx.Err(); err != nil {
			return e.result(today, matching, applied), err
		}
		a, ok := e.apply(ctx, userID, resume, c)
		if !ok {
			continue
		}
		applied = append(applied, AppliedJob{
			ApplicationID: a.ID,
			JobID:         c.job.ID,
			Title:         c.job.Title,
			Company:       c.job.Company,
			MatchScore:    c.score,
		})
		e.dispatch(telemetry.Detach(ctx), userID, pref, resume, c, a)
	}

	if rest := matching[len(selected):]; len(rest) > 0 && e.Notifier != nil && e.Users != nil && pref.NotificationSettings.JobRecommendations {
		e.spawn(telemetry.Detach(ctx), map[string]any{"user_id": userID, "task": "job_alert"}, func(ctx context.Context) {
			e.alertJobs(ctx, userID, rest)
		})
	}

	metrics.AddAutoApplyCreated(len(applied))
	res := e.result(today, matching, applied)
	telemetry.Info("autoapply.run.complete", merge(logFields, map[string]any{
		"applications":        res.Applications,
		"today_total":         res.TodayTotal,
		"matching_jobs_found": res.MatchingJobsFound,
		"duration_ms":         time.Since(start).Milliseconds(),
	}))
	return res, nil
}

func (e *Engine) result(today int, matching []candidate, applied []AppliedJob) Result {
	return Result{
		Success:           true,
		Applications:      len(applied),
		TodayTotal:        today + len(applied),
		TodayApplications: today,
		MatchingJobsFound: len(matching),
		Applied:           applied,
	}
}

// matchingJobs returns candidates scoring at least MinMatchScore, best
// first. Equal scores keep retrieval order.
func (e *Engine) matchingJobs(ctx context.Context, resume resumes.Resume, pref preferences.Preference) ([]candidate, error) {
	filter := jobs.Filter{Locations: pref.TargetLocations}
	for _, s := range pref.PreferredSources {
		filter.Sources = append(filter.Sources, jobs.Source(s))
	}
	found, err := e.Store.FindJobs(ctx, filter, CandidateLimit)
	if err != nil {
		return nil, fmt.Errorf("find jobs: %w", err)
	}
	if len(found) > CandidateLimit {
		found = found[:CandidateLimit]
	}

	out := make([]candidate, 0, len(found))
	seen := make(map[string]struct{}, len(found))
	for _, j := range found {
		if _, dup := seen[j.ID]; dup {
			continue
		}
		seen[j.ID] = struct{}{}
		score := skills.Score(resume.Skills, j.RequiredSkills)
		if score < pref.MinMatchScore {
			continue
		}
		out = append(out, candidate{job: j, score: score})
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].score > out[k].score })
	return out, nil
}

// apply creates one application. Existing applications are skipped; other
// failures are logged with the job id.
func (e *Engine) apply(ctx context.Context, userID string, resume resumes.Resume, c candidate) (applications.Application, bool) {
	fields := map[string]any{
		"request_id": telemetry.RequestIDFromContext(ctx),
		"user_id":    userID,
		"job_id":     c.job.ID,
	}

	_, err := e.Store.FindApplication(ctx, userID, c.job.ID)
	if err == nil {
		metrics.IncAutoApplySkipped()
		telemetry.Info("autoapply.job.already_applied", fields)
		return applications.Application{}, false
	}
	if !errors.Is(err, applications.ErrNotFound) {
		metrics.IncAutoApplyFailed()
		telemetry.Error("autoapply.job.lookup_failed", merge(fields, map[string]any{"error": err}))
		return applications.Application{}, false
	}

	now := e.now().UTC()
	a := applications.Application{
		ID:          uuid.NewString(),
		UserID:      userID,
		JobID:       c.job.ID,
		ResumeID:    resume.ID,
		Status:      applications.StatusApplied,
		MatchScore:  c.score,
		AutoApplied: true,
		AppliedDate: now,
		UpdatedAt:   now,
	}
	if err := e.Store.CreateApplication(ctx, a); err != nil {
		if errors.Is(err, applications.ErrDuplicateKey) {
			metrics.IncAutoApplySkipped()
			telemetry.Info("autoapply.job.already_applied", fields)
			return applications.Application{}, false
		}
		metrics.IncAutoApplyFailed()
		telemetry.Error("autoapply.job.create_failed", merge(fields, map[string]any{"error": err}))
		return applications.Application{}, false
	}
	return a, true
}

// dispatch runs the confirmation and bookkeeping for a new application
// without blocking the run. Failures are logged only.
func (e *Engine) dispatch(ctx context.Context, userID string, pref preferences.Preference, resume resumes.Resume, c candidate, a applications.Application) {
	e.spawn(ctx, map[string]any{"user_id": userID, "job_id": c.job.ID}, func(ctx context.Context) {
		e.followUp(ctx, userID, pref, resume, c, a)
	})
}

// spawn runs fn through Dispatch, or a new goroutine, recovering panics.
func (e *Engine) spawn(ctx context.Context, fields map[string]any, fn func(context.Context)) {
	run := func() {
		defer func() {
			if r := recover(); r != nil {
				telemetry.Error("autoapply.followup.panic", merge(fields, map[string]any{"panic": fmt.Sprint(r)}))
			}
		}()
		fn(ctx)
	}
	if e.Dispatch != nil {
		e.Dispatch(run)
		return
	}
	go run()
}

// alertJobs emails matches the run left for the user to apply to by hand,
// skipping jobs already applied to.
func (e *Engine) alertJobs(ctx context.Context, userID string, rest []candidate) {
	fields := map[string]any{
		"request_id": telemetry.RequestIDFromContext(ctx),
		"user_id":    userID,
	}
	alerts := make([]notify.JobAlert, 0, JobAlertLimit)
	for _, c := range rest {
		if len(alerts) == JobAlertLimit {
			break
		}
		if _, err := e.Store.FindApplication(ctx, userID, c.job.ID); !errors.Is(err, applications.ErrNotFound) {
			continue
		}
		alerts = append(alerts, notify.JobAlert{
			Title:      c.job.Title,
			Company:    c.job.Company,
			Location:   c.job.Location,
			MatchScore: c.score,
			URL:        c.job.URL,
		})
	}
	if len(alerts) == 0 {
		return
	}

	user, err := e.Users.GetByID(ctx, userID)
	if err != nil || user.Email == "" {
		return
	}
	if err := e.Notifier.SendJobAlert(ctx, user.Email, user.FullName, alerts); err != nil {
		telemetry.Warn("autoapply.job_alert.failed", merge(fields, map[string]any{"error": err}))
	}
}

func (e *Engine) followUp(ctx context.Context, userID string, pref preferences.Preference, resume resumes.Resume, c candidate, a applications.Application) {
	fields := map[string]any{
		"request_id":     telemetry.RequestIDFromContext(ctx),
		"user_id":        userID,
		"job_id":         c.job.ID,
		"application_id": a.ID,
	}

	if e.Alerts != nil {
		msg := fmt.Sprintf("Automatically applied to %s at %s. Match score: %d%%", c.job.Title, c.job.Company, c.score)
		if err := e.Alerts.Notify(ctx, userID, "Auto-Applied to Job", msg, notifications.TypeSuccess); err != nil {
			telemetry.Warn("autoapply.notification.failed", merge(fields, map[string]any{"error": err}))
		}
	}

	if e.Notifier != nil && e.Users != nil && pref.NotificationSettings.ApplicationUpdates {
		user, err := e.Users.GetByID(ctx, userID)
		switch {
		case err != nil:
			if !errors.Is(err, users.ErrNotFound) {
				telemetry.Warn("autoapply.confirmation.user_lookup_failed", merge(fields, map[string]any{"error": err}))
			}
		case user.Email != "":
			if err := e.Notifier.SendApplicationConfirmation(ctx, user.Email, user.FullName, c.job.Title, c.job.Company, c.score); err != nil {
				telemetry.Warn("autoapply.confirmation.failed", merge(fields, map[string]any{"error": err}))
			}
		}
	}

	now := e.now().UTC()
	if e.Customizer != nil {
		out := e.Customizer.Customize(customize.Input{
			Skills:          resume.Skills,
			ExperienceYears: resume.ExperienceYears,
			OriginalText:    resume.OriginalText,
			JobTitle:        c.job.Title,
			JobDescription:  c.job.Description,
		})
		v := resumes.Version{
			ID:              uuid.NewString(),
			UserID:          userID,
			ResumeID:        resume.ID,
			JobID:           c.job.ID,
			VersionName:     fmt.Sprintf("%s - %s", c.job.Title, c.job.Company),
			CustomizedText:  out.Summary,
			Skills:          out.RelevantSkills,
			Highlights:      out.Highlights,
			MatchScore:      out.MatchScore,
			Recommendations: out.Recommendations,
			CreatedAt:       now,
		}
		if err := e.Store.CreateResumeVersion(ctx, v); err != nil {
			telemetry.Warn("autoapply.resume_version.failed", merge(fields, map[string]any{"error": err}))
		}
	}
	if e.Analyzer != nil {
		r := e.Analyzer.Analyze(resume.Skills, c.job.RequiredSkills)
		analysis := skillgaps.Analysis{
			ID:              uuid.NewString(),
			UserID:          userID,
			JobID:           c.job.ID,
			MatchingSkills:  r.MatchingSkills,
			MissingSkills:   r.MissingSkills,
			MatchScore:      r.MatchScore,
			Recommendations: r.Recommendations,
			CreatedAt:       now,
		}
		if err := e.Store.CreateSkillGapAnalysis(ctx, analysis); err != nil {
			telemetry.Warn("autoapply.skill_gap.failed", merge(fields, map[string]any{"error": err}))
		}
	}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func merge(base, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
