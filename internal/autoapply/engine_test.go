package autoapply

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"jobassist-backend/internal/applications"
	"jobassist-backend/internal/customize"
	"jobassist-backend/internal/jobs"
	"jobassist-backend/internal/notifications"
	"jobassist-backend/internal/notify"
	"jobassist-backend/internal/preferences"
	"jobassist-backend/internal/resumes"
	"jobassist-backend/internal/skillgaps"
	"jobassist-backend/internal/skillgaps/gap"
	"jobassist-backend/internal/skills"
	"jobassist-backend/internal/users"
)

type recordingNotifier struct {
	mu            sync.Mutex
	confirmations []string
	jobAlerts     [][]notify.JobAlert
	err           error
}

func (n *recordingNotifier) SendWelcome(ctx context.Context, to, fullName string) error { return nil }

func (n *recordingNotifier) SendApplicationConfirmation(ctx context.Context, to, fullName, jobTitle, company string, matchScore int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmations = append(n.confirmations, fmt.Sprintf("%s|%s|%s|%d", to, jobTitle, company, matchScore))
	return n.err
}

func (n *recordingNotifier) SendJobAlert(ctx context.Context, to, fullName string, jobs []notify.JobAlert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.jobAlerts = append(n.jobAlerts, jobs)
	return n.err
}

func (n *recordingNotifier) SendSkillRecommendations(ctx context.Context, to, fullName string, recs []notify.SkillRecommendation) error {
	return nil
}

type harness struct {
	engine   *Engine
	store    RepoStorage
	notifier *recordingNotifier
	alerts   *notifications.Service
	now      time.Time
}

func newHarness(t *testing.T, pref preferences.Preference, jobList []jobs.Job) *harness {
	t.Helper()
	ctx := context.Background()
	store := RepoStorage{
		Resumes:      resumes.NewMemoryRepo(),
		Preferences:  preferences.NewMemoryRepo(),
		Jobs:         jobs.NewMemoryRepo(),
		Applications: applications.NewMemoryRepo(),
		SkillGaps:    skillgaps.NewMemoryRepo(),
	}
	pref.UserID = "user-1"
	if err := store.Preferences.Upsert(ctx, pref); err != nil {
		t.Fatalf("upsert preference: %v", err)
	}
	resume := resumes.Resume{ID: "resume-1", UserID: "user-1", Skills: []string{"Go", "SQL", "Docker", "AWS"}, UploadedAt: time.Now().UTC()}
	if err := store.Resumes.Create(ctx, resume); err != nil {
		t.Fatalf("create resume: %v", err)
	}
	for _, j := range jobList {
		if err := store.Jobs.Create(ctx, j); err != nil {
			t.Fatalf("create job: %v", err)
		}
	}
	userRepo := users.NewMemoryRepo()
	if _, err := userRepo.Upsert(ctx, users.User{ID: "user-1", Email: "dev@example.com", FullName: "Dev"}); err != nil {
		t.Fatalf("upsert user: %v", err)
	}

	h := &harness{
		store:    store,
		notifier: &recordingNotifier{},
		alerts:   notifications.NewService(notifications.NewMemoryRepo()),
		now:      time.Date(2024, 8, 1, 15, 0, 0, 0, time.UTC),
	}
	h.engine = &Engine{
		Store:    store,
		Users:    userRepo,
		Notifier: h.notifier,
		Alerts:   h.alerts,
		Now:      func() time.Time { return h.now },
		Dispatch: func(fn func()) { fn() },
	}
	return h
}

func enabledPref(limit, minScore int) preferences.Preference {
	return preferences.Preference{
		AutoApplyEnabled:      true,
		MinMatchScore:         minScore,
		DailyApplicationLimit: limit,
		NotificationSettings:  preferences.NotificationSettings{ApplicationUpdates: true},
	}
}

func goJobs(n int) []jobs.Job {
	out := make([]jobs.Job, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, jobs.Job{
			ID:             fmt.Sprintf("job-%d", i),
			Title:          fmt.Sprintf("Go Engineer %d", i),
			Company:        "Acme",
			Location:       "Remote",
			Source:         jobs.SourceLinkedIn,
			RequiredSkills: []string{"Go", "SQL"},
		})
	}
	return out
}

func TestRunAppliesUpToDailyLimit(t *testing.T) {
	h := newHarness(t, enabledPref(2, 60), goJobs(5))

	res, err := h.engine.Run(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Success || res.Applications != 2 || res.MatchingJobsFound != 5 || res.TodayTotal != 2 {
		t.Fatalf("result = %+v", res)
	}
	apps, _ := h.store.Applications.List(context.Background(), "user-1", "")
	if len(apps) != 2 {
		t.Fatalf("stored applications = %d, want 2", len(apps))
	}
	for _, a := range apps {
		if !a.AutoApplied || a.MatchScore != 100 || a.ResumeID != "resume-1" || a.Status != applications.StatusApplied {
			t.Fatalf("application = %+v", a)
		}
	}
	if len(h.notifier.confirmations) != 2 {
		t.Fatalf("confirmations = %v", h.notifier.confirmations)
	}
	inbox, _ := h.alerts.List(context.Background(), "user-1", nil)
	if len(inbox.Notifications) != 2 {
		t.Fatalf("in-app notifications = %d", len(inbox.Notifications))
	}
}

func TestRunIsIdempotent(t *testing.T) {
	h := newHarness(t, enabledPref(10, 60), goJobs(3))
	ctx := context.Background()

	first, err := h.engine.Run(ctx, "user-1")
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := h.engine.Run(ctx, "user-1")
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if first.Applications != 3 || second.Applications != 0 {
		t.Fatalf("first = %+v second = %+v", first, second)
	}
	if second.TodayTotal < first.TodayTotal || second.TodayTotal > 10 {
		t.Fatalf("today total went from %d to %d", first.TodayTotal, second.TodayTotal)
	}
	apps, _ := h.store.Applications.List(ctx, "user-1", "")
	if len(apps) != 3 {
		t.Fatalf("stored applications = %d, want 3", len(apps))
	}
}

func TestRunRespectsRemainingQuota(t *testing.T) {
	h := newHarness(t, enabledPref(4, 60), goJobs(6))
	ctx := context.Background()

	earlier := h.now.Add(-time.Hour)
	yesterday := h.now.Add(-24 * time.Hour)
	prior := []applications.Application{
		{ID: "p1", UserID: "user-1", JobID: "other-1", AppliedDate: earlier},
		{ID: "p2", UserID: "user-1", JobID: "other-2", AppliedDate: earlier},
		{ID: "p3", UserID: "user-1", JobID: "other-3", AppliedDate: earlier},
		{ID: "p4", UserID: "user-1", JobID: "other-4", AppliedDate: yesterday},
	}
	for _, a := range prior {
		if err := h.store.Applications.Create(ctx, a); err != nil {
			t.Fatalf("create prior: %v", err)
		}
	}

	res, err := h.engine.Run(ctx, "user-1")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Applications != 1 || res.TodayApplications != 3 || res.TodayTotal != 4 {
		t.Fatalf("result = %+v", res)
	}

	again, err := h.engine.Run(ctx, "user-1")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !again.LimitReached || again.Success || again.TodayApplications != 4 || again.Applications != 0 {
		t.Fatalf("limit result = %+v", again)
	}
}

func TestRunPreconditions(t *testing.T) {
	ctx := context.Background()

	disabled := newHarness(t, preferences.Preference{AutoApplyEnabled: false, DailyApplicationLimit: 5}, goJobs(1))
	if _, err := disabled.engine.Run(ctx, "user-1"); !errors.Is(err, ErrAutoApplyDisabled) {
		t.Fatalf("expected ErrAutoApplyDisabled, got %v", err)
	}

	h := newHarness(t, enabledPref(5, 0), goJobs(1))
	if _, err := h.engine.Run(ctx, "nobody"); !errors.Is(err, ErrAutoApplyDisabled) {
		t.Fatalf("expected ErrAutoApplyDisabled without preference, got %v", err)
	}
	if err := h.store.Preferences.Upsert(ctx, preferences.Preference{UserID: "no-resume", AutoApplyEnabled: true, DailyApplicationLimit: 5}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := h.engine.Run(ctx, "no-resume"); !errors.Is(err, ErrNoResumeFound) {
		t.Fatalf("expected ErrNoResumeFound, got %v", err)
	}
}

func TestRunFiltersAndOrdersCandidates(t *testing.T) {
	jobList := []jobs.Job{
		{ID: "low", Title: "Low", Company: "A", Location: "Remote", Source: jobs.SourceIndeed, RequiredSkills: []string{"Go", "Rust", "Elixir", "Haskell"}},
		{ID: "tie-old", Title: "Tie old", Company: "B", Location: "remote", Source: jobs.SourceIndeed, RequiredSkills: []string{"Go", "Kafka"}},
		{ID: "best", Title: "Best", Company: "C", Location: "Remote", Source: jobs.SourceIndeed, RequiredSkills: []string{"Go", "AWS"}},
		{ID: "tie-new", Title: "Tie new", Company: "D", Location: "Remote", Source: jobs.SourceIndeed, RequiredSkills: []string{"SQL", "Scala"}},
		{ID: "wrong-city", Title: "Elsewhere", Company: "E", Location: "Pune", Source: jobs.SourceIndeed, RequiredSkills: []string{"Go"}},
		{ID: "wrong-source", Title: "Other board", Company: "F", Location: "Remote", Source: jobs.SourceNaukri, RequiredSkills: []string{"Go"}},
	}
	pref := enabledPref(2, 50)
	pref.TargetLocations = []string{"Remote"}
	pref.PreferredSources = []string{"indeed"}
	h := newHarness(t, pref, jobList)

	res, err := h.engine.Run(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.MatchingJobsFound != 3 {
		t.Fatalf("matching = %d, want 3", res.MatchingJobsFound)
	}
	// retrieval order is newest first, so the newer of the tied jobs wins
	if len(res.Applied) != 2 || res.Applied[0].JobID != "best" || res.Applied[1].JobID != "tie-new" {
		t.Fatalf("applied = %+v", res.Applied)
	}
}

type duplicateOnCreate struct {
	RepoStorage
	failJob string
	failErr error
}

func (d duplicateOnCreate) CreateApplication(ctx context.Context, a applications.Application) error {
	if a.JobID == d.failJob {
		return d.failErr
	}
	return d.RepoStorage.CreateApplication(ctx, a)
}

func TestRunIsolatesPerJobFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "duplicate key", err: applications.ErrDuplicateKey},
		{name: "storage error", err: errors.New("connection reset")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, enabledPref(5, 60), goJobs(3))
			h.engine.Store = duplicateOnCreate{RepoStorage: h.store, failJob: "job-2", failErr: tt.err}

			res, err := h.engine.Run(context.Background(), "user-1")
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if res.Applications != 2 || res.TodayTotal != 2 || res.MatchingJobsFound != 3 {
				t.Fatalf("result = %+v", res)
			}
			for _, a := range res.Applied {
				if a.JobID == "job-2" {
					t.Fatalf("failed job reported as applied")
				}
			}
		})
	}
}

type panickingNotifier struct {
	recordingNotifier
}

func (p *panickingNotifier) SendApplicationConfirmation(ctx context.Context, to, fullName, jobTitle, company string, matchScore int) error {
	panic("template exploded")
}

func TestRunRecoversFollowUpPanics(t *testing.T) {
	h := newHarness(t, enabledPref(5, 60), goJobs(2))
	h.engine.Notifier = &panickingNotifier{}

	res, err := h.engine.Run(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Applications != 2 {
		t.Fatalf("result = %+v", res)
	}
}

func TestRunFollowUpFailuresDoNotRollBack(t *testing.T) {
	h := newHarness(t, enabledPref(5, 60), goJobs(2))
	h.notifier.err = &notify.DeliveryError{To: "dev@example.com", Subject: "x", Err: errors.New("smtp down")}

	res, err := h.engine.Run(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Applications != 2 {
		t.Fatalf("result = %+v", res)
	}
	apps, _ := h.store.Applications.List(context.Background(), "user-1", "")
	if len(apps) != 2 {
		t.Fatalf("applications rolled back: %d", len(apps))
	}
}

func TestRunRecordsVersionAndGap(t *testing.T) {
	h := newHarness(t, enabledPref(1, 0), []jobs.Job{{ID: "j", Title: "Platform", Company: "Acme", Description: "Go and Kubernetes", RequiredSkills: []string{"Go", "Kubernetes"}}})
	vocab, err := skills.NewVocabulary("test", []string{"Go", "Kubernetes"})
	if err != nil {
		t.Fatalf("NewVocabulary: %v", err)
	}
	h.engine.Customizer = customize.New(vocab)
	h.engine.Analyzer = gap.NewAnalyzer(gap.DefaultTable())

	if _, err := h.engine.Run(context.Background(), "user-1"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	versions, _ := h.store.Resumes.ListVersions(context.Background(), "user-1", "resume-1")
	if len(versions) != 1 || versions[0].VersionName != "Platform - Acme" {
		t.Fatalf("versions = %+v", versions)
	}
	gaps, _ := h.store.SkillGaps.List(context.Background(), "user-1", 10)
	if len(gaps) != 1 || len(gaps[0].MissingSkills) != 1 || gaps[0].MissingSkills[0] != "Kubernetes" {
		t.Fatalf("gaps = %+v", gaps)
	}
}

func TestRunAlertsLeftoverMatches(t *testing.T) {
	pref := enabledPref(2, 60)
	pref.NotificationSettings.JobRecommendations = true
	h := newHarness(t, pref, goJobs(9))

	res, err := h.engine.Run(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Applications != 2 || len(h.notifier.jobAlerts) != 1 {
		t.Fatalf("result = %+v alerts = %d", res, len(h.notifier.jobAlerts))
	}
	alert := h.notifier.jobAlerts[0]
	if len(alert) != JobAlertLimit {
		t.Fatalf("alert lists %d jobs, want %d", len(alert), JobAlertLimit)
	}
	applied := map[string]bool{}
	for _, a := range res.Applied {
		applied[a.Title] = true
	}
	for _, j := range alert {
		if applied[j.Title] || j.MatchScore != 100 || j.Company != "Acme" {
			t.Fatalf("unexpected alert entry %+v (applied %v)", j, applied)
		}
	}
}

func TestRunAlertSkipsAppliedAndRespectsSetting(t *testing.T) {
	pref := enabledPref(1, 60)
	h := newHarness(t, pref, goJobs(3))
	if _, err := h.engine.Run(context.Background(), "user-1"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(h.notifier.jobAlerts) != 0 {
		t.Fatalf("alert sent with job recommendations off")
	}

	// Mark every remaining job applied by hand; nothing is left to suggest.
	ctx := context.Background()
	for _, j := range goJobs(3) {
		if _, err := h.store.Applications.Find(ctx, "user-1", j.ID); err == nil {
			continue
		}
		if err := h.store.Applications.Create(ctx, applications.Application{ID: "manual-" + j.ID, UserID: "user-1", JobID: j.ID, Status: applications.StatusApplied}); err != nil {
			t.Fatalf("create application: %v", err)
		}
	}
	pref.UserID = "user-1"
	// One slot left today, so two matches fall through to the alert.
	pref.DailyApplicationLimit = 2
	pref.NotificationSettings.JobRecommendations = true
	if err := h.store.Preferences.Upsert(ctx, pref); err != nil {
		t.Fatalf("upsert preference: %v", err)
	}
	if _, err := h.engine.Run(ctx, "user-1"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(h.notifier.jobAlerts) != 0 {
		t.Fatalf("alert listed applied jobs: %+v", h.notifier.jobAlerts)
	}
}
