package applications

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobassist-backend/internal/jobs"
	"jobassist-backend/internal/notifications"
	"jobassist-backend/internal/resumes"
)

type fixture struct {
	svc     *Service
	jobs    *jobs.MemoryRepo
	resumes *resumes.MemoryRepo
	alerts  *notifications.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	jobRepo := jobs.NewMemoryRepo()
	resumeRepo := resumes.NewMemoryRepo()
	alerts := notifications.NewService(notifications.NewMemoryRepo())
	ctx := context.Background()

	if err := jobRepo.Create(ctx, jobs.Job{ID: "job-1", Title: "Go Developer", Company: "Acme", RequiredSkills: []string{"Go", "SQL", "Docker", "AWS"}}); err != nil {
		t.Fatalf("create job: %v", err)
	}
	if err := resumeRepo.Create(ctx, resumes.Resume{ID: "resume-1", UserID: "user-1", Skills: []string{"go", "docker", "python"}, UploadedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("create resume: %v", err)
	}

	base := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	n := 0
	svc := &Service{
		Repo:    NewMemoryRepo(),
		Resumes: resumeRepo,
		Jobs:    jobs.NewService(jobRepo, nil),
		Alerts:  alerts,
		Now: func() time.Time {
			n++
			return base.Add(time.Duration(n) * time.Minute)
		},
	}
	return fixture{svc: svc, jobs: jobRepo, resumes: resumeRepo, alerts: alerts}
}

func TestApplyFreezesScoreAndNotifies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.Apply(ctx, "user-1", "job-1", " referral ")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if a.Status != StatusApplied || a.MatchScore != 50 || a.ResumeID != "resume-1" || a.Notes != "referral" || a.AutoApplied {
		t.Fatalf("application = %+v", a)
	}

	inbox, err := f.alerts.List(ctx, "user-1", nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(inbox.Notifications) != 1 || inbox.Notifications[0].Message != "Successfully applied to Go Developer at Acme. Match score: 50%" {
		t.Fatalf("notifications = %+v", inbox.Notifications)
	}

	// a later resume change does not alter the stored score
	if err := f.resumes.Create(ctx, resumes.Resume{ID: "resume-2", UserID: "user-1", Skills: []string{"Go", "SQL", "Docker", "AWS"}, UploadedAt: time.Now().UTC().Add(time.Hour)}); err != nil {
		t.Fatalf("create resume: %v", err)
	}
	got, err := f.svc.Get(ctx, "user-1", a.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.MatchScore != 50 || got.Job == nil || got.Job.Company != "Acme" {
		t.Fatalf("detail = %+v", got)
	}
}

func TestApplyTwiceIsAlreadyApplied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Apply(ctx, "user-1", "job-1", ""); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if _, err := f.svc.Apply(ctx, "user-1", "job-1", ""); !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
	items, err := f.svc.List(ctx, "user-1", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected exactly one application, got %d", len(items))
	}
}

func TestApplyPreconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Apply(ctx, "user-1", "missing", ""); !errors.Is(err, jobs.ErrNotFound) {
		t.Fatalf("expected jobs.ErrNotFound, got %v", err)
	}
	if _, err := f.svc.Apply(ctx, "user-2", "job-1", ""); !errors.Is(err, resumes.ErrNotFound) {
		t.Fatalf("expected resumes.ErrNotFound, got %v", err)
	}
	if _, err := f.svc.Apply(ctx, "user-1", "", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateStatusNotifications(t *testing.T) {
	tests := []struct {
		status  Status
		message string
		typ     notifications.Type
	}{
		{status: StatusScreening, message: "Go Developer at Acme: Your application is being screened", typ: notifications.TypeInfo},
		{status: StatusInterviewing, message: "Go Developer at Acme: Congratulations! You have an interview", typ: notifications.TypeInfo},
		{status: StatusOffered, message: "Go Developer at Acme: Congratulations! You received a job offer", typ: notifications.TypeSuccess},
		{status: StatusRejected, message: "Go Developer at Acme: Application was not selected", typ: notifications.TypeError},
		{status: StatusWithdrawn, message: "Go Developer at Acme: Application withdrawn", typ: notifications.TypeInfo},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			a, err := f.svc.Apply(ctx, "user-1", "job-1", "")
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			updated, err := f.svc.Update(ctx, "user-1", a.ID, tt.status, nil)
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
			if updated.Status != tt.status || !updated.UpdatedAt.After(a.UpdatedAt) {
				t.Fatalf("updated = %+v", updated)
			}
			inbox, err := f.alerts.List(ctx, "user-1", nil)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			latest := inbox.Notifications[0]
			if latest.Title != "Application Status Updated" || latest.Message != tt.message || latest.Type != tt.typ {
				t.Fatalf("notification = %+v", latest)
			}
		})
	}
}

func TestUpdateNotesOnlyDoesNotNotify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.svc.Apply(ctx, "user-1", "job-1", "")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	notes := "called recruiter"
	updated, err := f.svc.Update(ctx, "user-1", a.ID, "", &notes)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Notes != notes || updated.Status != StatusApplied {
		t.Fatalf("updated = %+v", updated)
	}
	inbox, _ := f.alerts.List(ctx, "user-1", nil)
	if len(inbox.Notifications) != 1 {
		t.Fatalf("expected only the submit notification, got %d", len(inbox.Notifications))
	}

	if _, err := f.svc.Update(ctx, "user-1", a.ID, "hired", nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := f.svc.Update(ctx, "user-2", a.ID, StatusOffered, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
	if err := f.svc.Delete(ctx, "user-1", a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.svc.Get(ctx, "user-1", a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCountSince(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	midnight := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	for i, at := range []time.Time{midnight.Add(-time.Minute), midnight, midnight.Add(5 * time.Hour)} {
		a := Application{ID: string(rune('a' + i)), UserID: "u", JobID: string(rune('a' + i)), AppliedDate: at}
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	n, err := repo.CountSince(ctx, "u", midnight)
	if err != nil {
		t.Fatalf("CountSince: %v", err)
	}
	if n != 2 {
		t.Fatalf("CountSince = %d, want 2", n)
	}
	if err := repo.Create(ctx, Application{ID: "z", UserID: "u", JobID: "a"}); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}
