package analytics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"jobassist-backend/internal/applications"
	"jobassist-backend/internal/jobs"
	"jobassist-backend/internal/resumes"
	"jobassist-backend/internal/skillgaps"
	"jobassist-backend/internal/skillgaps/gap"
)

func TestOverview(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

	jobRepo := jobs.NewMemoryRepo()
	for _, j := range []jobs.Job{
		{ID: "j1", Title: "A", Company: "Acme", Source: jobs.SourceLinkedIn, RequiredSkills: []string{"Go"}},
		{ID: "j2", Title: "B", Company: "Acme", Source: jobs.SourceIndeed, RequiredSkills: []string{"Go", "SQL"}},
		{ID: "j3", Title: "C", Company: "Globex", Source: jobs.SourceLinkedIn},
	} {
		if err := jobRepo.Create(ctx, j); err != nil {
			t.Fatalf("create job: %v", err)
		}
	}
	appRepo := applications.NewMemoryRepo()
	for _, a := range []applications.Application{
		{ID: "a1", UserID: "u", JobID: "j1", Status: applications.StatusApplied, MatchScore: 80, AppliedDate: now.Add(-24 * time.Hour)},
		{ID: "a2", UserID: "u", JobID: "j2", Status: applications.StatusInterviewing, MatchScore: 65, AppliedDate: now.Add(-40 * 24 * time.Hour)},
		{ID: "a3", UserID: "u", JobID: "j3", Status: applications.StatusApplied, MatchScore: 70, AppliedDate: now},
		{ID: "a4", UserID: "other", JobID: "j3", Status: applications.StatusOffered, MatchScore: 10, AppliedDate: now},
	} {
		if err := appRepo.Create(ctx, a); err != nil {
			t.Fatalf("create application: %v", err)
		}
	}

	svc := &Service{Applications: appRepo, Jobs: jobRepo, Now: func() time.Time { return now }}
	got, err := svc.Overview(ctx, "u")
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	apps := got.Applications
	if apps.Total != 3 || apps.ByStatus["applied"] != 2 || apps.ByStatus["interviewing"] != 1 || apps.ByStatus["offered"] != 0 {
		t.Fatalf("applications = %+v", apps)
	}
	if apps.AverageMatchScore != 72 || apps.Last30Days != 2 {
		t.Fatalf("average = %d last30 = %d", apps.AverageMatchScore, apps.Last30Days)
	}
	if len(apps.TopCompanies) != 2 || apps.TopCompanies[0] != (CompanyCount{Company: "Acme", Count: 2}) {
		t.Fatalf("top companies = %+v", apps.TopCompanies)
	}
	if got.Market.TotalJobs != 3 || got.Market.BySource["linkedin"] != 2 {
		t.Fatalf("market = %+v", got.Market)
	}
}

func TestLearningRecommendations(t *testing.T) {
	ctx := context.Background()
	resumeRepo := resumes.NewMemoryRepo()
	gapRepo := skillgaps.NewMemoryRepo()
	analyzer := gap.NewAnalyzer(gap.DefaultTable())

	svc := &Service{Resumes: resumeRepo, Gaps: gapRepo}
	if _, err := svc.LearningRecommendations(ctx, "u"); !errors.Is(err, resumes.ErrNotFound) {
		t.Fatalf("expected resumes.ErrNotFound, got %v", err)
	}

	if err := resumeRepo.Create(ctx, resumes.Resume{ID: "r", UserID: "u", Skills: []string{"Go"}}); err != nil {
		t.Fatalf("create resume: %v", err)
	}
	for i, job := range [][]string{
		{"Go", "Kafka", "Docker"},
		{"Go", "Docker", "Python"},
		{"Docker", "Elixir"},
	} {
		r := analyzer.Analyze([]string{"Go"}, job)
		a := skillgaps.Analysis{ID: string(rune('a' + i)), UserID: "u", MissingSkills: r.MissingSkills, Recommendations: r.Recommendations}
		if err := gapRepo.Create(ctx, a); err != nil {
			t.Fatalf("create analysis: %v", err)
		}
	}

	plan, err := svc.LearningRecommendations(ctx, "u")
	if err != nil {
		t.Fatalf("LearningRecommendations: %v", err)
	}
	if plan.AnalysisCount != 3 || len(plan.CurrentSkills) != 1 {
		t.Fatalf("plan = %+v", plan)
	}
	if plan.MissingSkills[0] != (SkillFrequency{Skill: "Docker", Frequency: 3}) {
		t.Fatalf("missing = %+v", plan.MissingSkills)
	}
	var order []string
	for _, r := range plan.Recommendations {
		order = append(order, r.Skill)
	}
	// Analyses are read newest first, so Elixir is seen before Kafka and
	// keeps that place at equal priority and frequency.
	want := []string{"Python", "Docker", "Elixir", "Kafka"}
	if len(order) != len(want) {
		t.Fatalf("recommendations = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("recommendations = %v, want %v", order, want)
		}
	}
}

func seedGaps(t *testing.T, jobSkills ...[]string) *Service {
	t.Helper()
	ctx := context.Background()
	resumeRepo := resumes.NewMemoryRepo()
	gapRepo := skillgaps.NewMemoryRepo()
	analyzer := gap.NewAnalyzer(gap.DefaultTable())
	if err := resumeRepo.Create(ctx, resumes.Resume{ID: "r", UserID: "u", Skills: []string{"Go"}}); err != nil {
		t.Fatalf("create resume: %v", err)
	}
	for i, job := range jobSkills {
		r := analyzer.Analyze([]string{"Go"}, job)
		a := skillgaps.Analysis{ID: fmt.Sprintf("g%02d", i), UserID: "u", MissingSkills: r.MissingSkills, Recommendations: r.Recommendations}
		if err := gapRepo.Create(ctx, a); err != nil {
			t.Fatalf("create analysis: %v", err)
		}
	}
	return &Service{Resumes: resumeRepo, Gaps: gapRepo}
}

func TestLearningRecommendationsFrequencyBreaksPriorityTies(t *testing.T) {
	// Newest first: Elm is seen before Zig but Zig is missing twice.
	svc := seedGaps(t,
		[]string{"Go", "Zig"},
		[]string{"Go", "Zig"},
		[]string{"Go", "Elm"},
	)
	plan, err := svc.LearningRecommendations(context.Background(), "u")
	if err != nil {
		t.Fatalf("LearningRecommendations: %v", err)
	}
	if len(plan.Recommendations) != 2 || plan.Recommendations[0].Skill != "Zig" || plan.Recommendations[1].Skill != "Elm" {
		t.Fatalf("recommendations = %+v", plan.Recommendations)
	}
	if plan.MissingSkills[0] != (SkillFrequency{Skill: "Zig", Frequency: 2}) {
		t.Fatalf("missing = %+v", plan.MissingSkills)
	}
}

func TestLearningRecommendationsCapsMissingSkills(t *testing.T) {
	job := []string{"Go"}
	for i := 0; i < 14; i++ {
		job = append(job, fmt.Sprintf("Skill%02d", i))
	}
	svc := seedGaps(t, job)
	plan, err := svc.LearningRecommendations(context.Background(), "u")
	if err != nil {
		t.Fatalf("LearningRecommendations: %v", err)
	}
	if len(plan.MissingSkills) != 10 || len(plan.Recommendations) != 10 {
		t.Fatalf("missing = %d recommendations = %d, want 10 each", len(plan.MissingSkills), len(plan.Recommendations))
	}
	if plan.MissingSkills[0].Skill != "Skill00" {
		t.Fatalf("missing = %+v", plan.MissingSkills)
	}
}
