package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobassist-backend/internal/shared/telemetry"
	"jobassist-backend/internal/skills"
)

type Service struct {
	Repo       Repo
	Vocabulary *skills.Vocabulary
	Now        func() time.Time
}

func NewService(repo Repo, vocab *skills.Vocabulary) *Service {
	return &Service{Repo: repo, Vocabulary: vocab}
}

// ImportResult counts the outcome of a bulk import.
type ImportResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Create validates and stores a job. Required skills are extracted from the
// description when none are supplied, and canonicalized otherwise.
func (s *Service) Create(ctx context.Context, job Job) (Job, error) {
	job.Title = strings.TrimSpace(job.Title)
	job.Company = strings.TrimSpace(job.Company)
	job.Location = strings.TrimSpace(job.Location)
	if job.Title == "" || job.Company == "" {
		return Job{}, fmt.Errorf("%w: title and company are required", ErrInvalidInput)
	}
	if job.Source == "" {
		job.Source = SourceOther
	}
	if !job.Source.Valid() {
		return Job{}, fmt.Errorf("%w: unknown source %q", ErrInvalidInput, job.Source)
	}
	if job.PostedDate == "" {
		job.PostedDate = "Recently"
	}
	job.RequiredSkills = s.requiredSkills(job)
	job.ID = uuid.NewString()
	job.CreatedAt = s.now()

	if err := s.Repo.Create(ctx, job); err != nil {
		return Job{}, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

// Import creates each job, skipping listings whose title and company already
// exist. Failures are counted and logged, not returned.
func (s *Service) Import(ctx context.Context, batch []Job) (ImportResult, error) {
	var res ImportResult
	for _, job := range batch {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		exists, err := s.Repo.Exists(ctx, strings.TrimSpace(job.Title), strings.TrimSpace(job.Company))
		if err != nil {
			return res, fmt.Errorf("check job: %w", err)
		}
		if exists {
			res.Skipped++
			continue
		}
		if _, err := s.Create(ctx, job); err != nil {
			res.Failed++
			telemetry.Warn("jobs.import.failed", map[string]any{
				"request_id": telemetry.RequestIDFromContext(ctx),
				"title":      job.Title,
				"error":      err,
			})
			continue
		}
		res.Created++
	}
	return res, nil
}

func (s *Service) Get(ctx context.Context, id string) (Job, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter, limit int) ([]Job, error) {
	return s.Repo.Find(ctx, filter, limit)
}

func (s *Service) Stats(ctx context.Context) (MarketStats, error) {
	return s.Repo.Stats(ctx)
}

func (s *Service) requiredSkills(job Job) []string {
	if len(job.RequiredSkills) == 0 {
		if s.Vocabulary == nil {
			return []string{}
		}
		return s.Vocabulary.Extract(job.Title + "\n" + job.Description)
	}
	out := make([]string, 0, len(job.RequiredSkills))
	for _, name := range job.RequiredSkills {
		if s.Vocabulary != nil {
			if canonical, ok := s.Vocabulary.Canonical(name); ok {
				name = canonical
			}
		}
		out = append(out, name)
	}
	return skills.Normalize(out)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
