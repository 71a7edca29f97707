package autoapply

import (
	"context"
	"time"

	"jobassist-backend/internal/applications"
	"jobassist-backend/internal/jobs"
	"jobassist-backend/internal/preferences"
	"jobassist-backend/internal/resumes"
	"jobassist-backend/internal/skillgaps"
)

// Storage is everything the engine reads and writes. Lookups report absence
// with the owning package's ErrNotFound; CreateApplication reports an
// existing (user, job) pair with applications.ErrDuplicateKey.
type Storage interface {
	FindLatestResume(ctx context.Context, userID string) (resumes.Resume, error)
	FindPreference(ctx context.Context, userID string) (preferences.Preference, error)
	FindJobs(ctx context.Context, filter jobs.Filter, limit int) ([]jobs.Job, error)
	CountApplicationsSince(ctx context.Context, userID string, since time.Time) (int, error)
	FindApplication(ctx context.Context, userID, jobID string) (applications.Application, error)
	CreateApplication(ctx context.Context, a applications.Application) error
	CreateSkillGapAnalysis(ctx context.Context, a skillgaps.Analysis) error
	CreateResumeVersion(ctx context.Context, v resumes.Version) error
}

// RepoStorage adapts the feature repositories to Storage.
type RepoStorage struct {
	Resumes      resumes.Repo
	Preferences  preferences.Repo
	Jobs         jobs.Repo
	Applications applications.Repo
	SkillGaps    skillgaps.Repo
}

func (s RepoStorage) FindLatestResume(ctx context.Context, userID string) (resumes.Resume, error) {
	return s.Resumes.Latest(ctx, userID)
}

func (s RepoStorage) FindPreference(ctx context.Context, userID string) (preferences.Preference, error) {
	return s.Preferences.Get(ctx, userID)
}

func (s RepoStorage) FindJobs(ctx context.Context, filter jobs.Filter, limit int) ([]jobs.Job, error) {
	return s.Jobs.Find(ctx, filter, limit)
}

func (s RepoStorage) CountApplicationsSince(ctx context.Context, userID string, since time.Time) (int, error) {
	return s.Applications.CountSince(ctx, userID, since)
}

func (s RepoStorage) FindApplication(ctx context.Context, userID, jobID string) (applications.Application, error) {
	return s.Applications.Find(ctx, userID, jobID)
}

func (s RepoStorage) CreateApplication(ctx context.Context, a applications.Application) error {
	return s.Applications.Create(ctx, a)
}

func (s RepoStorage) CreateSkillGapAnalysis(ctx context.Context, a skillgaps.Analysis) error {
	return s.SkillGaps.Create(ctx, a)
}

func (s RepoStorage) CreateResumeVersion(ctx context.Context, v resumes.Version) error {
	return s.Resumes.CreateVersion(ctx, v)
}

var _ Storage = RepoStorage{}
