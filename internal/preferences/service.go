package preferences

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobassist-backend/internal/jobs"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Get returns the saved preferences or the defaults when none exist.
func (s *Service) Get(ctx context.Context, userID string) (Preference, error) {
	p, err := s.Repo.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return Defaults(userID), nil
	}
	return p, err
}

// Find returns saved preferences only; ErrNotFound when absent.
func (s *Service) Find(ctx context.Context, userID string) (Preference, error) {
	return s.Repo.Get(ctx, userID)
}

// Update validates and stores p for userID.
func (s *Service) Update(ctx context.Context, userID string, p Preference) (Preference, error) {
	p.UserID = userID
	p.TargetRoles = clean(p.TargetRoles)
	p.TargetLocations = clean(p.TargetLocations)
	p.JobTypes = clean(p.JobTypes)
	p.ExperienceLevels = clean(p.ExperienceLevels)
	p.PreferredSources = clean(p.PreferredSources)
	if p.SalaryRange.Currency == "" {
		p.SalaryRange.Currency = "INR"
	}
	if err := validate(p); err != nil {
		return Preference{}, err
	}
	p.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Upsert(ctx, p); err != nil {
		return Preference{}, fmt.Errorf("save preferences: %w", err)
	}
	return p, nil
}

// ListAutoApplyEnabled returns users eligible for the scheduled sweep.
func (s *Service) ListAutoApplyEnabled(ctx context.Context) ([]string, error) {
	return s.Repo.ListAutoApplyEnabled(ctx)
}

func validate(p Preference) error {
	if p.MinMatchScore < 0 || p.MinMatchScore > 100 {
		return fmt.Errorf("%w: minMatchScore must be between 0 and 100", ErrInvalidInput)
	}
	if p.DailyApplicationLimit < 0 {
		return fmt.Errorf("%w: dailyApplicationLimit must not be negative", ErrInvalidInput)
	}
	if p.SalaryRange.Min < 0 || (p.SalaryRange.Max > 0 && p.SalaryRange.Max < p.SalaryRange.Min) {
		return fmt.Errorf("%w: invalid salary range", ErrInvalidInput)
	}
	for _, src := range p.PreferredSources {
		if !jobs.Source(src).Valid() {
			return fmt.Errorf("%w: unknown source %q", ErrInvalidInput, src)
		}
	}
	if bad := firstNotIn(p.JobTypes, validJobTypes); bad != "" {
		return fmt.Errorf("%w: unknown job type %q", ErrInvalidInput, bad)
	}
	if bad := firstNotIn(p.ExperienceLevels, validExperienceLevels); bad != "" {
		return fmt.Errorf("%w: unknown experience level %q", ErrInvalidInput, bad)
	}
	return nil
}

func clean(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstNotIn(values, allowed []string) string {
	for _, v := range values {
		ok := false
		for _, a := range allowed {
			if v == a {
				ok = true
				break
			}
		}
		if !ok {
			return v
		}
	}
	return ""
}
