// Package analytics aggregates application, market and learning statistics.
package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"jobassist-backend/internal/applications"
	"jobassist-backend/internal/jobs"
	"jobassist-backend/internal/resumes"
	"jobassist-backend/internal/skillgaps"
	"jobassist-backend/internal/skillgaps/gap"
)

const (
	topCompaniesLimit  = 5
	recentWindow       = 30 * 24 * time.Hour
	gapSampleSize      = 10
	learningRecsLimit  = 10
	missingSkillsLimit = 10
)

type ApplicationLister interface {
	List(ctx context.Context, userID string, status applications.Status) ([]applications.Application, error)
}

type JobCatalog interface {
	GetByID(ctx context.Context, id string) (jobs.Job, error)
	Stats(ctx context.Context) (jobs.MarketStats, error)
}

type ResumeLookup interface {
	Latest(ctx context.Context, userID string) (resumes.Resume, error)
}

type GapHistory interface {
	List(ctx context.Context, userID string, limit int) ([]skillgaps.Analysis, error)
}

type Service struct {
	Applications ApplicationLister
	Jobs         JobCatalog
	Resumes      ResumeLookup
	Gaps         GapHistory
	Now          func() time.Time
}

type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

type ApplicationStats struct {
	Total             int            `json:"total"`
	ByStatus          map[string]int `json:"byStatus"`
	AverageMatchScore int            `json:"averageMatchScore"`
	Last30Days        int            `json:"last30Days"`
	TopCompanies      []CompanyCount `json:"topCompanies"`
}

type Overview struct {
	Applications ApplicationStats `json:"applications"`
	Market       jobs.MarketStats `json:"market"`
}

// Overview summarizes the user's applications and the job market.
func (s *Service) Overview(ctx context.Context, userID string) (Overview, error) {
	apps, err := s.Applications.List(ctx, userID, "")
	if err != nil {
		return Overview{}, fmt.Errorf("list applications: %w", err)
	}
	market, err := s.Jobs.Stats(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("market stats: %w", err)
	}

	stats := ApplicationStats{
		Total:        len(apps),
		ByStatus:     make(map[string]int, len(applications.Statuses)),
		TopCompanies: []CompanyCount{},
	}
	for _, st := range applications.Statuses {
		stats.ByStatus[string(st)] = 0
	}
	cutoff := s.now().Add(-recentWindow)
	companies := map[string]int{}
	scoreSum := 0
	for _, a := range apps {
		stats.ByStatus[string(a.Status)]++
		scoreSum += a.MatchScore
		if !a.AppliedDate.Before(cutoff) {
			stats.Last30Days++
		}
		job, err := s.Jobs.GetByID(ctx, a.JobID)
		if err != nil {
			continue
		}
		companies[job.Company]++
	}
	if len(apps) > 0 {
		stats.AverageMatchScore = int(math.Round(float64(scoreSum) / float64(len(apps))))
	}
	for company, n := range companies {
		stats.TopCompanies = append(stats.TopCompanies, CompanyCount{Company: company, Count: n})
	}
	sort.Slice(stats.TopCompanies, func(i, j int) bool {
		if stats.TopCompanies[i].Count != stats.TopCompanies[j].Count {
			return stats.TopCompanies[i].Count > stats.TopCompanies[j].Count
		}
		return stats.TopCompanies[i].Company < stats.TopCompanies[j].Company
	})
	if len(stats.TopCompanies) > topCompaniesLimit {
		stats.TopCompanies = stats.TopCompanies[:topCompaniesLimit]
	}

	return Overview{Applications: stats, Market: market}, nil
}

type SkillFrequency struct {
	Skill     string `json:"skill"`
	Frequency int    `json:"frequency"`
}

type LearningPlan struct {
	CurrentSkills   []string             `json:"currentSkills"`
	MissingSkills   []SkillFrequency     `json:"missingSkills"`
	Recommendations []gap.Recommendation `json:"recommendations"`
	AnalysisCount   int                  `json:"analysisCount"`
}

// LearningRecommendations aggregates the user's most recent gap analyses.
// It returns resumes.ErrNotFound when the user has no resume.
func (s *Service) LearningRecommendations(ctx context.Context, userID string) (LearningPlan, error) {
	resume, err := s.Resumes.Latest(ctx, userID)
	if err != nil {
		return LearningPlan{}, err
	}
	analyses, err := s.Gaps.List(ctx, userID, gapSampleSize)
	if err != nil {
		return LearningPlan{}, fmt.Errorf("list skill gaps: %w", err)
	}

	freq := map[string]int{}
	display := map[string]string{}
	var order []string
	recs := map[string]gap.Recommendation{}
	for _, a := range analyses {
		for _, skill := range a.MissingSkills {
			key := strings.ToLower(skill)
			if _, ok := display[key]; !ok {
				display[key] = skill
				order = append(order, key)
			}
			freq[key]++
		}
		for _, r := range a.Recommendations {
			key := strings.ToLower(r.Skill)
			if _, ok := recs[key]; !ok {
				recs[key] = r
			}
		}
	}

	missing := make([]SkillFrequency, 0, len(order))
	for _, key := range order {
		missing = append(missing, SkillFrequency{Skill: display[key], Frequency: freq[key]})
	}
	sort.SliceStable(missing, func(i, j int) bool { return missing[i].Frequency > missing[j].Frequency })
	if len(missing) > missingSkillsLimit {
		missing = missing[:missingSkillsLimit]
	}

	unique := make([]gap.Recommendation, 0, len(recs))
	for _, key := range order {
		if r, ok := recs[key]; ok {
			unique = append(unique, r)
			delete(recs, key)
		}
	}
	sort.SliceStable(unique, func(i, j int) bool {
		pi, pj := gap.PriorityRank(unique[i].Priority), gap.PriorityRank(unique[j].Priority)
		if pi != pj {
			return pi < pj
		}
		return freq[strings.ToLower(unique[i].Skill)] > freq[strings.ToLower(unique[j].Skill)]
	})
	if len(unique) > learningRecsLimit {
		unique = unique[:learningRecsLimit]
	}

	current := resume.Skills
	if current == nil {
		current = []string{}
	}
	return LearningPlan{
		CurrentSkills:   current,
		MissingSkills:   missing,
		Recommendations: unique,
		AnalysisCount:   len(analyses),
	}, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
