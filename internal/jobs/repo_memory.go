package jobs

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type MemoryRepo struct {
	mu   sync.RWMutex
	jobs []Job
	byID map[string]int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]int)}
}

func (r *MemoryRepo) Create(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	job.RequiredSkills = append([]string(nil), job.RequiredSkills...)
	r.byID[job.ID] = len(r.jobs)
	r.jobs = append(r.jobs, job)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byID[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return copyJob(r.jobs[idx]), nil
}

func (r *MemoryRepo) Find(ctx context.Context, filter Filter, limit int) ([]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit = clampLimit(limit)
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Job, 0, limit)
	for i := len(r.jobs) - 1; i >= 0 && len(out) < limit; i-- {
		if matches(r.jobs[i], filter) {
			out = append(out, copyJob(r.jobs[i]))
		}
	}
	return out, nil
}

func (r *MemoryRepo) Exists(ctx context.Context, title, company string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, j := range r.jobs {
		if j.Title == title && j.Company == company {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepo) Stats(ctx context.Context) (MarketStats, error) {
	if err := ctx.Err(); err != nil {
		return MarketStats{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := MarketStats{TotalJobs: len(r.jobs), BySource: map[string]int{}}
	counts := map[string]int{}
	for _, j := range r.jobs {
		stats.BySource[string(j.Source)]++
		for _, s := range j.RequiredSkills {
			counts[s]++
		}
	}
	for skill, n := range counts {
		stats.TopSkills = append(stats.TopSkills, SkillCount{Skill: skill, Count: n})
	}
	sort.Slice(stats.TopSkills, func(i, j int) bool {
		a, b := stats.TopSkills[i], stats.TopSkills[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Skill < b.Skill
	})
	if len(stats.TopSkills) > TopSkillsLimit {
		stats.TopSkills = stats.TopSkills[:TopSkillsLimit]
	}
	return stats, nil
}

func matches(j Job, f Filter) bool {
	if len(f.Locations) > 0 && !containsFold(f.Locations, j.Location) {
		return false
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(j.Location), strings.ToLower(f.Location)) {
		return false
	}
	if len(f.Sources) > 0 {
		found := false
		for _, s := range f.Sources {
			if s == j.Source {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(j.Title), q) &&
			!strings.Contains(strings.ToLower(j.Company), q) &&
			!strings.Contains(strings.ToLower(j.Description), q) {
			return false
		}
	}
	return true
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

func copyJob(j Job) Job {
	j.RequiredSkills = append([]string(nil), j.RequiredSkills...)
	return j
}

var _ Repo = (*MemoryRepo)(nil)
