package preferences

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	prefs map[string]Preference
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{prefs: make(map[string]Preference)}
}

func (r *MemoryRepo) Get(ctx context.Context, userID string) (Preference, error) {
	if err := ctx.Err(); err != nil {
		return Preference{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.prefs[userID]
	if !ok {
		return Preference{}, ErrNotFound
	}
	return clone(p), nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, pref Preference) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs[pref.UserID] = clone(pref)
	return nil
}

func (r *MemoryRepo) ListAutoApplyEnabled(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for id, p := range r.prefs {
		if p.AutoApplyEnabled {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}

func clone(p Preference) Preference {
	cp := func(s []string) []string { return append([]string{}, s...) }
	p.TargetRoles = cp(p.TargetRoles)
	p.TargetLocations = cp(p.TargetLocations)
	p.JobTypes = cp(p.JobTypes)
	p.ExperienceLevels = cp(p.ExperienceLevels)
	p.PreferredSources = cp(p.PreferredSources)
	return p
}

var _ Repo = (*MemoryRepo)(nil)
