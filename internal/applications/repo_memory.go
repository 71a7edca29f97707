package applications

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]Application
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]Application)}
}

func (m *MemoryRepo) Create(ctx context.Context, a Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.UserID == a.UserID && existing.JobID == a.JobID {
			return ErrDuplicateKey
		}
	}
	m.items[a.ID] = a
	return nil
}

func (m *MemoryRepo) GetByID(ctx context.Context, userID, id string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.items[id]
	if !ok || a.UserID != userID {
		return Application{}, ErrNotFound
	}
	return a, nil
}

func (m *MemoryRepo) Find(ctx context.Context, userID, jobID string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.items {
		if a.UserID == userID && a.JobID == jobID {
			return a, nil
		}
	}
	return Application{}, ErrNotFound
}

func (m *MemoryRepo) List(ctx context.Context, userID string, status Status) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Application{}
	for _, a := range m.items {
		if a.UserID != userID || (status != "" && a.Status != status) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppliedDate.Equal(out[j].AppliedDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].AppliedDate.After(out[j].AppliedDate)
	})
	return out, nil
}

func (m *MemoryRepo) CountSince(ctx context.Context, userID string, since time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, a := range m.items {
		if a.UserID == userID && !a.AppliedDate.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryRepo) Update(ctx context.Context, a Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.items[a.ID]
	if !ok || existing.UserID != a.UserID {
		return ErrNotFound
	}
	existing.Status = a.Status
	existing.Notes = a.Notes
	existing.UpdatedAt = a.UpdatedAt
	m.items[a.ID] = existing
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok || a.UserID != userID {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
