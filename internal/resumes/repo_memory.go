package resumes

import (
	"context"
	"sync"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	resumes  []Resume
	versions []Version
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (m *MemoryRepo) Create(ctx context.Context, r Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r.Skills = append([]string(nil), r.Skills...)
	m.resumes = append(m.resumes, r)
	return nil
}

func (m *MemoryRepo) GetByID(ctx context.Context, userID, id string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.resumes {
		if r.ID == id && r.UserID == userID {
			return r, nil
		}
	}
	return Resume{}, ErrNotFound
}

func (m *MemoryRepo) Latest(ctx context.Context, userID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest Resume
	found := false
	for _, r := range m.resumes {
		if r.UserID != userID {
			continue
		}
		if !found || !r.UploadedAt.Before(latest.UploadedAt) {
			latest = r
			found = true
		}
	}
	if !found {
		return Resume{}, ErrNotFound
	}
	return latest, nil
}

func (m *MemoryRepo) List(ctx context.Context, userID string) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Resume{}
	for i := len(m.resumes) - 1; i >= 0; i-- {
		if m.resumes[i].UserID == userID {
			out = append(out, m.resumes[i])
		}
	}
	return out, nil
}

func (m *MemoryRepo) CreateVersion(ctx context.Context, v Version) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.versions = append(m.versions, v)
	return nil
}

func (m *MemoryRepo) ListVersions(ctx context.Context, userID, resumeID string) ([]Version, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Version{}
	for i := len(m.versions) - 1; i >= 0; i-- {
		v := m.versions[i]
		if v.UserID == userID && (resumeID == "" || v.ResumeID == resumeID) {
			out = append(out, v)
		}
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
