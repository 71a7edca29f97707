package users

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo keeps users in a map. It backs dev and test runs without a
// database.
type MemoryRepo struct {
	// Now stamps created/updated times; defaults to time.Now.
	Now func() time.Time

	mu   sync.RWMutex
	byID map[string]User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: map[string]User{}}
}

func (r *MemoryRepo) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}

func (r *MemoryRepo) Upsert(ctx context.Context, user User) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	ts := r.now()
	prev, exists := r.byID[user.ID]
	user.CreatedAt, user.UpdatedAt = ts, ts
	if exists {
		user.CreatedAt = prev.CreatedAt
	}
	r.byID[user.ID] = user
	return !exists, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	select {
	case <-ctx.Done():
		return User{}, ctx.Err()
	default:
	}

	r.mu.RLock()
	user, ok := r.byID[userID]
	r.mu.RUnlock()
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

var _ Repo = (*MemoryRepo)(nil)
