package preferences

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("preferences not found")
	ErrInvalidInput = errors.New("invalid preferences")
)

type Repo interface {
	Get(ctx context.Context, userID string) (Preference, error)
	Upsert(ctx context.Context, pref Preference) error
	// ListAutoApplyEnabled returns the IDs of users with auto-apply on.
	ListAutoApplyEnabled(ctx context.Context) ([]string, error)
}
