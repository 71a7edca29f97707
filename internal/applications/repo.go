package applications

import (
	"context"
	"time"
)

type Repo interface {
	// Create fails with ErrDuplicateKey when the user already applied to the job.
	Create(ctx context.Context, a Application) error
	GetByID(ctx context.Context, userID, id string) (Application, error)
	Find(ctx context.Context, userID, jobID string) (Application, error)
	// List returns newest first; an empty status means all.
	List(ctx context.Context, userID string, status Status) ([]Application, error)
	CountSince(ctx context.Context, userID string, since time.Time) (int, error)
	// Update persists Status, Notes and UpdatedAt.
	Update(ctx context.Context, a Application) error
	Delete(ctx context.Context, userID, id string) error
}
