package resumes

import "context"

type Repo interface {
	Create(ctx context.Context, r Resume) error
	GetByID(ctx context.Context, userID, id string) (Resume, error)
	// Latest returns the most recently uploaded resume or ErrNotFound.
	Latest(ctx context.Context, userID string) (Resume, error)
	List(ctx context.Context, userID string) ([]Resume, error)
	CreateVersion(ctx context.Context, v Version) error
	ListVersions(ctx context.Context, userID, resumeID string) ([]Version, error)
}
