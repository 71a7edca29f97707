package skillgaps

import "context"

type Repo interface {
	Create(ctx context.Context, a Analysis) error
	// List returns the newest analyses first, at most limit.
	List(ctx context.Context, userID string, limit int) ([]Analysis, error)
}
