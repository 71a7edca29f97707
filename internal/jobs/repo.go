package jobs

import "context"

const (
	// MaxLimit caps every listing query.
	MaxLimit = 100
	// TopSkillsLimit is the size of the top-skills report.
	TopSkillsLimit = 10
)

// Repo stores job listings. Find returns newest first.
type Repo interface {
	Create(ctx context.Context, job Job) error
	GetByID(ctx context.Context, id string) (Job, error)
	Find(ctx context.Context, filter Filter, limit int) ([]Job, error)
	Exists(ctx context.Context, title, company string) (bool, error)
	Stats(ctx context.Context) (MarketStats, error)
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
