// Package skillgaps persists gap analyses between a user's resume and a job.
package skillgaps

import (
	"errors"
	"time"

	"jobassist-backend/internal/skillgaps/gap"
)

var ErrNotFound = errors.New("skill gap analysis not found")

// HistoryLimit caps the listed history.
const HistoryLimit = 50

// Analysis is one stored gap analysis. A user accumulates a history of them.
type Analysis struct {
	ID              string
	UserID          string
	JobID           string
	MatchingSkills  []string
	MissingSkills   []string
	MatchScore      int
	Recommendations []gap.Recommendation
	CreatedAt       time.Time
}
