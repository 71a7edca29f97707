package skillgaps

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, a Analysis) error {
	recs, err := json.Marshal(a.Recommendations)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}
	const query = `
INSERT INTO skill_gap_analyses (id, user_id, job_id, matching_skills, missing_skills, match_score, recommendations, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.DB.ExecContext(ctx, query,
		a.ID,
		a.UserID,
		a.JobID,
		pq.StringArray(nonNil(a.MatchingSkills)),
		pq.StringArray(nonNil(a.MissingSkills)),
		a.MatchScore,
		recs,
		a.CreatedAt,
	)
	return err
}

func (r *PGRepo) List(ctx context.Context, userID string, limit int) ([]Analysis, error) {
	const query = `
SELECT id, user_id, job_id, matching_skills, missing_skills, match_score, recommendations, created_at
FROM skill_gap_analyses
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Analysis{}
	for rows.Next() {
		var a Analysis
		var matching, missing pq.StringArray
		var recs []byte
		if err := rows.Scan(&a.ID, &a.UserID, &a.JobID, &matching, &missing, &a.MatchScore, &recs, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.MatchingSkills = []string(matching)
		a.MissingSkills = []string(missing)
		if len(recs) > 0 {
			if err := json.Unmarshal(recs, &a.Recommendations); err != nil {
				return nil, fmt.Errorf("decode recommendations: %w", err)
			}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var _ Repo = (*PGRepo)(nil)
