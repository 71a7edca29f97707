package preferences

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Get(ctx context.Context, userID string) (Preference, error) {
	const query = `
SELECT user_id, auto_apply_enabled, target_roles, target_locations,
       salary_min, salary_max, salary_currency, job_types, experience_levels,
       preferred_sources, min_match_score, daily_application_limit,
       email_alerts, application_updates, job_recommendations, updated_at
FROM user_preferences
WHERE user_id = $1`
	var p Preference
	var roles, locations, jobTypes, levels, sources pq.StringArray
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&p.AutoApplyEnabled,
		&roles,
		&locations,
		&p.SalaryRange.Min,
		&p.SalaryRange.Max,
		&p.SalaryRange.Currency,
		&jobTypes,
		&levels,
		&sources,
		&p.MinMatchScore,
		&p.DailyApplicationLimit,
		&p.NotificationSettings.EmailAlerts,
		&p.NotificationSettings.ApplicationUpdates,
		&p.NotificationSettings.JobRecommendations,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Preference{}, ErrNotFound
		}
		return Preference{}, err
	}
	p.TargetRoles = []string(roles)
	p.TargetLocations = []string(locations)
	p.JobTypes = []string(jobTypes)
	p.ExperienceLevels = []string(levels)
	p.PreferredSources = []string(sources)
	return p, nil
}

func (r *PGRepo) Upsert(ctx context.Context, p Preference) error {
	const query = `
INSERT INTO user_preferences (
  user_id, auto_apply_enabled, target_roles, target_locations,
  salary_min, salary_max, salary_currency, job_types, experience_levels,
  preferred_sources, min_match_score, daily_application_limit,
  email_alerts, application_updates, job_recommendations, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (user_id) DO UPDATE SET
  auto_apply_enabled = EXCLUDED.auto_apply_enabled,
  target_roles = EXCLUDED.target_roles,
  target_locations = EXCLUDED.target_locations,
  salary_min = EXCLUDED.salary_min,
  salary_max = EXCLUDED.salary_max,
  salary_currency = EXCLUDED.salary_currency,
  job_types = EXCLUDED.job_types,
  experience_levels = EXCLUDED.experience_levels,
  preferred_sources = EXCLUDED.preferred_sources,
  min_match_score = EXCLUDED.min_match_score,
  daily_application_limit = EXCLUDED.daily_application_limit,
  email_alerts = EXCLUDED.email_alerts,
  application_updates = EXCLUDED.application_updates,
  job_recommendations = EXCLUDED.job_recommendations,
  updated_at = EXCLUDED.updated_at`
	_, err := r.DB.ExecContext(ctx, query,
		p.UserID,
		p.AutoApplyEnabled,
		pq.StringArray(p.TargetRoles),
		pq.StringArray(p.TargetLocations),
		p.SalaryRange.Min,
		p.SalaryRange.Max,
		p.SalaryRange.Currency,
		pq.StringArray(p.JobTypes),
		pq.StringArray(p.ExperienceLevels),
		pq.StringArray(p.PreferredSources),
		p.MinMatchScore,
		p.DailyApplicationLimit,
		p.NotificationSettings.EmailAlerts,
		p.NotificationSettings.ApplicationUpdates,
		p.NotificationSettings.JobRecommendations,
		p.UpdatedAt,
	)
	return err
}

func (r *PGRepo) ListAutoApplyEnabled(ctx context.Context) ([]string, error) {
	const query = `SELECT user_id FROM user_preferences WHERE auto_apply_enabled ORDER BY user_id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
