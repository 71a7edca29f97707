package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

type PGRepo struct {
	DB *sql.DB
}

const jobColumns = `id, title, company, location, salary, description, required_skills, source, posted_date, url, job_type, experience_level, created_at`

func (r *PGRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO jobs (` + jobColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.DB.ExecContext(ctx, query,
		job.ID,
		job.Title,
		job.Company,
		job.Location,
		job.Salary,
		job.Description,
		pq.StringArray(nonNil(job.RequiredSkills)),
		string(job.Source),
		job.PostedDate,
		job.URL,
		job.JobType,
		job.ExperienceLevel,
		job.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	job, err := scanJob(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return job, nil
}

func (r *PGRepo) Find(ctx context.Context, filter Filter, limit int) ([]Job, error) {
	where, args := buildWhere(filter)
	args = append(args, clampLimit(limit))
	query := `SELECT ` + jobColumns + ` FROM jobs` + where +
		fmt.Sprintf(` ORDER BY created_at DESC, id LIMIT $%d`, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func (r *PGRepo) Exists(ctx context.Context, title, company string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM jobs WHERE title = $1 AND company = $2)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, title, company).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PGRepo) Stats(ctx context.Context) (MarketStats, error) {
	stats := MarketStats{BySource: map[string]int{}}

	rows, err := r.DB.QueryContext(ctx, `SELECT source, COUNT(*) FROM jobs GROUP BY source`)
	if err != nil {
		return MarketStats{}, err
	}
	for rows.Next() {
		var source string
		var n int
		if err := rows.Scan(&source, &n); err != nil {
			rows.Close()
			return MarketStats{}, err
		}
		stats.BySource[source] = n
		stats.TotalJobs += n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return MarketStats{}, err
	}

	const topSkills = `
SELECT skill, COUNT(*) AS n
FROM jobs, unnest(required_skills) AS skill
GROUP BY skill
ORDER BY n DESC, skill
LIMIT $1`
	rows, err = r.DB.QueryContext(ctx, topSkills, TopSkillsLimit)
	if err != nil {
		return MarketStats{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var sc SkillCount
		if err := rows.Scan(&sc.Skill, &sc.Count); err != nil {
			return MarketStats{}, err
		}
		stats.TopSkills = append(stats.TopSkills, sc)
	}
	return stats, rows.Err()
}

func buildWhere(f Filter) (string, []any) {
	var clauses []string
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(f.Locations) > 0 {
		lowered := make([]string, len(f.Locations))
		for i, l := range f.Locations {
			lowered[i] = strings.ToLower(l)
		}
		clauses = append(clauses, "lower(location) = ANY("+next(pq.StringArray(lowered))+")")
	}
	if f.Location != "" {
		clauses = append(clauses, "location ILIKE "+next("%"+escapeLike(f.Location)+"%"))
	}
	if len(f.Sources) > 0 {
		sources := make([]string, len(f.Sources))
		for i, s := range f.Sources {
			sources[i] = string(s)
		}
		clauses = append(clauses, "source = ANY("+next(pq.StringArray(sources))+")")
	}
	if f.Search != "" {
		p := next("%" + escapeLike(f.Search) + "%")
		clauses = append(clauses, "(title ILIKE "+p+" OR company ILIKE "+p+" OR description ILIKE "+p+")")
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var job Job
	var skills pq.StringArray
	var source string
	err := row.Scan(
		&job.ID,
		&job.Title,
		&job.Company,
		&job.Location,
		&job.Salary,
		&job.Description,
		&skills,
		&source,
		&job.PostedDate,
		&job.URL,
		&job.JobType,
		&job.ExperienceLevel,
		&job.CreatedAt,
	)
	if err != nil {
		return Job{}, err
	}
	job.RequiredSkills = []string(skills)
	job.Source = Source(source)
	return job, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var _ Repo = (*PGRepo)(nil)
