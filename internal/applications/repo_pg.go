package applications

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"jobassist-backend/internal/shared/storage/db"
)

type PGRepo struct {
	DB *sql.DB
}

const applicationColumns = `id, user_id, job_id, resume_id, status, match_score, notes, auto_applied, applied_date, updated_at`

func (r *PGRepo) Create(ctx context.Context, a Application) error {
	const query = `
INSERT INTO applications (` + applicationColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.DB.ExecContext(ctx, query,
		a.ID,
		a.UserID,
		a.JobID,
		a.ResumeID,
		string(a.Status),
		a.MatchScore,
		a.Notes,
		a.AutoApplied,
		a.AppliedDate,
		a.UpdatedAt,
	)
	if db.IsUniqueViolation(err) {
		return ErrDuplicateKey
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, id string) (Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1 AND user_id = $2`
	return r.one(ctx, query, id, userID)
}

func (r *PGRepo) Find(ctx context.Context, userID, jobID string) (Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE user_id = $1 AND job_id = $2`
	return r.one(ctx, query, userID, jobID)
}

func (r *PGRepo) List(ctx context.Context, userID string, status Status) ([]Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications
WHERE user_id = $1 AND ($2 = '' OR status = $2)
ORDER BY applied_date DESC, id`
	rows, err := r.DB.QueryContext(ctx, query, userID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PGRepo) CountSince(ctx context.Context, userID string, since time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM applications WHERE user_id = $1 AND applied_date >= $2`
	var n int
	if err := r.DB.QueryRowContext(ctx, query, userID, since).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PGRepo) Update(ctx context.Context, a Application) error {
	const query = `UPDATE applications SET status = $1, notes = $2, updated_at = $3 WHERE id = $4 AND user_id = $5`
	res, err := r.DB.ExecContext(ctx, query, string(a.Status), a.Notes, a.UpdatedAt, a.ID, a.UserID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM applications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) one(ctx context.Context, query string, args ...any) (Application, error) {
	a, err := scanApplication(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	return a, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (Application, error) {
	var a Application
	var status string
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.JobID,
		&a.ResumeID,
		&status,
		&a.MatchScore,
		&a.Notes,
		&a.AutoApplied,
		&a.AppliedDate,
		&a.UpdatedAt,
	)
	if err != nil {
		return Application{}, err
	}
	a.Status = Status(status)
	return a, nil
}

var _ Repo = (*PGRepo)(nil)
