package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGRepo stores profiles in the users table.
type PGRepo struct {
	DB *sql.DB
}

const userColumns = `id, email, full_name, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// Upsert relies on xmax being zero only for a row this statement inserted.
func (r *PGRepo) Upsert(ctx context.Context, user User) (bool, error) {
	var created bool
	err := r.DB.QueryRowContext(ctx, `
INSERT INTO users (id, email, full_name, created_at, updated_at)
VALUES ($1, $2, $3, now(), now())
ON CONFLICT (id) DO UPDATE
SET email = EXCLUDED.email, full_name = EXCLUDED.full_name, updated_at = now()
RETURNING (xmax = 0)`, user.ID, user.Email, user.FullName).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("upsert user %s: %w", user.ID, err)
	}
	return created, nil
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

var _ Repo = (*PGRepo)(nil)
