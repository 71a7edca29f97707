package notifications

import (
	"context"
	"database/sql"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, n Notification) error {
	const query = `
INSERT INTO notifications (id, user_id, title, message, type, is_read, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(ctx, query, n.ID, n.UserID, n.Title, n.Message, string(n.Type), n.IsRead, n.CreatedAt)
	return err
}

func (r *PGRepo) List(ctx context.Context, userID string, isRead *bool, limit int) ([]Notification, error) {
	// $2 is NULL when both read states are wanted.
	const query = `
SELECT id, user_id, title, message, type, is_read, created_at
FROM notifications
WHERE user_id = $1 AND ($2::boolean IS NULL OR is_read = $2)
ORDER BY created_at DESC, id DESC
LIMIT $3`
	var filter sql.NullBool
	if isRead != nil {
		filter = sql.NullBool{Bool: *isRead, Valid: true}
	}
	rows, err := r.DB.QueryContext(ctx, query, userID, filter, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Notification{}
	for rows.Next() {
		var n Notification
		var typ string
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &typ, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Type = Type(typ)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PGRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`
	var n int
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&n)
	return n, err
}

func (r *PGRepo) MarkRead(ctx context.Context, userID, id string) error {
	const query = `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) MarkAllRead(ctx context.Context, userID string) (int, error) {
	const query = `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read`
	res, err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM notifications WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
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

var _ Repo = (*PGRepo)(nil)
