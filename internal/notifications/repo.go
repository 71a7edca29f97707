package notifications

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("notification not found")

// ListLimit caps the inbox listing.
const ListLimit = 50

type Repo interface {
	Create(ctx context.Context, n Notification) error
	// List returns newest first; isRead nil means both.
	List(ctx context.Context, userID string, isRead *bool, limit int) ([]Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, userID, id string) error
}
