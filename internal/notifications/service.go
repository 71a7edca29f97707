package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Notify records an in-app notification for userID.
func (s *Service) Notify(ctx context.Context, userID, title, message string, typ Type) error {
	if typ == "" {
		typ = TypeInfo
	}
	n := Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      typ,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// Inbox is a page of notifications plus the unread total.
type Inbox struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unreadCount"`
}

func (s *Service) List(ctx context.Context, userID string, isRead *bool) (Inbox, error) {
	items, err := s.Repo.List(ctx, userID, isRead, ListLimit)
	if err != nil {
		return Inbox{}, err
	}
	unread, err := s.Repo.CountUnread(ctx, userID)
	if err != nil {
		return Inbox{}, err
	}
	return Inbox{Notifications: items, UnreadCount: unread}, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	return s.Repo.MarkRead(ctx, userID, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return s.Repo.MarkAllRead(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.Repo.Delete(ctx, userID, id)
}
