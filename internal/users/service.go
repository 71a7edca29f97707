package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"jobassist-backend/internal/notify"
	"jobassist-backend/internal/shared/telemetry"
)

type Service struct {
	Repo     Repo
	Notifier notify.Notifier
	// Dispatch runs fire-and-forget work; nil means a new goroutine.
	Dispatch func(func())
}

func NewService(repo Repo, notifier notify.Notifier) *Service {
	return &Service{Repo: repo, Notifier: notifier}
}

// Upsert saves the caller's profile. A welcome email is sent the first time a
// user is created.
func (s *Service) Upsert(ctx context.Context, user User) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	user.ID = strings.TrimSpace(user.ID)
	user.Email = strings.TrimSpace(user.Email)
	user.FullName = strings.TrimSpace(user.FullName)
	if user.ID == "" {
		return User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(user.Email); err != nil {
		return User{}, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}

	created, err := s.Repo.Upsert(ctx, user)
	if err != nil {
		return User{}, fmt.Errorf("upsert user: %w", err)
	}
	if created && s.Notifier != nil {
		s.dispatch(telemetry.Detach(ctx), user)
	}
	return s.Repo.GetByID(ctx, user.ID)
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID)
}

func (s *Service) dispatch(ctx context.Context, user User) {
	run := func() {
		defer func() {
			if r := recover(); r != nil {
				telemetry.Error("users.welcome.panic", map[string]any{"user_id": user.ID, "panic": fmt.Sprint(r)})
			}
		}()
		if err := s.Notifier.SendWelcome(ctx, user.Email, user.FullName); err != nil {
			telemetry.Warn("users.welcome.failed", map[string]any{
				"request_id": telemetry.RequestIDFromContext(ctx),
				"user_id":    user.ID,
				"error":      err,
			})
		}
	}
	if s.Dispatch != nil {
		s.Dispatch(run)
		return
	}
	go run()
}
