package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrInvalidInput = errors.New("invalid user input")
)

type Repo interface {
	// Upsert creates or updates the user and reports whether it was created.
	Upsert(ctx context.Context, user User) (bool, error)
	GetByID(ctx context.Context, userID string) (User, error)
}
