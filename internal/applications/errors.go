package applications

import "errors"

var (
	ErrNotFound       = errors.New("application not found")
	ErrAlreadyApplied = errors.New("already applied to this job")
	// ErrDuplicateKey is returned by Repo.Create when (user, job) already exists.
	ErrDuplicateKey = errors.New("duplicate application")
	ErrInvalidInput = errors.New("invalid application input")
)
