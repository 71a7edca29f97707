package resumes

import "errors"

var (
	ErrNotFound     = errors.New("resume not found")
	ErrInvalidInput = errors.New("invalid resume input")
	// ErrNoFile means the resume exists but its original upload was not kept.
	ErrNoFile = errors.New("resume file not stored")
)
