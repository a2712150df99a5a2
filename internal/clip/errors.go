package clip

import "errors"

var (
	// ErrNotFound is returned when a record or folder id has no match.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a folder id or name is already taken.
	ErrDuplicate = errors.New("already exists")

	// ErrInvalid is returned when user input fails validation.
	ErrInvalid = errors.New("invalid input")
)
