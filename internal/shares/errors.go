package shares

import "errors"

var (
	// ErrNotFound is returned for unknown and expired ids alike.
	ErrNotFound = errors.New("share not found")
	// ErrInvalidInput is returned when the payload is not valid JSON.
	ErrInvalidInput = errors.New("invalid share payload")
	// ErrCreationFailed is returned when no unique id could be allocated.
	ErrCreationFailed = errors.New("share creation failed")
	// ErrIDConflict is returned by repositories when the id is already taken.
	ErrIDConflict = errors.New("share id already exists")
)
