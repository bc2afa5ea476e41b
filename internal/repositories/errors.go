package repositories

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique field (product name, user email) is already taken.
	ErrDuplicate = errors.New("duplicate key")
)
