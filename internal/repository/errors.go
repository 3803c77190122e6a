package repository

import "errors"

var (
	// ErrNotFound signals the id did not resolve to a stored document.
	ErrNotFound = errors.New("repository: not found")
	// ErrUnavailable signals the backing store could not be reached.
	ErrUnavailable = errors.New("repository: store unavailable")
)
